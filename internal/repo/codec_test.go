package repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuzzLyutic/tasklist/internal/model"
)

func TestEncode_FieldNames(t *testing.T) {
	data, err := Encode([]model.Task{{
		ID:       "k1",
		Title:    "Buy milk",
		Date:     "2024-01-01T10:00",
		Status:   true,
		Priority: model.PriorityLow,
	}})
	require.NoError(t, err)

	assert.JSONEq(t,
		`[{"id":"k1","title":"Buy milk","date":"2024-01-01T10:00","status":true,"priority":"low"}]`,
		string(data))
}

func TestEncode_NilIsEmptyArray(t *testing.T) {
	data, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []model.Task
		wantErr bool
	}{
		{
			name: "keeps order",
			in:   `[{"id":"b","title":"B","date":"2024-01-02","status":false,"priority":"high"},{"id":"a","title":"A","date":"2024-01-01","status":true,"priority":"low"}]`,
			want: []model.Task{
				{ID: "b", Title: "B", Date: "2024-01-02", Priority: model.PriorityHigh},
				{ID: "a", Title: "A", Date: "2024-01-01", Status: true, Priority: model.PriorityLow},
			},
		},
		{
			name: "legacy record without priority",
			in:   `[{"id":"x","title":"Old","date":"2023-05-01T09:00","status":false}]`,
			want: []model.Task{{ID: "x", Title: "Old", Date: "2023-05-01T09:00", Priority: model.PriorityMedium}},
		},
		{
			name: "unknown priority",
			in:   `[{"id":"u","title":"Odd","date":"2024-01-01","status":false,"priority":"urgent"}]`,
			want: []model.Task{{ID: "u", Title: "Odd", Date: "2024-01-01", Priority: model.PriorityMedium}},
		},
		{
			name: "priority case",
			in:   `[{"id":"c","title":"Loud","date":"2024-01-01","status":false,"priority":"HIGH"}]`,
			want: []model.Task{{ID: "c", Title: "Loud", Date: "2024-01-01", Priority: model.PriorityHigh}},
		},
		{name: "null", in: `null`, want: []model.Task{}},
		{name: "empty array", in: `[]`, want: []model.Task{}},
		{name: "not json", in: `{{{`, wantErr: true},
		{name: "object instead of array", in: `{"id":"x"}`, wantErr: true},
		{name: "missing id", in: `[{"title":"no id"}]`, wantErr: true},
		{name: "duplicate id", in: `[{"id":"d"},{"id":"d"}]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.in))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrCorrupt)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
