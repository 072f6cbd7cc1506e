package repo

import (
	"encoding/json"
	"fmt"

	"github.com/BuzzLyutic/tasklist/internal/model"
)

// Encode serializes tasks as a JSON array in canonical order.
func Encode(tasks []model.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	return json.Marshal(tasks)
}

// Decode parses the slot contents. Records written before priorities
// existed, or with a priority we do not know, come back as medium.
func Decode(data []byte) ([]model.Task, error) {
	var tasks []model.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	seen := make(map[string]struct{}, len(tasks))
	for i := range tasks {
		if tasks[i].ID == "" {
			return nil, fmt.Errorf("%w: record %d has no id", ErrCorrupt, i)
		}
		if _, dup := seen[tasks[i].ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrCorrupt, tasks[i].ID)
		}
		seen[tasks[i].ID] = struct{}{}

		p, err := model.ParsePriority(string(tasks[i].Priority))
		if err != nil {
			p = model.PriorityMedium
		}
		tasks[i].Priority = p
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}
