package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrValidation = errors.New("validation error")

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Task struct {
	ID       string   `json:"id" yaml:"id" toml:"id"`
	Title    string   `json:"title" yaml:"title" toml:"title"`
	Date     string   `json:"date" yaml:"date" toml:"date"`
	Status   bool     `json:"status" yaml:"status" toml:"status"`
	Priority Priority `json:"priority" yaml:"priority" toml:"priority"`
}

// Filter selects tasks by completion state.
type Filter string

const (
	FilterAll        Filter = "all"
	FilterCompleted  Filter = "completed"
	FilterIncomplete Filter = "incomplete"
)

// SortKey selects the order of a view.
type SortKey string

const (
	SortDate   SortKey = "date"
	SortTitle  SortKey = "title"
	SortCustom SortKey = "custom"
)

// Match reports whether t passes the filter.
func (f Filter) Match(t Task) bool {
	switch f {
	case FilterCompleted:
		return t.Status
	case FilterIncomplete:
		return !t.Status
	default:
		return true
	}
}

// ParsePriority maps user input to a Priority. Empty input means medium.
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PriorityMedium, nil
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown priority %q", ErrValidation, s)
	}
}

func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterCompleted, FilterIncomplete:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown filter %q", ErrValidation, s)
	}
}

func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return SortCustom, nil
	case SortDate, SortTitle, SortCustom:
		return k, nil
	default:
		return "", fmt.Errorf("%w: unknown sort key %q", ErrValidation, s)
	}
}

// dateLayouts are tried in order. The datetime-local form ("2006-01-02T15:04")
// is what browser date pickers produce.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDate parses the ISO-like date text stored on a task. Text without
// a zone is local time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparseable date %q", ErrValidation, s)
}
