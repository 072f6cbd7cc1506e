package service

import "github.com/BuzzLyutic/tasklist/internal/model"

type Stats struct {
	Total      int                    `json:"total"`
	Completed  int                    `json:"completed"`
	Incomplete int                    `json:"incomplete"`
	ByPriority map[model.Priority]int `json:"by_priority"`
}

func (s *TaskStore) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{
		Total: len(s.tasks),
		ByPriority: map[model.Priority]int{
			model.PriorityLow:    0,
			model.PriorityMedium: 0,
			model.PriorityHigh:   0,
		},
	}
	for _, t := range s.tasks {
		if t.Status {
			st.Completed++
		} else {
			st.Incomplete++
		}
		st.ByPriority[t.Priority]++
	}
	return st
}
