package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BuzzLyutic/tasklist/internal/model"
	"github.com/BuzzLyutic/tasklist/internal/service"
)

const minPrefixLen = 4

// resolveRef maps a user reference to a task. A reference is a full id,
// a unique id prefix of at least four characters, or a 1-based position in
// the custom order (as printed by ls). Id matches win over positions since
// short ids may be all digits.
func resolveRef(tasks []model.Task, ref string) (model.Task, error) {
	ref = strings.TrimSpace(ref)

	var match *model.Task
	ambiguous := false
	for i := range tasks {
		if tasks[i].ID == ref {
			return tasks[i], nil
		}
		if len(ref) >= minPrefixLen && strings.HasPrefix(tasks[i].ID, ref) {
			if match != nil {
				ambiguous = true
			}
			match = &tasks[i]
		}
	}
	if match != nil && !ambiguous {
		return *match, nil
	}

	n, err := strconv.Atoi(ref)
	if err == nil && n >= 1 && n <= len(tasks) {
		return tasks[n-1], nil
	}
	if ambiguous {
		return model.Task{}, fmt.Errorf("%w: ambiguous task id %q", service.ErrValidation, ref)
	}
	if err == nil {
		return model.Task{}, fmt.Errorf("%w: no task number %d", service.ErrNotFound, n)
	}
	return model.Task{}, fmt.Errorf("%w: %q", service.ErrNotFound, ref)
}

// shortID is the id prefix shown by ls.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
