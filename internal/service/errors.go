package service

import (
	"errors"

	"github.com/BuzzLyutic/tasklist/internal/model"
)

var (
	ErrValidation = model.ErrValidation
	// ErrNotFound signals that an edit, toggle or delete named an unknown id.
	// The collection is left untouched; callers may ignore it.
	ErrNotFound     = errors.New("task not found")
	ErrCorruptState = errors.New("corrupt persisted state")
	ErrPersist      = errors.New("failed to persist tasks")
)
