package repo

import "errors"

var (
	ErrorNotFound = errors.New("not found")
	ErrCorrupt    = errors.New("corrupt task data")
)
