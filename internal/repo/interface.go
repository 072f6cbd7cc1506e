package repo

import (
	"context"
)

// Slot is a single durable key-value cell holding the serialized task list.
type Slot interface {
	// Load returns the stored bytes, or ErrorNotFound when nothing was saved yet.
	Load(ctx context.Context) ([]byte, error)
	// Save replaces the stored bytes.
	Save(ctx context.Context, data []byte) error
	Close() error
}
