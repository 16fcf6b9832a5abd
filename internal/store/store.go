// Package store translates the task collection to and from the snapshot
// kept under a single key of a kv.KV.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/idilsaglam/tasks/internal/kv"
	"github.com/idilsaglam/tasks/internal/model"
)

// SnapshotKey is the only key the task list ever reads or writes.
const SnapshotKey = "@task"

var (
	ErrCorruptData      = errors.New("corrupt snapshot")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// CorruptDataError means a snapshot exists but cannot be decoded.
type CorruptDataError struct {
	Key string
	Err error
}

func (e *CorruptDataError) Error() string {
	return fmt.Sprintf("corrupt snapshot under %q: %v", e.Key, e.Err)
}
func (e *CorruptDataError) Unwrap() error        { return e.Err }
func (e *CorruptDataError) Is(target error) bool { return target == ErrCorruptData }

// StoreUnavailableError wraps a failure of the underlying kv.KV.
type StoreUnavailableError struct {
	Op  string // "read" | "write"
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}
func (e *StoreUnavailableError) Unwrap() error        { return e.Err }
func (e *StoreUnavailableError) Is(target error) bool { return target == ErrStoreUnavailable }

// Adapter holds no state besides the backend it delegates to.
type Adapter struct {
	kv kv.KV
}

func New(backend kv.KV) *Adapter {
	return &Adapter{kv: backend}
}

// Read returns the persisted collection, or an empty one when nothing was saved yet.
func (a *Adapter) Read(ctx context.Context) ([]model.Task, error) {
	raw, err := a.kv.Get(ctx, SnapshotKey)
	if errors.Is(err, kv.ErrNotFound) {
		return []model.Task{}, nil
	}
	if errors.Is(err, kv.ErrCorrupt) {
		return nil, &CorruptDataError{Key: SnapshotKey, Err: err}
	}
	if err != nil {
		return nil, &StoreUnavailableError{Op: "read", Err: err}
	}
	if raw == "" {
		return []model.Task{}, nil
	}
	return decode(raw)
}

// Write replaces the snapshot with the whole collection.
func (a *Adapter) Write(ctx context.Context, tasks []model.Task) error {
	raw, err := encode(tasks)
	if err != nil {
		return err
	}
	if err := a.kv.Set(ctx, SnapshotKey, raw); err != nil {
		return &StoreUnavailableError{Op: "write", Err: err}
	}
	return nil
}

func encode(tasks []model.Task) (string, error) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	b, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("json marshal: %w", err)
	}
	return string(b), nil
}

func decode(raw string) ([]model.Task, error) {
	var tasks []model.Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		return nil, &CorruptDataError{Key: SnapshotKey, Err: err}
	}
	// "null" decodes without error but is not a collection
	if tasks == nil {
		return nil, &CorruptDataError{Key: SnapshotKey, Err: errors.New("snapshot is not an array")}
	}
	for i, t := range tasks {
		if t.Key == "" {
			return nil, &CorruptDataError{Key: SnapshotKey, Err: fmt.Errorf("record %d has no key", i)}
		}
	}
	return tasks, nil
}
