// Package tasks owns the in-memory task list and keeps its persisted
// snapshot eventually consistent with it.
//
// Mutations return as soon as memory is updated. Each one hands a copy of
// the whole collection to a single writer goroutine, which keeps only the
// newest pending copy, so the store never goes back to an older state.
package tasks

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/idilsaglam/tasks/internal/model"
	"github.com/idilsaglam/tasks/internal/store"
)

var (
	ErrNotLoaded     = errors.New("task list not loaded yet")
	ErrAlreadyLoaded = errors.New("task list already loaded")
	ErrClosed        = errors.New("task list closed")
)

const (
	DefaultRetryDelay   = 100 * time.Millisecond
	DefaultWriteTimeout = 5 * time.Second
)

// Snapshots is the persistence the manager needs; *store.Adapter implements it.
type Snapshots interface {
	Read(ctx context.Context) ([]model.Task, error)
	Write(ctx context.Context, tasks []model.Task) error
}

type Option func(*Manager)

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// WithIdentity picks how new tasks get their key. Default model.UUIDKey.
func WithIdentity(f model.KeyFunc) Option {
	return func(m *Manager) { m.keyFn = f }
}

func WithRetryDelay(d time.Duration) Option {
	return func(m *Manager) { m.retryDelay = d }
}

func WithWriteTimeout(d time.Duration) Option {
	return func(m *Manager) { m.writeTimeout = d }
}

// WithWarnings receives non-fatal problems: a corrupt snapshot dropped at
// load, or a write that still failed after its retry. It may be called from
// the writer goroutine and must not block.
func WithWarnings(f func(error)) Option {
	return func(m *Manager) { m.onWarn = f }
}

type Manager struct {
	snaps        Snapshots
	keyFn        model.KeyFunc
	log          *slog.Logger
	retryDelay   time.Duration
	writeTimeout time.Duration
	onWarn       func(error)

	mu     sync.Mutex
	tasks   []model.Task
	loading bool // set by the first Load before it reads
	loaded  bool
	closed  bool

	// writer state, also under mu
	pending    []model.Task
	hasPending bool
	queued     uint64 // seq of the newest enqueued snapshot
	written    uint64 // seq of the newest snapshot the writer finished with
	waiters    []flushWaiter

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

type flushWaiter struct {
	seq uint64
	ch  chan struct{}
}

// New starts the writer goroutine. Call Load before mutating and Close when done.
func New(snaps Snapshots, opts ...Option) *Manager {
	m := &Manager{
		snaps:        snaps,
		keyFn:        model.UUIDKey,
		log:          slog.New(slog.DiscardHandler),
		retryDelay:   DefaultRetryDelay,
		writeTimeout: DefaultWriteTimeout,
		tasks:        []model.Task{},
		wake:         make(chan struct{}, 1),
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
	for _, o := range opts {
		o(m)
	}
	go m.writer()
	return m
}

// Load seeds the collection from the store. It runs once per manager.
//
// A corrupt snapshot is dropped: the list starts empty and a warning is
// reported, but no error is returned. An unreachable store also leaves the
// list empty and usable; that error is returned so the caller can tell the user.
func (m *Manager) Load(ctx context.Context) ([]model.Task, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrClosed
	}
	if m.loading || m.loaded {
		m.mu.Unlock()
		return nil, ErrAlreadyLoaded
	}
	m.loading = true
	m.mu.Unlock()

	got, err := m.snaps.Read(ctx)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrCorruptData):
		m.log.Warn("discarding unreadable snapshot", "err", err)
		m.warn(err)
		got, err = []model.Task{}, nil
	default:
		m.log.Warn("could not read snapshot; starting empty", "err", err)
		got = []model.Task{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = model.Clone(got)
	m.loaded = true
	m.log.Debug("loaded", "count", len(m.tasks))
	return model.Clone(m.tasks), err
}

// Add appends a task for text and schedules a snapshot write. Text is
// stored in NFC form.
func (m *Manager) Add(text string) ([]model.Task, error) {
	if err := model.ValidateText(text); err != nil {
		return nil, err
	}
	text = model.NormalizeText(text)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.mutableLocked(); err != nil {
		return nil, err
	}
	t := model.Task{Key: m.keyFn(text), Text: text}
	m.tasks = append(m.tasks, t)
	m.enqueueLocked()
	m.log.Debug("added", "key", t.Key, "count", len(m.tasks))
	return model.Clone(m.tasks), nil
}

// Remove drops every task whose key matches, compared in NFC form. An
// unknown key changes nothing and is not an error.
func (m *Manager) Remove(key string) ([]model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.mutableLocked(); err != nil {
		return nil, err
	}

	kept := make([]model.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		if !model.SameKey(t.Key, key) {
			kept = append(kept, t)
		}
	}
	if removed := len(m.tasks) - len(kept); removed > 0 {
		m.tasks = kept
		m.enqueueLocked()
		m.log.Debug("removed", "key", key, "matches", removed, "count", len(m.tasks))
	}
	return model.Clone(m.tasks), nil
}

// List returns the collection in insertion order.
func (m *Manager) List() []model.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return model.Clone(m.tasks)
}

// Flush waits until every snapshot enqueued before the call has been written
// or has exhausted its retry.
func (m *Manager) Flush(ctx context.Context) error {
	m.mu.Lock()
	if m.written >= m.queued {
		m.mu.Unlock()
		return nil
	}
	w := flushWaiter{seq: m.queued, ch: make(chan struct{})}
	m.waiters = append(m.waiters, w)
	m.mu.Unlock()

	select {
	case <-w.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close rejects further mutations, flushes, and stops the writer.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	err := m.Flush(ctx)
	close(m.stop)
	select {
	case <-m.done:
	case <-ctx.Done():
		if err == nil {
			err = ctx.Err()
		}
	}
	return err
}

func (m *Manager) mutableLocked() error {
	if m.closed {
		return ErrClosed
	}
	if !m.loaded {
		return ErrNotLoaded
	}
	return nil
}

func (m *Manager) enqueueLocked() {
	m.queued++
	m.pending = model.Clone(m.tasks)
	m.hasPending = true
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

func (m *Manager) warn(err error) {
	if m.onWarn != nil {
		m.onWarn(err)
	}
}
