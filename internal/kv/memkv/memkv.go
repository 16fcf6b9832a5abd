// Package memkv is an in-memory kv.KV. Useful for tests and throwaway sessions.
package memkv

import (
	"context"
	"sync"
	"time"

	"github.com/idilsaglam/tasks/internal/kv"
)

type Store struct {
	mu      sync.RWMutex
	data    map[string]string
	history []string // every value passed to a successful Set, in order

	failN   int
	failErr error
	delay   time.Duration
}

func New() *Store {
	return &Store{data: make(map[string]string)}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return "", kv.ErrNotFound
	}
	return v, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	s.mu.RLock()
	d := s.delay
	s.mu.RUnlock()
	if d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failN > 0 {
		s.failN--
		return s.failErr
	}
	s.data[key] = value
	s.history = append(s.history, value)
	return nil
}

func (s *Store) Close() error { return nil }

// Put seeds a raw value without recording it in History.
func (s *Store) Put(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

// FailNext makes the next n Set calls return err.
func (s *Store) FailNext(n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failN, s.failErr = n, err
}

// SetDelay slows every Set down by d.
func (s *Store) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// History returns every successfully set value, oldest first.
func (s *Store) History() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.history))
	copy(out, s.history)
	return out
}
