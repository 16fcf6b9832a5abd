package tasks

import (
	"context"
	"time"

	"github.com/idilsaglam/tasks/internal/model"
)

func (m *Manager) writer() {
	defer close(m.done)
	for {
		select {
		case <-m.wake:
			m.drain()
		case <-m.stop:
			m.drain()
			return
		}
	}
}

// drain writes pending snapshots until none is left. Snapshots enqueued
// while a write is in flight collapse into the newest one.
func (m *Manager) drain() {
	for {
		m.mu.Lock()
		if !m.hasPending {
			m.mu.Unlock()
			return
		}
		snap, seq := m.pending, m.queued
		m.pending, m.hasPending = nil, false
		m.mu.Unlock()

		m.persist(snap, seq)

		m.mu.Lock()
		m.written = seq
		m.releaseLocked()
		m.mu.Unlock()
	}
}

func (m *Manager) persist(snap []model.Task, seq uint64) {
	err := m.writeOnce(snap)
	if err == nil {
		m.log.Debug("snapshot written", "seq", seq, "count", len(snap))
		return
	}
	m.log.Info("snapshot write failed; retrying", "seq", seq, "err", err)

	select {
	case <-time.After(m.retryDelay):
	case <-m.stop:
	}
	if err = m.writeOnce(snap); err == nil {
		m.log.Debug("snapshot written on retry", "seq", seq, "count", len(snap))
		return
	}
	m.log.Warn("snapshot not persisted; keeping in-memory list", "seq", seq, "err", err)
	m.warn(err)
}

func (m *Manager) writeOnce(snap []model.Task) error {
	ctx, cancel := context.WithTimeout(context.Background(), m.writeTimeout)
	defer cancel()
	return m.snaps.Write(ctx, snap)
}

func (m *Manager) releaseLocked() {
	kept := m.waiters[:0]
	for _, w := range m.waiters {
		if w.seq <= m.written {
			close(w.ch)
		} else {
			kept = append(kept, w)
		}
	}
	m.waiters = kept
}
