package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/idilsaglam/tasks/internal/config"
	"github.com/idilsaglam/tasks/internal/kv"
	"github.com/idilsaglam/tasks/internal/logging"
	"github.com/idilsaglam/tasks/internal/model"
	"github.com/idilsaglam/tasks/internal/store"
	"github.com/idilsaglam/tasks/internal/tasks"
	"github.com/idilsaglam/tasks/internal/ui"
)

const closeTimeout = 10 * time.Second

// session is one load → mutate → flush cycle against the configured backend.
type session struct {
	kv     kv.KV
	mgr    *tasks.Manager
	log    *slog.Logger
	closed bool
}

// openSession loads the task list. warn receives non-fatal problems;
// a store that cannot be read is reported there too and the list starts empty.
func openSession(ctx context.Context, cfg config.Config, log *slog.Logger, warn func(error)) (*session, error) {
	backend, err := openKV(cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", cfg.Backend, err)
	}
	keyFn, err := model.Identity(cfg.Identity)
	if err != nil {
		backend.Close()
		return nil, err
	}
	retry, _ := cfg.RetryDelayDuration()
	timeout, _ := cfg.WriteTimeoutDuration()

	mgr := tasks.New(store.New(backend),
		tasks.WithLogger(logging.Component(log, "tasks")),
		tasks.WithIdentity(keyFn),
		tasks.WithRetryDelay(retry),
		tasks.WithWriteTimeout(timeout),
		tasks.WithWarnings(warn),
	)
	if _, err := mgr.Load(ctx); err != nil {
		if !errors.Is(err, store.ErrStoreUnavailable) {
			mgr.Close(ctx)
			backend.Close()
			return nil, err
		}
		warn(err)
	}
	return &session{kv: backend, mgr: mgr, log: log}, nil
}

// close flushes pending writes and releases the backend. Safe to call twice.
func (s *session) close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	err := s.mgr.Close(ctx)
	if cerr := s.kv.Close(); err == nil {
		err = cerr
	}
	return err
}

// printWarning is the warn hook for one-shot commands.
func printWarning(err error) {
	switch {
	case errors.Is(err, store.ErrCorruptData):
		ui.Warn("saved tasks were unreadable and have been reset: " + err.Error())
	case errors.Is(err, store.ErrStoreUnavailable):
		ui.Warn("storage problem, changes may not be saved: " + err.Error())
	default:
		ui.Warn(err.Error())
	}
}
