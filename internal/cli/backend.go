package cli

import (
	"fmt"

	"github.com/idilsaglam/tasks/internal/config"
	"github.com/idilsaglam/tasks/internal/kv"
	"github.com/idilsaglam/tasks/internal/kv/boltkv"
	"github.com/idilsaglam/tasks/internal/kv/filekv"
	"github.com/idilsaglam/tasks/internal/kv/memkv"
	"github.com/idilsaglam/tasks/internal/kv/sqlkv"
)

// Default data files, relative to the working directory.
const (
	defaultSQLitePath = "tasks.db"
	defaultBoltPath   = "tasks.bolt"
)

func openKV(cfg config.Config) (kv.KV, error) {
	switch cfg.Backend {
	case "file":
		p := cfg.Path
		if p == "" {
			var err error
			if p, err = filekv.DefaultPath(); err != nil {
				return nil, err
			}
		}
		return filekv.Open(p), nil
	case "sqlite":
		return sqlkv.OpenSQLite(orDefault(cfg.Path, defaultSQLitePath))
	case "mysql":
		return sqlkv.OpenMySQL(cfg.DSN)
	case "bolt":
		return boltkv.Open(orDefault(cfg.Path, defaultBoltPath))
	case "memory":
		return memkv.New(), nil
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
