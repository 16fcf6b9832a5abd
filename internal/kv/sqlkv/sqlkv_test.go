package sqlkv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tasks/internal/kv"
	"github.com/idilsaglam/tasks/internal/kv/kvtest"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestContract(t *testing.T) {
	kvtest.Run(t, func(t *testing.T) kv.KV { return openTemp(t) })
}

func TestOpenSQLite_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.db")

	s1, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s1.Set(context.Background(), "@task", "[]"))
	require.NoError(t, s1.Close())

	s2, err := OpenSQLite(path)
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.Get(context.Background(), "@task")
	require.NoError(t, err)
	assert.Equal(t, "[]", got)
}

func TestUpsert_SingleRow(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	for _, v := range []string{"a", "b", "c"} {
		require.NoError(t, s.Set(ctx, "@task", v))
	}
	var n int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM kv`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestClose_Nil(t *testing.T) {
	s := &Store{}
	assert.NoError(t, s.Close())
}

func TestMySQLDialect(t *testing.T) {
	assert.Equal(t, "mysql", mysqlDialect.driver)
	assert.Contains(t, mysqlDialect.upsert, "ON DUPLICATE KEY UPDATE")
	assert.Empty(t, mysqlDialect.pragmas)
}
