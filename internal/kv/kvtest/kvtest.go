// Package kvtest holds the behavior every kv.KV backend must share.
package kvtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tasks/internal/kv"
)

// Run exercises open against the kv.KV contract. open is called once per subtest.
func Run(t *testing.T, open func(t *testing.T) kv.KV) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		s := open(t)
		_, err := s.Get(ctx, "@task")
		assert.ErrorIs(t, err, kv.ErrNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Set(ctx, "@task", `[{"key":"a","task":"a"}]`))
		got, err := s.Get(ctx, "@task")
		require.NoError(t, err)
		assert.Equal(t, `[{"key":"a","task":"a"}]`, got)
	})

	t.Run("set overwrites", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Set(ctx, "@task", "first"))
		require.NoError(t, s.Set(ctx, "@task", "second"))
		got, err := s.Get(ctx, "@task")
		require.NoError(t, err)
		assert.Equal(t, "second", got)
	})

	t.Run("keys are independent", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Set(ctx, "a", "1"))
		require.NoError(t, s.Set(ctx, "b", "2"))
		a, err := s.Get(ctx, "a")
		require.NoError(t, err)
		b, err := s.Get(ctx, "b")
		require.NoError(t, err)
		assert.Equal(t, "1", a)
		assert.Equal(t, "2", b)
	})

	t.Run("unicode round trip", func(t *testing.T) {
		s := open(t)
		v := `[{"key":"Tâche ✔","task":"Tâche ✔"}]`
		require.NoError(t, s.Set(ctx, "@task", v))
		got, err := s.Get(ctx, "@task")
		require.NoError(t, err)
		assert.Equal(t, v, got)
	})
}
