package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tasks/internal/kv"
	"github.com/idilsaglam/tasks/internal/kv/memkv"
	"github.com/idilsaglam/tasks/internal/model"
)

// brokenKV fails every call.
type brokenKV struct{ err error }

func (b brokenKV) Get(context.Context, string) (string, error) { return "", b.err }
func (b brokenKV) Set(context.Context, string, string) error   { return b.err }
func (b brokenKV) Close() error                                 { return nil }

func TestRead_NoSnapshot(t *testing.T) {
	a := New(memkv.New())
	got, err := a.Read(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRead_EmptyValue(t *testing.T) {
	m := memkv.New()
	m.Put(SnapshotKey, "")
	got, err := New(m).Read(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRead_OriginalFormat(t *testing.T) {
	m := memkv.New()
	m.Put(SnapshotKey, `[{"key":"Buy milk","task":"Buy milk"},{"key":"Call mom","task":"Call mom"}]`)

	got, err := New(m).Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Task{
		{Key: "Buy milk", Text: "Buy milk"},
		{Key: "Call mom", Text: "Call mom"},
	}, got)
}

func TestRead_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "{oops"},
		{"object not array", `{"key":"a","task":"a"}`},
		{"null", "null"},
		{"wrong element type", `["a","b"]`},
		{"missing key", `[{"task":"a"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := memkv.New()
			m.Put(SnapshotKey, tt.raw)

			got, err := New(m).Read(context.Background())
			assert.Nil(t, got)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrCorruptData)
			assert.NotErrorIs(t, err, ErrStoreUnavailable)

			var ce *CorruptDataError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, SnapshotKey, ce.Key)
		})
	}
}

func TestRead_BackendCorrupt(t *testing.T) {
	cause := fmt.Errorf("%w: json unmarshal tasks.json: unexpected end of JSON input", kv.ErrCorrupt)
	got, err := New(brokenKV{err: cause}).Read(context.Background())
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrCorruptData)
	assert.NotErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, err, kv.ErrCorrupt)
}

func TestRead_Unavailable(t *testing.T) {
	boom := errors.New("platform storage error")
	_, err := New(brokenKV{err: boom}).Read(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, kv.ErrNotFound)
}

func TestWrite_FullReplace(t *testing.T) {
	ctx := context.Background()
	m := memkv.New()
	a := New(m)

	require.NoError(t, a.Write(ctx, []model.Task{{Key: "a", Text: "A"}, {Key: "b", Text: "B"}}))
	require.NoError(t, a.Write(ctx, []model.Task{{Key: "b", Text: "B"}}))

	raw, err := m.Get(ctx, SnapshotKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"key":"b","task":"B"}]`, raw)
}

func TestWrite_NilIsEmptyArray(t *testing.T) {
	ctx := context.Background()
	m := memkv.New()
	require.NoError(t, New(m).Write(ctx, nil))

	raw, err := m.Get(ctx, SnapshotKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestWrite_Unavailable(t *testing.T) {
	boom := errors.New("quota exceeded")
	err := New(brokenKV{err: boom}).Write(context.Background(), []model.Task{{Key: "a", Text: "a"}})
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, err, boom)

	var se *StoreUnavailableError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "write", se.Op)
}

func TestRoundTrip_Idempotent(t *testing.T) {
	ctx := context.Background()
	m := memkv.New()
	a := New(m)
	orig := []model.Task{{Key: "1", Text: "Buy milk"}, {Key: "2", Text: "Tâche ✔"}}
	require.NoError(t, a.Write(ctx, orig))

	for i := 0; i < 2; i++ {
		got, err := a.Read(ctx)
		require.NoError(t, err)
		require.NoError(t, a.Write(ctx, got))
	}

	got, err := a.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, orig, got)

	h := m.History()
	require.Len(t, h, 3)
	assert.Equal(t, h[0], h[2])
}
