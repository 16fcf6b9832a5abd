package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tasks/internal/kv/memkv"
	"github.com/idilsaglam/tasks/internal/model"
	"github.com/idilsaglam/tasks/internal/store"
	"github.com/idilsaglam/tasks/internal/tasks"
)

func newManager(t *testing.T, seed ...string) *tasks.Manager {
	t.Helper()
	m := tasks.New(store.New(memkv.New()), tasks.WithRetryDelay(time.Millisecond))
	t.Cleanup(func() { m.Close(context.Background()) })
	_, err := m.Load(context.Background())
	require.NoError(t, err)
	for _, s := range seed {
		_, err := m.Add(s)
		require.NoError(t, err)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func titles(m Model) []string {
	var out []string
	for _, it := range m.list.Items() {
		out = append(out, it.(listItem).task.Text)
	}
	return out
}

func TestAddDialog(t *testing.T) {
	mgr := newManager(t)
	m := New(mgr, nil)

	m = send(t, m, runes("a"))
	require.True(t, m.adding)
	assert.Contains(t, m.View(), "New task")

	m = send(t, m, runes("Buy milk"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.adding)
	assert.Equal(t, []string{"Buy milk"}, titles(m))
	require.Len(t, mgr.List(), 1)
	assert.Equal(t, "Buy milk", mgr.List()[0].Text)
}

func TestAddDialog_EmptyStaysOpen(t *testing.T) {
	mgr := newManager(t)
	m := New(mgr, nil)

	m = send(t, m, runes("a"), runes("   "), tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.adding)
	assert.Equal(t, "Task cannot be empty", m.addErr)
	assert.Empty(t, mgr.List())

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.adding)
	assert.Empty(t, m.addErr)
}

func TestDelete(t *testing.T) {
	mgr := newManager(t, "A", "B", "C")
	m := New(mgr, nil)
	m.list.Select(1)

	m = send(t, m, runes("d"))
	assert.Equal(t, []string{"A", "C"}, titles(m))
	assert.Equal(t, []string{"A", "C"}, texts(mgr.List()))
	assert.Equal(t, 1, m.list.Index())

	m = send(t, m, runes("x"), runes("x"))
	assert.Empty(t, titles(m))
	assert.Contains(t, m.View(), "No tasks yet")

	// nothing left to delete
	m = send(t, m, runes("d"))
	assert.Empty(t, mgr.List())
}

func TestQuit(t *testing.T) {
	m := New(newManager(t), nil)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestWarning(t *testing.T) {
	ch := make(chan error, 1)
	m := New(newManager(t), ch)

	ch <- errors.New("disk full")
	msg := m.Init()()
	require.IsType(t, WarningMsg{}, msg)

	m = send(t, m, msg)
	assert.Contains(t, m.View(), "not saved: disk full")
}

func TestWarning_CorruptData(t *testing.T) {
	m := New(newManager(t), nil)
	err := &store.CorruptDataError{Key: store.SnapshotKey, Err: errors.New("unexpected EOF")}

	m = send(t, m, WarningMsg{Err: err})
	view := m.View()
	assert.Contains(t, view, "unreadable")
	assert.NotContains(t, view, "not saved")
}

func TestWindowSize(t *testing.T) {
	m := New(newManager(t, "A"), nil)
	m = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 116, m.list.Width())
}

func texts(ts []model.Task) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Text
	}
	return out
}
