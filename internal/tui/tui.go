// Package tui is the interactive task list: a scrollable list plus an
// inline "new task" dialog, driven by a tasks.Manager.
package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/tasks/internal/model"
	"github.com/idilsaglam/tasks/internal/store"
)

// Manager is the part of *tasks.Manager the UI drives.
type Manager interface {
	Add(text string) ([]model.Task, error)
	Remove(key string) ([]model.Task, error)
	List() []model.Task
}

// WarningMsg carries a non-fatal persistence problem into the UI.
type WarningMsg struct{ Err error }

// listItem adapts model.Task to bubbles/list.Item
type listItem struct{ task model.Task }

func (i listItem) Title() string       { return i.task.Text }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.task.Text }

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	text := strings.Join(strings.Fields(it.task.Text), " ")
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+pendingStyle.Render(bullet)+" "+text)
}

var (
	addBind    = key.NewBinding(key.WithKeys("a", "n"), key.WithHelp("a", "add"))
	deleteBind = key.NewBinding(key.WithKeys("d", "x", "delete"), key.WithHelp("d", "delete"))
	quitBind   = key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit"))
)

type Model struct {
	mgr      Manager
	list     list.Model
	warnings <-chan error

	// inline add dialog
	adding bool
	ti     textinput.Model
	addErr string

	warn          string
	width, height int
}

// New builds the model. warnings may be nil; otherwise each error received
// on it is shown in the status line.
func New(mgr Manager, warnings <-chan error) Model {
	l := list.New(toItems(mgr.List()), itemDelegate{}, 80, 20)
	l.Title = title(len(l.Items()))
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("task", "tasks")
	l.KeyMap.Quit.SetEnabled(false)
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{addBind, deleteBind, quitBind} }
	l.AdditionalFullHelpKeys = func() []key.Binding { return []key.Binding{addBind, deleteBind, quitBind} }

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "What do you need to do today?"
	ti.CharLimit = 500

	return Model{
		mgr:      mgr,
		list:     l,
		warnings: warnings,
		ti:       ti,
		width:    80,
		height:   24,
	}
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(mgr Manager, warnings <-chan error, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	_, err := tea.NewProgram(New(mgr, warnings), opts...).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return waitForWarning(m.warnings)
}

func waitForWarning(ch <-chan error) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		err, ok := <-ch
		if !ok {
			return nil
		}
		return WarningMsg{Err: err}
	}
}

// warningText words a warning by what the user lost. Corrupt data at load
// means earlier tasks are gone, anything else means the last change was not
// persisted.
func warningText(err error) string {
	if errors.Is(err, store.ErrCorruptData) {
		return "saved tasks were unreadable and have been reset: " + err.Error()
	}
	return "not saved: " + err.Error()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil
	case WarningMsg:
		m.warn = warningText(msg.Err)
		m.resize()
		return m, waitForWarning(m.warnings)
	}

	if m.adding {
		return m.updateAdding(msg)
	}

	if km, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(km, quitBind):
			return m, tea.Quit
		case key.Matches(km, addBind):
			m.adding = true
			m.addErr = ""
			m.ti.SetValue("")
			m.resize()
			cmd := m.ti.Focus()
			return m, cmd
		case key.Matches(km, deleteBind):
			if it, ok := m.list.SelectedItem().(listItem); ok {
				tasks, err := m.mgr.Remove(it.task.Key)
				if err != nil {
					m.warn = err.Error()
					return m, nil
				}
				cmd := m.setTasks(tasks, m.list.Index())
				return m, cmd
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateAdding(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.Type {
		case tea.KeyEnter:
			tasks, err := m.mgr.Add(m.ti.Value())
			if errors.Is(err, model.ErrValidation) {
				m.addErr = "Task cannot be empty"
				return m, nil
			}
			if err != nil {
				m.addErr = err.Error()
				return m, nil
			}
			m.closeDialog()
			cmd := m.setTasks(tasks, len(tasks)-1)
			return m, cmd
		case tea.KeyEsc:
			m.closeDialog()
			return m, nil
		case tea.KeyCtrlC:
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *Model) closeDialog() {
	m.adding = false
	m.addErr = ""
	m.ti.SetValue("")
	m.ti.Blur()
	m.resize()
}

func (m *Model) setTasks(tasks []model.Task, selected int) tea.Cmd {
	cmd := m.list.SetItems(toItems(tasks))
	m.list.Title = title(len(tasks))
	if selected >= len(tasks) {
		selected = len(tasks) - 1
	}
	if selected >= 0 {
		m.list.Select(selected)
	}
	return cmd
}

func (m *Model) resize() {
	h := m.height - 4
	if m.adding {
		h -= 4
	}
	if m.warn != "" {
		h--
	}
	if h < 1 {
		h = 1
	}
	m.list.SetSize(m.width-4, h)
}

func (m Model) View() string {
	content := m.list.View()
	if len(m.list.Items()) == 0 && !m.adding {
		content += "\n" + mutedStyle.Render("No tasks yet. Press a to add one.")
	}
	if m.adding {
		head := "New task"
		if m.addErr != "" {
			head += "  " + errorStyle.Render(m.addErr)
		}
		content += "\n" + borderStyle.Render(head+"\n"+m.ti.View())
	}
	if m.warn != "" {
		content += "\n" + warnStyle.Render("! "+m.warn)
	}
	return panelString(content)
}

func title(n int) string {
	return fmt.Sprintf("%s   %s %d", titleStyle.Render("My tasks"), accentStyle.Render("Total"), n)
}

func toItems(tasks []model.Task) []list.Item {
	li := make([]list.Item, 0, len(tasks))
	for _, t := range tasks {
		li = append(li, listItem{task: t})
	}
	return li
}
