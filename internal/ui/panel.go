package ui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/tasks/internal/model"
)

var ansiRegexp = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string { return ansiRegexp.ReplaceAllString(s, "") }

// visibleWidth counts terminal cells, so wide runes and emoji line up.
func visibleWidth(s string) int { return lipgloss.Width(stripANSI(s)) }

// Panel draws a framed box using the current theme.
func Panel(lines []string) {
	fmt.Fprint(stdout, RenderPanel(lines))
}

// RenderPanel is Panel without the printing.
func RenderPanel(lines []string) string {
	t := Current()
	maxw := 0
	for _, ln := range lines {
		if w := visibleWidth(ln); w > maxw {
			maxw = w
		}
	}
	pad := func(s string) string {
		if vis := visibleWidth(s); vis < maxw {
			s = s + strings.Repeat(" ", maxw-vis)
		}
		return s
	}
	var b strings.Builder
	b.WriteString(t.CornerTL + strings.Repeat(t.H, maxw+2) + t.CornerTR + "\n")
	for _, ln := range lines {
		b.WriteString(t.V + " " + pad(ln) + " " + t.V + "\n")
	}
	b.WriteString(t.CornerBL + strings.Repeat(t.H, maxw+2) + t.CornerBR + "\n")
	return b.String()
}

// maxTextWidth keeps long tasks from blowing up the panel.
const maxTextWidth = 80

// TaskLines renders the list body: a header with the count, then one
// numbered line per task. showKeys appends each task's key.
func TaskLines(tasks []model.Task, showKeys bool) []string {
	t := Current()
	lines := []string{
		fmt.Sprintf("%s  %s %d", C(t.Title, "Tasks"), C(t.Accent, "Total"), len(tasks)),
		"",
	}
	if len(tasks) == 0 {
		return append(lines, C(t.Muted, "no tasks"))
	}
	for i, task := range tasks {
		idx := fmt.Sprintf("%2d.", i+1)
		text := Truncate(oneLine(task.Text), maxTextWidth)
		line := fmt.Sprintf("%s %s %s", C(dim, idx), C(t.Pending, t.Bullet), text)
		if showKeys {
			line += "  " + C(t.Muted, "["+task.Key+"]")
		}
		lines = append(lines, line)
	}
	return lines
}

// Truncate shortens s to at most width cells, ending in "...".
func Truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+3 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
