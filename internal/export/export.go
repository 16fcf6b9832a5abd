// Package export writes the task list in a shareable format.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/tasks/internal/model"
)

var Formats = []string{"text", "json", "yaml", "pdf"}

// Write renders tasks to w in format.
func Write(w io.Writer, tasks []model.Task, format string) error {
	if tasks == nil {
		tasks = []model.Task{}
	}
	switch strings.ToLower(format) {
	case "text", "":
		for i, t := range tasks {
			if _, err := fmt.Fprintf(w, "%d. %s\n", i+1, t.Text); err != nil {
				return err
			}
		}
		return nil
	case "json":
		b, err := json.MarshalIndent(tasks, "", "  ")
		if err != nil {
			return fmt.Errorf("json marshal: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", b)
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tasks); err != nil {
			return fmt.Errorf("yaml encode: %w", err)
		}
		return enc.Close()
	case "pdf":
		return writePDF(w, tasks)
	default:
		return fmt.Errorf("unknown format %s", format)
	}
}

func writePDF(w io.Writer, tasks []model.Task) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// core fonts are cp1252; translate what can be translated
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Tasks", true)
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, fmt.Sprintf("Tasks (%d)", len(tasks)))
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 11)
	if len(tasks) == 0 {
		pdf.Cell(40, 6, "No tasks.")
	}
	for i, t := range tasks {
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("%d. %s", i+1, t.Text)), "0", "L", false)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: %w", err)
	}
	return nil
}
