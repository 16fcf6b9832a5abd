package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/tasks/internal/export"
	"github.com/idilsaglam/tasks/internal/ui"
)

func NewExportCommand(opts *RootOptions) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the task list to a file (pdf, json, yaml or text)",
		Example: `  tasks export --format pdf --out tasks.pdf
  tasks export --format yaml`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if !validFormat(format) {
				return usageError("invalid format %q: must be one of %v", format, export.Formats)
			}
			if format == "pdf" && out == "" {
				return usageError("export: pdf needs --out")
			}
			s, err := openSession(cmd.Context(), opts.cfg, opts.log, printWarning)
			if err != nil {
				return err
			}
			defer s.close()
			items := s.mgr.List()

			if out == "" {
				return export.Write(cmd.OutOrStdout(), items, format)
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := export.Write(f, items, format); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			ui.OK("exported to " + out)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "pdf", "export format (pdf|json|yaml|text)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (stdout when empty, except pdf)")
	return cmd
}

func validFormat(f string) bool {
	for _, v := range export.Formats {
		if v == f {
			return true
		}
	}
	return false
}
