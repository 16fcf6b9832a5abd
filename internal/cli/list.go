package cli

import (
	"github.com/spf13/cobra"

	"github.com/idilsaglam/tasks/internal/export"
	"github.com/idilsaglam/tasks/internal/ui"
)

func NewListCommand(opts *RootOptions) *cobra.Command {
	var (
		format   string
		showKeys bool
	)
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List tasks",
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "json" && format != "yaml" {
				return usageError("invalid format %q: must be text, json or yaml", format)
			}
			s, err := openSession(cmd.Context(), opts.cfg, opts.log, printWarning)
			if err != nil {
				return err
			}
			defer s.close()

			items := s.mgr.List()
			if format != "text" {
				return export.Write(cmd.OutOrStdout(), items, format)
			}
			lines := ui.TaskLines(items, showKeys)
			lines = append(lines, "", ui.C(ui.Current().Muted, `Tip: add with `+"`tasks add \"Buy milk\"`"))
			ui.Panel(lines)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format (text|json|yaml)")
	cmd.Flags().BoolVar(&showKeys, "keys", false, "show task keys (needed by rm)")
	return cmd
}
