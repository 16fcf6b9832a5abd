package cli

import (
	"github.com/spf13/cobra"

	"github.com/idilsaglam/tasks/internal/tui"
	"github.com/idilsaglam/tasks/internal/ui"
)

func NewUICommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Browse, add and remove tasks interactively",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd, opts)
		},
	}
}

func runUI(cmd *cobra.Command, opts *RootOptions) error {
	// the alt screen owns the terminal, so warnings go through the UI
	warnings := make(chan error, 16)
	warn := func(err error) {
		select {
		case warnings <- err:
		default:
			opts.log.Warn("warning dropped", "err", err)
		}
	}

	s, err := openSession(cmd.Context(), opts.cfg, opts.log, warn)
	if err != nil {
		return err
	}
	defer s.close()

	if err := tui.Run(s.mgr, warnings); err != nil {
		return err
	}
	if err := s.close(); err != nil {
		return err
	}
	ui.OK("saved")
	return nil
}
