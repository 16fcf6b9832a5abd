package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/tasks/internal/model"
	"github.com/idilsaglam/tasks/internal/ui"
)

func NewAddCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text...>",
		Short: "Add a task (text can be multiple words)",
		Example: `  tasks add "Buy milk"
  tasks add Call the plumber`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), opts.cfg, opts.log, printWarning)
			if err != nil {
				return err
			}
			defer s.close()

			items, err := s.mgr.Add(strings.Join(args, " "))
			if errors.Is(err, model.ErrValidation) {
				return usageError("add: %v", err)
			}
			if err != nil {
				return err
			}
			if err := s.close(); err != nil {
				return err
			}
			ui.OK("added " + items[len(items)-1].Key)
			return nil
		},
	}
}
