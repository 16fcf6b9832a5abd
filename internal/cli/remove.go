package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/tasks/internal/ui"
)

func NewRemoveCommand(opts *RootOptions) *cobra.Command {
	var index int
	cmd := &cobra.Command{
		Use:   "rm <key> | rm --index N",
		Short: "Remove a task by key, or by 1-based index",
		Example: `  tasks ls --keys
  tasks rm 2f0c7c1e-8a4e-4b7d-9f5e-0f6f2b8f8f7a
  tasks rm --index 3`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			byIndex := cmd.Flags().Changed("index")
			if byIndex == (len(args) == 1) {
				return usageError("rm: give either a key or --index")
			}
			s, err := openSession(cmd.Context(), opts.cfg, opts.log, printWarning)
			if err != nil {
				return err
			}
			defer s.close()

			key := ""
			if byIndex {
				items := s.mgr.List()
				if index < 1 || index > len(items) {
					return usageError("index out of range: have %d, got %d", len(items), index)
				}
				key = items[index-1].Key
			} else {
				key = args[0]
			}

			before := len(s.mgr.List())
			after, err := s.mgr.Remove(key)
			if err != nil {
				return err
			}
			if err := s.close(); err != nil {
				return err
			}
			if n := before - len(after); n > 0 {
				ui.OK(fmt.Sprintf("removed %d", n))
			} else {
				ui.OK("nothing to remove")
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&index, "index", 0, "1-based position as shown by ls")
	return cmd
}
