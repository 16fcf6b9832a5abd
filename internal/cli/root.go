package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/tasks/internal/config"
	"github.com/idilsaglam/tasks/internal/logging"
	"github.com/idilsaglam/tasks/internal/ui"
)

// RootOptions holds global flags for all commands. Flags that were set
// override the config file.
type RootOptions struct {
	ConfigPath string
	Backend    string
	Path       string
	DSN        string
	Identity   string
	Theme      string
	LogLevel   string
	Verbose    bool

	cfg config.Config
	log *slog.Logger
}

// NewRootCommand creates the root command. Without a subcommand it opens
// the interactive list.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "tasks - a tiny persistent task list",
		Long: `A single-user task list. Add free-text tasks, browse them, remove them.
The list is saved after every change and restored on the next start.`,
		Args:          usageArgs(cobra.NoArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd, opts)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: ExitUsage, Err: err}
	})

	f := cmd.PersistentFlags()
	f.StringVar(&opts.ConfigPath, "config", "", "config file (default ./tasks.toml, then ~/.config/tasks/config.toml)")
	f.StringVar(&opts.Backend, "backend", "", "storage backend (file|sqlite|mysql|bolt|memory)")
	f.StringVar(&opts.Path, "path", "", "data file for the file, sqlite and bolt backends")
	f.StringVar(&opts.DSN, "dsn", "", "MySQL DSN for the mysql backend")
	f.StringVar(&opts.Identity, "identity", "", "task identity scheme (uuid|text)")
	f.StringVar(&opts.Theme, "theme", "", "output theme (classic|neon|mono)")
	f.StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error)")
	f.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output (same as --log-level debug)")

	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewRemoveCommand(opts))
	cmd.AddCommand(NewUICommand(opts))
	cmd.AddCommand(NewExportCommand(opts))

	return cmd
}

// Execute runs the CLI and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	ui.SetOutput(stdout, stderr)
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}
	ui.Fail(err.Error())
	code := GetExitCode(err)
	if code == ExitUsage {
		cmd.SetOut(stderr)
		cmd.Usage()
	}
	return code
}

func (o *RootOptions) resolve(cmd *cobra.Command) error {
	cfg, used, err := config.Load(o.ConfigPath)
	if err != nil {
		return usageError("%v", err)
	}

	flags := cmd.Flags()
	override := func(name string, dst *string, val string) {
		if flags.Changed(name) {
			*dst = val
		}
	}
	override("backend", &cfg.Backend, o.Backend)
	override("path", &cfg.Path, o.Path)
	override("dsn", &cfg.DSN, o.DSN)
	override("identity", &cfg.Identity, o.Identity)
	override("theme", &cfg.Theme, o.Theme)
	override("log-level", &cfg.LogLevel, o.LogLevel)
	if o.Verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return usageError("%v", err)
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return usageError("%v", err)
	}

	ui.SetTheme(cfg.Theme)
	o.cfg = cfg
	o.log = logging.New(cmd.ErrOrStderr(), level)
	if used != "" {
		o.log.Debug("config loaded", "file", used)
	}
	return nil
}
