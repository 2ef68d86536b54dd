// Package cli implements the vaspio command line
package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"vaspio/internal/config"
	"vaspio/internal/log"
	"vaspio/internal/plot"
	"vaspio/internal/source"
	"vaspio/internal/theme"
)

// Build information, set with -ldflags
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// app carries the state shared by the commands of one invocation
type app struct {
	flags GlobalFlags
	cfg   *config.Config
}

// Execute runs the command line with SIGINT and SIGTERM cancelling ctx
func Execute(ctx context.Context, args []string) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	root := NewRootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// NewRootCommand builds the command tree
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "vaspio",
		Short: "Inspect VASP OSZICAR and OUTCAR files",
		Long: `vaspio reads the ionic-step log (OSZICAR) and the force tables of the
main report (OUTCAR) of a VASP run. It ranks and plots per-step values,
tracks the largest atomic force and exports both to SQLite.`,
		Version:            fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date),
		PersistentPreRunE:  a.loadConfig,
		PersistentPostRunE: a.cleanup,
		SilenceUsage:       true,
		SilenceErrors:      true,
	}
	a.flags.Register(root)

	root.AddCommand(a.newOszicarCommand())
	root.AddCommand(a.newOutcarCommand())
	root.AddCommand(a.newExportCommand())
	root.AddCommand(a.newConfigCommand())
	return root
}

// loadConfig runs before every command. It merges the config file,
// the environment and the persistent flags, then applies logging and
// theme settings.
func (a *app) loadConfig(cmd *cobra.Command, args []string) error {
	if err := a.flags.Validate(); err != nil {
		return err
	}

	// config init must work even when the existing file is broken
	if cmd.Name() == "init" && cmd.Parent() != nil && cmd.Parent().Name() == "config" {
		a.cfg = config.DefaultConfig()
		return nil
	}

	var (
		cfg *config.Config
		err error
	)
	if a.flags.ConfigFile != "" {
		cfg, err = config.Load(a.flags.ConfigFile)
	} else {
		cfg, err = config.LoadWithDefaults(DefaultConfigFile)
	}
	if err != nil {
		return err
	}

	if a.flags.Encoding != "" {
		cfg.Encoding = a.flags.Encoding
	}
	if a.flags.LogFile != "" {
		cfg.Log.File = a.flags.LogFile
	}
	if a.flags.Verbose {
		cfg.Log.Level = "debug"
	}

	if cfg.Log.File != "" {
		if err := log.SetFileOutput(cfg.Log.File); err != nil {
			return err
		}
	}
	if err := log.SetLevel(cfg.Log.Level); err != nil {
		return err
	}
	if err := theme.SetTheme(cfg.Theme); err != nil {
		return err
	}

	a.cfg = cfg
	log.Debug("configuration loaded", "command", cmd.CommandPath(), "encoding", cfg.Encoding, "theme", cfg.Theme)
	return nil
}

func (a *app) cleanup(cmd *cobra.Command, args []string) error {
	log.Close()
	return nil
}

// input resolves the optional FILE argument against a default name
func (a *app) input(args []string, fallback string) (*source.File, error) {
	name := fallback
	if len(args) > 0 {
		name = args[0]
	}
	return source.New(name, a.cfg.Encoding)
}

func (a *app) plotter() *plot.Plotter {
	return plot.NewPlotter(a.cfg.Plot.Options())
}

func (a *app) formatter(cmd *cobra.Command) Formatter {
	return NewFormatter(a.flags.Format(), cmd.OutOrStdout())
}
