package cli

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"vaspio/internal/oszicar"
	"vaspio/internal/outcar"
	"vaspio/internal/source"
	"vaspio/internal/store"
)

func (a *app) newExportCommand() *cobra.Command {
	var (
		dbPath      string
		oszicarPath string
		outcarPath  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Store the ionic-step log and force tables in SQLite",
		Long: `Append one run per input file to the SQLite database. Without
--oszicar or --outcar both default files are exported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				dbPath = a.cfg.Store.Path
			}
			if oszicarPath == "" && outcarPath == "" {
				oszicarPath, outcarPath = source.DefaultOszicar, source.DefaultOutcar
			}

			ctx := cmd.Context()
			s, err := store.Open(ctx, dbPath)
			if err != nil {
				return err
			}
			defer s.Close()

			var runs []store.Run
			if oszicarPath != "" {
				file, err := source.New(oszicarPath, a.cfg.Encoding)
				if err != nil {
					return err
				}
				p, err := oszicar.Open(ctx, file, nil)
				if err != nil {
					return err
				}
				run, err := s.SaveIterations(ctx, p)
				if err != nil {
					return err
				}
				runs = append(runs, run)
			}
			if outcarPath != "" {
				file, err := source.New(outcarPath, a.cfg.Encoding)
				if err != nil {
					return err
				}
				run, err := s.SaveForces(ctx, outcar.New(file))
				if err != nil {
					return err
				}
				runs = append(runs, run)
			}

			out := a.formatter(cmd)
			if a.flags.Format() == FormatJSON {
				return out.PrintJSON(runs)
			}
			for _, run := range runs {
				if err := out.PrintSuccess(fmt.Sprintf("run %d: %s %s, %s steps", run.ID, run.Kind, run.Source, humanize.Comma(int64(run.Steps)))); err != nil {
					return err
				}
			}
			if info, err := os.Stat(dbPath); err == nil {
				return out.PrintSuccess(fmt.Sprintf("%s is %s", dbPath, humanize.Bytes(uint64(info.Size()))))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "Database file (default: store.path from the config)")
	cmd.Flags().StringVar(&oszicarPath, "oszicar", "", "Ionic-step log to export")
	cmd.Flags().StringVar(&outcarPath, "outcar", "", "Report whose force tables to export")
	return cmd
}
