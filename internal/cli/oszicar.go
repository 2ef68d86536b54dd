package cli

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"vaspio/internal/oszicar"
	"vaspio/internal/plot"
	"vaspio/internal/source"
	"vaspio/internal/tui"
)

func (a *app) newOszicarCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oszicar",
		Short: "Inspect the ionic-step log",
	}
	cmd.AddCommand(a.newOszicarInfoCommand())
	cmd.AddCommand(a.newOszicarTopCommand())
	cmd.AddCommand(a.newOszicarPlotCommand())
	cmd.AddCommand(a.newOszicarBrowseCommand())
	return cmd
}

// loadOszicar opens and parses the log named by args, or OSZICAR
func (a *app) loadOszicar(cmd *cobra.Command, args []string) (*oszicar.Parser, error) {
	file, err := a.input(args, source.DefaultOszicar)
	if err != nil {
		return nil, err
	}
	return oszicar.Open(cmd.Context(), file, a.plotter())
}

// fieldSummary is the JSON form of one row of oszicar info
type fieldSummary struct {
	Field string  `json:"field"`
	First float64 `json:"first"`
	Last  float64 `json:"last"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

func (a *app) newOszicarInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info [FILE]",
		Short: "Show the fields and value ranges of the log",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.loadOszicar(cmd, args)
			if err != nil {
				return err
			}

			var summaries []fieldSummary
			for _, name := range tui.Fields(p) {
				values, err := p.Field(name)
				if err != nil {
					return err
				}
				if len(values) == 0 {
					continue
				}
				summaries = append(summaries, fieldSummary{
					Field: name,
					First: values[0],
					Last:  values[len(values)-1],
					Min:   slices.Min(values),
					Max:   slices.Max(values),
				})
			}

			out := a.formatter(cmd)
			if a.flags.Format() == FormatJSON {
				return out.PrintJSON(map[string]any{
					"file":   p.Filename(),
					"steps":  p.Len(),
					"schema": p.Schema(),
					"fields": summaries,
				})
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s ionic steps\n\n", p.Filename(), humanize.Comma(int64(p.Len())))
			rows := make([][]string, 0, len(summaries))
			for _, s := range summaries {
				rows = append(rows, []string{s.Field, formatFloat(s.First), formatFloat(s.Last), formatFloat(s.Min), formatFloat(s.Max)})
			}
			return out.PrintTable([]string{"Field", "First", "Last", "Min", "Max"}, rows)
		},
	}
}

func (a *app) newOszicarTopCommand() *cobra.Command {
	var (
		count   int
		reverse bool
	)

	cmd := &cobra.Command{
		Use:   "top FIELD [FILE]",
		Short: "Rank the steps of the log by one field",
		Long: `Sort the steps by FIELD and print the N smallest values, or the N
largest with --reverse. Ties keep file order.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.loadOszicar(cmd, args[1:])
			if err != nil {
				return err
			}

			ranked, err := p.TopN(args[0], count, reverse)
			if err != nil {
				return err
			}

			out := a.formatter(cmd)
			if a.flags.Format() == FormatJSON {
				return out.PrintJSON(ranked)
			}
			rows := make([][]string, 0, len(ranked))
			for _, r := range ranked {
				rows = append(rows, []string{strconv.Itoa(r.Step), formatFloat(r.Value)})
			}
			return out.PrintTable([]string{"Step", args[0]}, rows)
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 5, "Number of steps to print")
	cmd.Flags().BoolVarP(&reverse, "reverse", "r", false, "Print the largest values instead of the smallest")
	return cmd
}

func (a *app) newOszicarPlotCommand() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "plot FIELD [FILE]",
		Short: "Plot one field against the step number",
		Long: `Draw FIELD against the step number. --mode save writes
<FIELD>_vs_step.png into plot.output_dir; --mode show draws the figure
inline on terminals that speak the kitty, iTerm or sixel image protocol.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := plot.ParseMode(mode)
			if err != nil {
				return err
			}
			p, err := a.loadOszicar(cmd, args[1:])
			if err != nil {
				return err
			}

			fig, err := p.PlotSeries(args[0], m)
			if err != nil {
				return err
			}
			if m == plot.ModeSave {
				return a.formatter(cmd).PrintSuccess("saved " + fig.Path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", plot.ModeSave.String(), "Where the figure goes (show|save)")
	return cmd
}

func (a *app) newOszicarBrowseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [FILE]",
		Short: "Browse the fields of the log interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.loadOszicar(cmd, args)
			if err != nil {
				return err
			}
			return tui.NewBrowser(p, a.cfg.Browser.Rows).Run()
		},
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
