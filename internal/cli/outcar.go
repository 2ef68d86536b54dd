package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"vaspio/internal/outcar"
	"vaspio/internal/plot"
	"vaspio/internal/source"
)

// maxForceLabel names the y axis and the file of the force plot
const maxForceLabel = "max_force"

func (a *app) newOutcarCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outcar",
		Short: "Inspect the position and total-force tables of the report",
	}
	cmd.AddCommand(a.newOutcarForcesCommand())
	cmd.AddCommand(a.newOutcarBlocksCommand())
	return cmd
}

func (a *app) outcarExtractor(args []string) (*outcar.Extractor, error) {
	file, err := a.input(args, source.DefaultOutcar)
	if err != nil {
		return nil, err
	}
	return outcar.New(file), nil
}

func (a *app) newOutcarForcesCommand() *cobra.Command {
	var plotMode string

	cmd := &cobra.Command{
		Use:   "forces [FILE]",
		Short: "Print the largest atomic force of every ionic step",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var mode plot.Mode
			if plotMode != "" {
				m, err := plot.ParseMode(plotMode)
				if err != nil {
					return err
				}
				mode = m
			}

			e, err := a.outcarExtractor(args)
			if err != nil {
				return err
			}
			history, err := e.MaxForceHistory(cmd.Context())
			if err != nil {
				return err
			}

			out := a.formatter(cmd)
			if a.flags.Format() == FormatJSON {
				if err := out.PrintJSON(history); err != nil {
					return err
				}
			} else {
				rows := make([][]string, 0, len(history))
				for _, h := range history {
					rows = append(rows, []string{
						strconv.Itoa(h.Step),
						strconv.Itoa(h.Atom),
						formatFloat(h.Force[0]),
						formatFloat(h.Force[1]),
						formatFloat(h.Force[2]),
						strconv.FormatFloat(h.Magnitude, 'f', 6, 64),
					})
				}
				if err := out.PrintTable([]string{"Step", "Atom", "Fx", "Fy", "Fz", "|F|"}, rows); err != nil {
					return err
				}
			}

			if plotMode == "" {
				return nil
			}
			series := plot.Series{
				X:      make([]float64, len(history)),
				Y:      make([]float64, len(history)),
				XLabel: "step",
				YLabel: maxForceLabel,
			}
			for i, h := range history {
				series.X[i] = float64(h.Step)
				series.Y[i] = h.Magnitude
			}
			fig, err := a.plotter().Plot(series, mode)
			if err != nil {
				return err
			}
			if mode == plot.ModeSave && a.flags.Format() == FormatText {
				return out.PrintSuccess("saved " + fig.Path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&plotMode, "plot", "", "Also plot the history (show|save)")
	return cmd
}

func (a *app) newOutcarBlocksCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "blocks [FILE]",
		Short: "List the force tables found in the report",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.outcarExtractor(args)
			if err != nil {
				return err
			}

			type blockInfo struct {
				Step        int `json:"step"`
				Coordinates int `json:"coordinates"`
				Forces      int `json:"forces"`
			}
			var blocks []blockInfo
			for block, err := range e.All(cmd.Context()) {
				if err != nil {
					return err
				}
				blocks = append(blocks, blockInfo{
					Step:        block.Step,
					Coordinates: len(block.Coordinates),
					Forces:      len(block.Forces),
				})
			}

			out := a.formatter(cmd)
			if a.flags.Format() == FormatJSON {
				return out.PrintJSON(blocks)
			}
			rows := make([][]string, 0, len(blocks))
			for _, b := range blocks {
				rows = append(rows, []string{strconv.Itoa(b.Step), strconv.Itoa(b.Coordinates), strconv.Itoa(b.Forces)})
			}
			return out.PrintTable([]string{"Step", "Coordinates", "Forces"}, rows)
		},
	}
}
