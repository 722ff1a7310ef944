package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/encodekit/internal/eda"
	"github.com/KaramelBytes/encodekit/internal/frame"
	"github.com/KaramelBytes/encodekit/internal/plotting"
	"github.com/KaramelBytes/encodekit/internal/utils"
)

var (
	edaOutputPath string
	edaOutliers   []string
	edaPlots      bool
	edaMaxLevels  int
	edaUnit       string
)

var edaCmd = &cobra.Command{
	Use:   "eda <data.csv>",
	Short: "Summarize a dataset, count IQR outliers and draw exploratory plots",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		ds, err := readDataset(path)
		if err != nil {
			return err
		}
		md := eda.Summarize(filepath.Base(path), ds, cfg.Target).Markdown()
		for _, col := range edaOutliers {
			out, upper, lower, err := eda.InterquartileRule(col, ds)
			if err != nil {
				return err
			}
			md += fmt.Sprintf("\n[IQR OUTLIERS: %s]\n- %d above, %d below (%d rows)\n", col, upper, lower, out.Len())
		}

		if edaOutputPath != "" {
			if err := utils.SafeWriteFile(edaOutputPath, []byte(md)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote summary to %s\n", edaOutputPath)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), md)
		}

		if !edaPlots {
			return nil
		}
		written, err := drawEDA(ds)
		for _, p := range written {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote plot %s\n", p)
		}
		return err
	},
}

func drawEDA(ds *frame.Dataset) ([]string, error) {
	dir := cfg.PlotsDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	var written []string
	save := func(name string, f *plotting.Figure, err error) error {
		if err != nil {
			return fmt.Errorf("%s plot: %w", name, err)
		}
		p := filepath.Join(dir, name+".png")
		if err := f.Save(p); err != nil {
			return err
		}
		written = append(written, p)
		return nil
	}
	target := cfg.Target
	f, err := plotting.TargetFigure(ds, target, 0, "")
	if err := save("target_"+target, f, err); err != nil {
		return written, err
	}
	for _, c := range ds.Columns() {
		if c.Name == target {
			continue
		}
		if c.Kind == frame.Categorical {
			levels := map[string]bool{}
			for _, l := range c.Labels {
				levels[l] = true
			}
			if len(levels) > edaMaxLevels {
				logger.Debug("skipping high-cardinality column", zap.String("column", c.Name), zap.Int("levels", len(levels)))
				continue
			}
			f, err := plotting.CategoricalFigure(ds, c.Name, target)
			if err := save("categorical_"+c.Name, f, err); err != nil {
				return written, err
			}
			continue
		}
		f, err := plotting.NumericalFigure(ds, c.Name, target, edaUnit)
		if err := save("numerical_"+c.Name, f, err); err != nil {
			return written, err
		}
	}
	return written, nil
}

func init() {
	rootCmd.AddCommand(edaCmd)
	edaCmd.Flags().StringVarP(&edaOutputPath, "output", "o", "", "optional path to write the summary (Markdown)")
	edaCmd.Flags().StringSliceVar(&edaOutliers, "outliers", nil, "numeric columns to check with the interquartile rule")
	edaCmd.Flags().BoolVar(&edaPlots, "plots", false, "draw target, categorical and numerical plots into plots_dir")
	edaCmd.Flags().IntVar(&edaMaxLevels, "max-levels", 30, "skip categorical plots for columns with more levels")
	edaCmd.Flags().StringVar(&edaUnit, "unit", "", "unit label for the target axis")
}
