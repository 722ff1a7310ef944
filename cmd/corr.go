package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/encodekit/internal/plotting"
	"github.com/KaramelBytes/encodekit/internal/report"
)

var (
	corrFlags   encoderFlags
	corrPerm    string
	corrHeatmap bool
	corrTitle   string
)

var corrCmd = &cobra.Command{
	Use:   "corr <data.csv>",
	Short: "Print the correlation matrix of encoded data, optionally as a heatmap",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ec, err := corrFlags.config()
		if err != nil {
			return err
		}
		perm, err := parsePerm(corrPerm)
		if err != nil {
			return err
		}
		ds, err := readDataset(args[0])
		if err != nil {
			return err
		}
		var encode report.EncodeFunc
		title := corrTitle
		if ec != nil {
			encode = report.EncoderFunc(*ec)
			if title == "" {
				title = ec.String()
			}
		}
		m, err := report.CorrMatrix(ds, encode, perm, logger)
		if err != nil {
			return err
		}
		if m == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "⚠ Encoding could not be fitted; no correlation matrix produced")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), m.Markdown(cfg.HeatmapDP))
		if corrHeatmap {
			sink := &plotting.FileSink{Dir: filepath.Clean(cfg.PlotsDir)}
			if err := report.HeatMap(m, sink, heatmapStyle(title)); err != nil {
				return err
			}
			for _, p := range sink.Written {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote heatmap %s\n", p)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(corrCmd)
	corrFlags.register(corrCmd, "none")
	corrCmd.Flags().StringVar(&corrPerm, "perm", "", "comma-separated column permutation, e.g. 2,0,1")
	corrCmd.Flags().BoolVar(&corrHeatmap, "heatmap", false, "render a heatmap PNG into plots_dir")
	corrCmd.Flags().StringVar(&corrTitle, "title", "", "heatmap title (default: encoder descriptor)")
}
