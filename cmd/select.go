package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/encodekit/internal/encoding"
	"github.com/KaramelBytes/encodekit/internal/models"
	"github.com/KaramelBytes/encodekit/internal/selection"
)

var (
	selFlags        encoderFlags
	selRegressor    string
	selInteractions bool
	selScale        string
	selSampleSize   int
	selLogPath      string
	selNoSave       bool
)

var selectCmd = &cobra.Command{
	Use:   "select <train.csv>",
	Short: "Cross-validate one encoder/transform/regressor combination and log the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ec, err := selFlags.config()
		if err != nil {
			return err
		}
		reg, err := models.New(selRegressor, cfg.Seed)
		if err != nil {
			return err
		}
		scale, err := models.NewTransform(selScale)
		if err != nil {
			return err
		}
		train, err := readDataset(args[0])
		if err != nil {
			return err
		}
		if selSampleSize > 0 && selSampleSize < train.Len() {
			idx := make([]int, selSampleSize)
			for i := range idx {
				idx[i] = i
			}
			train = train.Rows(idx)
		}

		c := &selection.Combination{
			Regressor: reg,
			Scale:     scale,
			CV:        selection.KFold{Folds: cfg.CVFolds},
			Logger:    logger,
			Out:       cmd.OutOrStdout(),
		}
		if ec != nil {
			c.Encoder = encoding.New(*ec)
		}
		if selInteractions {
			c.Interactions = &models.Interactions{}
		}

		logPath := cfg.LogPath
		if selLogPath != "" {
			logPath = selLogPath
		}
		if selNoSave {
			return c.Run(cmd.Context(), train, cfg.Target, nil)
		}
		if cfg.CVFolds != selection.DefaultFolds {
			return fmt.Errorf("the model log records %d folds, cv_folds is %d (use --no-save)", selection.DefaultFolds, cfg.CVFolds)
		}
		log, err := selection.NewLog(logPath)
		if err != nil {
			return err
		}
		if err := c.Run(cmd.Context(), train, cfg.Target, log); err != nil {
			return err
		}
		if err := log.UpdateLogfile(logPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Results saved in log %s (%d runs)\n", logPath, log.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(selectCmd)
	selFlags.register(selectCmd, "none")
	selectCmd.Flags().StringVarP(&selRegressor, "regressor", "r", "linear", "regressor: linear|tree|forest|bagging")
	selectCmd.Flags().BoolVar(&selInteractions, "interactions", false, "add pairwise interaction features")
	selectCmd.Flags().StringVar(&selScale, "scale", "none", "scaling: none|standard|minmax")
	selectCmd.Flags().IntVar(&selSampleSize, "sample-size", 0, "use only the first N training rows (0 = all)")
	selectCmd.Flags().StringVar(&selLogPath, "log", "", "CSV log path (overrides config log_path)")
	selectCmd.Flags().BoolVar(&selNoSave, "no-save", false, "do not write the log file")
}
