package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/encodekit/internal/encoding"
	"github.com/KaramelBytes/encodekit/internal/frame"
	"github.com/KaramelBytes/encodekit/internal/preprocess"
)

var (
	encFlags      encoderFlags
	encTestPath   string
	encOutput     string
	encTestOutput string
	encIndex      bool
	encShowMap    bool
)

var encodeCmd = &cobra.Command{
	Use:   "encode <train.csv>",
	Short: "Fit an encoder on a CSV and write the encoded data",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ec, err := encFlags.config()
		if err != nil {
			return err
		}
		if ec == nil {
			return errors.New("encode needs an encoder (ordinal|target|dummy)")
		}
		if encTestPath != "" && encTestOutput == "" {
			return errors.New("--test requires --test-output")
		}
		train, err := readDataset(args[0])
		if err != nil {
			return err
		}
		var test *frame.Dataset
		if encTestPath != "" {
			if test, err = readDataset(encTestPath); err != nil {
				return err
			}
		}
		enc := encoding.New(*ec)
		newTrain, newTest, err := preprocess.Encode(enc, train, test)
		if err != nil {
			return err
		}
		logger.Debug("encoded", zap.String("encoder", enc.String()), zap.Int("rows", newTrain.Len()), zap.Strings("columns", newTrain.Names()))

		if encShowMap {
			st := enc.State()
			for _, f := range st.Features() {
				if m, ok := st.Mapping(f); ok {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", f, m)
				} else if lv, ok := st.Levels(f); ok {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: reference=%s levels=%v\n", f, lv.Reference, lv.Levels)
				}
			}
		}
		if encOutput == "" {
			if err := frame.Write(cmd.OutOrStdout(), newTrain, encIndex); err != nil {
				return err
			}
		} else {
			if err := frame.WriteCSV(encOutput, newTrain, encIndex); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s (%s)\n", encOutput, enc)
		}
		if newTest != nil {
			if err := frame.WriteCSV(encTestOutput, newTest, encIndex); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", encTestOutput)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(encodeCmd)
	encFlags.register(encodeCmd, "ordinal")
	encodeCmd.Flags().StringVar(&encTestPath, "test", "", "optional test CSV transformed with the training fit")
	encodeCmd.Flags().StringVarP(&encOutput, "output", "o", "", "path for the encoded training CSV (default stdout)")
	encodeCmd.Flags().StringVar(&encTestOutput, "test-output", "", "path for the encoded test CSV")
	encodeCmd.Flags().BoolVar(&encIndex, "write-index", false, "write a leading row index column")
	encodeCmd.Flags().BoolVar(&encShowMap, "show-mapping", false, "print the fitted mapping to stderr")
}
