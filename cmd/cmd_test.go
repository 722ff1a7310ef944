package cmd

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag to its default so values do not leak
// between invocations of the shared root command.
func resetFlags(c *cobra.Command) {
	reset := func(fl *pflag.Flag) {
		if sv, ok := fl.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = fl.Value.Set(fl.DefValue)
		}
		fl.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("ENCODEKIT_LOG_FILE", "")
	t.Setenv("ENCODEKIT_PLOTS_DIR", filepath.Join(home, "plots"))
	t.Setenv("ENCODEKIT_LOG_PATH", filepath.Join(home, "model_log.csv"))
	return home
}

func writeTrain(t *testing.T, dir string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("jobType,degree,milesFromMetropolis,salary\n")
	base := map[string]float64{"JANITOR": 40, "CFO": 140, "CEO": 180}
	bonus := map[string]float64{"NONE": 0, "MASTERS": 15}
	jobs := []string{"JANITOR", "CFO", "CEO"}
	degrees := []string{"NONE", "MASTERS"}
	for i := 0; i < 30; i++ {
		j, d := jobs[i%3], degrees[(i/3)%2]
		miles := float64(i % 7 * 10)
		fmt.Fprintf(&b, "%s,%s,%g,%g\n", j, d, miles, base[j]+bonus[d]-miles/10)
	}
	path := filepath.Join(dir, "train.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func TestCLI_EncodeWritesEncodedCSV(t *testing.T) {
	home := isolate(t)
	train := writeTrain(t, home)
	out := filepath.Join(home, "out", "encoded.csv")

	msg, err := runCmd(t, "encode", train, "--encoder", "ordinal", "--features", "jobType", "-o", out)
	require.NoError(t, err)
	require.Contains(t, msg, "OrdinalEncoder(metric=mean, target=salary, features=[jobType])")

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Equal(t, []string{"jobType", "degree", "milesFromMetropolis", "salary"}, recs[0])
	require.Equal(t, []string{"0", "1", "2"}, []string{recs[1][0], recs[2][0], recs[3][0]})
	require.Equal(t, "NONE", recs[1][1])

	_, err = runCmd(t, "encode", train, "--encoder", "none")
	require.Error(t, err)
}

func TestCLI_EncodeValidatesTestOutputFirst(t *testing.T) {
	home := isolate(t)
	train := writeTrain(t, home)
	out := filepath.Join(home, "encoded.csv")

	_, err := runCmd(t, "encode", train, "--test", train, "-o", out)
	require.ErrorContains(t, err, "--test-output")
	require.NoFileExists(t, out)

	testOut := filepath.Join(home, "encoded_test.csv")
	msg, err := runCmd(t, "encode", train, "-e", "dummy", "--features", "degree", "--test", train,
		"-o", out, "--test-output", testOut, "--show-mapping")
	require.NoError(t, err)
	require.Contains(t, msg, "degree: reference=MASTERS levels=[NONE]")
	require.FileExists(t, out)
	require.FileExists(t, testOut)
}

func TestCLI_CorrPrintsMatrixAndHeatmap(t *testing.T) {
	home := isolate(t)
	train := writeTrain(t, home)

	msg, err := runCmd(t, "corr", train, "-e", "target", "--perm", "3,0,1,2", "--heatmap")
	require.NoError(t, err)
	require.Contains(t, msg, "| salary |")
	require.Contains(t, msg, "✓ Wrote heatmap")
	entries, err := os.ReadDir(filepath.Join(home, "plots"))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	_, err = runCmd(t, "corr", train, "--perm", "0,0")
	require.Error(t, err)
}

func TestCLI_SelectAppendsToLog(t *testing.T) {
	home := isolate(t)
	train := writeTrain(t, home)
	logPath := filepath.Join(home, "model_log.csv")

	msg, err := runCmd(t, "select", train, "-e", "dummy", "-r", "linear", "--scale", "standard", "--log", logPath)
	require.NoError(t, err)
	require.Contains(t, msg, "Mean MSE for LinearRegression() with DummyEncoder(features=ALL, exclude=NONE)")
	_, err = runCmd(t, "select", train, "-e", "target", "-r", "tree", "--log", logPath)
	require.NoError(t, err)

	f, err := os.Open(logPath)
	require.NoError(t, err)
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 3)
	require.Equal(t, "Training sample size", recs[0][1])
	require.Equal(t, "30", recs[1][1])
	require.Equal(t, "StandardScaler()", recs[1][4])
	require.Equal(t, "None", recs[2][4])

	_, err = runCmd(t, "select", train, "-r", "svm", "--log", logPath)
	require.Error(t, err)
}

func TestCLI_SelectFoldCountMustMatchLog(t *testing.T) {
	home := isolate(t)
	train := writeTrain(t, home)
	logPath := filepath.Join(home, "model_log.csv")
	t.Setenv("ENCODEKIT_CV_FOLDS", "3")

	_, err := runCmd(t, "select", train, "-e", "target", "--log", logPath)
	require.Error(t, err)
	require.NoFileExists(t, logPath)

	msg, err := runCmd(t, "select", train, "-e", "target", "--log", logPath, "--no-save")
	require.NoError(t, err)
	require.Contains(t, msg, "Mean MSE for LinearRegression() with TargetEncoder(metric=mean")
	require.NoFileExists(t, logPath)
}

func TestCLI_EDASummaryAndPlots(t *testing.T) {
	home := isolate(t)
	train := writeTrain(t, home)

	msg, err := runCmd(t, "eda", train, "--outliers", "salary", "--plots")
	require.NoError(t, err)
	require.Contains(t, msg, "[DATASET SUMMARY]")
	require.Contains(t, msg, "[IQR OUTLIERS: salary]")
	for _, name := range []string{"target_salary.png", "categorical_jobType.png", "numerical_milesFromMetropolis.png"} {
		_, err := os.Stat(filepath.Join(home, "plots", name))
		require.NoError(t, err, name)
	}
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	home := isolate(t)
	cfgPath := filepath.Join(home, "encodekit.yaml")

	_, err := runCmd(t, "--config", cfgPath, "config", "set", "metric", "median")
	require.NoError(t, err)
	msg, err := runCmd(t, "--config", cfgPath, "config", "show")
	require.NoError(t, err)
	require.Contains(t, msg, "metric: median")
	require.Contains(t, msg, "target: salary")

	_, err = runCmd(t, "--config", cfgPath, "config", "set", "colour", "red")
	require.Error(t, err)
}
