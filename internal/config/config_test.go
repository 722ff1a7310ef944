package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsAndRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "config.yaml")
	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "salary", c.Target)
	require.Equal(t, "mean", c.Metric)
	require.Equal(t, "model_log.csv", c.LogPath)
	require.Equal(t, "coolwarm", c.HeatmapCMap)
	require.Equal(t, 12.0, c.HeatmapSize)
	require.Equal(t, 2, c.HeatmapDP)
	require.Equal(t, 5, c.CVFolds)
	require.Equal(t, rune(0), c.DelimiterRune())

	require.NoError(t, c.Set("metric", "Median"))
	require.NoError(t, c.Set("heatmap_dp", "3"))
	require.NoError(t, c.Set("delimiter", `\t`))
	require.NoError(t, Save(c, path))

	back, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "median", back.Metric)
	require.Equal(t, 3, back.HeatmapDP)
	require.Equal(t, '\t', back.DelimiterRune())
	v, err := back.Get("heatmap_dp")
	require.NoError(t, err)
	require.Equal(t, "3", v)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("ENCODEKIT_TARGET", "price")
	c, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	require.Equal(t, "price", c.Target)
}

func TestSetRejectsBadValues(t *testing.T) {
	c := &Global{}
	require.Error(t, c.Set("nope", "1"))
	require.Error(t, c.Set("heatmap_size", "-1"))
	require.Error(t, c.Set("cv_folds", "1"))
	require.Error(t, c.Set("delimiter", ";;"))
	_, err := c.Get("nope")
	require.Error(t, err)
	for _, k := range Keys {
		_, err := c.Get(k)
		require.NoError(t, err, k)
	}
}
