package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	Target string `mapstructure:"target" yaml:"target"`
	Metric string `mapstructure:"metric" yaml:"metric"`
	// Delimiter for input CSV; empty picks by file extension.
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`

	LogPath string `mapstructure:"log_path" yaml:"log_path"`
	LogFile string `mapstructure:"log_file" yaml:"log_file"`

	PlotsDir         string  `mapstructure:"plots_dir" yaml:"plots_dir"`
	HeatmapCMap      string  `mapstructure:"heatmap_cmap" yaml:"heatmap_cmap"`
	HeatmapSize      float64 `mapstructure:"heatmap_size" yaml:"heatmap_size"`
	HeatmapFontScale float64 `mapstructure:"heatmap_font_scale" yaml:"heatmap_font_scale"`
	HeatmapDP        int     `mapstructure:"heatmap_dp" yaml:"heatmap_dp"`

	CVFolds int   `mapstructure:"cv_folds" yaml:"cv_folds"`
	Seed    int64 `mapstructure:"seed" yaml:"seed"`
}

// Keys lists the settable configuration keys in display order.
var Keys = []string{
	"target", "metric", "delimiter", "log_path", "log_file", "plots_dir",
	"heatmap_cmap", "heatmap_size", "heatmap_font_scale", "heatmap_dp", "cv_folds", "seed",
}

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".encodekit"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.encodekit/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := defaultDir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "config.yaml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("ENCODEKIT")
	v.AutomaticEnv()

	v.SetDefault("target", "salary")
	v.SetDefault("metric", "mean")
	v.SetDefault("delimiter", "")
	v.SetDefault("log_path", "model_log.csv")
	v.SetDefault("log_file", "")
	v.SetDefault("plots_dir", "plots")
	v.SetDefault("heatmap_cmap", "coolwarm")
	v.SetDefault("heatmap_size", 12.0)
	v.SetDefault("heatmap_font_scale", 1.0)
	v.SetDefault("heatmap_dp", 2)
	v.SetDefault("cv_folds", 5)
	v.SetDefault("seed", 0)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := defaultDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Set assigns one key from its string form.
func (c *Global) Set(key, val string) error {
	switch key {
	case "target":
		c.Target = val
	case "metric":
		c.Metric = strings.ToLower(val)
	case "delimiter":
		if len([]rune(val)) > 1 && val != `\t` {
			return fmt.Errorf("delimiter must be a single character")
		}
		c.Delimiter = val
	case "log_path":
		c.LogPath = val
	case "log_file":
		c.LogFile = val
	case "plots_dir":
		c.PlotsDir = val
	case "heatmap_cmap":
		c.HeatmapCMap = val
	case "heatmap_size", "heatmap_font_scale":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("invalid %s: %s", key, val)
		}
		if key == "heatmap_size" {
			c.HeatmapSize = f
		} else {
			c.HeatmapFontScale = f
		}
	case "heatmap_dp", "cv_folds":
		n, err := strconv.Atoi(val)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid %s: %s", key, val)
		}
		if key == "heatmap_dp" {
			c.HeatmapDP = n
		} else {
			if n < 2 {
				return fmt.Errorf("cv_folds must be at least 2")
			}
			c.CVFolds = n
		}
	case "seed":
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid seed: %s", val)
		}
		c.Seed = n
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

// Get returns the string form of one key.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "target":
		return c.Target, nil
	case "metric":
		return c.Metric, nil
	case "delimiter":
		return c.Delimiter, nil
	case "log_path":
		return c.LogPath, nil
	case "log_file":
		return c.LogFile, nil
	case "plots_dir":
		return c.PlotsDir, nil
	case "heatmap_cmap":
		return c.HeatmapCMap, nil
	case "heatmap_size":
		return strconv.FormatFloat(c.HeatmapSize, 'g', -1, 64), nil
	case "heatmap_font_scale":
		return strconv.FormatFloat(c.HeatmapFontScale, 'g', -1, 64), nil
	case "heatmap_dp":
		return strconv.Itoa(c.HeatmapDP), nil
	case "cv_folds":
		return strconv.Itoa(c.CVFolds), nil
	case "seed":
		return strconv.FormatInt(c.Seed, 10), nil
	}
	return "", fmt.Errorf("unknown key: %s", key)
}

// DelimiterRune returns the configured delimiter, or 0 to pick by extension.
func (c *Global) DelimiterRune() rune {
	switch c.Delimiter {
	case "":
		return 0
	case `\t`, "tab":
		return '\t'
	}
	return []rune(c.Delimiter)[0]
}
