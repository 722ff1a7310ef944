package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/encodekit/internal/encoding"
	"github.com/KaramelBytes/encodekit/internal/frame"
	"github.com/KaramelBytes/encodekit/internal/plotting"
)

// encoderFlags are shared by every command that builds an encoder.
type encoderFlags struct {
	kind     string
	metric   string
	features []string
	exclude  []string
	unseen   string
}

func (e *encoderFlags) register(cmd *cobra.Command, defaultKind string) {
	fs := cmd.Flags()
	fs.StringVarP(&e.kind, "encoder", "e", defaultKind, "encoder: ordinal|target|dummy|none")
	fs.StringVar(&e.metric, "metric", "", "group metric: mean|median|min|max|sum|std (default from config)")
	fs.StringSliceVar(&e.features, "features", nil, "columns to encode (default: all categorical)")
	fs.StringSliceVar(&e.exclude, "exclude", nil, "columns to drop before encoding")
	fs.StringVar(&e.unseen, "unseen", "error", "unseen categories in group encoders: error|nan")
}

// config returns the encoder configuration, or nil for "none".
func (e *encoderFlags) config() (*encoding.Config, error) {
	if k := strings.ToLower(strings.TrimSpace(e.kind)); k == "" || k == "none" {
		return nil, nil
	}
	kind, err := encoding.ParseKind(e.kind)
	if err != nil {
		return nil, err
	}
	opts := []encoding.Option{encoding.WithFeatures(e.features...), encoding.WithExclude(e.exclude...)}
	switch strings.ToLower(e.unseen) {
	case "", "error":
	case "nan":
		opts = append(opts, encoding.WithUnseen(encoding.UnseenNaN))
	default:
		return nil, fmt.Errorf("unsupported --unseen: %s (use error|nan)", e.unseen)
	}
	var c encoding.Config
	if kind == encoding.Dummy {
		c = encoding.NewDummy(opts...)
		return &c, nil
	}
	name := e.metric
	if name == "" {
		name = cfg.Metric
	}
	m, err := encoding.ParseMetric(name)
	if err != nil {
		return nil, err
	}
	if kind == encoding.Ordinal {
		c = encoding.NewOrdinal(m, cfg.Target, opts...)
	} else {
		c = encoding.NewTarget(m, cfg.Target, opts...)
	}
	return &c, nil
}

func readDataset(path string) (*frame.Dataset, error) {
	return frame.ReadCSV(path, frame.Options{Delimiter: cfg.DelimiterRune(), IndexColumn: indexColumn})
}

// parsePerm reads a comma-separated column permutation such as "2,0,1".
func parsePerm(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid --perm entry %q", p)
		}
		out[i] = n
	}
	return out, nil
}

func heatmapStyle(title string) plotting.HeatmapStyle {
	return plotting.HeatmapStyle{
		CMap:      cfg.HeatmapCMap,
		Size:      cfg.HeatmapSize,
		FontScale: cfg.HeatmapFontScale,
		DP:        cfg.HeatmapDP,
		Title:     title,
	}
}
