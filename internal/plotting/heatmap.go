package plotting

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/KaramelBytes/encodekit/internal/frame"
	"github.com/KaramelBytes/encodekit/internal/utils"
)

// HeatmapStyle carries display settings for a correlation heatmap.
type HeatmapStyle struct {
	// CMap names the color map: coolwarm, heat, or any ColorBrewer palette (e.g. RdBu).
	CMap string
	// Size is the width and height of the square figure in inches.
	Size float64
	// FontScale multiplies the base font sizes.
	FontScale float64
	// DP is the number of decimal places in cell annotations.
	DP    int
	Title string
}

// DefaultHeatmapStyle returns the settings used when none are configured.
func DefaultHeatmapStyle() HeatmapStyle {
	return HeatmapStyle{CMap: "coolwarm", Size: 12, FontScale: 1, DP: 2}
}

// HeatmapSink receives correlation matrices for rendering.
type HeatmapSink interface {
	Heatmap(m *frame.CorrMatrix, style HeatmapStyle) error
}

// FileSink renders heatmaps to image files under Dir. The format follows Ext
// (".png" when empty). Paths of written files are appended to Written.
type FileSink struct {
	Dir     string
	Ext     string
	Written []string
}

// Heatmap renders m as a lower-triangular annotated heatmap centered at zero.
// The diagonal and upper triangle are masked because they mirror the lower one.
func (s *FileSink) Heatmap(m *frame.CorrMatrix, style HeatmapStyle) error {
	p, err := HeatmapPlot(m, style)
	if err != nil {
		return err
	}
	ext := s.Ext
	if ext == "" {
		ext = ".png"
	}
	base := slug(style.Title)
	if base == "" {
		base = "heatmap"
	}
	path := filepath.Join(s.Dir, fmt.Sprintf("%s-%s%s", base, uuid.NewString()[:8], ext))
	if err := utils.EnsureDir(path); err != nil {
		return err
	}
	side := vg.Length(style.Size) * vg.Inch
	if side <= 0 {
		side = 12 * vg.Inch
	}
	if err := p.Save(side, side, path); err != nil {
		return fmt.Errorf("save heatmap: %w", err)
	}
	s.Written = append(s.Written, path)
	return nil
}

// HeatmapPlot builds the heatmap figure without writing it.
func HeatmapPlot(m *frame.CorrMatrix, style HeatmapStyle) (*plot.Plot, error) {
	if m == nil || len(m.Columns) < 2 {
		return nil, errors.New("heatmap needs at least two columns")
	}
	pal, err := resolvePalette(style.CMap)
	if err != nil {
		return nil, err
	}
	scale := style.FontScale
	if scale <= 0 {
		scale = 1
	}
	dp := style.DP
	if dp < 0 {
		dp = 2
	}

	g := lowerTriangle{m: m}
	hm := plotter.NewHeatMap(g, pal)
	hm.Min, hm.Max = -1, 1
	hm.NaN = color.Transparent

	n := len(m.Columns)
	var xys plotter.XYs
	var texts []string
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			z := g.Z(c, r)
			if math.IsNaN(z) {
				continue
			}
			xys = append(xys, plotter.XY{X: g.X(c), Y: g.Y(r)})
			texts = append(texts, fmt.Sprintf("%.*f", dp, z))
		}
	}

	p := plot.New()
	p.Title.Text = style.Title
	p.Title.TextStyle.Font.Size = vg.Points(14 * scale)
	p.Add(hm)
	if len(xys) > 0 {
		labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
		if err != nil {
			return nil, fmt.Errorf("annotate heatmap: %w", err)
		}
		for i := range labels.TextStyle {
			labels.TextStyle[i].Font.Size = vg.Points(8 * scale)
			labels.TextStyle[i].XAlign = draw.XCenter
			labels.TextStyle[i].YAlign = draw.YCenter
		}
		p.Add(labels)
	}
	rev := make([]string, n)
	for i, c := range m.Columns {
		rev[n-1-i] = c
	}
	p.NominalX(m.Columns...)
	p.NominalY(rev...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.Font.Size = vg.Points(9 * scale)
	p.Y.Tick.Label.Font.Size = vg.Points(9 * scale)
	return p, nil
}

// lowerTriangle exposes a correlation matrix as a heatmap grid with row 0 at
// the top. Cells on or above the diagonal are NaN.
type lowerTriangle struct{ m *frame.CorrMatrix }

func (g lowerTriangle) Dims() (c, r int) {
	n := len(g.m.Columns)
	return n, n
}

func (g lowerTriangle) Z(c, r int) float64 {
	i := len(g.m.Columns) - 1 - r
	if c >= i {
		return math.NaN()
	}
	return g.m.Values[i][c]
}

func (g lowerTriangle) X(c int) float64 { return float64(c) }
func (g lowerTriangle) Y(r int) float64 { return float64(r) }

func resolvePalette(name string) (palette.Palette, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "coolwarm":
		cm := moreland.SmoothBlueRed()
		cm.SetMin(-1)
		cm.SetMax(1)
		return cm.Palette(255), nil
	case "heat":
		return palette.Heat(255, 1), nil
	}
	p, err := brewer.GetPalette(brewer.TypeAny, name, 11)
	if err != nil {
		return nil, fmt.Errorf("unknown color map %q: %w", name, err)
	}
	return p, nil
}

func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
