package plotting

import (
	"fmt"
	"math"
	"os"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/KaramelBytes/encodekit/internal/frame"
	"github.com/KaramelBytes/encodekit/internal/utils"
)

// Figure is a grid of aligned plots saved as one PNG image.
type Figure struct {
	Plots  [][]*plot.Plot
	Width  vg.Length
	Height vg.Length
}

// Save renders the figure to a PNG file.
func (f *Figure) Save(path string) error {
	rows := len(f.Plots)
	if rows == 0 {
		return fmt.Errorf("empty figure")
	}
	img := vgimg.New(f.Width, f.Height)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: rows, Cols: len(f.Plots[0]),
		PadX: vg.Millimeter * 4, PadY: vg.Millimeter * 4,
		PadTop: vg.Millimeter * 2, PadBottom: vg.Millimeter * 2,
		PadLeft: vg.Millimeter * 2, PadRight: vg.Millimeter * 2,
	}
	canvases := plot.Align(f.Plots, tiles, dc)
	for i := range f.Plots {
		for j, p := range f.Plots[i] {
			if p != nil {
				p.Draw(canvases[i][j])
			}
		}
	}
	if err := utils.EnsureDir(path); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create figure: %w", err)
	}
	defer out.Close()
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(out); err != nil {
		return fmt.Errorf("write figure: %w", err)
	}
	return nil
}

// TargetFigure stacks a box plot above a histogram of the target column.
func TargetFigure(ds *frame.Dataset, target string, bins int, label string) (*Figure, error) {
	vals, err := finite(ds, target)
	if err != nil {
		return nil, err
	}
	if bins <= 0 {
		bins = 20
	}
	if label == "" {
		label = target
	}
	box := plot.New()
	b, err := plotter.NewBoxPlot(vg.Points(40), 0, plotter.Values(vals))
	if err != nil {
		return nil, fmt.Errorf("box plot: %w", err)
	}
	box.Add(b)
	box.HideY()
	box.X.Label.Text = label
	b.Horizontal = true

	hist := plot.New()
	h, err := plotter.NewHist(plotter.Values(vals), bins)
	if err != nil {
		return nil, fmt.Errorf("histogram: %w", err)
	}
	hist.Add(h)
	hist.X.Label.Text = label
	hist.Y.Label.Text = "Count"
	return &Figure{Plots: [][]*plot.Plot{{box}, {hist}}, Width: 16 * vg.Inch, Height: 16 * vg.Inch}, nil
}

// CategoricalFigure shows category counts next to per-category box plots of
// the target, both ordered by ascending target median.
func CategoricalFigure(ds *frame.Dataset, feature, target string) (*Figure, error) {
	groups, err := ds.GroupValues(feature, target)
	if err != nil {
		return nil, err
	}
	meds := make(map[string]float64, len(groups))
	for _, g := range groups {
		s := append([]float64(nil), g.Values...)
		sort.Float64s(s)
		meds[g.Key] = stat.Quantile(0.5, stat.LinInterp, s, nil)
	}
	sort.SliceStable(groups, func(i, j int) bool { return meds[groups[i].Key] < meds[groups[j].Key] })
	names := make([]string, len(groups))
	counts := make(plotter.Values, len(groups))
	for i, g := range groups {
		names[i] = g.Key
		counts[i] = float64(len(g.Values))
	}

	countPlot := plot.New()
	bars, err := plotter.NewBarChart(counts, vg.Points(18))
	if err != nil {
		return nil, fmt.Errorf("count plot: %w", err)
	}
	bars.Color = plotutil.Color(0)
	countPlot.Add(bars)
	countPlot.NominalX(names...)
	countPlot.Y.Label.Text = "Count"

	boxPlot := plot.New()
	for i, g := range groups {
		b, err := plotter.NewBoxPlot(vg.Points(18), float64(i), plotter.Values(g.Values))
		if err != nil {
			return nil, fmt.Errorf("box plot %s: %w", g.Key, err)
		}
		boxPlot.Add(b)
	}
	boxPlot.NominalX(names...)
	boxPlot.Y.Label.Text = target

	rot := math.Pi / 5
	if len(names) > 8 {
		rot = math.Pi / 3
	}
	for _, p := range []*plot.Plot{countPlot, boxPlot} {
		p.X.Label.Text = feature
		p.X.Tick.Label.Rotation = rot
		p.X.Tick.Label.XAlign = draw.XRight
	}
	return &Figure{Plots: [][]*plot.Plot{{countPlot, boxPlot}}, Width: 21 * vg.Inch, Height: 7 * vg.Inch}, nil
}

// NumericalFigure shows a histogram of a numeric feature next to a scatter
// of the target against it, overlaid with the mean target per feature value.
func NumericalFigure(ds *frame.Dataset, feature, target, targetUnit string) (*Figure, error) {
	xs, err := ds.Floats(feature)
	if err != nil {
		return nil, err
	}
	ys, err := ds.Floats(target)
	if err != nil {
		return nil, err
	}
	fv, _ := finite(ds, feature)
	hist := plot.New()
	h, err := plotter.NewHist(plotter.Values(fv), distinctBins(fv))
	if err != nil {
		return nil, fmt.Errorf("histogram: %w", err)
	}
	hist.Add(h)
	hist.X.Label.Text = feature
	hist.Y.Label.Text = "Count"

	pts := make(plotter.XYs, 0, len(xs))
	sums := map[float64][2]float64{}
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		pts = append(pts, plotter.XY{X: xs[i], Y: ys[i]})
		s := sums[xs[i]]
		sums[xs[i]] = [2]float64{s[0] + ys[i], s[1] + 1}
	}
	keys := make([]float64, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Float64s(keys)
	mean := make(plotter.XYs, len(keys))
	for i, k := range keys {
		mean[i] = plotter.XY{X: k, Y: sums[k][0] / sums[k][1]}
	}

	sc := plot.New()
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("scatter: %w", err)
	}
	scatter.GlyphStyle.Radius = vg.Points(1)
	sc.Add(scatter)
	if len(mean) > 0 {
		line, err := plotter.NewLine(mean)
		if err != nil {
			return nil, fmt.Errorf("mean line: %w", err)
		}
		line.Color = plotutil.Color(2)
		line.Width = vg.Points(2)
		sc.Add(line)
		sc.Legend.Add(fmt.Sprintf("mean %s/%s", target, feature), line)
	}
	sc.X.Label.Text = feature
	sc.Y.Label.Text = target
	if targetUnit != "" {
		sc.Y.Label.Text = fmt.Sprintf("%s / %s", target, targetUnit)
	}
	return &Figure{Plots: [][]*plot.Plot{{hist, sc}}, Width: 21 * vg.Inch, Height: 7 * vg.Inch}, nil
}

// CategoricalCorrelationFigure scores every category of feature with
// groupFunc, then plots that score against the mean target of the category
// with a least-squares fit line.
func CategoricalCorrelationFigure(ds *frame.Dataset, feature, target string, groupFunc func(*frame.Dataset) float64, xLabel, yLabel string) (*Figure, error) {
	col, err := ds.Column(feature)
	if err != nil {
		return nil, err
	}
	tv, err := ds.Floats(target)
	if err != nil {
		return nil, err
	}
	rows := map[string][]int{}
	var order []string
	for i, l := range col.Strings() {
		if _, ok := rows[l]; !ok {
			order = append(order, l)
		}
		rows[l] = append(rows[l], i)
	}
	xs := make([]float64, len(order))
	ys := make([]float64, len(order))
	pts := make(plotter.XYs, len(order))
	for i, k := range order {
		xs[i] = groupFunc(ds.Rows(rows[k]))
		vals := make([]float64, len(rows[k]))
		for j, r := range rows[k] {
			vals[j] = tv[r]
		}
		ys[i] = stat.Mean(vals, nil)
		pts[i] = plotter.XY{X: xs[i], Y: ys[i]}
	}

	p := plot.New()
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("scatter: %w", err)
	}
	p.Add(sc)
	if len(xs) >= 2 {
		alpha, beta := stat.LinearRegression(xs, ys, nil, false)
		fit := plotter.NewFunction(func(x float64) float64 { return alpha + beta*x })
		fit.Color = plotutil.Color(1)
		p.Add(fit)
	}
	if xLabel == "" {
		xLabel = feature
	}
	if yLabel == "" {
		yLabel = "mean " + target
	}
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	return &Figure{Plots: [][]*plot.Plot{{p}}, Width: 12 * vg.Inch, Height: 12 * vg.Inch}, nil
}

func finite(ds *frame.Dataset, name string) ([]float64, error) {
	v, err := ds.Floats(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, 0, len(v))
	for _, x := range v {
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			out = append(out, x)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("column %q has no finite values", name)
	}
	return out, nil
}

// distinctBins gives one bin per distinct value for small integer-like
// columns and 20 bins otherwise.
func distinctBins(v []float64) int {
	seen := map[float64]bool{}
	for _, x := range v {
		seen[x] = true
		if len(seen) > 50 {
			return 20
		}
	}
	if len(seen) < 1 {
		return 1
	}
	return len(seen)
}
