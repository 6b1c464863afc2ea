package main

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Series is one labelled line. An empty label keeps it out of the legend.
type Series struct {
	Label string
	X     []float64
	Y     []float64
}

func (s Series) points() (plotter.XYs, error) {
	if len(s.X) != len(s.Y) {
		return nil, fmt.Errorf("series %q: %d x values but %d y values", s.Label, len(s.X), len(s.Y))
	}
	pts := make(plotter.XYs, len(s.X))
	for i := range s.X {
		pts[i].X = s.X[i]
		pts[i].Y = s.Y[i]
	}
	return pts, nil
}

// Figure describes the page a chart is drawn on.
type Figure struct {
	Title  string
	XLabel string
	YLabel string
	Width  vg.Length
	Height vg.Length
}

// Panel is one subplot of a PanelChart.
type Panel struct {
	Title  string
	Series []Series
}

const (
	lineAlpha   = 0.8
	titleHeight = 28 // points
)

// SaveLineChart draws every series as a line with point markers on linear
// axes and writes a PNG.
func SaveLineChart(path string, fig Figure, series []Series, dpi int) error {
	p := newPlot(fig.Title, fig.XLabel, fig.YLabel)

	var vs []interface{}
	for _, s := range series {
		pts, err := s.points()
		if err != nil {
			return err
		}
		if s.Label != "" {
			vs = append(vs, s.Label)
		}
		vs = append(vs, pts)
	}
	if err := plotutil.AddLinePoints(p, vs...); err != nil {
		return err
	}
	p.Legend.Top = true
	p.Legend.Left = true
	ensureRange(&p.X, 0, 1)
	ensureRange(&p.Y, 0, 1)

	return savePNG(path, fig.Width, fig.Height, dpi, func(dc draw.Canvas) {
		p.Draw(dc)
	})
}

// SavePanelChart lays the panels out side by side on a shared log-scale y
// axis with fig.Title above them. Only the first panel gets the y label.
func SavePanelChart(path string, fig Figure, panels []Panel, dpi int) error {
	plots := make([]*plot.Plot, len(panels))
	for i, panel := range panels {
		ylabel := ""
		if i == 0 {
			ylabel = fig.YLabel
		}
		p := newPlot(panel.Title, fig.XLabel, ylabel)
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}

		for k, s := range panel.Series {
			pts, err := s.points()
			if err != nil {
				return err
			}
			for _, pt := range pts {
				if pt.Y <= 0 {
					return fmt.Errorf("panel %q: non-positive value %g on log axis", panel.Title, pt.Y)
				}
			}
			l, err := plotter.NewLine(pts)
			if err != nil {
				return err
			}
			l.Color = faded(plotutil.Color(k), lineAlpha)
			l.Width = vg.Points(1.5)
			p.Add(l)
		}
		plots[i] = p
	}
	shareY(plots)
	for _, p := range plots {
		ensureRange(&p.X, 0, 1)
	}

	return savePNG(path, fig.Width, fig.Height, dpi, func(dc draw.Canvas) {
		sty := text.Style{
			Color:   color.Black,
			Font:    font.From(plot.DefaultFont, vg.Points(14)),
			XAlign:  text.XCenter,
			YAlign:  text.YTop,
			Handler: plot.DefaultTextHandler,
		}
		dc.FillText(sty, vg.Point{X: (dc.Min.X + dc.Max.X) / 2, Y: dc.Max.Y - vg.Points(6)}, fig.Title)

		body := draw.Crop(dc, 0, 0, 0, -vg.Points(titleHeight))
		tiles := draw.Tiles{
			Rows:      1,
			Cols:      len(plots),
			PadX:      vg.Millimeter * 4,
			PadLeft:   vg.Millimeter * 2,
			PadRight:  vg.Millimeter * 2,
			PadBottom: vg.Millimeter * 2,
		}
		canvases := plot.Align([][]*plot.Plot{plots}, tiles, body)
		for i, p := range plots {
			p.Draw(canvases[0][i])
		}
	})
}

func newPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	return p
}

// shareY gives every plot the union of their y ranges. Axes with no data
// fall back to one decade so the log scale stays defined.
func shareY(plots []*plot.Plot) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range plots {
		if p.Y.Min <= p.Y.Max {
			lo = math.Min(lo, p.Y.Min)
			hi = math.Max(hi, p.Y.Max)
		}
	}
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		lo, hi = 1, 10
	}
	if hi <= lo {
		hi = lo * 10
	}
	for _, p := range plots {
		p.Y.Min, p.Y.Max = lo, hi
	}
}

// ensureRange gives an axis that received no data a usable range.
func ensureRange(ax *plot.Axis, lo, hi float64) {
	if ax.Min > ax.Max {
		ax.Min, ax.Max = lo, hi
	}
}

func faded(c color.Color, alpha float64) color.Color {
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	nc.A = uint8(alpha * 255)
	return nc
}

func savePNG(path string, w, h vg.Length, dpi int, render func(draw.Canvas)) error {
	img := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi))
	render(draw.New(img))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func intsToFloats(values []int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}
