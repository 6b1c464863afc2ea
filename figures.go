package main

import (
	"path/filepath"

	"gonum.org/v1/plot/vg"
)

const (
	caseLabel    = "Repeat-expansion genes"
	controlLabel = "Control genes"
)

var (
	singleFigure = Figure{Width: 7 * vg.Inch, Height: 5 * vg.Inch}
	panelFigure  = Figure{Width: 12 * vg.Inch, Height: 5 * vg.Inch}
)

// RenderSweep writes the averaged repeat and coverage charts.
func RenderSweep(outDir string, dpi int, res *SweepResult) ([]string, error) {
	x := intsToFloats(res.Thresholds)
	charts := []struct {
		file, title, ylabel string
		cases, controls     []float64
	}{
		{"repeats_vs_threshold.png", "Repeat Count vs Threshold", "Average # Repeats per Gene", res.Cases.Repeats, res.Controls.Repeats},
		{"coverage_vs_threshold.png", "Repeat Coverage vs Threshold", "Average % Repeat Coverage", res.Cases.Coverage, res.Controls.Coverage},
	}

	var written []string
	for _, c := range charts {
		fig := singleFigure
		fig.Title, fig.XLabel, fig.YLabel = c.title, "Threshold", c.ylabel
		path := filepath.Join(outDir, c.file)
		err := SaveLineChart(path, fig, []Series{
			{Label: caseLabel, X: x, Y: c.cases},
			{Label: controlLabel, X: x, Y: c.controls},
		}, dpi)
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

// RenderPerGene writes the two-panel per-gene charts.
func RenderPerGene(outDir string, dpi int, res *PerGeneResult) ([]string, error) {
	x := intsToFloats(res.Thresholds)
	curves := func(genes []GeneCurve, coverage bool) []Series {
		out := make([]Series, len(genes))
		for i, g := range genes {
			y := g.Repeats
			if coverage {
				y = g.Coverage
			}
			out[i] = Series{X: x, Y: y}
		}
		return out
	}

	charts := []struct {
		file, title, ylabel string
		coverage            bool
	}{
		{"per_gene_repeats_vs_threshold_panels.png", "Repeat Count vs Threshold (Per Gene)", "# Repeats (log scale)", false},
		{"per_gene_coverage_vs_threshold_panels.png", "Repeat Coverage vs Threshold (Per Gene)", "% Repeat Coverage (log scale)", true},
	}

	var written []string
	for _, c := range charts {
		fig := panelFigure
		fig.Title, fig.XLabel, fig.YLabel = c.title, "Threshold", c.ylabel
		path := filepath.Join(outDir, c.file)
		err := SavePanelChart(path, fig, []Panel{
			{Title: caseLabel, Series: curves(res.Cases, c.coverage)},
			{Title: controlLabel, Series: curves(res.Controls, c.coverage)},
		}, dpi)
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func RenderRuntime(outDir string, dpi int, res *RuntimeResult) ([]string, error) {
	secs := make([]float64, len(res.Times))
	for i, d := range res.Times {
		secs[i] = d.Seconds()
	}
	fig := singleFigure
	fig.Title, fig.XLabel, fig.YLabel = "TRF Runtime vs Input Size", "Sequence length (bp)", "Runtime (seconds)"
	path := filepath.Join(outDir, "runtime_vs_size.png")
	if err := SaveLineChart(path, fig, []Series{{X: intsToFloats(res.Sizes), Y: secs}}, dpi); err != nil {
		return nil, err
	}
	return []string{path}, nil
}
