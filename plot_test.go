package main

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"
)

func decodePNG(t *testing.T, path string) (width, height int) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}

func TestSaveLineChartHonoursDPI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "line.png")
	fig := Figure{Title: "t", XLabel: "x", YLabel: "y", Width: 2 * vg.Inch, Height: 1 * vg.Inch}
	err := SaveLineChart(path, fig, []Series{
		{Label: "a", X: []float64{0, 1, 2}, Y: []float64{1, 4, 9}},
		{X: []float64{0, 1, 2}, Y: []float64{2, 2, 2}},
	}, 50)
	require.NoError(t, err)

	w, h := decodePNG(t, path)
	assert.Equal(t, 100, w)
	assert.Equal(t, 50, h)
}

func TestSaveLineChartMismatchedSeries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.png")
	err := SaveLineChart(path, singleFigure, []Series{{X: []float64{0, 1}, Y: []float64{1}}}, 30)
	assert.Error(t, err)
	assert.NoFileExists(t, path)
}

func TestSavePanelChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panels.png")
	fig := panelFigure
	fig.Title, fig.XLabel, fig.YLabel = "Repeat Count vs Threshold (Per Gene)", "Threshold", "# Repeats (log scale)"
	x := []float64{0, 25, 50}
	err := SavePanelChart(path, fig, []Panel{
		{Title: caseLabel, Series: []Series{{X: x, Y: []float64{300, 40, 1}}, {X: x, Y: []float64{90, 9, 1}}}},
		{Title: controlLabel, Series: []Series{{X: x, Y: []float64{5, 1, 1}}}},
	}, 30)
	require.NoError(t, err)

	w, h := decodePNG(t, path)
	assert.Equal(t, 360, w)
	assert.Equal(t, 150, h)
}

func TestSavePanelChartRejectsNonPositive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panels.png")
	err := SavePanelChart(path, panelFigure, []Panel{
		{Title: "p", Series: []Series{{X: []float64{0, 1}, Y: []float64{1, 0}}}},
	}, 30)
	assert.ErrorContains(t, err, "non-positive")
}

func TestSavePanelChartFlatAndEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flat.png")
	err := SavePanelChart(path, panelFigure, []Panel{
		{Title: "flat", Series: []Series{{X: []float64{0, 5}, Y: []float64{1, 1}}}},
		{Title: "empty"},
	}, 30)
	require.NoError(t, err)
	assertPNG(t, path)
}

func TestRenderFigures(t *testing.T) {
	dir := t.TempDir()

	sweep := &SweepResult{
		Thresholds: []int{0, 10},
		Cases:      GroupSeries{Repeats: []float64{4, 2}, Coverage: []float64{1.5, 0.5}},
		Controls:   GroupSeries{Repeats: []float64{1, 0}, Coverage: []float64{0.1, 0}},
	}
	written, err := RenderSweep(dir, 30, sweep)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "repeats_vs_threshold.png"),
		filepath.Join(dir, "coverage_vs_threshold.png"),
	}, written)

	gene := GeneCurve{Gene: "HTT", Repeats: []float64{10, 1}, Coverage: []float64{2, minCoverage}}
	written, err = RenderPerGene(dir, 30, &PerGeneResult{
		Thresholds: []int{0, 10},
		Cases:      []GeneCurve{gene},
		Controls:   []GeneCurve{gene},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "per_gene_repeats_vs_threshold_panels.png"),
		filepath.Join(dir, "per_gene_coverage_vs_threshold_panels.png"),
	}, written)

	written, err = RenderRuntime(dir, 30, &RuntimeResult{
		Sizes: []int{1000, 5000},
		Times: []time.Duration{10 * time.Millisecond, 40 * time.Millisecond},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "runtime_vs_size.png")}, written)

	for _, name := range []string{
		"repeats_vs_threshold.png",
		"coverage_vs_threshold.png",
		"per_gene_repeats_vs_threshold_panels.png",
		"per_gene_coverage_vs_threshold_panels.png",
		"runtime_vs_size.png",
	} {
		w, h := decodePNG(t, filepath.Join(dir, name))
		assert.Greater(t, w, h, name)
	}
}
