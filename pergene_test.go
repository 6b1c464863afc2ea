package main

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerGeneSweep(t *testing.T) {
	files := []string{"c1", "c2", "k1", "k2", "unused"}
	labels := []string{"HTT", "FMR1", "ACTB", "GAPDH", "UNUSED"}
	finder := &stubFinder{run: func(inv Invocation) (Output, error) {
		require.Len(t, inv.Files, 1)
		gene := inv.Files[0]
		// Two summaries per run: the last one wins.
		stdout := fmt.Sprintf("# Repeats: 999\n%% Repeats of sequence: 99.0%%\n# Repeats: %d\n%% Repeats of sequence: %.4f%%\n",
			len(gene)*(50-inv.Threshold), float64(50-inv.Threshold)/100)
		return ParseOutput(stdout), nil
	}}

	cfg := SweepConfig{MaxPeriod: 50, Thresholds: Range{0, 50, 25}, Cases: 2, Controls: 2}
	var progress bytes.Buffer
	res, err := PerGeneSweep(context.Background(), finder, cfg, files, labels, 1, &progress)
	require.NoError(t, err)

	assert.Equal(t, "Processing HTT\nProcessing FMR1\nProcessing ACTB\nProcessing GAPDH\n", progress.String())
	assert.Equal(t, []int{0, 25, 50}, res.Thresholds)
	require.Len(t, res.Cases, 2)
	require.Len(t, res.Controls, 2)
	assert.Equal(t, "HTT", res.Cases[0].Gene)
	assert.Equal(t, "GAPDH", res.Controls[1].Gene)

	// At threshold 50 both values are zero and get clamped for the log axis.
	assert.Equal(t, []float64{100, 50, minRepeats}, res.Cases[0].Repeats)
	assert.InDeltaSlice(t, []float64{0.5, 0.25, minCoverage}, res.Cases[0].Coverage, 1e-9)

	require.Len(t, finder.calls, 12)
	for _, c := range finder.calls {
		assert.Equal(t, 50, c.MaxPeriod)
		assert.NotEqual(t, "unused", c.Files[0])
	}
}

func TestPerGeneSweepNeedsEnoughGenes(t *testing.T) {
	files := make([]string, 19)
	for i := range files {
		files[i] = fmt.Sprintf("g%d", i)
	}
	finder := &stubFinder{}

	_, err := PerGeneSweep(context.Background(), finder, DefaultConfig().PerGene, files, files, 1, &bytes.Buffer{})
	assert.EqualError(t, err, "need at least 20 genes, got 19")
	assert.Empty(t, finder.calls)
}

func TestPerGeneSweepLabelMismatch(t *testing.T) {
	_, err := PerGeneSweep(context.Background(), &stubFinder{}, DefaultConfig().PerGene, []string{"a", "b"}, []string{"a"}, 1, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestPerGeneSweepParallel(t *testing.T) {
	files := []string{"a", "bb", "ccc", "dddd"}
	finder := func() *stubFinder {
		return &stubFinder{run: func(inv Invocation) (Output, error) {
			return ParseOutput(fmt.Sprintf("# Repeats: %d\n", len(inv.Files[0])*inv.Threshold)), nil
		}}
	}
	cfg := SweepConfig{MaxPeriod: 50, Thresholds: Range{0, 50, 5}, Cases: 2, Controls: 2}

	serial, err := PerGeneSweep(context.Background(), finder(), cfg, files, files, 1, &bytes.Buffer{})
	require.NoError(t, err)
	parallel, err := PerGeneSweep(context.Background(), finder(), cfg, files, files, 6, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, serial, parallel)
	assert.Equal(t, float64(4*50), parallel.Controls[1].Repeats[10])
}

func TestPerGeneSweepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	files := []string{"a", "b"}
	finder := &stubFinder{run: func(Invocation) (Output, error) { return Output{}, nil }}
	cfg := SweepConfig{MaxPeriod: 50, Thresholds: Range{0, 10, 5}, Cases: 1, Controls: 1}

	res, err := PerGeneSweep(ctx, finder, cfg, files, files, 2, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
	assert.Empty(t, finder.calls)
}
