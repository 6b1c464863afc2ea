package main

import (
	"context"
	"fmt"
	"io"
	"math"

	"golang.org/x/sync/errgroup"
)

// Floors applied before plotting on a log axis.
const (
	minRepeats  = 1
	minCoverage = 1e-3
)

// GeneCurve is one gene's response across the threshold sweep.
type GeneCurve struct {
	Gene     string
	Repeats  []float64
	Coverage []float64
}

type PerGeneResult struct {
	Thresholds []int
	Cases      []GeneCurve
	Controls   []GeneCurve
}

// PerGeneSweep runs the finder on each gene alone at every threshold. labels
// are the paths shown in progress output and must be index-aligned with
// files, which may point at staged copies.
func PerGeneSweep(ctx context.Context, finder Finder, cfg SweepConfig, files, labels []string, jobs int, progress io.Writer) (*PerGeneResult, error) {
	if len(labels) != len(files) {
		return nil, fmt.Errorf("got %d labels for %d files", len(labels), len(files))
	}
	caseFiles, controlFiles, err := ContiguousGroups(files, cfg.Cases, cfg.Controls)
	if err != nil {
		return nil, err
	}
	genes := append(append([]string{}, caseFiles...), controlFiles...)
	thresholds := cfg.Thresholds.Values()

	curves := make([]GeneCurve, len(genes))
	for i := range genes {
		curves[i] = GeneCurve{
			Gene:     GeneLabel(labels[i]),
			Repeats:  make([]float64, len(thresholds)),
			Coverage: make([]float64, len(thresholds)),
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, gene := range genes {
		if gctx.Err() != nil {
			break
		}
		fmt.Fprintf(progress, "Processing %s\n", labels[i])
		for j, t := range thresholds {
			i, j, t, gene := i, j, t, gene
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				out, err := finder.Run(gctx, Invocation{Files: []string{gene}, MaxPeriod: cfg.MaxPeriod, Threshold: t})
				if err != nil {
					return fmt.Errorf("%s at threshold %d: %w", labels[i], t, err)
				}
				curves[i].Repeats[j] = math.Max(float64(out.LastRepeats()), minRepeats)
				curves[i].Coverage[j] = math.Max(out.LastCoverage(), minCoverage)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &PerGeneResult{
		Thresholds: thresholds,
		Cases:      curves[:len(caseFiles)],
		Controls:   curves[len(caseFiles):],
	}, nil
}
