package main

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"
)

// GroupSeries is the per-threshold average for one gene group.
type GroupSeries struct {
	Repeats  []float64
	Coverage []float64
}

type SweepResult struct {
	Thresholds []int
	Cases      GroupSeries
	Controls   GroupSeries
}

// ThresholdSweep runs the finder once per group at every threshold and
// averages the values it reports across the group's files.
func ThresholdSweep(ctx context.Context, finder Finder, cfg SweepConfig, files []string, jobs int, progress io.Writer) (*SweepResult, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files")
	}
	caseFiles, controlFiles := HeadTailGroups(files, cfg.Cases, cfg.Controls)
	thresholds := cfg.Thresholds.Values()

	res := &SweepResult{
		Thresholds: thresholds,
		Cases:      newGroupSeries(len(thresholds)),
		Controls:   newGroupSeries(len(thresholds)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, t := range thresholds {
		if gctx.Err() != nil {
			break
		}
		fmt.Fprintf(progress, "Threshold %d\n", t)
		for _, grp := range []struct {
			files  []string
			series GroupSeries
		}{{caseFiles, res.Cases}, {controlFiles, res.Controls}} {
			i, t, grp := i, t, grp
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				out, err := finder.Run(gctx, Invocation{Files: grp.files, MaxPeriod: cfg.MaxPeriod, Threshold: t})
				if err != nil {
					return fmt.Errorf("threshold %d: %w", t, err)
				}
				grp.series.Repeats[i] = out.MeanRepeats()
				grp.series.Coverage[i] = out.MeanCoverage()
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
	return res, nil
}

func newGroupSeries(n int) GroupSeries {
	return GroupSeries{Repeats: make([]float64, n), Coverage: make([]float64, n)}
}
