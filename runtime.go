package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"time"
)

type RuntimeResult struct {
	Sizes []int
	Times []time.Duration
}

// RuntimeBenchmark times the finder on random sequences of each size, written
// one at a time into dir. Runs are strictly sequential so they don't compete
// for the CPU.
func RuntimeBenchmark(ctx context.Context, finder Finder, cfg RuntimeConfig, dir string, progress io.Writer) (*RuntimeResult, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	res := &RuntimeResult{}
	for _, n := range cfg.Sizes {
		seqPath := filepath.Join(dir, fmt.Sprintf("seq_%d.fna", n))
		if err := WriteFNA(seqPath, "test", RandomSequence(rng, n)); err != nil {
			return nil, fmt.Errorf("writing %s: %w", seqPath, err)
		}

		elapsed, err := finder.Time(ctx, Invocation{
			Files:     []string{seqPath},
			MaxPeriod: cfg.MaxPeriod,
			Threshold: cfg.Threshold,
		})
		os.Remove(seqPath)
		if err != nil {
			return nil, fmt.Errorf("%d bp: %w", n, err)
		}

		fmt.Fprintf(progress, "%s bp → %.3f s\n", Comma(int64(n)), elapsed.Seconds())
		res.Sizes = append(res.Sizes, n)
		res.Times = append(res.Times, elapsed)
	}
	return res, nil
}
