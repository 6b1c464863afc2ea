package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
)

func Comma(value int64) string {
	str := strconv.FormatInt(value, 10)
	sign := ""
	if value < 0 {
		sign, str = "-", str[1:]
	}
	result := ""
	count := 0
	for i := len(str) - 1; i >= 0; i-- {
		if count > 0 && count%3 == 0 {
			result = "," + result
		}
		result = string(str[i]) + result
		count++
	}
	return sign + result
}

// printSweepSummary reports the lowest and highest threshold rows so a run
// can be sanity-checked without opening the plots.
func printSweepSummary(w io.Writer, res *SweepResult) {
	if len(res.Thresholds) == 0 {
		return
	}
	last := len(res.Thresholds) - 1
	fmt.Fprintln(w)
	for _, i := range []int{0, last} {
		color.New(color.FgHiGreen).Fprintf(w, "Threshold %d: cases %.2f repeats / %.4f%%, controls %.2f repeats / %.4f%%\n",
			res.Thresholds[i],
			res.Cases.Repeats[i], res.Cases.Coverage[i],
			res.Controls.Repeats[i], res.Controls.Coverage[i])
		if last == 0 {
			break
		}
	}
}

func printPerGeneSummary(w io.Writer, res *PerGeneResult) {
	fmt.Fprintln(w)
	color.New(color.FgHiGreen).Fprintf(w, "Genes processed: %d cases, %d controls across %d thresholds\n",
		len(res.Cases), len(res.Controls), len(res.Thresholds))

	var top *GeneCurve
	peak, at := 0.0, 0
	for _, group := range [][]GeneCurve{res.Cases, res.Controls} {
		for i := range group {
			for j, r := range group[i].Repeats {
				if top == nil || r > peak {
					top, peak, at = &group[i], r, res.Thresholds[j]
				}
			}
		}
	}
	if top != nil {
		color.New(color.FgHiMagenta).Fprintf(w, "Most repeats: %s (%s at threshold %d)\n", top.Gene, Comma(int64(peak)), at)
	}
}

func printRuntimeSummary(w io.Writer, res *RuntimeResult) {
	var total time.Duration
	for _, d := range res.Times {
		total += d
	}
	fmt.Fprintln(w)
	color.New(color.FgHiGreen).Fprintf(w, "Sequences timed: %d\n", len(res.Sizes))
	color.New(color.FgHiMagenta).Fprintf(w, "Total finder time: %s\n", total.Round(time.Millisecond))
}

func printWritten(w io.Writer, paths ...string) {
	for _, p := range paths {
		color.New(color.FgHiMagenta).Fprintf(w, "Wrote %s\n", p)
	}
}
