package main

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"
)

var (
	repeatRe  = regexp.MustCompile(`# Repeats:\s+(\d+)`)
	percentRe = regexp.MustCompile(`% Repeats of sequence:\s+([\d.]+)%`)
	fileRe    = regexp.MustCompile(`^File:\s+(.+)$`)
	elapsedRe = regexp.MustCompile(`Total Execution Time:\s+([\d.]+) seconds`)
)

// FileSummary is one block of the final summary printed by the finder.
type FileSummary struct {
	File     string
	Repeats  int
	Coverage float64
}

// Output holds everything scraped from one run of the finder.
type Output struct {
	Repeats  []int
	Coverage []float64
	Files    []FileSummary
	// Elapsed is the tool's self-reported execution time in seconds, or 0.
	Elapsed float64
}

// ParseOutput scans stdout line by line. Lines that match neither pattern are
// ignored; a value that fails to parse is skipped the same way.
func ParseOutput(stdout string) Output {
	var out Output
	var cur *FileSummary

	scanner := bufio.NewScanner(strings.NewReader(stdout))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")

		if m := fileRe.FindStringSubmatch(line); m != nil {
			out.Files = append(out.Files, FileSummary{File: strings.TrimSpace(m[1])})
			cur = &out.Files[len(out.Files)-1]
			continue
		}
		if m := repeatRe.FindStringSubmatch(line); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				out.Repeats = append(out.Repeats, n)
				if cur != nil {
					cur.Repeats = n
				}
			}
		}
		if m := percentRe.FindStringSubmatch(line); m != nil {
			if p, err := strconv.ParseFloat(m[1], 64); err == nil {
				out.Coverage = append(out.Coverage, p)
				if cur != nil {
					cur.Coverage = p
				}
			}
		}
		if m := elapsedRe.FindStringSubmatch(line); m != nil {
			if s, err := strconv.ParseFloat(m[1], 64); err == nil {
				out.Elapsed = s
			}
		}
	}
	return out
}

func (o Output) MeanRepeats() float64 {
	if len(o.Repeats) == 0 {
		return 0
	}
	total := 0
	for _, r := range o.Repeats {
		total += r
	}
	return float64(total) / float64(len(o.Repeats))
}

func (o Output) MeanCoverage() float64 {
	return mean(o.Coverage)
}

// LastRepeats returns the final repeat count reported, or 0 if none was.
func (o Output) LastRepeats() int {
	if len(o.Repeats) == 0 {
		return 0
	}
	return o.Repeats[len(o.Repeats)-1]
}

func (o Output) LastCoverage() float64 {
	if len(o.Coverage) == 0 {
		return 0
	}
	return o.Coverage[len(o.Coverage)-1]
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}
