package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ReadFileList reads one path per line, trimming whitespace and dropping
// blank lines.
func ReadFileList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var files []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		files = append(files, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file list %s: %w", path, err)
	}
	return files, nil
}

// WriteFileList writes paths to a new temporary list file in dir (the system
// temp dir when empty) and returns its name. The caller owns the file.
func WriteFileList(dir string, paths []string) (string, error) {
	tmp, err := os.CreateTemp(dir, "trfbench-list-*.txt")
	if err != nil {
		return "", err
	}

	writer := bufio.NewWriter(tmp)
	for _, p := range paths {
		writer.WriteString(p + "\n")
	}
	if err := writer.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

// HeadTailGroups takes cases from the front of the list and controls from the
// back. Short lists yield overlapping groups.
func HeadTailGroups(files []string, cases, controls int) ([]string, []string) {
	cases = min(cases, len(files))
	controls = min(controls, len(files))
	return files[:cases], files[len(files)-controls:]
}

// ContiguousGroups takes cases then the controls that immediately follow.
func ContiguousGroups(files []string, cases, controls int) ([]string, []string, error) {
	if len(files) < cases+controls {
		return nil, nil, fmt.Errorf("need at least %d genes, got %d", cases+controls, len(files))
	}
	return files[:cases], files[cases : cases+controls], nil
}
