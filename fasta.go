package main

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/pgzip"
)

const bases = "ACGT"

// RandomSequence returns n bases drawn uniformly from ACGT.
func RandomSequence(rng *rand.Rand, n int) string {
	seq := make([]byte, n)
	for i := range seq {
		seq[i] = bases[rng.Intn(len(bases))]
	}
	return string(seq)
}

// WriteFNA writes a single-record FASTA file with an unwrapped sequence line.
func WriteFNA(path, header, seq string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	writer := bufio.NewWriter(f)
	writer.WriteString(">" + header + "\n")
	writer.WriteString(seq + "\n")
	if err := writer.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// GeneLabel derives a short display name from a sequence file path.
func GeneLabel(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, ".gz")
	for _, ext := range []string{".fna", ".fasta", ".fa"} {
		if strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}

// PrepareInputs returns the paths to hand to the finder. Gzipped inputs are
// decompressed into dir, since the finder only reads plain FASTA; other
// paths pass through untouched. The result is index-aligned with files.
func PrepareInputs(dir string, files []string) ([]string, error) {
	out := make([]string, len(files))
	for i, f := range files {
		if !strings.HasSuffix(f, ".gz") {
			out[i] = f
			continue
		}
		dst := filepath.Join(dir, fmt.Sprintf("%03d_%s", i, strings.TrimSuffix(filepath.Base(f), ".gz")))
		if err := gunzipFile(f, dst); err != nil {
			return nil, fmt.Errorf("decompressing %s: %w", f, err)
		}
		out[i] = dst
	}
	return out, nil
}

func gunzipFile(src, dst string) error {
	inFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer inFile.Close()

	gr, err := pgzip.NewReader(inFile)
	if err != nil {
		return err
	}
	defer gr.Close()

	outFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(outFile, gr); err != nil {
		outFile.Close()
		return err
	}
	return outFile.Close()
}
