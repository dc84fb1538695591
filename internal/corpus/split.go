// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
)

// Split weights: of every ten documents, three train, one tests, six
// are held out entirely to keep training tractable.
const (
	splitTraining = 3
	splitTest     = 1
	splitTotal    = 10
)

// SplitSummary counts one corpus split.
type SplitSummary struct {
	Training  int
	Test      int
	Discarded int
}

// Split shuffles the corpus files and copies them into training and
// test directories on the 3/1/6 weighting. Files beyond the two splits
// stay only in the source corpus. The shuffle order comes from rng, so
// a seeded source reproduces a split exactly.
func Split(corpusDir, trainingDir, testDir string, rng *rand.Rand, progress io.Writer) (SplitSummary, error) {
	entries, err := filepath.Glob(filepath.Join(corpusDir, "*.txt"))
	if err != nil {
		return SplitSummary{}, fmt.Errorf("listing corpus: %w", err)
	}
	sort.Strings(entries)
	rng.Shuffle(len(entries), func(i, j int) { entries[i], entries[j] = entries[j], entries[i] })

	for _, dir := range []string{trainingDir, testDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return SplitSummary{}, fmt.Errorf("creating split dir: %w", err)
		}
	}

	nTraining := len(entries) * splitTraining / splitTotal
	nTest := len(entries) * splitTest / splitTotal

	var summary SplitSummary
	for i, src := range entries {
		var destDir string
		switch {
		case i < nTraining:
			destDir = trainingDir
			summary.Training++
		case i < nTraining+nTest:
			destDir = testDir
			summary.Test++
		default:
			summary.Discarded++
			continue
		}
		if err := copyFile(src, filepath.Join(destDir, filepath.Base(src))); err != nil {
			return summary, err
		}
	}
	fmt.Fprintf(progress, "split %d files: %d training, %d test, %d discarded\n",
		len(entries), summary.Training, summary.Test, summary.Discarded)
	return summary, nil
}

func copyFile(src, dest string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("reading %s: %w", src, err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	return nil
}
