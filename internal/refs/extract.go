// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package refs finds citation candidates in extracted thesis text.
// See docs/ARCHITECTURE § Reference Extraction.
package refs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/hamlet/thesis-engine/pkg/types"
)

const defaultTailLines = 1000

// Extractor turns arbitrary text into candidate references. The production
// backend is the heuristic extractor in this package; tests supply mocks.
// Implementations may return an empty slice for unparseable input.
type Extractor interface {
	Extract(text string) ([]types.RawReference, error)
}

// FailureKind tags why a document produced no references, so callers can
// tell "nothing found" from "something went wrong".
type FailureKind string

const (
	FailureNotFound FailureKind = "not-found"
	FailureRead     FailureKind = "read-error"
	FailureExtract  FailureKind = "extract-error"
	FailureEmpty    FailureKind = "empty"
)

// Failure records one document that yielded no references.
type Failure struct {
	Handle string
	Kind   FailureKind
	Err    error
}

// ExtractSummary holds counts from an extraction run.
type ExtractSummary struct {
	Extracted int
	Failed    int
}

// Total returns the number of documents processed.
func (s ExtractSummary) Total() int {
	return s.Extracted + s.Failed
}

// ExtractAll runs the extractor over every corpus file using a fixed-size
// worker pool, one worker per CPU unless configured otherwise. Worker
// failures are independent; a document that cannot be read or parsed is
// recorded as a Failure and its siblings continue. The pool is fully
// drained before ExtractAll returns, and results are sorted by handle so
// the checkpoint is deterministic.
func ExtractAll(cfg types.RefsConfig, ex Extractor, w io.Writer) ([]types.HandleRefs, []Failure, error) {
	entries, err := os.ReadDir(cfg.CorpusDir)
	if err != nil {
		return nil, nil, fmt.Errorf("reading corpus directory %s: %w", cfg.CorpusDir, err)
	}

	var handles []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		handles = append(handles, entry.Name())
	}
	sort.Strings(handles)
	if cfg.MaxFiles > 0 && len(handles) > cfg.MaxFiles {
		handles = handles[:cfg.MaxFiles]
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	type outcome struct {
		refs    types.HandleRefs
		failure *Failure
	}

	jobs := make(chan string)
	out := make(chan outcome, len(handles))
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for handle := range jobs {
				refs, failure := extractOne(cfg, ex, handle)
				if failure != nil {
					out <- outcome{failure: failure}
					continue
				}
				out <- outcome{refs: types.HandleRefs{Handle: handle, Refs: refs}}
			}
		}()
	}

	for _, handle := range handles {
		jobs <- handle
	}
	close(jobs)
	wg.Wait()
	close(out)

	var results []types.HandleRefs
	var failures []Failure
	for o := range out {
		if o.failure != nil {
			failures = append(failures, *o.failure)
			continue
		}
		results = append(results, o.refs)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Handle < results[j].Handle })
	sort.Slice(failures, func(i, j int) bool { return failures[i].Handle < failures[j].Handle })

	fmt.Fprintf(w, "extracted: %d, failed: %d\n", len(results), len(failures))
	return results, failures, nil
}

// extractOne reads the tail of one corpus file and runs the extractor on
// it. Only the tail is scanned: if the extractor sees "References" or
// "Bibliography" in a table of contents it may conclude it has found a
// reference section and parse the entire file.
func extractOne(cfg types.RefsConfig, ex Extractor, handle string) ([]types.RawReference, *Failure) {
	path := filepath.Join(cfg.CorpusDir, handle)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &Failure{Handle: handle, Kind: FailureNotFound, Err: err}
		}
		return nil, &Failure{Handle: handle, Kind: FailureRead, Err: err}
	}

	tailLines := cfg.TailLines
	if tailLines <= 0 {
		tailLines = defaultTailLines
	}

	refs, err := ex.Extract(tail(string(data), tailLines))
	if err != nil {
		return nil, &Failure{Handle: handle, Kind: FailureExtract, Err: err}
	}
	if len(refs) == 0 {
		return nil, &Failure{Handle: handle, Kind: FailureEmpty}
	}
	return refs, nil
}

// tail returns the last n lines of text.
func tail(text string, n int) string {
	lines := strings.Split(text, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
