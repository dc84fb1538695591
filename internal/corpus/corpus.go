// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus turns stored theses into the plain-text training
// corpus the embedding models learn from. Each extractable thesis
// becomes one "<handle>.txt" file named by its label.
package corpus

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/hamlet/thesis-engine/internal/httputil"
	"github.com/hamlet/thesis-engine/internal/pdftext"
	"github.com/hamlet/thesis-engine/pkg/types"
)

// CorpusStore is the slice of the store the builder uses.
type CorpusStore interface {
	ExtractableTheses() ([]types.Thesis, error)
	MarkUnextractable(identifier int) error
}

// BuildSummary counts one corpus-build run.
type BuildSummary struct {
	Written  int
	Existing int
	Failed   int
}

// Total returns the number of theses considered.
func (s BuildSummary) Total() int {
	return s.Written + s.Existing + s.Failed
}

// HasFailures reports whether any thesis could not be converted.
func (s BuildSummary) HasFailures() bool {
	return s.Failed > 0
}

// Builder downloads thesis PDFs and extracts their text.
type Builder struct {
	store     CorpusStore
	converter pdftext.Converter
	http      *http.Client
	userAgent string
}

// NewBuilder wires a builder. The HTTP timeout and User-Agent come from
// the embedded HTTPConfig; thesis PDFs run large, so a zero timeout
// defaults to five minutes.
func NewBuilder(store CorpusStore, converter pdftext.Converter, cfg types.CorpusConfig) *Builder {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Minute
	}
	return &Builder{
		store:     store,
		converter: converter,
		http:      &http.Client{Timeout: timeout},
		userAgent: cfg.UserAgent,
	}
}

// Build converts every extractable thesis that has no corpus file yet.
// A thesis whose PDF cannot be fetched or carries no text layer is
// marked unextractable and never retried.
func (b *Builder) Build(ctx context.Context, corpusDir string, progress io.Writer) (BuildSummary, error) {
	if err := os.MkdirAll(corpusDir, 0o755); err != nil {
		return BuildSummary{}, fmt.Errorf("creating corpus dir: %w", err)
	}

	theses, err := b.store.ExtractableTheses()
	if err != nil {
		return BuildSummary{}, fmt.Errorf("loading theses: %w", err)
	}

	var summary BuildSummary
	for _, t := range theses {
		dest := filepath.Join(corpusDir, t.Label())
		if _, err := os.Stat(dest); err == nil {
			summary.Existing++
			continue
		}

		if err := b.buildOne(ctx, t, dest); err != nil {
			summary.Failed++
			fmt.Fprintf(progress, "corpus %s: %v\n", t.Label(), err)
			if err := b.store.MarkUnextractable(t.Identifier); err != nil {
				return summary, fmt.Errorf("marking %s unextractable: %w", t.Label(), err)
			}
			continue
		}
		summary.Written++
		fmt.Fprintf(progress, "wrote %s\n", t.Label())
	}
	return summary, nil
}

func (b *Builder) buildOne(ctx context.Context, t types.Thesis, dest string) error {
	pdfPath, err := b.download(ctx, t.URL)
	if err != nil {
		return err
	}
	defer os.Remove(pdfPath)

	text, err := b.converter.Text(pdfPath)
	if err != nil {
		return err
	}

	// Temp file and rename so a crash never leaves a partial corpus file.
	tmp := dest + ".tmp"
	if err := os.WriteFile(tmp, []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing corpus file: %w", err)
	}
	return os.Rename(tmp, dest)
}

func (b *Builder) download(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building request for %s: %w", url, err)
	}
	if b.userAgent != "" {
		req.Header.Set("User-Agent", b.userAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, b.http, req, 0)
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading %s: unexpected status %s", url, resp.Status)
	}

	f, err := os.CreateTemp("", "thesis-*.pdf")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("saving %s: %w", url, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
