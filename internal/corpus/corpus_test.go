// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamlet/thesis-engine/internal/store"
	"github.com/hamlet/thesis-engine/pkg/types"
)

// fakeConverter returns canned text, or fails for paths recorded as
// scanned documents.
type fakeConverter struct {
	text string
	fail bool
}

func (f fakeConverter) Text(path string) (string, error) {
	if f.fail {
		return "", fmt.Errorf("no text layer in %s", path)
	}
	return f.text, nil
}

func newCorpusStore(t *testing.T, urls ...string) *store.Store {
	t.Helper()
	s, err := store.Open(types.StoreConfig{DBPath: filepath.Join(t.TempDir(), "corpus.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	for i, u := range urls {
		_, err := s.CreateThesis(types.Thesis{Title: "t", Year: 2016, Identifier: i + 1, Degree: "S.M.", URL: u})
		require.NoError(t, err)
	}
	return s
}

func TestBuild(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "missing") {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("%PDF-1.4 fake"))
	}))
	defer srv.Close()

	s := newCorpusStore(t, srv.URL+"/thesis-1.pdf", srv.URL+"/missing.pdf")
	b := NewBuilder(s, fakeConverter{text: "extracted thesis text"}, types.CorpusConfig{})

	corpusDir := t.TempDir()
	var progress strings.Builder
	summary, err := b.Build(context.Background(), corpusDir, &progress)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Written)
	assert.Equal(t, 1, summary.Failed)
	assert.True(t, summary.HasFailures())

	data, err := os.ReadFile(filepath.Join(corpusDir, "1721.1-1.txt"))
	require.NoError(t, err)
	assert.Equal(t, "extracted thesis text", string(data))

	// The failed download is now flagged and not retried.
	theses, err := s.ExtractableTheses()
	require.NoError(t, err)
	require.Len(t, theses, 1)
	assert.Equal(t, 1, theses[0].Identifier)

	second, err := b.Build(context.Background(), corpusDir, &strings.Builder{})
	require.NoError(t, err)
	assert.Equal(t, 1, second.Existing)
	assert.Equal(t, 0, second.Written)
	assert.Equal(t, 0, second.Failed)
}

func TestBuildMarksScannedDocuments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("%PDF-1.4 scanned"))
	}))
	defer srv.Close()

	s := newCorpusStore(t, srv.URL+"/thesis-1.pdf")
	b := NewBuilder(s, fakeConverter{fail: true}, types.CorpusConfig{})

	summary, err := b.Build(context.Background(), t.TempDir(), &strings.Builder{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)

	theses, err := s.ExtractableTheses()
	require.NoError(t, err)
	assert.Empty(t, theses)
}

func TestSplit(t *testing.T) {
	corpusDir := t.TempDir()
	for i := 0; i < 20; i++ {
		path := filepath.Join(corpusDir, fmt.Sprintf("1721.1-%d.txt", i))
		require.NoError(t, os.WriteFile(path, []byte("text"), 0o644))
	}

	trainingDir := t.TempDir()
	testDir := t.TempDir()
	summary, err := Split(corpusDir, trainingDir, testDir, rand.New(rand.NewSource(1)), &strings.Builder{})
	require.NoError(t, err)

	assert.Equal(t, 6, summary.Training)
	assert.Equal(t, 2, summary.Test)
	assert.Equal(t, 12, summary.Discarded)

	training, err := filepath.Glob(filepath.Join(trainingDir, "*.txt"))
	require.NoError(t, err)
	assert.Len(t, training, 6)

	test, err := filepath.Glob(filepath.Join(testDir, "*.txt"))
	require.NoError(t, err)
	assert.Len(t, test, 2)

	// Source files are copied, not moved.
	remaining, err := filepath.Glob(filepath.Join(corpusDir, "*.txt"))
	require.NoError(t, err)
	assert.Len(t, remaining, 20)
}

func TestSplitIsReproducible(t *testing.T) {
	corpusDir := t.TempDir()
	for i := 0; i < 10; i++ {
		path := filepath.Join(corpusDir, fmt.Sprintf("1721.1-%d.txt", i))
		require.NoError(t, os.WriteFile(path, []byte("text"), 0o644))
	}

	split := func() []string {
		trainingDir := t.TempDir()
		_, err := Split(corpusDir, trainingDir, t.TempDir(), rand.New(rand.NewSource(42)), &strings.Builder{})
		require.NoError(t, err)
		files, err := filepath.Glob(filepath.Join(trainingDir, "*.txt"))
		require.NoError(t, err)
		for i := range files {
			files[i] = filepath.Base(files[i])
		}
		return files
	}

	assert.Equal(t, split(), split())
}
