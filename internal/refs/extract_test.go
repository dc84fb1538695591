package refs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hamlet/thesis-engine/pkg/types"
)

// failingExtractor errors on documents whose text contains a marker;
// otherwise it returns one reference per input.
type failingExtractor struct {
	failOn string
}

func (f failingExtractor) Extract(text string) ([]types.RawReference, error) {
	if f.failOn != "" && strings.Contains(text, f.failOn) {
		return nil, errors.New("unparseable input")
	}
	return []types.RawReference{ref(strings.TrimSpace(text))}, nil
}

func writeCorpus(t *testing.T, dir string, docs map[string]string) {
	t.Helper()
	for name, content := range docs {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestExtractAllPartialFailure(t *testing.T) {
	dir := t.TempDir()

	// 10 documents; 3 carry the failure marker.
	docs := make(map[string]string)
	for i := 0; i < 10; i++ {
		content := fmt.Sprintf("reference text for document %d", i)
		if i%3 == 0 && i > 0 { // documents 3, 6, 9
			content = "POISON " + content
		}
		docs[fmt.Sprintf("1721.1-%d.txt", i)] = content
	}
	writeCorpus(t, dir, docs)

	cfg := types.RefsConfig{CorpusDir: dir, Workers: 4}
	results, failures, err := ExtractAll(cfg, failingExtractor{failOn: "POISON"}, io.Discard)
	if err != nil {
		t.Fatalf("ExtractAll: %v", err)
	}

	if len(results) != 7 {
		t.Errorf("results = %d entries, want 7", len(results))
	}
	if len(failures) != 3 {
		t.Errorf("failures = %d, want 3", len(failures))
	}
	for _, f := range failures {
		if f.Kind != FailureExtract {
			t.Errorf("failure %s kind = %s, want %s", f.Handle, f.Kind, FailureExtract)
		}
	}

	// The checkpoint written from these results carries exactly the
	// successful entries.
	ckpt := filepath.Join(dir, "checkpoint.yaml")
	if err := WriteCheckpoint(ckpt, results); err != nil {
		t.Fatalf("WriteCheckpoint: %v", err)
	}
	loaded, err := LoadCheckpoint(ckpt)
	if err != nil {
		t.Fatalf("LoadCheckpoint: %v", err)
	}
	if len(loaded) != 7 {
		t.Errorf("checkpoint = %d entries, want 7", len(loaded))
	}
}

func TestExtractAllEmptyResultIsTaggedNotFailedSilently(t *testing.T) {
	dir := t.TempDir()
	writeCorpus(t, dir, map[string]string{"1721.1-1.txt": strings.Repeat("short\n", 3)})

	// minFragmentLen filters everything, so the heuristic extractor finds
	// nothing and the document is tagged empty.
	cfg := types.RefsConfig{CorpusDir: dir, Workers: 1}
	results, failures, err := ExtractAll(cfg, HeuristicExtractor{}, io.Discard)
	if err != nil {
		t.Fatalf("ExtractAll: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %d, want 0", len(results))
	}
	if len(failures) != 1 || failures[0].Kind != FailureEmpty {
		t.Errorf("failures = %+v, want one tagged %s", failures, FailureEmpty)
	}
}

func TestExtractAllMaxFiles(t *testing.T) {
	dir := t.TempDir()
	docs := make(map[string]string)
	for i := 0; i < 5; i++ {
		docs[fmt.Sprintf("1721.1-%d.txt", i)] = "reference text long enough to pass"
	}
	writeCorpus(t, dir, docs)

	cfg := types.RefsConfig{CorpusDir: dir, Workers: 2, MaxFiles: 2}
	results, _, err := ExtractAll(cfg, failingExtractor{}, io.Discard)
	if err != nil {
		t.Fatalf("ExtractAll: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("results = %d, want 2", len(results))
	}
}

func TestExtractOneReadsOnlyTail(t *testing.T) {
	dir := t.TempDir()

	// 1500 lines; the table-of-contents marker sits in the head, outside
	// the 1000-line tail.
	var b strings.Builder
	b.WriteString("TABLE OF CONTENTS marker that must not reach the extractor\n")
	for i := 0; i < 1499; i++ {
		fmt.Fprintf(&b, "body line %d padding padding padding\n", i)
	}
	writeCorpus(t, dir, map[string]string{"1721.1-9.txt": b.String()})

	var seen string
	ex := extractorFunc(func(text string) ([]types.RawReference, error) {
		seen = text
		return []types.RawReference{ref("ok")}, nil
	})

	cfg := types.RefsConfig{CorpusDir: dir}
	if _, failure := extractOne(cfg, ex, "1721.1-9.txt"); failure != nil {
		t.Fatalf("extractOne failed: %+v", failure)
	}

	if strings.Contains(seen, "TABLE OF CONTENTS") {
		t.Error("extractor saw the head of the file")
	}
	if gotLines := strings.Count(seen, "\n") + 1; gotLines > 1000 {
		t.Errorf("extractor saw %d lines, want at most 1000", gotLines)
	}
}

func TestExtractOneMissingFile(t *testing.T) {
	cfg := types.RefsConfig{CorpusDir: t.TempDir()}
	_, failure := extractOne(cfg, failingExtractor{}, "1721.1-404.txt")
	if failure == nil || failure.Kind != FailureNotFound {
		t.Errorf("failure = %+v, want kind %s", failure, FailureNotFound)
	}
}

type extractorFunc func(text string) ([]types.RawReference, error)

func (f extractorFunc) Extract(text string) ([]types.RawReference, error) { return f(text) }

func TestCheckpointRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "checkpoint.yaml")
	results := []types.HandleRefs{
		{
			Handle: "1721.1-1.txt",
			Refs: []types.RawReference{
				ref("Smith, J. A paper. 1999.", types.FieldAuthor, "Smith, J.", types.FieldYear, "1999"),
			},
		},
	}

	if err := WriteCheckpoint(path, results); err != nil {
		t.Fatalf("WriteCheckpoint: %v", err)
	}
	loaded, err := LoadCheckpoint(path)
	if err != nil {
		t.Fatalf("LoadCheckpoint: %v", err)
	}

	if len(loaded) != 1 || loaded[0].Handle != "1721.1-1.txt" {
		t.Fatalf("loaded = %+v", loaded)
	}
	got := loaded[0].Refs[0]
	if got.Field(types.FieldAuthor) != "Smith, J." || got.Field(types.FieldYear) != "1999" {
		t.Errorf("loaded ref = %+v", got)
	}
}
