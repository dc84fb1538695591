// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package neural loads trained document-embedding models and answers
// similarity queries over them. Training happens offline; a realized
// model is a gob file of document and word vectors.
package neural

import (
	"encoding/gob"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
)

// Model answers vector queries for one trained embedding model.
type Model interface {
	Name() string
	// HasDoc reports whether label was in the model's training set.
	HasDoc(label string) bool
	// DocVector returns the trained vector for a training-set label.
	DocVector(label string) ([]float32, error)
	// InferVector builds a vector for text the model has never seen.
	InferVector(text string) ([]float32, error)
	// Labels lists the training-set labels in sorted order.
	Labels() []string
}

// VectorModel is the realized form of a trained model: per-document
// vectors for the training set and per-word vectors for inference.
type VectorModel struct {
	ModelName   string
	DocVectors  map[string][]float32
	WordVectors map[string][]float32
}

// LoadModel reads one realized model from a gob file. The model name is
// the file name without its extension.
func LoadModel(path string) (*VectorModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening model %s: %w", path, err)
	}
	defer f.Close()

	var m VectorModel
	if err := gob.NewDecoder(f).Decode(&m); err != nil {
		return nil, fmt.Errorf("decoding model %s: %w", path, err)
	}
	if m.ModelName == "" {
		m.ModelName = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &m, nil
}

// SaveModel writes a realized model as a gob file.
func SaveModel(path string, m *VectorModel) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating model %s: %w", path, err)
	}
	if err := gob.NewEncoder(f).Encode(m); err != nil {
		f.Close()
		return fmt.Errorf("encoding model %s: %w", path, err)
	}
	return f.Close()
}

// LoadModels reads every .gob model in a directory, sorted by name.
func LoadModels(dir string) ([]*VectorModel, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.gob"))
	if err != nil {
		return nil, fmt.Errorf("listing models in %s: %w", dir, err)
	}
	sort.Strings(paths)

	var models []*VectorModel
	for _, p := range paths {
		m, err := LoadModel(p)
		if err != nil {
			return nil, err
		}
		models = append(models, m)
	}
	return models, nil
}

func (m *VectorModel) Name() string { return m.ModelName }

func (m *VectorModel) HasDoc(label string) bool {
	_, ok := m.DocVectors[label]
	return ok
}

func (m *VectorModel) DocVector(label string) ([]float32, error) {
	v, ok := m.DocVectors[label]
	if !ok {
		return nil, fmt.Errorf("model %s has no document %s", m.ModelName, label)
	}
	return v, nil
}

// InferVector averages the word vectors of the text's known tokens.
// Text with no known tokens yields an error; similarity against a
// vectorless document is meaningless.
func (m *VectorModel) InferVector(text string) ([]float32, error) {
	var sum []float32
	var n int
	for _, tok := range Tokenize(text) {
		wv, ok := m.WordVectors[tok]
		if !ok {
			continue
		}
		if sum == nil {
			sum = make([]float32, len(wv))
		}
		for i, x := range wv {
			sum[i] += x
		}
		n++
	}
	if n == 0 {
		return nil, fmt.Errorf("model %s knows no tokens of the text", m.ModelName)
	}
	for i := range sum {
		sum[i] /= float32(n)
	}
	return sum, nil
}

func (m *VectorModel) Labels() []string {
	labels := make([]string, 0, len(m.DocVectors))
	for l := range m.DocVectors {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// Cosine returns the cosine similarity of two vectors, 0 when either
// has zero magnitude or the dimensions differ.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Tokenize lowercases text and splits it into word tokens. Tokens that
// carry no letter or digit are dropped, the rest keep their inner
// punctuation but lose the outer.
func Tokenize(text string) []string {
	var tokens []string
	for _, f := range strings.Fields(strings.ToLower(text)) {
		tok := strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}
