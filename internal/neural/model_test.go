// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package neural

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tokens := Tokenize(`Neural Networks, (2nd ed.) -- "revised" ... `)
	assert.Equal(t, []string{"neural", "networks", "2nd", "ed", "revised"}, tokens)
	assert.Empty(t, Tokenize("... --- !!!"))
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, Cosine([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Zero(t, Cosine([]float32{0, 0}, []float32{1, 0}))
	assert.Zero(t, Cosine([]float32{1}, []float32{1, 0}))
}

func testModel() *VectorModel {
	return &VectorModel{
		ModelName: "dbow-300",
		DocVectors: map[string][]float32{
			"1721.1-1.txt": {1, 0},
			"1721.1-2.txt": {1, 0},
			"1721.1-3.txt": {0.8, 0.6},
			"1721.1-4.txt": {0.6, 0.8},
			"1721.1-5.txt": {0, 1},
		},
		WordVectors: map[string][]float32{
			"neural":   {1, 0},
			"networks": {0, 1},
		},
	}
}

func TestModelRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dbow-300.gob")
	require.NoError(t, SaveModel(path, testModel()))

	m, err := LoadModel(path)
	require.NoError(t, err)
	assert.Equal(t, "dbow-300", m.Name())
	assert.True(t, m.HasDoc("1721.1-1.txt"))
	assert.False(t, m.HasDoc("1721.1-999.txt"))

	v, err := m.DocVector("1721.1-3.txt")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.8, 0.6}, v)

	models, err := LoadModels(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, "dbow-300", models[0].Name())
}

func TestInferVector(t *testing.T) {
	m := testModel()

	v, err := m.InferVector("Neural networks and other unknown words.")
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{0.5, 0.5}, v, 1e-6)

	_, err = m.InferVector("completely unknown vocabulary")
	assert.Error(t, err)
}

func TestMostSimilar(t *testing.T) {
	matches, err := MostSimilar(testModel(), "1721.1-1.txt", 10)
	require.NoError(t, err)

	// The 0.6 and 0.0 matches fall below the trained floor; the query
	// document itself is excluded.
	require.Len(t, matches, 2)
	assert.Equal(t, "1721.1-2.txt", matches[0].Label)
	assert.InDelta(t, 1.0, matches[0].Similarity, 1e-6)
	assert.Equal(t, "1721.1-3.txt", matches[1].Label)
	assert.InDelta(t, 0.8, matches[1].Similarity, 1e-6)
}

func TestMostSimilarTopN(t *testing.T) {
	matches, err := MostSimilar(testModel(), "1721.1-1.txt", 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "1721.1-2.txt", matches[0].Label)

	_, err = MostSimilar(testModel(), "1721.1-999.txt", 1)
	assert.Error(t, err)
}

func TestSimilarToText(t *testing.T) {
	matches, err := SimilarToText(testModel(), "Neural networks", 10)
	require.NoError(t, err)

	// The inferred vector (0.5, 0.5) sits at cos 0.707 from the axes
	// and 0.99 from the diagonal documents, so only the diagonal pair
	// and the axis documents above 0.65 survive.
	require.NotEmpty(t, matches)
	assert.Equal(t, "1721.1-3.txt", matches[0].Label)
	for _, m := range matches {
		assert.GreaterOrEqual(t, m.Similarity, InferredSimilarityFloor)
	}

	_, err = SimilarToText(testModel(), "unknown vocabulary only", 10)
	assert.Error(t, err)
}
