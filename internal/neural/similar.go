// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package neural

import (
	"fmt"
	"sort"
)

// Similarity thresholds below which matches are not worth showing.
// Trained-vector comparisons are held to a higher bar than inferred
// ones.
const (
	TrainedSimilarityFloor  = 0.75
	InferredSimilarityFloor = 0.65
)

// MaxSimilar caps the length of any similarity result list.
const MaxSimilar = 50

// Match is one similarity hit.
type Match struct {
	Label      string
	Similarity float64
}

// MostSimilar ranks the model's other training documents against one
// training-set label. Only matches at or above TrainedSimilarityFloor
// are returned, at most topn of them; topn above MaxSimilar (or zero)
// is clamped to MaxSimilar.
func MostSimilar(m Model, label string, topn int) ([]Match, error) {
	if topn <= 0 || topn > MaxSimilar {
		topn = MaxSimilar
	}
	v, err := m.DocVector(label)
	if err != nil {
		return nil, err
	}

	// Rank one extra so excluding the query document itself cannot eat
	// a result slot.
	matches := rank(m, v, TrainedSimilarityFloor, topn+1)
	out := matches[:0]
	for _, match := range matches {
		if match.Label != label {
			out = append(out, match)
		}
	}
	if len(out) > topn {
		out = out[:topn]
	}
	return out, nil
}

// SimilarToText ranks the model's training documents against unseen
// text, e.g. an uploaded document. The inferred-vector floor applies.
func SimilarToText(m Model, text string, topn int) ([]Match, error) {
	v, err := m.InferVector(text)
	if err != nil {
		return nil, fmt.Errorf("inferring vector: %w", err)
	}
	return rank(m, v, InferredSimilarityFloor, topn), nil
}

func rank(m Model, v []float32, floor float64, topn int) []Match {
	if topn <= 0 || topn > MaxSimilar {
		topn = MaxSimilar
	}

	var matches []Match
	for _, label := range m.Labels() {
		dv, err := m.DocVector(label)
		if err != nil {
			continue
		}
		if sim := Cosine(v, dv); sim >= floor {
			matches = append(matches, Match{Label: label, Similarity: sim})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].Label < matches[j].Label
	})
	if len(matches) > topn {
		matches = matches[:topn]
	}
	return matches
}
