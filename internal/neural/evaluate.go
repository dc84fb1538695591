// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package neural

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sort"

	"github.com/hamlet/thesis-engine/pkg/types"
)

// DefaultMaxTuples caps how many advisor tuples one evaluation uses.
const DefaultMaxTuples = 50

// EvalStore is the slice of the store the evaluator reads.
type EvalStore interface {
	AdvisorsWithMinTheses(n int) ([]types.Person, error)
	ThesesByAdvisor(personID int64) ([]types.Thesis, error)
}

// Tuple is one comparison unit: A and B share an advisor, C was
// supervised by someone else. A model that understands the corpus
// should place A and B closer together than either is to C.
type Tuple struct {
	A, B, C types.Thesis
}

// SelectTuples draws up to max tuples from the contribution graph.
// Each advisor with at least two theses contributes one pair; the
// outsider C is drawn at random from theses that advisor had no hand
// in.
func SelectTuples(st EvalStore, rng *rand.Rand, max int) ([]Tuple, error) {
	if max <= 0 {
		max = DefaultMaxTuples
	}

	pairAdvisors, err := st.AdvisorsWithMinTheses(2)
	if err != nil {
		return nil, fmt.Errorf("selecting advisors: %w", err)
	}
	// The outsider pool covers every advised thesis, including those of
	// single-thesis advisors.
	allAdvisors, err := st.AdvisorsWithMinTheses(1)
	if err != nil {
		return nil, fmt.Errorf("selecting advisors: %w", err)
	}

	byAdvisor := make(map[int64][]types.Thesis, len(allAdvisors))
	for _, a := range allAdvisors {
		theses, err := st.ThesesByAdvisor(a.ID)
		if err != nil {
			return nil, fmt.Errorf("loading theses for advisor %d: %w", a.ID, err)
		}
		byAdvisor[a.ID] = theses
	}

	var tuples []Tuple
	for _, a := range pairAdvisors {
		own := byAdvisor[a.ID]
		if len(own) < 2 {
			continue
		}
		c, ok := randomOutsider(byAdvisor, own, rng)
		if !ok {
			continue
		}
		tuples = append(tuples, Tuple{A: own[0], B: own[1], C: c})
		if len(tuples) >= max {
			break
		}
	}
	return tuples, nil
}

// randomOutsider picks a thesis uniformly from the advised theses not
// in own. The exclusion is per thesis, so a co-advised thesis that
// also appears under another advisor never becomes the outsider.
func randomOutsider(byAdvisor map[int64][]types.Thesis, own []types.Thesis, rng *rand.Rand) (types.Thesis, bool) {
	excluded := make(map[int]bool, len(own))
	for _, t := range own {
		excluded[t.Identifier] = true
	}

	seen := make(map[int]bool)
	var pool []types.Thesis
	for _, theses := range byAdvisor {
		for _, t := range theses {
			if excluded[t.Identifier] || seen[t.Identifier] {
				continue
			}
			seen[t.Identifier] = true
			pool = append(pool, t)
		}
	}
	if len(pool) == 0 {
		return types.Thesis{}, false
	}
	sort.Slice(pool, func(i, j int) bool { return pool[i].Identifier < pool[j].Identifier })
	return pool[rng.Intn(len(pool))], true
}

// ModelScore is one model's evaluation result.
type ModelScore struct {
	Name    string
	Score   float64
	Scored  int // tuples that produced a score
	Skipped int // tuples with an unvectorizable thesis
}

// Evaluator scores trained models against the advisor tuples. Corpus
// reads are memoized for the evaluator's lifetime, which is one run.
type Evaluator struct {
	corpusDir string
	texts     map[string]string
}

// NewEvaluator builds an evaluator that reads document text for
// inference from corpusDir.
func NewEvaluator(corpusDir string) *Evaluator {
	return &Evaluator{
		corpusDir: corpusDir,
		texts:     make(map[string]string),
	}
}

// Evaluate scores one model over the tuples. Each tuple contributes
// 2*sim(A,B) - sim(A,C) - sim(B,C): positive when the model separates
// the shared-advisor pair from the outsider, zero when it cannot tell
// them apart. Tuples with a thesis the model cannot vectorize are
// skipped and counted.
func (e *Evaluator) Evaluate(m Model, tuples []Tuple, progress io.Writer) ModelScore {
	score := ModelScore{Name: m.Name()}
	for _, t := range tuples {
		va, err := e.vector(m, t.A)
		if err == nil {
			var vb, vc []float32
			vb, err = e.vector(m, t.B)
			if err == nil {
				vc, err = e.vector(m, t.C)
			}
			if err == nil {
				score.Score += 2*Cosine(va, vb) - Cosine(va, vc) - Cosine(vb, vc)
				score.Scored++
				continue
			}
		}
		score.Skipped++
		fmt.Fprintf(progress, "model %s: skipping tuple: %v\n", m.Name(), err)
	}
	return score
}

// EvaluateAll scores every model over the same tuples and ranks the
// results best-first.
func (e *Evaluator) EvaluateAll(models []*VectorModel, tuples []Tuple, progress io.Writer) []ModelScore {
	scores := make([]ModelScore, 0, len(models))
	for _, m := range models {
		scores = append(scores, e.Evaluate(m, tuples, progress))
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].Name < scores[j].Name
	})
	return scores
}

// vector resolves one thesis to a model vector: the trained document
// vector when the thesis was in the model's training set, an inferred
// vector from the corpus text otherwise.
func (e *Evaluator) vector(m Model, t types.Thesis) ([]float32, error) {
	label := t.Label()
	if m.HasDoc(label) {
		return m.DocVector(label)
	}
	text, ok := e.texts[label]
	if !ok {
		raw, err := os.ReadFile(filepath.Join(e.corpusDir, label))
		if err != nil {
			return nil, fmt.Errorf("reading corpus text for %s: %w", label, err)
		}
		text = string(raw)
		e.texts[label] = text
	}
	return m.InferVector(text)
}
