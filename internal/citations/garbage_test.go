// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package citations

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamlet/thesis-engine/internal/store"
	"github.com/hamlet/thesis-engine/pkg/types"
)

func TestMatchGarbageRule(t *testing.T) {
	tests := []struct {
		name string
		c    types.Citation
		want string
	}{
		{
			name: "plausible citation survives",
			c:    types.Citation{ID: 1, ThesisID: 1, RawRef: "Shannon, Claude. A mathematical theory of communication. Bell System Technical Journal, vol. 27, 1948."},
			want: "",
		},
		{
			// Initials and digits are not capitals; a citation dense with
			// them still clears the excess-capitalization floor.
			name: "citation with initials survives",
			c:    types.Citation{ID: 2, ThesisID: 1, RawRef: "Knuth, D. E. The Art of Computer Programming. Addison-Wesley, 1968."},
			want: "",
		},
		{
			name: "quoted fragment survives the first-character check",
			c:    types.Citation{ID: 3, ThesisID: 1, RawRef: `"Hofstadter, Douglas. Godel, Escher, Bach: an eternal golden braid". Basic Books, New York, 1979.`},
			want: "",
		},
		{
			name: "equation debris has too much punctuation",
			c:    types.Citation{ID: 4, ThesisID: 1, RawRef: "f(x) = {x^2 + 1, x > 0; ... [1] (2) <3>}"},
			want: "punctuation-ratio",
		},
		{
			name: "unpunctuated run has too little punctuation",
			c:    types.Citation{ID: 5, ThesisID: 1, RawRef: strings.Repeat("a", 99) + "."},
			want: "punctuation-ratio",
		},
		{
			name: "lowercase prose is debris",
			c:    types.Citation{ID: 6, ThesisID: 1, RawRef: "the experimental results are discussed in a later chapter, where the model is refined."},
			want: "all-lowercase",
		},
		{
			name: "lowercase debris",
			c:    types.Citation{ID: 7, ThesisID: 1, RawRef: strings.Repeat("a", 195) + "....."},
			want: "all-lowercase",
		},
		{
			name: "lowercase url is exempt when enough fields are set",
			c: types.Citation{
				ID:       8,
				ThesisID: 1,
				URL:      "http://example.com/paper",
				RawRef:   "http" + strings.Repeat("a", 191) + ".....",
			},
			want: "",
		},
		{
			name: "all caps caption",
			c:    types.Citation{ID: 9, ThesisID: 1, RawRef: "SMITH, J. IEEE TRANSACTIONS ON NEURAL NETWORKS. VOL 12."},
			want: "excess-capitalization",
		},
		{
			name: "percent sign without a url",
			c:    types.Citation{ID: 10, ThesisID: 1, RawRef: "Energy yield was 45% higher than baseline, see Table 2."},
			want: "markup-residue",
		},
		{
			name: "lowercase start with too few fields",
			c:    types.Citation{ID: 11, ThesisID: 1, RawRef: "in Proceedings of the ACM Annual Meeting, pages 10 to 20, New York."},
			want: "low-confidence",
		},
		{
			// A stored row starts at three non-empty fields, so one
			// extracted field is enough to pass the low-confidence floor.
			name: "lowercase start with one extracted field survives",
			c: types.Citation{
				ID:       12,
				ThesisID: 1,
				Author:   "someone",
				RawRef:   "in Proceedings of the ACM Annual Meeting, pages 10 to 20, New York.",
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchGarbageRule(tt.c))
		})
	}
}

// A record over the upper punctuation bound with a lowercase first
// character is charged to the ratio rule, not the later fallback.
func TestGarbageRuleOrder(t *testing.T) {
	c := types.Citation{ID: 1, ThesisID: 1, RawRef: strings.Repeat("a", 99) + "."}
	assert.Less(t, c.NonEmptyFieldCount(), 4)
	assert.Equal(t, "punctuation-ratio", matchGarbageRule(c))
}

func openCitationStore(t *testing.T) (*store.Store, int64) {
	t.Helper()
	s, err := store.Open(types.StoreConfig{DBPath: filepath.Join(t.TempDir(), "citations.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	thesis, err := s.CreateThesis(types.Thesis{Title: "t", Year: 2016, Identifier: 39504, Degree: "S.M.", URL: "https://x"})
	require.NoError(t, err)
	return s, thesis.ID
}

func TestClean(t *testing.T) {
	s, thesisID := openCitationStore(t)

	rawRefs := []string{
		"Shannon, Claude. A mathematical theory of communication. Bell System Technical Journal, vol. 27, 1948.",
		"SMITH, J. IEEE TRANSACTIONS ON NEURAL NETWORKS. VOL 12.",
		"Energy yield was 45% higher than baseline, see Table 2.",
	}
	for _, r := range rawRefs {
		_, _, err := s.UpsertCitation(types.Citation{ThesisID: thesisID, RawRef: r})
		require.NoError(t, err)
	}

	var progress strings.Builder
	summary, err := Clean(s, &progress)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Kept)
	assert.Equal(t, 2, summary.Deleted)
	assert.Equal(t, 1, summary.ByRule["excess-capitalization"])
	assert.Equal(t, 1, summary.ByRule["markup-residue"])

	remaining, err := s.Citations()
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Contains(t, remaining[0].RawRef, "Shannon")
}
