// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedupe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamlet/thesis-engine/pkg/types"
)

func persons(names ...string) []types.Person {
	out := make([]types.Person, len(names))
	for i, n := range names {
		out[i] = types.Person{ID: int64(i + 1), Name: n}
	}
	return out
}

func TestAuthorAdvisorForms(t *testing.T) {
	findings := AuthorAdvisorForms(persons(
		"Minsky, Marvin",
		"Marvin Minsky",
		"Papert, Seymour",
		"Ada Lovelace",
	))

	require.Len(t, findings, 1)
	assert.Equal(t, "Minsky, Marvin", findings[0].Name)
	assert.Equal(t, []string{"Marvin Minsky"}, findings[0].Candidates)
}

func TestVariantSpellings(t *testing.T) {
	t.Run("first middle-initial last", func(t *testing.T) {
		findings := VariantSpellings(persons("Marvin L. Minsky", "Marvin Minsky"))
		require.Len(t, findings, 1)
		assert.Equal(t, "Marvin L. Minsky", findings[0].Name)
		assert.Equal(t, []string{"Marvin Minsky"}, findings[0].Candidates)
	})

	t.Run("first-initial last", func(t *testing.T) {
		findings := VariantSpellings(persons("M. Minsky", "M. Lee Minsky"))
		require.Len(t, findings, 2)
	})

	t.Run("no collisions", func(t *testing.T) {
		assert.Empty(t, VariantSpellings(persons("Marvin Minsky", "Seymour Papert")))
	})
}

func TestMultiples(t *testing.T) {
	findings := Multiples(persons(
		"Marvin Minsky, Seymour Papert",
		"Minsky, Marvin",
		"Ada Lovelace",
	))

	require.Len(t, findings, 1)
	assert.Equal(t, "Marvin Minsky, Seymour Papert", findings[0].Name)
}

type fakePersons []types.Person

func (f fakePersons) Persons() ([]types.Person, error) { return f, nil }

func TestReport(t *testing.T) {
	var out strings.Builder
	err := Report(fakePersons(persons("Minsky, Marvin", "Marvin Minsky")), &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "author/advisor name forms: 1")
	assert.Contains(t, out.String(), "check Minsky, Marvin")
}
