package store

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hamlet/thesis-engine/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.StoreConfig{DBPath: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mustCreateThesis(t *testing.T, s *Store, identifier int) types.Thesis {
	t.Helper()
	th, err := s.CreateThesis(types.Thesis{
		Title:      "On Testing",
		Year:       1999,
		Identifier: identifier,
		Degree:     "Ph.D.",
		URL:        "https://example.org/thesis.pdf",
	})
	if err != nil {
		t.Fatalf("CreateThesis: %v", err)
	}
	return th
}

func TestThesisLifecycle(t *testing.T) {
	s := openTestStore(t)
	th := mustCreateThesis(t, s, 39504)

	got, err := s.ThesisByIdentifier(39504)
	if err != nil {
		t.Fatalf("ThesisByIdentifier: %v", err)
	}
	if got.ID != th.ID || got.Title != "On Testing" || got.Year != 1999 {
		t.Errorf("got %+v", got)
	}
	if got.Label() != "1721.1-39504.txt" {
		t.Errorf("Label() = %q", got.Label())
	}

	exists, err := s.ThesisExists(39504)
	if err != nil || !exists {
		t.Errorf("ThesisExists = %v, %v", exists, err)
	}

	// Duplicate identifier is a persistence conflict.
	if _, err := s.CreateThesis(types.Thesis{Title: "dup", Identifier: 39504}); err == nil {
		t.Error("duplicate identifier did not error")
	}

	if _, err := s.ThesisByIdentifier(1); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing thesis err = %v, want ErrNotFound", err)
	}
}

func TestMarkUnextractableExcludesFromCorpus(t *testing.T) {
	s := openTestStore(t)
	mustCreateThesis(t, s, 1)
	mustCreateThesis(t, s, 2)

	if err := s.MarkUnextractable(1); err != nil {
		t.Fatal(err)
	}

	theses, err := s.ExtractableTheses()
	if err != nil {
		t.Fatal(err)
	}
	if len(theses) != 1 || theses[0].Identifier != 2 {
		t.Errorf("ExtractableTheses = %+v, want only identifier 2", theses)
	}
}

func TestVectorRoundTrip(t *testing.T) {
	s := openTestStore(t)
	mustCreateThesis(t, s, 7)

	want := []float32{0.25, -1.5, 3}
	if err := s.SetVector(7, want); err != nil {
		t.Fatal(err)
	}

	got, err := s.ThesisByIdentifier(7)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Vector) != 3 || got.Vector[0] != 0.25 || got.Vector[1] != -1.5 || got.Vector[2] != 3 {
		t.Errorf("Vector = %v, want %v", got.Vector, want)
	}
}

func TestGetOrCreatePerson(t *testing.T) {
	s := openTestStore(t)

	p1, err := s.GetOrCreatePerson("Ada Lovelace")
	if err != nil {
		t.Fatal(err)
	}
	p2, err := s.GetOrCreatePerson("Ada Lovelace")
	if err != nil {
		t.Fatal(err)
	}
	if p1.ID != p2.ID {
		t.Errorf("same name produced two rows: %d, %d", p1.ID, p2.ID)
	}
}

func TestContributionInsertedAtMostOnce(t *testing.T) {
	s := openTestStore(t)
	th := mustCreateThesis(t, s, 10)
	p, _ := s.GetOrCreatePerson("Grace Hopper")

	for i := 0; i < 3; i++ {
		if err := s.AddContribution(th.ID, p.ID, types.RoleAuthor); err != nil {
			t.Fatal(err)
		}
	}
	// Same person in a different role is a distinct triple.
	if err := s.AddContribution(th.ID, p.ID, types.RoleAdvisor); err != nil {
		t.Fatal(err)
	}

	authors, err := s.Contributors(th.ID, types.RoleAuthor)
	if err != nil {
		t.Fatal(err)
	}
	if len(authors) != 1 {
		t.Errorf("authors = %d, want 1", len(authors))
	}
	advisors, _ := s.Contributors(th.ID, types.RoleAdvisor)
	if len(advisors) != 1 {
		t.Errorf("advisors = %d, want 1", len(advisors))
	}
}

func TestAdvisorsWithMinTheses(t *testing.T) {
	s := openTestStore(t)
	t1 := mustCreateThesis(t, s, 1)
	t2 := mustCreateThesis(t, s, 2)
	t3 := mustCreateThesis(t, s, 3)

	busy, _ := s.GetOrCreatePerson("Busy Advisor")
	occasional, _ := s.GetOrCreatePerson("Occasional Advisor")

	s.AddContribution(t1.ID, busy.ID, types.RoleAdvisor)
	s.AddContribution(t2.ID, busy.ID, types.RoleAdvisor)
	s.AddContribution(t3.ID, occasional.ID, types.RoleAdvisor)

	advisors, err := s.AdvisorsWithMinTheses(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(advisors) != 1 || advisors[0].Name != "Busy Advisor" {
		t.Errorf("advisors = %+v, want only Busy Advisor", advisors)
	}

	theses, err := s.ThesesByAdvisor(busy.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(theses) != 2 {
		t.Errorf("ThesesByAdvisor = %d theses, want 2", len(theses))
	}
}

func TestSwitchContributors(t *testing.T) {
	s := openTestStore(t)
	th := mustCreateThesis(t, s, 20)

	old, _ := s.GetOrCreatePerson("Smith, John")
	new_, _ := s.GetOrCreatePerson("John Smith")
	s.AddContribution(th.ID, old.ID, types.RoleAuthor)

	if err := s.SwitchContributors(old.ID, new_.ID); err != nil {
		t.Fatal(err)
	}

	authors, _ := s.Contributors(th.ID, types.RoleAuthor)
	if len(authors) != 1 || authors[0].ID != new_.ID {
		t.Errorf("authors = %+v, want re-pointed to %d", authors, new_.ID)
	}

	persons, _ := s.Persons()
	for _, p := range persons {
		if p.ID == old.ID {
			t.Error("old person still present after switch")
		}
	}

	if err := s.SwitchContributors(new_.ID, new_.ID); err == nil {
		t.Error("switching a person to itself did not error")
	}
}

func TestUpsertCitation(t *testing.T) {
	s := openTestStore(t)
	th := mustCreateThesis(t, s, 30)

	c := types.Citation{
		ThesisID: th.ID,
		Author:   "Knuth, D.",
		Year:     "1974",
		RawRef:   "Knuth, D. Structured programming with go to statements. 1974.",
	}
	stored, created, err := s.UpsertCitation(c)
	if err != nil {
		t.Fatal(err)
	}
	if !created {
		t.Error("first upsert did not create")
	}

	// Same (thesis, raw_ref) updates in place.
	c.Journal = "Computing Surveys"
	again, created, err := s.UpsertCitation(c)
	if err != nil {
		t.Fatal(err)
	}
	if created || again.ID != stored.ID {
		t.Errorf("second upsert: created=%v id=%d, want update of %d", created, again.ID, stored.ID)
	}

	all, _ := s.CitationsByThesis(th.ID)
	if len(all) != 1 || all[0].Journal != "Computing Surveys" {
		t.Errorf("citations = %+v", all)
	}
}

func TestUpsertCitationRejectsOverlongFields(t *testing.T) {
	s := openTestStore(t)
	th := mustCreateThesis(t, s, 31)

	tests := []struct {
		name string
		c    types.Citation
	}{
		{"missing raw_ref", types.Citation{ThesisID: th.ID}},
		{"doi too long", types.Citation{ThesisID: th.ID, RawRef: "x", DOI: strings.Repeat("1", 67)}},
		{"isbn too long", types.Citation{ThesisID: th.ID, RawRef: "x", ISBN: strings.Repeat("1", 21)}},
		{"publisher too long", types.Citation{ThesisID: th.ID, RawRef: "x", Publisher: strings.Repeat("p", 33)}},
		{"year too long", types.Citation{ThesisID: th.ID, RawRef: "x", Year: "19999"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := s.UpsertCitation(tt.c); err == nil {
				t.Error("upsert did not error")
			}
		})
	}

	if n, _ := s.CitationCount(); n != 0 {
		t.Errorf("citation count = %d after rejected writes, want 0", n)
	}
}

func TestCitationsOrderedByRawRef(t *testing.T) {
	s := openTestStore(t)
	th := mustCreateThesis(t, s, 32)

	for _, raw := range []string{"zebra ref", "alpha ref", "middle ref"} {
		if _, _, err := s.UpsertCitation(types.Citation{ThesisID: th.ID, RawRef: raw}); err != nil {
			t.Fatal(err)
		}
	}

	all, err := s.Citations()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || all[0].RawRef != "alpha ref" || all[2].RawRef != "zebra ref" {
		t.Errorf("order = %q, %q, %q", all[0].RawRef, all[1].RawRef, all[2].RawRef)
	}
}
