// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package citations

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"

	"github.com/hamlet/thesis-engine/internal/refs"
	"github.com/hamlet/thesis-engine/internal/store"
	"github.com/hamlet/thesis-engine/pkg/types"
)

// labelRe recovers the repository identifier from a corpus file name
// like "1721.1-39504.txt".
var labelRe = regexp.MustCompile(`^1721\.1-(\d+)\.txt$`)

// ThesisLookup resolves corpus labels to stored theses and accepts
// citation rows. *store.Store satisfies it.
type ThesisLookup interface {
	ThesisByIdentifier(identifier int) (types.Thesis, error)
	UpsertCitation(c types.Citation) (types.Citation, bool, error)
}

// PopulateSummary counts one persistence run.
type PopulateSummary struct {
	Created  int
	Existing int
	Overlong int
	Failed   int
	NoThesis int // labels with no matching thesis row
	BadLabel int // file names that are not corpus labels
	EmptyRef int // refs with a blank raw_ref, never stored
}

// Total returns the number of references considered.
func (s PopulateSummary) Total() int {
	return s.Created + s.Existing + s.Overlong + s.Failed + s.EmptyRef
}

// Populate stores the good references for every handle. Handles are
// processed in sorted order. A reference whose bounded fields exceed
// the schema limits is reported and skipped; the run continues.
func Populate(st ThesisLookup, byHandle map[string][]types.RawReference, progress io.Writer) (PopulateSummary, error) {
	handles := make([]string, 0, len(byHandle))
	for h := range byHandle {
		handles = append(handles, h)
	}
	sort.Strings(handles)

	var summary PopulateSummary
	for _, handle := range handles {
		m := labelRe.FindStringSubmatch(handle)
		if m == nil {
			summary.BadLabel++
			fmt.Fprintf(progress, "skipping %s: not a corpus label\n", handle)
			continue
		}
		identifier, err := strconv.Atoi(m[1])
		if err != nil {
			return summary, fmt.Errorf("parsing identifier from %s: %w", handle, err)
		}

		thesis, err := st.ThesisByIdentifier(identifier)
		if errors.Is(err, store.ErrNotFound) {
			summary.NoThesis++
			fmt.Fprintf(progress, "skipping %s: no thesis with identifier %d\n", handle, identifier)
			continue
		}
		if err != nil {
			return summary, fmt.Errorf("looking up thesis %d: %w", identifier, err)
		}

		for _, ref := range byHandle[handle] {
			persistOne(st, thesis.ID, ref, &summary, progress)
		}
	}
	return summary, nil
}

func persistOne(st ThesisLookup, thesisID int64, ref types.RawReference, summary *PopulateSummary, progress io.Writer) {
	c := types.Citation{
		ThesisID:  thesisID,
		DOI:       ref.Field(types.FieldDOI),
		Journal:   ref.Field(types.FieldJournal),
		URL:       ref.Field(types.FieldURL),
		Author:    ref.Field(types.FieldAuthor),
		Title:     ref.Field(types.FieldTitle),
		ISBN:      ref.Field(types.FieldISBN),
		Publisher: ref.Field(types.FieldPublisher),
		Year:      ref.Field(types.FieldYear),
		RawRef:    refs.StripRefNumber(ref.RawRef()),
	}

	if c.RawRef == "" {
		summary.EmptyRef++
		return
	}
	if field := c.OverlongField(); field != "" {
		summary.Overlong++
		fmt.Fprintf(progress, "overlong %s in citation for thesis %d: %.60s\n", field, thesisID, c.RawRef)
		return
	}

	_, created, err := st.UpsertCitation(c)
	if err != nil {
		// Persistence conflicts are logged per record, not fatal.
		fmt.Fprintf(progress, "storing citation for thesis %d: %v\n", thesisID, err)
		summary.Failed++
		return
	}
	if created {
		summary.Created++
	} else {
		summary.Existing++
	}
}
