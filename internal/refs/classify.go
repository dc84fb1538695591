// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package refs

import (
	"fmt"
	"io"
	"strings"

	"github.com/hamlet/thesis-engine/pkg/types"
)

// goodFieldThreshold is the number of independently-extracted target
// fields that must co-occur in one fragment for it to count as a genuine
// citation. Three together is strong evidence; noise fragments rarely
// populate multiple bibliographic fields at once.
const goodFieldThreshold = 3

// maxRepairLen bounds split-citation repair. Fragments at or past this
// length are unlikely to be truncated citations, and concatenating them
// risks exceeding extractor limits.
const maxRepairLen = 200

// IsGood reports whether a raw reference looks like a genuine citation:
// at least three of the eight target fields are present.
func IsGood(ref types.RawReference) bool {
	return ref.TargetFieldCount() >= goodFieldThreshold
}

// Partition splits extraction results into per-handle good and bad sets.
//
// The input shape is validated up front and a malformed shape panics:
// a caller passing the wrong thing is a programming error, not a runtime
// condition to recover from. This is a smoke test, not exhaustive
// validation.
func Partition(results []types.HandleRefs) (good, bad map[string][]types.RawReference) {
	validate(results)

	good = make(map[string][]types.RawReference)
	bad = make(map[string][]types.RawReference)

	for _, hr := range results {
		for _, ref := range hr.Refs {
			if IsGood(ref) {
				good[hr.Handle] = append(good[hr.Handle], ref)
			} else {
				bad[hr.Handle] = append(bad[hr.Handle], ref)
			}
		}
	}
	return good, bad
}

func validate(results []types.HandleRefs) {
	if len(results) == 0 {
		panic("refs: empty extraction results")
	}
	for i, hr := range results {
		if hr.Handle == "" {
			panic(fmt.Sprintf("refs: result %d has no handle", i))
		}
		for j, ref := range hr.Refs {
			if ref == nil {
				panic(fmt.Sprintf("refs: result %d (%s) ref %d is nil", i, hr.Handle, j))
			}
		}
	}
}

// Repair recovers citations split across fragment boundaries. A citation
// broken over two physical lines yields two bad fragments, each under the
// field threshold, that classify as good once concatenated. Repair filters
// the bad list to short fragments, re-extracts every adjacent pair whose
// concatenation stays under the length bound, and reclassifies. A single
// pass only: triples and longer splits are not recovered.
func Repair(bad []types.RawReference, ex Extractor) (newGood, newBad []types.RawReference) {
	var short []types.RawReference
	for _, ref := range bad {
		if len(ref.RawRef()) < maxRepairLen {
			short = append(short, ref)
		}
	}

	for i := 0; i+1 < len(short); i++ {
		joined := short[i].RawRef() + " " + short[i+1].RawRef()
		if len(joined) >= maxRepairLen {
			continue
		}
		refs, err := ex.Extract(joined)
		if err != nil {
			continue
		}
		for _, ref := range refs {
			if IsGood(ref) {
				newGood = append(newGood, ref)
			} else {
				newBad = append(newBad, ref)
			}
		}
	}
	return newGood, newBad
}

// FindAll partitions extraction results and merges repair recoveries back
// into each handle's good set. The returned map is what gets persisted.
func FindAll(results []types.HandleRefs, ex Extractor, w io.Writer) map[string][]types.RawReference {
	good, bad := Partition(results)

	goodCount := 0
	badCount := 0
	for handle, refs := range bad {
		recovered, stillBad := Repair(refs, ex)
		good[handle] = append(good[handle], recovered...)
		badCount += len(stillBad)
	}
	for _, refs := range good {
		goodCount += len(refs)
	}

	fmt.Fprintf(w, "good candidates found: %d\n", goodCount)
	fmt.Fprintf(w, "bad candidates found: %d\n", badCount)
	return good
}

// StripRefNumber removes a leading bibliography number like "[12] " from a
// raw reference string.
func StripRefNumber(rawRef string) string {
	if !strings.HasPrefix(rawRef, "[") {
		return rawRef
	}
	end := strings.Index(rawRef, "] ")
	if end < 1 {
		return rawRef
	}
	for _, r := range rawRef[1:end] {
		if r < '0' || r > '9' {
			return rawRef
		}
	}
	return rawRef[end+2:]
}
