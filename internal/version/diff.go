package version

import (
	"context"
	"sort"

	"github.com/google/go-cmp/cmp"

	"deckforge/internal/ir"
)

// Diff summarizes how deck snapshot B differs from snapshot A, in
// slide-id terms. Purely informational; computing it mutates nothing.
type Diff struct {
	Added    []string `json:"added,omitempty"`    // in B, not in A
	Removed  []string `json:"removed,omitempty"`  // in A, not in B
	Modified []string `json:"modified,omitempty"` // in both, structurally different
}

// Empty reports whether the two snapshots are equivalent.
func (d *Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Modified) == 0
}

// DiffVersions compares two snapshots of the same deck.
func (s *Store) DiffVersions(ctx context.Context, deckID, idA, idB string) (*Diff, error) {
	va, err := s.GetVersion(ctx, deckID, idA)
	if err != nil {
		return nil, err
	}
	vb, err := s.GetVersion(ctx, deckID, idB)
	if err != nil {
		return nil, err
	}
	return DiffDecks(va.Deck, vb.Deck), nil
}

// DiffDecks computes the slide-id set difference plus a structural
// equality check per common slide.
func DiffDecks(a, b *ir.Deck) *Diff {
	slidesA := slidesByID(a)
	slidesB := slidesByID(b)

	d := &Diff{}
	for id, sb := range slidesB {
		sa, ok := slidesA[id]
		if !ok {
			d.Added = append(d.Added, id)
			continue
		}
		if !cmp.Equal(sa, sb) {
			d.Modified = append(d.Modified, id)
		}
	}
	for id := range slidesA {
		if _, ok := slidesB[id]; !ok {
			d.Removed = append(d.Removed, id)
		}
	}
	sort.Strings(d.Added)
	sort.Strings(d.Removed)
	sort.Strings(d.Modified)
	return d
}

func slidesByID(deck *ir.Deck) map[string]*ir.Slide {
	out := map[string]*ir.Slide{}
	if deck == nil {
		return out
	}
	for _, s := range deck.Slides {
		out[s.ID] = s
	}
	return out
}
