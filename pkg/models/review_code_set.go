package models

import "slices"

// ReviewCodeSet is a set of review-code ids. It serializes as a JSON array;
// order is not significant and duplicates are collapsed by the constructor.
type ReviewCodeSet []string

// NewReviewCodeSet builds a set from the given ids, dropping duplicates and
// empty ids while preserving first-seen order.
func NewReviewCodeSet(ids ...string) ReviewCodeSet {
	set := make(ReviewCodeSet, 0, len(ids))

	for _, id := range ids {
		if id == "" || slices.Contains(set, id) {
			continue
		}

		set = append(set, id)
	}

	return set
}

// IsEmpty reports whether the set has no members.
func (s ReviewCodeSet) IsEmpty() bool {
	return len(s) == 0
}

// Has reports whether id is a member of the set.
func (s ReviewCodeSet) Has(id string) bool {
	return slices.Contains(s, id)
}

// SubsetOf reports whether every member of s is also a member of other.
func (s ReviewCodeSet) SubsetOf(other ReviewCodeSet) bool {
	for _, id := range s {
		if !other.Has(id) {
			return false
		}
	}

	return true
}

// Intersects reports whether s and other share at least one member.
func (s ReviewCodeSet) Intersects(other ReviewCodeSet) bool {
	for _, id := range s {
		if other.Has(id) {
			return true
		}
	}

	return false
}
