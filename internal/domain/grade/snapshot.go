// Package grade contains the grade comparison domain: the per-course
// detail fetched live from the portal, the persisted snapshot it is
// compared against, and the change decision itself.
package grade

import "math"

// totalTolerance is the absolute difference below which two numeric
// totals are considered equal. The portal rounds totals server side, so
// sub-percent jitter must not produce alerts.
const totalTolerance = 0.01

// Detail is the authoritative grade for one course as returned by the
// per-course detail endpoint. Both fields are optional: a course early
// in the term has neither.
type Detail struct {
	// Total is the cumulative percentage, when published.
	Total *float64

	// Letter is the letter grade symbol (e.g. "B+"), when published.
	Letter *string
}

// Snapshot is the last grade recorded for a course, keyed by sigle in
// the state store. It reflects the last value that triggered (or
// matched) a notification decision, not necessarily the latest fetch.
type Snapshot struct {
	Total  *float64
	Letter *string
}

// State maps a course sigle to its last observed snapshot. At most one
// snapshot per sigle. The watcher owns the state for the duration of a
// cycle; there is no concurrent mutation.
type State map[string]Snapshot

// HasChanged reports whether the freshly fetched detail differs from
// the previous snapshot.
//
// With no previous snapshot the course is new: it counts as changed
// only once it carries any grade at all, so an ungraded course does not
// alert on first sight. With a previous snapshot, totals are compared
// with an absolute tolerance of 0.01 (any present/absent transition is
// a change) and letters by exact equality (absence is distinct from
// every string).
func HasChanged(prev *Snapshot, cur Detail) bool {
	if prev == nil {
		return cur.Total != nil || cur.Letter != nil
	}

	return totalDiffers(prev.Total, cur.Total) || letterDiffers(prev.Letter, cur.Letter)
}

func totalDiffers(old, new *float64) bool {
	switch {
	case old == nil && new == nil:
		return false
	case old == nil || new == nil:
		return true
	default:
		return math.Abs(*old-*new) > totalTolerance
	}
}

func letterDiffers(old, new *string) bool {
	switch {
	case old == nil && new == nil:
		return false
	case old == nil || new == nil:
		return true
	default:
		return *old != *new
	}
}

// SnapshotOf freezes a detail into a snapshot for persistence.
func SnapshotOf(d Detail) Snapshot {
	return Snapshot{Total: d.Total, Letter: d.Letter}
}
