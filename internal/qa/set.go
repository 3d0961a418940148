package qa

import (
	"slices"

	"fortio.org/safecast"
)

// Set reduces warnings by aggregation id. Each group is stored once, in the
// order its first warning arrived, and every later warning of the same group
// is folded into it with Aggregate. Set is not safe for concurrent use.
type Set struct {
	items []*Warning
	index map[string]int
	max   uint16
}

// NewSet returns a Set holding at most max distinct groups; max <= 0 means
// no limit. Limits above 65535 are clamped.
func NewSet(max int) *Set {
	limit, err := safecast.Conv[uint16](max)
	if err != nil {
		if max > 0 {
			limit = ^uint16(0)
		} else {
			limit = 0
		}
	}
	return &Set{
		items: make([]*Warning, 0, min(int(limit), 64)),
		index: make(map[string]int),
		max:   limit,
	}
}

// Add merges w into its group, or starts a new group holding a copy of w.
// w is never mutated. Add returns false if w would start a new group but the
// set is full.
func (s *Set) Add(w *Warning) bool {
	if w == nil {
		return false
	}
	key := w.AggregationID()
	if i, ok := s.index[key]; ok {
		s.items[i].Aggregate(w)
		return true
	}
	if s.max > 0 && len(s.items) >= int(s.max) {
		return false
	}
	s.index[key] = len(s.items)
	s.items = append(s.items, w.Clone())
	return true
}

// AddAll adds every warning and returns how many were rejected because the
// set was full.
func (s *Set) AddAll(ws []*Warning) int {
	dropped := 0
	for _, w := range ws {
		if !s.Add(w) {
			dropped++
		}
	}
	return dropped
}

// Merge adds every group of other into s, in other's order. The cap of s
// grows if needed so no group is lost.
func (s *Set) Merge(other *Set) {
	if other == nil {
		return
	}
	if s.max > 0 {
		total := len(s.items) + len(other.items)
		if total > int(s.max) {
			if limit, err := safecast.Conv[uint16](total); err == nil {
				s.max = limit
			} else {
				s.max = 0
			}
		}
	}
	for _, w := range other.items {
		s.Add(w)
	}
}

// Get returns the group stored under an aggregation id.
func (s *Set) Get(aggregationID string) (*Warning, bool) {
	i, ok := s.index[aggregationID]
	if !ok {
		return nil, false
	}
	return s.items[i], true
}

func (s *Set) Len() int {
	return len(s.items)
}

// Cap returns the group limit, 0 when unlimited.
func (s *Set) Cap() int {
	return int(s.max)
}

// Items returns the groups in their current order.
// The slice is shared with the set and must not be modified.
func (s *Set) Items() []*Warning {
	return s.items
}

// Sort orders groups by decreasing severity; ties keep first-seen order.
func (s *Set) Sort() {
	slices.SortStableFunc(s.items, Compare)
	for i, w := range s.items {
		s.index[w.AggregationID()] = i
	}
}

// Filter returns a new set with copies of the groups whose severity is at
// least floor.
func (s *Set) Filter(floor Severity) *Set {
	out := NewSet(int(s.max))
	for _, w := range s.items {
		if w.severity >= floor {
			out.Add(w)
		}
	}
	return out
}

// HasAtLeast reports whether any group is at least as severe as sev.
func (s *Set) HasAtLeast(sev Severity) bool {
	for _, w := range s.items {
		if w.severity >= sev {
			return true
		}
	}
	return false
}
