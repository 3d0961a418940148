package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"qawarn/internal/qa"
)

// CheckSetInvariants runs the structural checks every reduced set must pass:
// 1) each group has a non-empty type, a valid severity and count >= 1
// 2) aggregation ids are unique and Get finds every group
// 3) if sorted is true, severities are non-increasing
// 4) the group total fits the set's cap (when one is set)
func CheckSetInvariants(set *qa.Set, sorted bool) error {
	if set == nil {
		return fmt.Errorf("nil set")
	}
	seen := make(map[string]int, set.Len())
	for i, w := range set.Items() {
		if w == nil {
			return fmt.Errorf("nil group at %d", i)
		}
		// 1) field sanity
		if w.Type() == "" {
			return fmt.Errorf("group %d has empty type", i)
		}
		if !w.Severity().Valid() {
			return fmt.Errorf("group %s has invalid severity %d", w.AggregationID(), w.Severity())
		}
		if w.Count() < 1 {
			return fmt.Errorf("group %s has count %d", w.AggregationID(), w.Count())
		}

		// 2) unique ids and index consistency
		id := w.AggregationID()
		if prev, dup := seen[id]; dup {
			return fmt.Errorf("aggregation id %q repeated at %d and %d", id, prev, i)
		}
		seen[id] = i
		if got, ok := set.Get(id); !ok || got != w {
			return fmt.Errorf("Get(%q) does not return group %d", id, i)
		}

		// 3) ordering
		if sorted && i > 0 {
			if prev := set.Items()[i-1]; prev.Severity() < w.Severity() {
				return fmt.Errorf("group %d (%s) sorts after less severe %s", i, w, prev)
			}
		}
	}

	// 4) cap
	if limit := set.Cap(); limit > 0 {
		n, err := safecast.Conv[uint16](set.Len())
		if err != nil {
			return fmt.Errorf("group count overflow: %w", err)
		}
		if int(n) > limit {
			return fmt.Errorf("set holds %d groups, cap is %d", n, limit)
		}
	}
	return nil
}

// TotalOccurrences sums counts across groups.
func TotalOccurrences(set *qa.Set) int {
	total := 0
	for _, w := range set.Items() {
		total += w.Count()
	}
	return total
}
