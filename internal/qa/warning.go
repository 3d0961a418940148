package qa

import (
	"cmp"
	"fmt"
	"maps"
	"math"
	"slices"
)

// Warning is a single reported data-quality issue. It may stand for several
// occurrences of the same issue through Count.
//
// Type and BucketID never change after construction, so AggregationID is
// stable for the life of the value. Severity and Count only change through
// Aggregate.
type Warning struct {
	typ        string
	bucketID   string
	severity   Severity
	count      int
	properties map[string]any
}

// New returns a warning with an empty property set. An empty bucketID means
// the warning has no bucket.
//
// New panics when typ is empty, sev is not a declared severity or count is
// below one: those are caller bugs, not input errors. Use FromRecord for
// untrusted input.
func New(typ, bucketID string, sev Severity, count int) *Warning {
	return NewWithProperties(typ, bucketID, sev, count, nil)
}

// NewWithProperties is New with a pre-populated property map. The map is
// copied.
func NewWithProperties(typ, bucketID string, sev Severity, count int, props map[string]any) *Warning {
	if err := checkFields(typ, sev, count); err != nil {
		panic(err)
	}
	w := &Warning{
		typ:        typ,
		bucketID:   bucketID,
		severity:   sev,
		count:      count,
		properties: make(map[string]any, len(props)),
	}
	maps.Copy(w.properties, props)
	return w
}

func checkFields(typ string, sev Severity, count int) error {
	if typ == "" {
		return fmt.Errorf("%w: empty type", ErrInvalidWarning)
	}
	if !sev.Valid() {
		return fmt.Errorf("%w: invalid severity %d", ErrInvalidWarning, uint8(sev))
	}
	if count < 1 {
		return fmt.Errorf("%w: count must be >= 1, got %d", ErrInvalidWarning, count)
	}
	return nil
}

// Type names the category of issue.
func (w *Warning) Type() string { return w.typ }

// BucketID returns the sub-key within Type, or "" when there is none.
func (w *Warning) BucketID() string { return w.bucketID }

// HasBucket reports whether the warning carries a bucket id.
func (w *Warning) HasBucket() bool { return w.bucketID != "" }

func (w *Warning) Severity() Severity { return w.severity }

// Count is the number of occurrences this warning represents.
func (w *Warning) Count() int { return w.count }

// Properties returns a copy of the display properties.
func (w *Warning) Properties() map[string]any {
	return maps.Clone(w.properties)
}

// Property returns a single property value.
func (w *Warning) Property(key string) (any, bool) {
	v, ok := w.properties[key]
	return v, ok
}

// PropertyKeys returns the property keys in sorted order.
func (w *Warning) PropertyKeys() []string {
	return slices.Sorted(maps.Keys(w.properties))
}

// SetProperty inserts or overwrites a display property. Values should be
// serialisable.
func (w *Warning) SetProperty(key string, value any) {
	if w.properties == nil {
		w.properties = make(map[string]any)
	}
	w.properties[key] = value
}

// AggregationID is the key under which warnings are merged:
// "type_bucket" when a bucket is set, "type" otherwise.
func (w *Warning) AggregationID() string {
	if w.bucketID != "" {
		return w.typ + "_" + w.bucketID
	}
	return w.typ
}

// Aggregate folds other into w: counts add up (saturating at math.MaxInt)
// and the more severe severity wins. other is left untouched. Properties of other are not merged; the
// first warning of a group is the one displayed.
//
// Both warnings must share an aggregation id. Aggregate panics otherwise;
// Set.Add is the safe way to reduce warnings of mixed groups.
func (w *Warning) Aggregate(other *Warning) {
	if other.AggregationID() != w.AggregationID() {
		panic(fmt.Sprintf("qa: cannot aggregate %q into %q", other.AggregationID(), w.AggregationID()))
	}
	if w.count > math.MaxInt-other.count {
		w.count = math.MaxInt
	} else {
		w.count += other.count
	}
	w.severity = MaxSeverity(w.severity, other.severity)
}

// Clone returns an independent copy of w.
func (w *Warning) Clone() *Warning {
	c := *w
	c.properties = maps.Clone(w.properties)
	if c.properties == nil {
		c.properties = make(map[string]any)
	}
	return &c
}

// Equal reports whether both warnings carry the same fields and property
// contents. Numbers compare by value, whatever their Go type.
func (w *Warning) Equal(other *Warning) bool {
	if w == nil || other == nil {
		return w == other
	}
	if w.typ != other.typ || w.bucketID != other.bucketID ||
		w.severity != other.severity || w.count != other.count {
		return false
	}
	if len(w.properties) != len(other.properties) {
		return false
	}
	for k, v := range w.properties {
		ov, ok := other.properties[k]
		if !ok || !valueEqual(v, ov) {
			return false
		}
	}
	return true
}

func (w *Warning) String() string {
	return fmt.Sprintf("%s %s x%d", w.severity, w.AggregationID(), w.count)
}

// Compare orders warnings by decreasing severity. Warnings of equal severity
// compare equal, so a stable sort keeps their original order.
func Compare(a, b *Warning) int {
	return cmp.Compare(b.severity, a.severity)
}

// SortWarnings sorts ws in place, most severe first, stable for ties.
func SortWarnings(ws []*Warning) {
	slices.SortStableFunc(ws, Compare)
}
