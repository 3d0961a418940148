package qafmt

import (
	"encoding/json"
	"io"

	"github.com/google/uuid"

	"qawarn/internal/qa"
)

// WarningJSON is one rendered group: the warning record plus its
// aggregation id.
type WarningJSON struct {
	qa.Record
	AggregationID string `json:"aggregation_id"`
}

// WarningsOutput is the root of the JSON output.
type WarningsOutput struct {
	RunID     string        `json:"run_id"`
	Warnings  []WarningJSON `json:"warnings"`
	Count     int           `json:"count"`
	Truncated int           `json:"truncated,omitempty"`
	Summary   qa.Summary    `json:"summary"`
}

// NewRunID returns a random identifier for one rendered run.
func NewRunID() string {
	return uuid.NewString()
}

// BuildWarningsOutput builds the JSON document without encoding it.
// Groups are taken in set order; call set.Sort first for severity order.
func BuildWarningsOutput(set *qa.Set, opts JSONOpts) WarningsOutput {
	items := set.Items()
	limit := len(items)
	if opts.Max > 0 && opts.Max < limit {
		limit = opts.Max
	}

	out := WarningsOutput{
		RunID:     opts.RunID,
		Warnings:  make([]WarningJSON, 0, limit),
		Truncated: len(items) - limit,
		Summary:   set.Summary(),
	}
	if out.RunID == "" {
		out.RunID = NewRunID()
	}

	for _, w := range items[:limit] {
		rec := w.Record()
		if opts.OmitProperties {
			rec.Properties = map[string]any{}
		}
		out.Warnings = append(out.Warnings, WarningJSON{
			Record:        rec,
			AggregationID: w.AggregationID(),
		})
	}
	out.Count = len(out.Warnings)
	return out
}

// JSON writes the set as an indented JSON document.
func JSON(w io.Writer, set *qa.Set, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildWarningsOutput(set, opts))
}
