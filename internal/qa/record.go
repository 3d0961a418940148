package qa

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
)

// ErrInvalidWarning is wrapped by every error produced while turning
// external input into a Warning.
var ErrInvalidWarning = errors.New("invalid warning")

// Record is the wire form of a Warning. The same shape is used for JSON,
// YAML and msgpack. Pointer fields distinguish "missing" from zero values.
type Record struct {
	Type       string         `json:"type" yaml:"type" msgpack:"type"`
	BucketID   *string        `json:"bucket_id,omitempty" yaml:"bucket_id,omitempty" msgpack:"bucket_id,omitempty"`
	Severity   string         `json:"severity" yaml:"severity" msgpack:"severity"`
	Count      *int           `json:"count" yaml:"count" msgpack:"count"`
	Properties map[string]any `json:"properties" yaml:"properties" msgpack:"properties"`
}

// Record returns the wire form of w.
func (w *Warning) Record() Record {
	count := w.count
	r := Record{
		Type:       w.typ,
		Severity:   w.severity.String(),
		Count:      &count,
		Properties: maps.Clone(w.properties),
	}
	if r.Properties == nil {
		r.Properties = map[string]any{}
	}
	if w.bucketID != "" {
		bucket := w.bucketID
		r.BucketID = &bucket
	}
	return r
}

// FromRecord validates a wire record and builds a Warning from it. All
// failures wrap ErrInvalidWarning.
func FromRecord(r Record) (*Warning, error) {
	if r.Type == "" {
		return nil, fmt.Errorf("%w: missing field %q", ErrInvalidWarning, "type")
	}
	if r.Severity == "" {
		return nil, fmt.Errorf("%w: %s: missing field %q", ErrInvalidWarning, r.Type, "severity")
	}
	sev, err := ParseSeverity(r.Severity)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidWarning, r.Type, err)
	}
	if r.Count == nil {
		return nil, fmt.Errorf("%w: %s: missing field %q", ErrInvalidWarning, r.Type, "count")
	}
	if err := checkFields(r.Type, sev, *r.Count); err != nil {
		return nil, fmt.Errorf("%s: %w", r.Type, err)
	}
	bucket := ""
	if r.BucketID != nil {
		bucket = *r.BucketID
	}
	return NewWithProperties(r.Type, bucket, sev, *r.Count, r.Properties), nil
}

// MarshalJSON encodes w as a Record. Property keys come out sorted.
func (w *Warning) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.Record())
}

// UnmarshalJSON decodes a Record. The legacy "bucketId" spelling is accepted
// when "bucket_id" is absent. Integral property numbers decode as int64 so
// large ids survive unrounded.
func (w *Warning) UnmarshalJSON(data []byte) error {
	var in struct {
		Record
		LegacyBucketID *string `json:"bucketId"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&in); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWarning, err)
	}
	for k, v := range in.Properties {
		in.Properties[k] = normalizeNumbers(v)
	}
	if in.BucketID == nil {
		in.BucketID = in.LegacyBucketID
	}
	decoded, err := FromRecord(in.Record)
	if err != nil {
		return err
	}
	*w = *decoded
	return nil
}
