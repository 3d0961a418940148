package driver

import (
	"golang.org/x/text/unicode/norm"

	"qawarn/internal/qa"
)

// normalizeKeys rewrites type and bucket id to Unicode NFC so that keys
// which only differ in composition (e.g. "é" vs "é") fall into the
// same aggregation group. Warnings already in NFC are returned unchanged.
func normalizeKeys(w *qa.Warning) *qa.Warning {
	typ := norm.NFC.String(w.Type())
	bucket := norm.NFC.String(w.BucketID())
	if typ == w.Type() && bucket == w.BucketID() {
		return w
	}
	return qa.NewWithProperties(typ, bucket, w.Severity(), w.Count(), w.Properties())
}
