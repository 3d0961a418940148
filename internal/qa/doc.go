// Package qa defines the QA warning model shared by checks and renderers.
//
// # Data model
//
// Warning is the central record. It contains:
//
//   - Type – the category of issue, e.g. "missing-reference".
//   - BucketID – optional sub-key that splits a type into finer groups.
//   - Severity – INFO < WARNING < IMPORTANT < CRITICAL, defined in severity.go.
//   - Count – how many occurrences the value stands for (always >= 1).
//   - Properties – free-form display metadata.
//
// Type and BucketID form the aggregation id ("type" or "type_bucket").
// Warnings with equal aggregation ids describe the same problem and are merged
// by Aggregate: counts are summed and the most severe severity wins.
//
// # Reduction
//
// Producers should not call Aggregate directly. Set performs the keyed
// reduction and guarantees that only warnings of the same group are merged;
// Reporter and ReportBuilder let checks emit warnings without knowing where
// they end up.
//
// # Ordering
//
// Compare sorts the most severe warnings first. Equal severities compare
// equal so stable sorts keep producer order.
//
// # Wire form
//
// Record is the serialised shape used by JSON, YAML and msgpack codecs.
// Severity travels by name. Output always spells the bucket as "bucket_id";
// JSON input also accepts the legacy "bucketId".
//
// Package qa performs no IO and no synchronisation. Rendering lives in
// internal/qafmt, file ingestion and caching in internal/driver.
package qa
