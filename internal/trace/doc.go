// Package trace records structured events about an aggregation run.
//
// It is the project's logging layer: the CLI builds a Tracer from flags,
// stores it in the command context, and the driver emits spans for the run,
// each input file, and (at debug level) every aggregation group.
//
// # Levels and scopes
//
// Every event has a Scope (run, file, group). The Level decides which scopes
// are kept:
//
//   - off    – nothing
//   - error  – failures only
//   - phase  – run scope (load, aggregate, render)
//   - detail – run and file scope
//   - debug  – everything
//
// # Storage
//
// Stream mode writes each event immediately as text or NDJSON. Ring mode keeps
// the last N events in a Backlog that the CLI dumps after a failure; both mode
// does the two at once. Nop costs nothing when tracing is off.
package trace
