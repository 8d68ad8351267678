// Package seat implements the allocation pipeline for multi-round seat counselling data.
//
// # Reading Guide
//
// Start with these files to understand the data flow:
//   - schema.go: per-round column descriptors, the optional Value type and Row accessors
//   - loader.go: parses headerless round CSVs into RoundTables, splitting off malformed rows
//   - reconcile.go: derives one Allocation per candidate from the round-3 table,
//     falling back to round-2 and round-1 seats carried forward in that table
//   - normalize.go: cleans institute/course text and derives title-cased keys
//   - artifact.go: CSV codecs for the final and normalized allocation files
//
// # Architecture
//
// Data flows strictly forward:
//
//	R1/R2/R3 CSV → RoundTable → Allocation → NormalizedAllocation → inference.Row
//
// Aggregation and querying live in sub-packages:
//   - seat/inference/: inference table builder, table store and Predict
//   - seat/audit/: best-effort query audit log
//   - seat/trace/: per-run reconciliation decision records
//   - seat/pipeline/: runs every stage in order and writes the artifacts
//
// Stages are plain functions over in-memory values so tests can drive any one
// of them without touching the filesystem. Only LoadRoundFile, AppendMalformedLog
// and the *File helpers perform I/O.
package seat
