// Package diagnostic provides structured errors and warnings for the
// dispatch generator.
//
// Key capabilities:
//   - Stable codes for every generation-time rule violation
//   - Per-enum and per-variant labels on each message
//   - Aggregation of violations across all variants of an enum into one
//     report, instead of aborting on the first
package diagnostic
