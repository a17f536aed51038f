// Package cleaning sends statement batches to an external text-cleaning
// backend and reconciles the responses.
//
// Each batch is rendered as a prompt of [STATEMENT <n>] marker blocks where n
// is the statement's index in the whole transcript. The response parser is
// deliberately tolerant (markers in any order, echoed Speaker lines, stray
// code fences, incomplete responses); reconciliation applies a batch
// atomically and records a warning for every marker the service dropped or
// invented. A statement whose cleaned text never arrives keeps its original
// text, so the exported document always contains every statement.
//
// Batches are submitted concurrently through a bounded worker pool.
// Cancellation is observed at batch granularity: finished batches stay
// reconciled, unstarted ones are skipped.
package cleaning
