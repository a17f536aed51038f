// Package pipeline drives a transcript run through its stages: parse the cue
// file into segments, group segments into speaker statements, pack statements
// into token-budgeted batches, clean each batch through the configured
// backend, and export the reconciled document.
//
// The Runner owns queue status transitions and failure bookkeeping. Stage
// handlers implement Prepare and Execute and hand artifacts to the next stage
// through a shared run state. Every run carries a correlation ID in its
// context so stage logs and outbound service requests can be tied together.
package pipeline
