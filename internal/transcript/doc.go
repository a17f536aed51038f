// Package transcript parses WebVTT-style cue transcripts and shapes them for
// cleaning.
//
// The package owns the cue parser, the speaker-aware statement grouper, and
// the token-budgeted batch packer so both the pipeline and the inspection
// commands work from the same ordered sequences: segments one-per-cue,
// statements partitioning the segments, batches partitioning the statements.
package transcript
