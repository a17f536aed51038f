// Package queue persists transcript runs in SQLite and exposes helpers for
// driving their lifecycle.
//
// The Store manages database connections, schema initialization, stats queries,
// stuck-item recovery, and status transitions that mirror the pipeline stages.
// Queue items capture progress, segment/statement/batch counters, warning and
// removed-word totals, and output locations so the CLI can report on past and
// in-flight runs.
//
// The database is treated as a run history rather than a long-term archive.
// Schema changes bump the version in schema.go; users clear the database to
// adopt the new schema.
package queue
