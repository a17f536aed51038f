// Package export renders grouped transcript statements as Markdown or Word
// documents and computes run statistics for logs and notifications.
//
// Markdown output carries a document title, a speaker heading whenever the
// speaker changes, and a bold timestamp line above each statement body. When
// annotation is enabled each statement is diffed against its original text
// and removed words are struck through. Markdown writes go through an atomic
// rename, so progressive rewrites during a long cleaning run always leave a
// complete document on disk.
package export
