// Package textutil provides token-based text similarity checks.
//
// The primary use case is comparing cleaned statements against their
// originals: NewFingerprint builds a term frequency vector for a text, and
// CosineSimilarity scores how much vocabulary two fingerprints share.
// Tokenization lowercases, splits on non-alphanumeric characters, and filters
// tokens shorter than 3 characters.
package textutil
