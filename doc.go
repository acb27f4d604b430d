// Package bkdnn implements the best-first branch-and-bound k-nearest-neighbor
// search over points indexed in a block k-d tree, spread across zero or more
// per-segment trees that together partition a document space.
//
// The package does not build or store k-d trees: it consumes an external
// Cursor per segment (see Cursor) and drives a priority queue of tree cells
// interleaved with a bounded priority queue of candidate hits. Construction
// of a concrete cursor, document-id bookkeeping, and the deleted-document
// bitmap are the caller's responsibility; a reference in-memory cursor for
// tests and demos lives in internal/refcursor.
package bkdnn
