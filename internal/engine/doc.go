// Package engine implements the incremental, parallel tokenization core
// shared by every stateful Prism language.
//
// A language plugs in as a Strategy: a scan function that turns a text
// slice plus a resume state into tokens, and a prescan function that walks
// the same constructs tracking only the state that crosses line boundaries.
// The engine owns everything language independent: the line partitioner,
// the sequential prescan chain that reconstructs each section's initial
// state, the bounded worker pool, the strict section-order merge, and the
// sequential fallback for small documents.
//
// The scan function must satisfy a locality property: identical input text
// and identical initial state produce identical output no matter where the
// slice sits in the full document. That property is what makes the parallel
// decomposition byte-for-byte equivalent to a single sequential scan.
//
// Diagnostics are produced only on the sequential path. The parallel
// workers receive no reporter at all, so the limitation is structural
// rather than accidental; a document large enough to be partitioned is
// highlighted without diagnostics.
package engine
