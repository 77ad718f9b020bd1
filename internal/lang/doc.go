// Package lang holds the scanning primitives shared by the language
// strategies: a per-line byte cursor, a nil-safe token sink, a line
// iterator matching the partitioner's notion of a line, and byte
// classifiers.
//
// Every language scans line by line through one scanLine function used
// both for tokenization (with a sink) and for prescanning (with a nil
// sink). Sharing the walk is what guarantees the prescan reaches the
// same boundary states as a full scan.
package lang
