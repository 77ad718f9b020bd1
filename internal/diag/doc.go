// Package diag defines the diagnostic model shared by all tokenizers.
//
// Diagnostic is the central record: Severity, a compact numeric Code with a
// stable string form, a human message, and the primary source.Span. Bag is a
// bounded collector with deterministic ordering; Reporter is the thin
// interface lexers emit through, so the scanning layer never couples to
// storage or formatting. Rendering lives in internal/diagfmt.
//
// The engine is deliberately error tolerant: diagnostics describe recovered
// conditions (an unterminated literal, a stray character), never aborts.
package diag
