// Package token defines the semantic token model shared by all Prism
// tokenizers.
// Invariants:
//   - Tokens are strictly ordered by (Line, Col) and never overlap.
//   - Length is always > 0; zero-length tokens are dropped before encoding.
//   - A logical multi-line construct is represented as one token per
//     physical line it touches; a single Token never spans lines.
//   - Type values double as indices into the published legend, so the
//     legend ordering must never change within a session.
package token
