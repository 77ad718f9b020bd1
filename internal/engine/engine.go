package engine

import (
	"context"
	"runtime"

	"prism/internal/diag"
	"prism/internal/token"
)

// Strategy is the per-language pair of scanning callbacks the engine is
// parameterized by. S is the language's closed boundary-state set; it must
// be comparable so tests can assert prescan correctness directly.
type Strategy[S comparable] interface {
	// Initial returns the state at the top of a document.
	Initial() S

	// Scan tokenizes src, which begins at absolute line startLine, resuming
	// from st. Emitted tokens carry absolute line numbers. Diagnostics go to
	// rep when non-nil; a nil rep discards them without affecting tokens.
	// Scan must be a pure function of (src, startLine, st): identical input
	// yields identical output wherever the slice sits in the document.
	Scan(src []byte, startLine uint32, st S, rep diag.Reporter) ([]token.Token, S)

	// ScanState walks src applying exactly the same recognition rules as
	// Scan for every construct that can open or close boundary state, but
	// emits no tokens. Any divergence from Scan is a correctness defect.
	ScanState(src []byte, st S) S
}

// LocalRangeFunc serves a range request with bounded local lookahead
// instead of full tokenization (range strategy "local").
type LocalRangeFunc func(src []byte, startLine, endLine uint32) []token.Token

// Tokenizer is the language-independent view used by the server and CLI.
type Tokenizer interface {
	ID() string
	// Tokenize picks the sequential or parallel path based on document size.
	// Diagnostics reach rep only when the sequential path is taken.
	Tokenize(ctx context.Context, src []byte, rep diag.Reporter) []token.Token
	// TokenizeSequential always scans in one pass, with diagnostics.
	TokenizeSequential(src []byte, rep diag.Reporter) []token.Token
	// TokenizeParallel scans with up to workers sections. Falls back to a
	// single sequential scan below the line threshold or for workers <= 1.
	TokenizeParallel(ctx context.Context, src []byte, workers int) []token.Token
	// TokenizeRange returns tokens for the inclusive line range only.
	TokenizeRange(ctx context.Context, src []byte, startLine, endLine uint32) []token.Token
	RangeStrategy() RangeStrategy
}

// Engine wires a Strategy into the shared partition/prescan/dispatch core.
type Engine[S comparable] struct {
	id       string
	strategy Strategy[S]
	opts     Options
	local    LocalRangeFunc
}

// New constructs an engine for one language.
func New[S comparable](id string, strategy Strategy[S], opts Options) *Engine[S] {
	return &Engine[S]{
		id:       id,
		strategy: strategy,
		opts:     opts,
	}
}

// WithLocalRange installs a local-lookahead range scanner, switching the
// language's range strategy to RangeLocal.
func (e *Engine[S]) WithLocalRange(fn LocalRangeFunc) *Engine[S] {
	e.local = fn
	return e
}

func (e *Engine[S]) ID() string {
	return e.id
}

func (e *Engine[S]) RangeStrategy() RangeStrategy {
	if e.local != nil {
		return RangeLocal
	}
	return RangeExact
}

// Tokenize scans the whole document, choosing the path by size.
func (e *Engine[S]) Tokenize(ctx context.Context, src []byte, rep diag.Reporter) []token.Token {
	workers := e.clampWorkers(e.opts.maxWorkers())
	if countLines(src) < e.opts.lineThreshold() || workers <= 1 {
		return e.TokenizeSequential(src, rep)
	}
	return e.TokenizeParallel(ctx, src, workers)
}

// TokenizeSequential scans the whole document in one pass.
func (e *Engine[S]) TokenizeSequential(src []byte, rep diag.Reporter) []token.Token {
	toks, _ := e.strategy.Scan(src, 0, e.strategy.Initial(), rep)
	return toks
}

// clampWorkers resolves the effective worker count:
// min(requested, MaxWorkers, available hardware parallelism).
func (e *Engine[S]) clampWorkers(requested int) int {
	workers := requested
	if maxWorkers := e.opts.maxWorkers(); workers > maxWorkers {
		workers = maxWorkers
	}
	if procs := runtime.GOMAXPROCS(0); workers > procs {
		workers = procs
	}
	return workers
}

func countLines(src []byte) int {
	n := 1
	for _, b := range src {
		if b == '\n' {
			n++
		}
	}
	// A trailing newline does not start another line.
	if len(src) == 0 || src[len(src)-1] == '\n' {
		n--
	}
	return n
}
