package engine

import (
	"context"

	"fortio.org/safecast"
	"golang.org/x/sync/errgroup"

	"prism/internal/source"
	"prism/internal/token"
)

// section is one contiguous, line-aligned slice of the document.
type section struct {
	src       []byte
	startLine uint32
}

// TokenizeParallel partitions src into up to workers line-aligned sections,
// reconstructs each section's initial state with a sequential prescan chain,
// scans the sections concurrently and merges the results in section order.
// The output is identical to TokenizeSequential(src, nil).
func (e *Engine[S]) TokenizeParallel(ctx context.Context, src []byte, workers int) []token.Token {
	workers = e.clampWorkers(workers)
	lineCount := countLines(src)
	if workers <= 1 || lineCount < e.opts.lineThreshold() {
		return e.TokenizeSequential(src, nil)
	}
	if workers > lineCount {
		workers = lineCount
	}

	sections := partition(src, lineCount, workers)

	// Prescan chain: cheap sequential pass threading boundary state through
	// every section so each worker starts from the exact state a sequential
	// scan would have reached.
	states := make([]S, len(sections))
	st := e.strategy.Initial()
	for i, sec := range sections {
		states[i] = st
		st = e.strategy.ScanState(sec.src, st)
	}

	results := make([][]token.Token, len(sections))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, sec := range sections {
		g.Go(func(i int, sec section) func() error {
			return func() error {
				defer func() {
					// A panicking worker yields an empty section rather
					// than taking the whole document down.
					if r := recover(); r != nil {
						results[i] = nil
					}
				}()
				toks, _ := e.strategy.Scan(sec.src, sec.startLine, states[i], nil)
				results[i] = toks
				return nil
			}
		}(i, sec))
	}
	// Workers never return errors; failures degrade to empty sections.
	_ = g.Wait()

	total := 0
	for _, r := range results {
		total += len(r)
	}
	merged := make([]token.Token, 0, total)
	for _, r := range results {
		merged = append(merged, r...)
	}
	return merged
}

// partition splits src into workers line-aligned sections of near-equal
// line counts; the last section absorbs the remainder. Section boundaries
// always fall at line starts, never inside a line.
func partition(src []byte, lineCount, workers int) []section {
	lineStarts := source.BuildLineStarts(src)
	per := lineCount / workers

	sections := make([]section, 0, workers)
	for i := range workers {
		firstLine := i * per
		start := lineStarts[firstLine]
		var end uint32
		if i == workers-1 {
			end = safecast.MustConvert[uint32](len(src))
		} else {
			end = lineStarts[(i+1)*per]
		}
		sections = append(sections, section{
			src:       src[start:end],
			startLine: safecast.MustConvert[uint32](firstLine),
		})
	}
	return sections
}
