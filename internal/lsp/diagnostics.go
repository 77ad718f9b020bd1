package lsp

import (
	"sync/atomic"
	"time"

	"prism/internal/diag"
	"prism/internal/source"
)

// scheduleDiagnostics debounces diagnostic runs: rapid edits reset the
// timer and only the latest scheduled run publishes.
func (s *Server) scheduleDiagnostics() {
	s.mu.Lock()
	seq := atomic.AddUint64(&s.diagSeq, 1)
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.debounceTimer = time.AfterFunc(s.debounce, func() {
		s.runDiagnostics(seq)
	})
	s.mu.Unlock()
}

func (s *Server) runDiagnostics(seq uint64) {
	if seq != atomic.LoadUint64(&s.diagSeq) {
		return
	}
	s.mu.Lock()
	docs := make(map[string]string, len(s.openDocs))
	for uri, text := range s.openDocs {
		docs[uri] = text
	}
	maxDiagnostics := s.maxDiagnostics
	s.mu.Unlock()

	for uri, text := range docs {
		if seq != atomic.LoadUint64(&s.diagSeq) {
			return
		}
		tok, ok := s.resolveTokenizer(uri)
		if !ok {
			continue
		}
		bag := diag.NewBag(maxDiagnostics)
		src := []byte(text)
		// Diagnostics always come from a sequential scan; the parallel
		// path never reports.
		tok.TokenizeSequential(src, diag.BagReporter{Bag: bag})
		bag.Sort()

		list := convertDiagnostics(src, bag)
		s.mu.Lock()
		if len(list) > 0 {
			s.published[uri] = struct{}{}
		} else if _, had := s.published[uri]; !had {
			s.mu.Unlock()
			continue
		} else {
			delete(s.published, uri)
		}
		s.mu.Unlock()
		if err := s.sendPublish(uri, list); err != nil {
			s.logf("failed to publish diagnostics: %v", err)
		}
	}
}

func (s *Server) clearPublishedDiagnostics() {
	s.mu.Lock()
	uris := make([]string, 0, len(s.published))
	for uri := range s.published {
		uris = append(uris, uri)
	}
	s.published = make(map[string]struct{})
	s.mu.Unlock()
	for _, uri := range uris {
		if err := s.sendPublish(uri, nil); err != nil {
			s.logf("failed to clear diagnostics: %v", err)
		}
	}
}

// convertDiagnostics maps bag diagnostics to wire diagnostics, turning
// byte offsets into zero-based line and column positions.
func convertDiagnostics(src []byte, bag *diag.Bag) []lspDiagnostic {
	if bag.Len() == 0 {
		return nil
	}
	lineStarts := source.BuildLineStarts(src)
	out := make([]lspDiagnostic, 0, bag.Len())
	for _, d := range bag.Items() {
		start := source.ToLineCol(lineStarts, d.Primary.Start)
		end := source.ToLineCol(lineStarts, d.Primary.End)
		out = append(out, lspDiagnostic{
			Range: lspRange{
				Start: position{Line: int(start.Line) - 1, Character: int(start.Col) - 1},
				End:   position{Line: int(end.Line) - 1, Character: int(end.Col) - 1},
			},
			Severity: lspSeverity(d.Severity),
			Code:     d.Code.ID(),
			Source:   "prism",
			Message:  d.Message,
		})
	}
	return out
}

func lspSeverity(sev diag.Severity) int {
	switch sev {
	case diag.SevError:
		return 1
	case diag.SevWarning:
		return 2
	default:
		return 3
	}
}
