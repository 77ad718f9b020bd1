package lsp

import (
	"encoding/json"

	"fortio.org/safecast"

	"prism/internal/engine"
	"prism/internal/semtok"
)

// languageIDs maps LSP languageId values to registry identifiers.
var languageIDs = map[string]string{
	"shellscript": "shell",
	"sh":          "shell",
	"bash":        "shell",
	"shell":       "shell",
	"yaml":        "yaml",
	"python":      "python",
	"nim":         "nim",
}

// resolveTokenizer picks the engine for an open document, preferring
// the client-declared languageId over the file extension.
func (s *Server) resolveTokenizer(uri string) (engine.Tokenizer, bool) {
	s.mu.Lock()
	langID := s.languages[uri]
	s.mu.Unlock()
	if id, ok := languageIDs[langID]; ok {
		if tok, ok := s.registry.ForLanguage(id); ok {
			return tok, true
		}
	}
	return s.registry.ForPath(uriToPath(uri))
}

func (s *Server) handleSemanticTokensFull(msg *rpcMessage) error {
	var params semanticTokensParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, -32602, "invalid params")
	}
	uri := canonicalURI(params.TextDocument.URI)
	s.mu.Lock()
	text, open := s.openDocs[uri]
	s.mu.Unlock()
	if !open {
		return s.sendResponse(msg.ID, semanticTokens{Data: []uint32{}})
	}
	tok, ok := s.resolveTokenizer(uri)
	if !ok {
		return s.sendResponse(msg.ID, semanticTokens{Data: []uint32{}})
	}
	toks := tok.Tokenize(s.baseCtx, []byte(text), nil)
	return s.sendResponse(msg.ID, semanticTokens{Data: semtok.Encode(toks)})
}

func (s *Server) handleSemanticTokensRange(msg *rpcMessage) error {
	var params semanticTokensRangeParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, -32602, "invalid params")
	}
	uri := canonicalURI(params.TextDocument.URI)
	s.mu.Lock()
	text, open := s.openDocs[uri]
	s.mu.Unlock()
	if !open {
		return s.sendResponse(msg.ID, semanticTokens{Data: []uint32{}})
	}
	tok, ok := s.resolveTokenizer(uri)
	if !ok {
		return s.sendResponse(msg.ID, semanticTokens{Data: []uint32{}})
	}
	startLine := safecast.MustConvert[uint32](max(params.Range.Start.Line, 0))
	endLine := safecast.MustConvert[uint32](max(params.Range.End.Line, 0))
	toks := tok.TokenizeRange(s.baseCtx, []byte(text), startLine, endLine)
	return s.sendResponse(msg.ID, semanticTokens{Data: semtok.Encode(toks)})
}
