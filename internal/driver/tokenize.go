package driver

import (
	"context"
	"fmt"

	"prism/internal/diag"
	"prism/internal/engine"
	"prism/internal/source"
	"prism/internal/token"
)

// TokenizeResult bundles everything a caller needs to render one file.
type TokenizeResult struct {
	FileSet  *source.FileSet
	File     *source.File
	Language string
	Tokens   []token.Token
	Bag      *diag.Bag
}

// Tokenize loads and tokenizes a single file, resolving the language
// from the path. language overrides the resolution when non-empty.
func (r *Registry) Tokenize(ctx context.Context, path, language string, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	tok, id, err := r.resolve(path, language)
	if err != nil {
		return nil, err
	}

	bag := diag.NewBag(maxDiagnostics)
	rep := diag.WithFile(diag.BagReporter{Bag: bag}, fileID)
	tokens := tok.Tokenize(ctx, file.Content, rep)
	bag.Sort()

	return &TokenizeResult{
		FileSet:  fs,
		File:     file,
		Language: id,
		Tokens:   tokens,
		Bag:      bag,
	}, nil
}

// TokenizeRange is Tokenize restricted to an inclusive line range.
// Range requests never produce diagnostics.
func (r *Registry) TokenizeRange(ctx context.Context, path, language string, startLine, endLine uint32) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	tok, id, err := r.resolve(path, language)
	if err != nil {
		return nil, err
	}

	tokens := tok.TokenizeRange(ctx, file.Content, startLine, endLine)
	return &TokenizeResult{
		FileSet:  fs,
		File:     file,
		Language: id,
		Tokens:   tokens,
		Bag:      diag.NewBag(0),
	}, nil
}

func (r *Registry) resolve(path, language string) (engine.Tokenizer, string, error) {
	if language != "" {
		tok, ok := r.ForLanguage(language)
		if !ok {
			return nil, "", fmt.Errorf("unknown language %q (known: %v)", language, r.Languages())
		}
		return tok, language, nil
	}
	tok, ok := r.ForPath(path)
	if !ok {
		return nil, "", fmt.Errorf("cannot detect language of %q; pass one of %v explicitly", path, r.Languages())
	}
	return tok, tok.ID(), nil
}
