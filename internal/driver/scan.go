package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"prism/internal/diag"
	"prism/internal/source"
	"prism/internal/token"
)

// ScanDirResult is the outcome of tokenizing one file of a directory.
type ScanDirResult struct {
	Path     string
	FileID   source.FileID
	Language string
	Tokens   []token.Token
	Bag      *diag.Bag
}

// ScanEvent reports progress while a directory scan runs.
type ScanEvent struct {
	Path  string
	Index int
	Total int
}

// ListFiles returns the sorted list of files under dir that some
// registered language claims.
func (r *Registry) ListFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := r.ForPath(path); ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// ScanDir tokenizes every recognized file under dir in parallel.
// onEvent, when non-nil, is called once per completed file; it may run
// from any worker goroutine.
func (r *Registry) ScanDir(ctx context.Context, dir string, maxDiagnostics, jobs int, onEvent func(ScanEvent)) (*source.FileSet, []ScanDirResult, error) {
	files, err := r.ListFiles(dir)
	if err != nil {
		return nil, nil, err
	}

	fileSet := source.NewFileSet()
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))
	for _, path := range files {
		fileID, err := fileSet.Load(path)
		if err != nil {
			loadErrors[path] = err
			continue
		}
		fileIDs[path] = fileID
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Indexes are unique per goroutine, no mutex needed.
	results := make([]ScanDirResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func(i int, path string) func() error {
			return func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				bag := diag.NewBag(maxDiagnostics)

				if loadErr, hadError := loadErrors[path]; hadError {
					bag.Add(diag.Diagnostic{
						Severity: diag.SevError,
						Code:     diag.IOLoadFileError,
						Message:  "failed to load file: " + loadErr.Error(),
						Primary:  source.Span{},
					})
					results[i] = ScanDirResult{Path: path, Bag: bag}
					if onEvent != nil {
						onEvent(ScanEvent{Path: path, Index: i, Total: len(files)})
					}
					return nil
				}

				fileID := fileIDs[path]
				file := fileSet.Get(fileID)
				tok, _ := r.ForPath(path)

				rep := diag.WithFile(diag.BagReporter{Bag: bag}, fileID)
				tokens := tok.Tokenize(gctx, file.Content, rep)
				bag.Sort()

				results[i] = ScanDirResult{
					Path:     path,
					FileID:   fileID,
					Language: tok.ID(),
					Tokens:   tokens,
					Bag:      bag,
				}
				if onEvent != nil {
					onEvent(ScanEvent{Path: path, Index: i, Total: len(files)})
				}
				return nil
			}
		}(i, path))
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}
