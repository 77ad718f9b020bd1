package source

import (
	"fmt"
	"os"

	"fortio.org/safecast"
)

// FileSet manages a collection of documents and resolves spans to positions.
type FileSet struct {
	files []File
	index map[string]FileID // path -> id
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
		index: make(map[string]FileID),
	}
}

// Add stores a document from normalized bytes, computes LineStarts, and
// returns a new FileID. It always creates a new FileID even if a document
// with the same path already exists; the index tracks the latest version.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	normalizedPath := normalizePath(path)

	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(lenFiles)
	fileSet.files = append(fileSet.files, File{
		ID:         id,
		Path:       normalizedPath,
		Content:    content,
		LineStarts: BuildLineStarts(content),
		Flags:      flags,
	})
	fileSet.index[normalizedPath] = id
	return id
}

// Load reads a document from disk, normalizes CRLF/BOM, and calls Add.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)

	flags := FileFlags(0)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return fileSet.Add(path, content, flags), nil
}

// AddVirtual adds an in-memory document (editor buffer, test, stdin),
// applying the same CRLF/BOM normalization as Load.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)

	flags := FileVirtual
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return fileSet.Add(name, content, flags)
}

// Get returns the document for the given ID, or nil for an ID that was
// never issued by this set.
func (fileSet *FileSet) Get(id FileID) *File {
	if int(id) >= len(fileSet.files) {
		return nil
	}
	return &fileSet.files[id]
}

// GetByPath returns the latest version of the document at path, if loaded.
func (fileSet *FileSet) GetByPath(path string) (*File, bool) {
	if id, ok := fileSet.index[normalizePath(path)]; ok {
		return &fileSet.files[id], true
	}
	return nil, false
}

// LineCount reports the number of lines in the document.
func (f *File) LineCount() uint32 {
	n, err := safecast.Conv[uint32](len(f.LineStarts))
	if err != nil {
		panic(fmt.Errorf("line count overflow: %w", err))
	}
	return n
}

// LineSpan returns the byte range [start, end) of the 0-based line,
// excluding the trailing newline. Out-of-range lines yield an empty span
// at the end of the document.
func (f *File) LineSpan(line uint32) (start, end uint32) {
	contentLen, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	if int(line) >= len(f.LineStarts) {
		return contentLen, contentLen
	}
	start = f.LineStarts[line]
	if int(line)+1 < len(f.LineStarts) {
		end = f.LineStarts[line+1] - 1 // exclude '\n'
	} else {
		end = contentLen
	}
	return start, end
}

// Line returns the content of the 0-based line without its trailing newline.
func (f *File) Line(line uint32) []byte {
	start, end := f.LineSpan(line)
	return f.Content[start:end]
}
