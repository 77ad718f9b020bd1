package source

type (
	// FileID uniquely identifies a document within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a loaded document.
	FileFlags uint8
)

const (
	// FileVirtual indicates the document was added from memory (editor buffer, test, stdin).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File captures the content and derived line index of a single document.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	// LineStarts holds the byte offset of the first byte of every line.
	// LineStarts[0] is always 0; there is one entry per line, so
	// len(LineStarts) is the document's line count.
	LineStarts []uint32
	Flags      FileFlags
}

// LineCol is a human-readable 1-based position in a document.
type LineCol struct {
	Line uint32
	Col  uint32
}
