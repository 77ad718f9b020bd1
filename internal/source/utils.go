package source

import (
	"fmt"
	"path/filepath"
	"slices"
	"sort"

	"fortio.org/safecast"
)

// normalizeCRLF replaces every \r\n with \n, leaving lone \r untouched.
// Returns the (possibly new) slice and whether any replacement happened.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}

	out := make([]byte, 0, len(content))
	changed := false

	i := 0
	for i < len(content) {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i += 2
			changed = true
		} else {
			out = append(out, content[i])
			i++
		}
	}
	return out, changed
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}

	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}

	return content, false
}

// BuildLineStarts computes the byte offset of the first byte of every line.
// Even an empty document has one (empty) line.
func BuildLineStarts(content []byte) []uint32 {
	out := make([]uint32, 1, 64)
	out[0] = 0
	for i, b := range content {
		if b == '\n' {
			off, err := safecast.Conv[uint32](i + 1)
			if err != nil {
				panic(fmt.Errorf("line start overflow: %w", err))
			}
			out = append(out, off)
		}
	}
	return out
}

// ToLineCol converts a byte offset into a 1-based line/column pair.
func ToLineCol(lineStarts []uint32, off uint32) LineCol {
	idx := sort.Search(len(lineStarts), func(i int) bool { return lineStarts[i] > off })
	line := idx - 1
	if line < 0 {
		line = 0
	}
	return LineCol{
		Line: uint32(line) + 1,
		Col:  off - lineStarts[line] + 1,
	}
}

// normalizePath produces a uniform path representation for cross-platform diffs.
func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
