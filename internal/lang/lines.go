package lang

import "fortio.org/safecast"

// EachLine calls fn for every line of src with the line's index relative
// to the start of src, the byte offset of its first byte, and its content
// without the trailing newline. A trailing newline does not start another
// line: that empty line, if the caller's slice is a section of a larger
// document, belongs to the next section.
func EachLine(src []byte, fn func(rel uint32, off uint32, line []byte)) {
	start := 0
	rel := uint32(0)
	for start < len(src) {
		end := start
		for end < len(src) && src[end] != '\n' {
			end++
		}
		fn(rel, safecast.MustConvert[uint32](start), src[start:end])
		start = end + 1
		rel++
	}
}
