package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"prism/internal/diag"
	"prism/internal/source"
)

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	infoColor = color.New(color.FgCyan, color.Bold)
	posColor  = color.New(color.Bold)
)

// Pretty formats diagnostics for terminals. Expects bag.Sort() to have
// run. Each diagnostic prints as
//
//	<path>:<line>:<col>: <SEV>[<CODE>]: <message>
//
// followed by the source line with a ^~~~ underline covering the span,
// plus Context surrounding lines when requested.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		printDiagnostic(w, d, fs, opts)
	}
}

func printDiagnostic(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	file := fs.Get(d.Primary.File)
	if file == nil {
		fmt.Fprintf(w, "%s: %s\n", severityLabel(d.Severity, opts.Color), d.Message)
		return
	}
	start := source.ToLineCol(file.LineStarts, d.Primary.Start)

	pos := fmt.Sprintf("%s:%d:%d", displayPath(file.Path, opts.PathMode), start.Line, start.Col)
	if opts.Color {
		pos = posColor.Sprint(pos)
	}
	fmt.Fprintf(w, "%s: %s[%s]: %s\n", pos, severityLabel(d.Severity, opts.Color), d.Code.ID(), d.Message)

	printContext(w, file, d, start, opts)
}

func printContext(w io.Writer, file *source.File, d diag.Diagnostic, start source.LineCol, opts PrettyOpts) {
	lineCount := file.LineCount()
	line := start.Line - 1
	if line >= lineCount {
		return
	}

	ctx := uint32(0)
	if opts.Context > 0 {
		ctx = uint32(opts.Context)
	}
	first := uint32(0)
	if line > ctx {
		first = line - ctx
	}
	last := line + ctx
	if last >= lineCount {
		last = lineCount - 1
	}

	for n := first; n <= last; n++ {
		text := string(file.Line(n))
		fmt.Fprintf(w, "%5d | %s\n", n+1, text)
		if n != line {
			continue
		}
		startCol := start.Col - 1
		width := d.Primary.Len()
		lineLen := uint32(len(text))
		if startCol > lineLen {
			startCol = lineLen
		}
		if width == 0 || startCol+width > lineLen {
			width = max(lineLen-startCol, 1)
		}
		underline := "^" + strings.Repeat("~", int(width)-1)
		if opts.Color {
			underline = severityColor(d.Severity).Sprint(underline)
		}
		fmt.Fprintf(w, "      | %s%s\n", strings.Repeat(" ", int(startCol)), underline)
	}
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return errColor
	case diag.SevWarning:
		return warnColor
	default:
		return infoColor
	}
}

func severityLabel(sev diag.Severity, colored bool) string {
	label := sev.String()
	if colored {
		return severityColor(sev).Sprint(label)
	}
	return label
}

func displayPath(path string, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
		return path
	case PathModeBasename:
		return filepath.Base(path)
	case PathModeRelative, PathModeAuto:
		if wd, err := filepath.Abs("."); err == nil {
			if rel, err := filepath.Rel(wd, path); err == nil && !strings.HasPrefix(rel, "..") {
				return rel
			}
		}
		return path
	}
	return path
}
