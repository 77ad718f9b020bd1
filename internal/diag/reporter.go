package diag

import "prism/internal/source"

// Reporter is the minimal contract scanners emit diagnostics through.
// A nil Reporter means diagnostics are discarded but scanning continues;
// the parallel tokenization path always passes nil.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string)
}

// BagReporter forwards every report into a *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, msg string) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
	})
}

// WithFile wraps a reporter so every span is attributed to file.
// Scanners work on bare byte slices and leave Span.File zero; the
// caller that knows the file identity installs it here.
func WithFile(r Reporter, file source.FileID) Reporter {
	if r == nil {
		return nil
	}
	return fileReporter{file: file, inner: r}
}

type fileReporter struct {
	file  source.FileID
	inner Reporter
}

func (r fileReporter) Report(code Code, sev Severity, primary source.Span, msg string) {
	primary.File = r.file
	r.inner.Report(code, sev, primary, msg)
}

// Report is a nil-safe helper for optional reporters.
func Report(r Reporter, code Code, sev Severity, primary source.Span, msg string) {
	if r == nil {
		return
	}
	r.Report(code, sev, primary, msg)
}
