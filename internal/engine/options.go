package engine

const (
	// DefaultLineThreshold is the document size, in lines, below which
	// tokenization always runs sequentially. Parallel overhead is not
	// justified under this size.
	DefaultLineThreshold = 4000

	// DefaultMaxWorkers bounds the worker pool regardless of available
	// hardware parallelism.
	DefaultMaxWorkers = 4
)

// Options configures a single engine instance.
type Options struct {
	// LineThreshold overrides DefaultLineThreshold when > 0.
	LineThreshold int
	// MaxWorkers overrides DefaultMaxWorkers when > 0.
	MaxWorkers int
}

func (o Options) lineThreshold() int {
	if o.LineThreshold > 0 {
		return o.LineThreshold
	}
	return DefaultLineThreshold
}

func (o Options) maxWorkers() int {
	if o.MaxWorkers > 0 {
		return o.MaxWorkers
	}
	return DefaultMaxWorkers
}

// RangeStrategy tells callers how a language serves range requests.
type RangeStrategy uint8

const (
	// RangeExact filters full-document output by line and is guaranteed
	// identical to full tokenization restricted to the requested range.
	RangeExact RangeStrategy = iota
	// RangeLocal re-derives classification with bounded local lookahead.
	// Cheaper for viewport-sized requests, but may diverge from full
	// tokenization on deeply nested or malformed input.
	RangeLocal
)

func (s RangeStrategy) String() string {
	switch s {
	case RangeExact:
		return "exact"
	case RangeLocal:
		return "local"
	}
	return "unknown"
}
