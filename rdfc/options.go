package rdfc

import (
	"io"
	"log/slog"
)

const (
	// DefaultMaxWorkFactor bounds per-node N-degree iterations to
	// blankNodes^1.
	DefaultMaxWorkFactor = 1
)

// Option configures canonicalization.
type Option func(*Options)

// Options configures canonicalization behavior.
type Options struct {
	// Algorithm selects the hash function and escaping profile.
	Algorithm Algorithm

	// MaxWorkFactor is the exponent used to derive the per-node deep
	// iteration limit from the blank node count. Negative disables the limit.
	MaxWorkFactor int
	// MaxDeepIterations overrides the derived limit when positive.
	MaxDeepIterations int

	// Workers is the number of goroutines used for independent hash
	// computations. Values below 2 run everything on the calling goroutine.
	Workers int

	// VerifyTies repeats resolution with reversed tie order when equal
	// N-degree hashes were seen and fails with ErrAmbiguous on a mismatch.
	VerifyTies bool

	// StrictIRIs applies rdf.ValidateIRI to every IRI before hashing.
	StrictIRIs bool

	// Logger receives debug events. Nil discards them.
	Logger *slog.Logger
}

// OptAlgorithm selects the algorithm.
func OptAlgorithm(alg Algorithm) Option {
	return func(opts *Options) {
		opts.Algorithm = alg
	}
}

// OptMaxWorkFactor sets the work factor used to derive the deep iteration limit.
func OptMaxWorkFactor(factor int) Option {
	return func(opts *Options) {
		opts.MaxWorkFactor = factor
	}
}

// OptMaxDeepIterations sets an explicit per-node deep iteration limit.
func OptMaxDeepIterations(limit int) Option {
	return func(opts *Options) {
		opts.MaxDeepIterations = limit
	}
}

// OptWorkers sets the number of hashing goroutines.
func OptWorkers(n int) Option {
	return func(opts *Options) {
		opts.Workers = n
	}
}

// OptVerifyTies toggles tie verification.
func OptVerifyTies(verify bool) Option {
	return func(opts *Options) {
		opts.VerifyTies = verify
	}
}

// OptStrictIRIs enables strict IRI validation of the input dataset.
func OptStrictIRIs() Option {
	return func(opts *Options) {
		opts.StrictIRIs = true
	}
}

// OptLogger sets the logger for debug events.
func OptLogger(logger *slog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

func defaultOptions() Options {
	return Options{
		Algorithm:     DefaultAlgorithm,
		MaxWorkFactor: DefaultMaxWorkFactor,
		Workers:       1,
		VerifyTies:    true,
	}
}

func buildOptions(opts []Option) Options {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	if options.Logger == nil {
		options.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return options
}

// deepIterationLimit returns the per-node limit for n blank nodes, or -1
// when unlimited.
func (o Options) deepIterationLimit(n int) int {
	if o.MaxDeepIterations > 0 {
		return o.MaxDeepIterations
	}
	if o.MaxWorkFactor < 0 {
		return -1
	}
	const maxInt = int(^uint(0) >> 1)
	limit := 1
	for i := 0; i < o.MaxWorkFactor; i++ {
		if n != 0 && limit > maxInt/n {
			return maxInt
		}
		limit *= n
	}
	return limit
}
