package charlm

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
)

var (
	// ErrInvalidConfiguration is returned by New when the window length is not positive.
	ErrInvalidConfiguration = errors.New("charlm: invalid configuration")
	// ErrEmptyDistribution is returned when probabilities are computed for a
	// list without any observations. Training never produces such a list.
	ErrEmptyDistribution = errors.New("charlm: empty distribution")
)

// RandomSource produces uniformly distributed numbers in [0, 1).
// *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	Float64() float64
}

// NewSeededSource returns a deterministic RandomSource. Two sources built from
// the same seed produce the same sequence of draws.
func NewSeededSource(seed uint64) RandomSource {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Option configures a Model.
type Option func(*Model)

// WithSeed makes generation deterministic by seeding the model's random source.
func WithSeed(seed uint64) Option {
	return func(m *Model) {
		m.random = NewSeededSource(seed)
	}
}

// WithRandomSource sets the random source used for sampling. A nil source is ignored.
func WithRandomSource(src RandomSource) Option {
	return func(m *Model) {
		if src != nil {
			m.random = src
		}
	}
}

// WithLogger sets the logger of the model. See SetLogger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Model) { m.SetLogger(logger) }
}

// Model is a character-level sliding-window language model. It owns its
// window table and its random source. A Model is not safe for concurrent use.
type Model struct {
	windowLength int
	table        *WindowTable
	random       RandomSource
	logger       *slog.Logger
}

// New creates an untrained model that predicts a character from the
// windowLength characters preceding it. Without WithSeed or WithRandomSource
// the model samples from a nondeterministically seeded source.
func New(windowLength int, opts ...Option) (*Model, error) {
	if windowLength <= 0 {
		return nil, fmt.Errorf("%w: window length must be positive, got %d", ErrInvalidConfiguration, windowLength)
	}
	m := &Model{
		windowLength: windowLength,
		table:        NewWindowTable(),
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.random == nil {
		m.random = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return m, nil
}

// SetLogger sets the logger for the Model. By default, all logs are discarded.
func (m *Model) SetLogger(logger *slog.Logger) {
	if logger != nil {
		m.logger = logger
	}
}

// WindowLength returns the number of characters in each window.
func (m *Model) WindowLength() int {
	return m.windowLength
}

// Table returns the model's window table. It must be treated as read-only.
func (m *Model) Table() *WindowTable {
	return m.table
}

// String lists every window with its finalized entry list, one per line.
// The format is informational only.
func (m *Model) String() string {
	return m.table.String()
}
