package ssnark

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Observer receives diagnostic size reports from Setup. It replaces the
// reference implementation's stdout size dump with an opt-in callback.
type Observer func(label string, sizeInBits int)

type config struct {
	parallelism int
	progress    bool
	observer    Observer
	logLevel    zerolog.Level
}

func defaultConfig() config {
	return config{
		parallelism: 1,
		logLevel:    zerolog.DebugLevel,
	}
}

// Option configures Setup and Prove.
type Option func(*config) error

// WithParallelism sets the number of chunks each multi-scalar multiplication
// is split into. Chunk partial sums are reduced in a fixed order, so the
// result is independent of the chunk count.
func WithParallelism(n int) Option {
	return func(c *config) error {
		if n < 1 {
			return fmt.Errorf("ssnark: parallelism must be >= 1, got %d", n)
		}
		c.parallelism = n
		return nil
	}
}

// WithProgress renders a terminal progress bar over the fixed-base
// exponentiation batches during Setup.
func WithProgress() Option {
	return func(c *config) error {
		c.progress = true
		return nil
	}
}

// WithObserver registers a callback receiving the proving- and
// verification-key sizes computed by Setup. Prove does not call it.
func WithObserver(obs Observer) Option {
	return func(c *config) error {
		c.observer = obs
		return nil
	}
}

// WithLogLevel overrides the level of the timing events Setup and Prove emit.
func WithLogLevel(lvl zerolog.Level) Option {
	return func(c *config) error {
		c.logLevel = lvl
		return nil
	}
}

func newConfig(opts ...Option) (config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}
