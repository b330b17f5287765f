package flock

import (
	"log/slog"
	"math/rand/v2"
)

// GeneratorBuilderOption is a functional option for configuring a Generator via NewGenerator.
type GeneratorBuilderOption func(*generator)

// WithSeed seeds the generator's random source. Zero picks a random seed.
//
// Parameters:
//   - seed: the PCG seed
//
// Returns:
//   - GeneratorBuilderOption: a function that applies the seed option to a generator
func WithSeed(seed uint64) GeneratorBuilderOption {
	return func(g *generator) {
		g.rng = newRand(seed)
	}
}

// WithRand sets the random source used for clone transforms and colors.
func WithRand(rng *rand.Rand) GeneratorBuilderOption {
	return func(g *generator) {
		g.rng = rng
	}
}

// WithPalette sets the instance palette.
func WithPalette(p Palette) GeneratorBuilderOption {
	return func(g *generator) {
		g.palette = p
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) GeneratorBuilderOption {
	return func(g *generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}
