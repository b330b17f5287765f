// Package flock builds randomized groups of template clones. Regeneration is asynchronous: template
// loads complete on worker goroutines, and only completions carrying the current generation token
// ever reach a group.
package flock

import (
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-flock/common"
	"github.com/Carmen-Shannon/oxy-flock/engine/game_object"
	"github.com/Carmen-Shannon/oxy-flock/engine/loader"
	"github.com/Carmen-Shannon/oxy-flock/engine/model"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// MaxScale is the exclusive upper bound of the isotropic instance scale.
const MaxScale float32 = 0.5

// Jitter configures how clones are scattered around the origin.
type Jitter struct {
	// Spread is the full extent per axis. Positions fall in [-Spread/2, Spread/2).
	Spread mgl32.Vec3
}

// TemplateLoader is the part of the asset pipeline the generator depends on.
type TemplateLoader interface {
	LoadAsync(name string) *loader.Future
}

// completion is one finished template load, queued until the next Poll.
type completion struct {
	generation uint64
	name       string
	model      model.Model
	err        error
}

// pendingGeneration accumulates the instances of the newest generation until every name settles.
type pendingGeneration struct {
	generation uint64
	names      []string
	count      int
	jitter     Jitter
	settled    map[string]bool
	instances  []game_object.GameObject
}

type generator struct {
	mu     *sync.Mutex
	queue  []completion
	logger *slog.Logger

	loader  TemplateLoader
	rng     *rand.Rand
	palette Palette

	generation atomic.Uint64
	pending    *pendingGeneration
	nextID     uint64
}

// Generator produces flock groups from named templates.
// Regenerate and Poll must be called from the same goroutine (the frame loop).
type Generator interface {
	// Regenerate starts a new generation and requests every named template.
	// Any generation still in flight is superseded: its completions are discarded when they arrive.
	//
	// Parameters:
	//   - names: the template names, duplicates are ignored
	//   - count: the number of clones per template
	//   - jitter: the scatter configuration
	//
	// Returns:
	//   - uint64: the new generation token
	Regenerate(names []string, count int, jitter Jitter) uint64

	// Generation returns the current generation token. It is safe to call from any goroutine.
	//
	// Returns:
	//   - uint64: the token of the most recent Regenerate call, 0 before the first
	Generation() uint64

	// Poll drains queued completions in arrival order. Stale completions are dropped, failures omit
	// their template, and successes are cloned. Once every name of the current generation has
	// settled, the finished group is returned with true, exactly once per generation.
	//
	// Returns:
	//   - Group: the finished group, valid only when the bool is true
	//   - bool: true when a new group is ready to replace the live one
	Poll() (Group, bool)

	// Pending reports whether a generation is waiting on template loads.
	Pending() bool
}

var _ Generator = &generator{}

// NewGenerator creates a Generator that requests templates from the given loader.
//
// Parameters:
//   - templates: the asset pipeline
//   - options: a variadic list of GeneratorBuilderOption functions
//
// Returns:
//   - Generator: the configured generator
func NewGenerator(templates TemplateLoader, options ...GeneratorBuilderOption) Generator {
	g := &generator{
		mu:      &sync.Mutex{},
		logger:  slog.Default(),
		loader:  templates,
		palette: DefaultPalette(),
	}
	for _, opt := range options {
		opt(g)
	}
	if g.rng == nil {
		g.rng = newRand(0)
	}
	return g
}

func (g *generator) Regenerate(names []string, count int, jitter Jitter) uint64 {
	gen := g.generation.Add(1)

	unique := make([]string, 0, len(names))
	for _, name := range names {
		if !slices.Contains(unique, name) {
			unique = append(unique, name)
		}
	}

	g.pending = &pendingGeneration{
		generation: gen,
		names:      unique,
		count:      max(count, 0),
		jitter:     jitter,
		settled:    make(map[string]bool, len(unique)),
	}
	g.logger.Debug("regenerating flock", "generation", gen, "names", unique, "count", count)

	for _, name := range unique {
		g.loader.LoadAsync(name).Then(func(m model.Model, err error) {
			g.enqueue(completion{generation: gen, name: name, model: m, err: err})
		})
	}
	return gen
}

func (g *generator) Generation() uint64 {
	return g.generation.Load()
}

func (g *generator) Pending() bool {
	return g.pending != nil
}

func (g *generator) Poll() (Group, bool) {
	g.mu.Lock()
	batch := g.queue
	g.queue = nil
	g.mu.Unlock()

	p := g.pending
	for _, c := range batch {
		if p == nil || c.generation != p.generation {
			g.logger.Debug("discarding stale completion", "name", c.name, "generation", c.generation)
			continue
		}
		if p.settled[c.name] {
			continue
		}
		p.settled[c.name] = true

		if c.err != nil {
			g.logger.Warn("template failed to load, omitting its flock", "name", c.name, "error", c.err)
			continue
		}
		p.instances = append(p.instances, g.clone(c.model, p)...)
	}

	if p == nil || len(p.settled) < len(p.names) {
		return Group{}, false
	}

	g.pending = nil
	return Group{Generation: p.generation, Instances: p.instances}, true
}

// enqueue is called from whichever goroutine completes a load.
func (g *generator) enqueue(c completion) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.queue = append(g.queue, c)
}

// clone builds count instances of a template with randomized transforms and palette colors.
func (g *generator) clone(tmpl model.Model, p *pendingGeneration) []game_object.GameObject {
	out := make([]game_object.GameObject, 0, p.count)
	spread := p.jitter.Spread
	for range p.count {
		g.nextID++
		position := mgl32.Vec3{
			(g.rng.Float32() - 0.5) * spread.X(),
			(g.rng.Float32() - 0.5) * spread.Y(),
			(g.rng.Float32() - 0.5) * spread.Z(),
		}
		rotation := mgl32.Vec3{
			g.rng.Float32() * 2 * math32.Pi,
			g.rng.Float32() * 2 * math32.Pi,
			g.rng.Float32() * 2 * math32.Pi,
		}
		scale := g.rng.Float32() * MaxScale
		idx := PaletteIndex(g.rng.Float32())

		out = append(out, game_object.NewGameObject(
			game_object.WithID(g.nextID),
			game_object.WithModel(tmpl),
			game_object.WithGeneration(p.generation),
			game_object.WithPosition(position),
			game_object.WithRotation(rotation),
			game_object.WithScale(scale),
			game_object.WithPaletteColor(idx, g.palette[idx]),
		))
	}
	return out
}

// PaletteIndex maps a uniform draw in [0, 1) to a palette slot by rounding r*4.
// Draws at or above 0.875 round to 4, one past the end, and are clamped to the last slot.
//
// Parameters:
//   - r: a uniform random value
//
// Returns:
//   - int: an index in [0, PaletteSize-1]
func PaletteIndex(r float32) int {
	return common.Clamp(int(math32.Round(r*PaletteSize)), 0, PaletteSize-1)
}

// newRand builds a PCG source. A zero seed draws a random one.
func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
