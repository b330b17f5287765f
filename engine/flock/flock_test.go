package flock

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/Carmen-Shannon/oxy-flock/common"
	"github.com/Carmen-Shannon/oxy-flock/engine/loader"
	"github.com/Carmen-Shannon/oxy-flock/engine/model"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var modelNames = []string{"usagi", "star", "heart"}

// manualLoader hands out futures the test completes by hand, in any order.
type manualLoader struct {
	requests []request
}

type request struct {
	name   string
	future *loader.Future
}

func (l *manualLoader) LoadAsync(name string) *loader.Future {
	f := loader.NewFuture()
	l.requests = append(l.requests, request{name: name, future: f})
	return f
}

func (l *manualLoader) complete(i int) {
	r := l.requests[i]
	r.future.Complete(model.NewModel(model.WithName(r.name)), nil)
}

func (l *manualLoader) fail(i int) {
	r := l.requests[i]
	r.future.Complete(nil, &loader.AssetLoadError{Name: r.name, Err: errors.New("decode failed")})
}

func newTestGenerator(l TemplateLoader, seed uint64) Generator {
	return NewGenerator(l, WithSeed(seed), WithLogger(common.DiscardLogger()))
}

func assertWithinJitter(t *testing.T, g Group, jitter Jitter) {
	t.Helper()
	half := jitter.Spread.Mul(0.5)
	for _, obj := range g.Instances {
		p := obj.Position()
		for axis := range 3 {
			assert.GreaterOrEqual(t, p[axis], -half[axis])
			assert.LessOrEqual(t, p[axis], half[axis])
		}
		s := obj.Scale()
		assert.GreaterOrEqual(t, s.X(), float32(0))
		assert.Less(t, s.X(), MaxScale)
		assert.Equal(t, s.X(), s.Y())
		assert.Equal(t, s.X(), s.Z())
		for axis := range 3 {
			assert.GreaterOrEqual(t, obj.Rotation()[axis], float32(0))
			assert.Less(t, obj.Rotation()[axis], 2*math32.Pi)
		}
		assert.GreaterOrEqual(t, obj.PaletteIndex(), 0)
		assert.LessOrEqual(t, obj.PaletteIndex(), PaletteSize-1)
	}
}

func TestRegenerateCountsAndBounds(t *testing.T) {
	for _, count := range []int{10, 99, 250, 500} {
		l := &manualLoader{}
		gen := newTestGenerator(l, uint64(count))
		jitter := Jitter{Spread: mgl32.Vec3{500, 30, 30}}

		token := gen.Regenerate(modelNames, count, jitter)
		for i := range l.requests {
			l.complete(i)
		}

		group, ok := gen.Poll()
		require.True(t, ok)
		assert.Equal(t, token, group.Generation)
		assert.Equal(t, count*len(modelNames), group.Count())
		for _, name := range modelNames {
			assert.Equal(t, count, group.CountFor(name), "count %d model %s", count, name)
		}
		assertWithinJitter(t, group, jitter)

		_, again := gen.Poll()
		assert.False(t, again, "a generation is delivered once")
	}
}

func TestPollWaitsForEverySettlement(t *testing.T) {
	l := &manualLoader{}
	gen := newTestGenerator(l, 1)
	gen.Regenerate(modelNames, 10, Jitter{})

	l.complete(0)
	l.complete(1)
	_, ok := gen.Poll()
	assert.False(t, ok)
	assert.True(t, gen.Pending())

	l.complete(2)
	group, ok := gen.Poll()
	require.True(t, ok)
	assert.Equal(t, 30, group.Count())
	assert.False(t, gen.Pending())
}

// completion orders for two generations of three requests each: indices 0-2 belong to the
// first generation, 3-5 to the second.
var completionOrders = map[string][]int{
	"first then second": {0, 1, 2, 3, 4, 5},
	"second then first": {3, 4, 5, 0, 1, 2},
	"interleaved":       {0, 3, 1, 4, 2, 5},
	"reverse":           {5, 4, 3, 2, 1, 0},
	"stale trickles in": {3, 0, 4, 1, 5, 2},
}

func TestLatestGenerationOnly(t *testing.T) {
	for name, order := range completionOrders {
		t.Run(name, func(t *testing.T) {
			l := &manualLoader{}
			gen := newTestGenerator(l, 7)

			first := gen.Regenerate(modelNames, 100, Jitter{Spread: mgl32.Vec3{500, 30, 30}})
			second := gen.Regenerate(modelNames, 250, Jitter{Spread: mgl32.Vec3{200, 10, 10}})
			require.Greater(t, second, first)
			require.Len(t, l.requests, 6)

			var delivered []Group
			for _, i := range order {
				l.complete(i)
				if g, ok := gen.Poll(); ok {
					delivered = append(delivered, g)
				}
			}

			require.Len(t, delivered, 1)
			group := delivered[0]
			assert.Equal(t, second, group.Generation)
			for _, obj := range group.Instances {
				assert.Equal(t, second, obj.Generation())
			}
		})
	}
}

func TestEndToEndRegenerateBeforeSettle(t *testing.T) {
	l := &manualLoader{}
	gen := newTestGenerator(l, 2024)

	gen.Regenerate(modelNames, 100, Jitter{Spread: mgl32.Vec3{500, 30, 30}})
	l.complete(0)
	_, ok := gen.Poll()
	require.False(t, ok)

	gen.Regenerate(modelNames, 250, Jitter{Spread: mgl32.Vec3{200, 10, 10}})
	for i := range l.requests {
		if !l.requests[i].future.Ready() {
			l.complete(i)
		}
	}

	group, ok := gen.Poll()
	require.True(t, ok)
	for _, name := range modelNames {
		assert.Equal(t, 250, group.CountFor(name))
	}
	for _, obj := range group.Instances {
		p := obj.Position()
		assert.LessOrEqual(t, math32.Abs(p.X()), float32(100))
		assert.LessOrEqual(t, math32.Abs(p.Y()), float32(5))
		assert.LessOrEqual(t, math32.Abs(p.Z()), float32(5))
	}
}

func TestFailedTemplateIsOmitted(t *testing.T) {
	l := &manualLoader{}
	gen := newTestGenerator(l, 3)
	gen.Regenerate(modelNames, 20, Jitter{})

	l.complete(0)
	l.fail(1)
	l.complete(2)

	group, ok := gen.Poll()
	require.True(t, ok)
	assert.Equal(t, 40, group.Count())
	assert.Equal(t, 0, group.CountFor("star"))
	assert.Equal(t, []string{"heart", "usagi"}, group.Names())
}

func TestAllTemplatesFailedYieldsEmptyGroup(t *testing.T) {
	l := &manualLoader{}
	gen := newTestGenerator(l, 3)
	token := gen.Regenerate(modelNames, 20, Jitter{})
	for i := range l.requests {
		l.fail(i)
	}

	group, ok := gen.Poll()
	require.True(t, ok)
	assert.Equal(t, token, group.Generation)
	assert.Zero(t, group.Count())
}

func TestRegenerateIgnoresDuplicateNamesAndCachedTemplates(t *testing.T) {
	// cached templates resolve synchronously inside Regenerate
	cached := loader.NewLoader(loader.BackendTypeGLTF,
		loader.WithModel("star", model.NewModel(model.WithName("star"))),
		loader.WithLogger(common.DiscardLogger()),
	)
	defer cached.Close()

	gen := newTestGenerator(cached, 9)
	gen.Regenerate([]string{"star", "star"}, 12, Jitter{Spread: mgl32.Vec3{1, 1, 1}})

	group, ok := gen.Poll()
	require.True(t, ok)
	assert.Equal(t, 12, group.Count())
}

func TestEmptyNameListSettlesImmediately(t *testing.T) {
	gen := newTestGenerator(&manualLoader{}, 1)
	gen.Regenerate(nil, 50, Jitter{})
	group, ok := gen.Poll()
	require.True(t, ok)
	assert.Zero(t, group.Count())
}

func TestSeededGeneratorsAgree(t *testing.T) {
	build := func() Group {
		l := &manualLoader{}
		gen := newTestGenerator(l, 42)
		gen.Regenerate([]string{"star"}, 25, Jitter{Spread: mgl32.Vec3{10, 10, 10}})
		l.complete(0)
		g, _ := gen.Poll()
		return g
	}
	a, b := build(), build()
	require.Equal(t, a.Count(), b.Count())
	for i := range a.Instances {
		assert.Equal(t, a.Instances[i].Position(), b.Instances[i].Position())
		assert.Equal(t, a.Instances[i].PaletteIndex(), b.Instances[i].PaletteIndex())
	}
}

func TestPaletteIndexClamped(t *testing.T) {
	assert.Equal(t, 0, PaletteIndex(0))
	assert.Equal(t, 0, PaletteIndex(0.12))
	assert.Equal(t, 1, PaletteIndex(0.13))
	assert.Equal(t, 3, PaletteIndex(0.8))
	assert.Equal(t, 3, PaletteIndex(0.9), "round(3.6) = 4 must clamp")
	assert.Equal(t, 3, PaletteIndex(0.9999999))

	rng := rand.New(rand.NewPCG(1, 2))
	for range 10000 {
		idx := PaletteIndex(rng.Float32())
		assert.True(t, idx >= 0 && idx < PaletteSize)
	}
}

func TestParsePalette(t *testing.T) {
	p, err := ParsePalette([]string{"#000000", "#ffffff", "#ff0000", "#00ff00"})
	require.NoError(t, err)
	assert.InDelta(t, 1, p[2].R, 1e-9)

	_, err = ParsePalette([]string{"#000000"})
	assert.Error(t, err)
	_, err = ParsePalette([]string{"#000000", "#ffffff", "#ff0000", "nope"})
	assert.Error(t, err)

	assert.NotEqual(t, DefaultPalette()[0], DefaultPalette()[1])
}
