// Package scene owns what is drawn each tick: the live flock group, the particle field, the camera,
// the key light and the background.
package scene

import (
	"log/slog"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-flock/common"
	"github.com/Carmen-Shannon/oxy-flock/engine/camera"
	"github.com/Carmen-Shannon/oxy-flock/engine/flock"
	"github.com/Carmen-Shannon/oxy-flock/engine/light"
	"github.com/Carmen-Shannon/oxy-flock/engine/particle"
	"github.com/Carmen-Shannon/oxy-flock/engine/renderer"
	"github.com/lucasb-eyer/go-colorful"
)

// Scene is the scene graph of the flock. It is driven from the tick thread only.
type Scene interface {
	// Group returns the live flock group. The pointer stays valid until the next SwapGroup.
	Group() *flock.Group

	// SwapGroup detaches the live group and attaches g in its place.
	//
	// Parameters:
	//   - g: the new group
	//
	// Returns:
	//   - flock.Group: the detached group
	SwapGroup(g flock.Group) flock.Group

	// Field returns the particle field, or nil if the scene has none.
	Field() particle.Field

	// Camera returns the scene camera.
	Camera() camera.Camera

	// Light returns the key light.
	Light() light.Light

	// Background returns the clear color.
	Background() colorful.Color

	// SetBackground sets the clear color.
	SetBackground(c colorful.Color)

	// Renderer returns the attached renderer, or nil.
	Renderer() renderer.Renderer

	// SetRenderer attaches a renderer.
	SetRenderer(r renderer.Renderer)

	// BuildFrame snapshots the scene into a frame. Instances whose bounding sphere lies outside
	// the camera frustum are dropped and counted in Frame.Culled.
	//
	// Returns:
	//   - renderer.Frame: the frame for this tick
	BuildFrame() renderer.Frame

	// Render builds the frame and hands it to the renderer in exactly one Render call.
	// Without a renderer it does nothing.
	//
	// Returns:
	//   - error: the renderer's error, if any
	Render() error

	// Release stops the culling workers.
	Release()
}

type scene struct {
	mu     *sync.Mutex
	logger *slog.Logger

	group      flock.Group
	field      particle.Field
	cam        camera.Camera
	key        light.Light
	background colorful.Color
	r          renderer.Renderer

	particleScale float32
	particleAlpha float32

	cullWorkers int
	chunkSize   int
	cullPool    worker.DynamicWorkerPool

	// scratch is reused between frames; it holds one slot per instance.
	scratch []cullSlot
}

// cullSlot is the per-instance result of the culling phase.
type cullSlot struct {
	billboard renderer.Billboard
	visible   bool
}

var _ Scene = &scene{}

// NewScene creates a scene. A camera and a key light are created when none are given.
//
// Parameters:
//   - options: a variadic list of SceneBuilderOption functions
//
// Returns:
//   - Scene: the configured scene
func NewScene(options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:            &sync.Mutex{},
		logger:        slog.Default(),
		background:    colorful.Color{R: 1, G: 1, B: 1},
		particleScale: 0.04,
		particleAlpha: 0.8,
		cullWorkers:   2,
		chunkSize:     128,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.cam == nil {
		s.cam = camera.NewCamera()
	}
	if s.key == nil {
		s.key = light.NewLight()
	}
	s.cullPool = worker.NewDynamicWorkerPool(s.cullWorkers, 64, time.Second)
	return s
}

func (s *scene) Group() *flock.Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &s.group
}

func (s *scene) SwapGroup(g flock.Group) flock.Group {
	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.group
	s.group = g
	s.logger.Debug("group swapped", "generation", g.Generation, "instances", g.Count(), "detached", old.Count())
	return old
}

func (s *scene) Field() particle.Field {
	return s.field
}

func (s *scene) Camera() camera.Camera {
	return s.cam
}

func (s *scene) Light() light.Light {
	return s.key
}

func (s *scene) Background() colorful.Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.background
}

func (s *scene) SetBackground(c colorful.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.background = c
}

func (s *scene) Renderer() renderer.Renderer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r
}

func (s *scene) SetRenderer(r renderer.Renderer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.r = r
}

func (s *scene) BuildFrame() renderer.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	right, up := s.cam.Basis()
	frame := renderer.Frame{
		ViewProjection: s.cam.ViewProjectionMatrix(),
		CameraRight:    right,
		CameraUp:       up,
		Background:     s.background,
		LightDirection: s.key.Direction(),
		LightRadiance:  s.key.Radiance(),
	}

	if s.field != nil {
		size := s.field.Size() * s.particleScale
		tint := s.field.Tint()
		positions := s.field.Positions()
		frame.Particles = make([]renderer.Billboard, len(positions))
		for i, p := range positions {
			frame.Particles[i] = renderer.Billboard{
				Position: p,
				Size:     size,
				Color:    tint,
				Alpha:    s.particleAlpha,
				Kind:     renderer.KindParticle,
			}
		}
	}

	frame.Instances, frame.Culled = s.cullInstances(s.cam.Frustum())
	return frame
}

// cullInstances tests every enabled instance against the frustum. Chunks are tested on the cull
// pool; each task writes only its own slots, so the output keeps the group order.
func (s *scene) cullInstances(frustum common.Frustum) ([]renderer.Billboard, int) {
	instances := s.group.Instances
	if len(instances) == 0 {
		return nil, 0
	}

	if cap(s.scratch) < len(instances) {
		s.scratch = make([]cullSlot, len(instances))
	}
	slots := s.scratch[:len(instances)]

	// A WaitGroup is the per-frame barrier; pool.Wait only returns once workers idle out.
	var wg sync.WaitGroup
	taskID := 0
	for start := 0; start < len(instances); start += s.chunkSize {
		end := min(start+s.chunkSize, len(instances))
		wg.Add(1)
		lo, hi := start, end
		s.cullPool.SubmitTask(worker.Task{
			ID: taskID,
			Do: func() (any, error) {
				defer wg.Done()
				for i := lo; i < hi; i++ {
					obj := instances[i]
					radius := obj.BoundingRadius()
					if !obj.Enabled() || !frustum.ContainsSphere(obj.Position(), radius) {
						slots[i] = cullSlot{}
						continue
					}
					slots[i] = cullSlot{
						visible: true,
						billboard: renderer.Billboard{
							Position: obj.Position(),
							Size:     2 * radius,
							Color:    obj.Color(),
							Alpha:    1,
							Kind:     renderer.KindModel,
							Rotation: obj.Rotation().Z(),
						},
					}
				}
				return nil, nil
			},
		})
		taskID++
	}
	wg.Wait()

	visible := make([]renderer.Billboard, 0, len(slots))
	culled := 0
	for _, slot := range slots {
		if slot.visible {
			visible = append(visible, slot.billboard)
		} else {
			culled++
		}
	}
	return visible, culled
}

func (s *scene) Render() error {
	r := s.Renderer()
	if r == nil {
		return nil
	}
	return r.Render(s.BuildFrame())
}

func (s *scene) Release() {
	s.cullPool.Stop()
}
