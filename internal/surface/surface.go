package surface

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/san-kum/cosmos/internal/anim"
	"github.com/san-kum/cosmos/internal/config"
	"github.com/san-kum/cosmos/internal/frame"
	"github.com/san-kum/cosmos/internal/procgen"
	"github.com/san-kum/cosmos/internal/render"
	"github.com/san-kum/cosmos/internal/resource"
	"github.com/san-kum/cosmos/internal/scene"
	"github.com/san-kum/cosmos/internal/viewport"
)

// Container is the host a surface is mounted into.
type Container interface {
	frame.Pacer
	viewport.Notifier
	// Viewport returns the current size of the drawable area.
	Viewport() viewport.Size
	// NewContext creates the drawing context. A nil backend with a nil
	// error counts as failure.
	NewContext() (render.Backend, error)
	// Attach puts the drawable on screen; Detach takes it off.
	Attach(b render.Backend) error
	Detach(b render.Backend)
}

type phase int

const (
	mounted phase = iota
	unmounting
	releasePending
	released
)

type Surface struct {
	cfg       *config.Config
	logger    *slog.Logger
	container Container
	clock     func() time.Time

	backend  render.Backend
	renderer *resource.Handle[*render.Renderer]
	scene    *scene.Scene
	stars    *scene.Points
	solids   []*scene.Mesh
	animator *anim.Animator
	sched    *frame.Scheduler
	adapter  *viewport.Adapter
	arena    *resource.Arena

	mu         sync.Mutex
	phase      phase
	inFrame    bool
	releaseErr error
	done       chan struct{}
}

// Mount builds the scene into c and starts animating. When c cannot supply
// a drawing context the error is a *ContextCreationError and nothing is
// left behind.
func Mount(c Container, opts ...Option) (*Surface, error) {
	o := buildOptions(opts)
	cfg := o.cfg
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	backend, err := c.NewContext()
	if err != nil || backend == nil {
		if backend != nil {
			if cerr := backend.Close(); cerr != nil {
				o.logger.Warn("close rejected context", "err", cerr)
			}
		}
		return nil, &ContextCreationError{Cause: err}
	}
	r, err := render.New(backend)
	if err != nil {
		return nil, &ContextCreationError{Cause: err}
	}

	s := &Surface{
		cfg:       cfg,
		logger:    o.logger,
		container: c,
		clock:     o.clock,
		backend:   backend,
		arena:     resource.NewArena(o.logger),
		done:      make(chan struct{}),
	}
	if err := s.build(r, o.rnd); err != nil {
		s.abort(r)
		return nil, err
	}
	if err := c.Attach(backend); err != nil {
		s.abort(r)
		return nil, fmt.Errorf("surface: attach drawable: %w", err)
	}

	s.sched = frame.NewScheduler(c, s.frame)
	s.sched.Start()
	s.adapter.Attach(c)

	s.logger.Info("surface mounted",
		"stars", cfg.Stars.Count,
		"solids", cfg.Solids.Count,
		"viewport", c.Viewport().String())
	return s, nil
}

func (s *Surface) build(r *render.Renderer, rnd procgen.Rand) error {
	cfg := s.cfg
	if rnd == nil && cfg.Seed != 0 {
		rnd = rand.New(rand.NewSource(cfg.Seed))
	}
	size := s.container.Viewport()
	s.scene = scene.New(size.Width, size.Height, cfg.SceneSettings())

	gen := procgen.New(rnd, s.arena)
	stars, err := gen.GenerateStars(cfg.Stars.Count, cfg.Stars.Spread, cfg.StarStyle())
	if err != nil {
		return err
	}
	s.stars = stars
	solids, err := gen.GenerateFloatingSolids(cfg.Solids.Count, cfg.SolidStyle(), cfg.Placement())
	if err != nil {
		return err
	}
	s.solids = solids

	// Tracked last so the arena records it after the scene resources.
	s.renderer = resource.Track(s.arena, "renderer", r, func(r *render.Renderer) {
		if err := r.Dispose(); err != nil {
			s.logger.Warn("renderer dispose", "err", err)
		}
	})

	for _, l := range cfg.SceneLights() {
		if err := s.scene.AddLight(l); err != nil {
			return err
		}
	}
	if err := s.scene.AddObject(stars); err != nil {
		return err
	}
	for _, m := range solids {
		if err := s.scene.AddObject(m); err != nil {
			return err
		}
	}
	s.scene.Seal()

	s.adapter = viewport.NewAdapter(s.scene.Camera(), r, cfg.Viewport.MaxPixelRatio, s.logger)
	if err := s.adapter.Apply(size); err != nil {
		s.logger.Warn("initial viewport ignored", "size", size.String(), "err", err)
	}
	s.animator = anim.New(cfg.AnimConfig(), stars, solids)
	return nil
}

// abort undoes a partial build.
func (s *Surface) abort(r *render.Renderer) {
	_ = s.releaseResources()
	if s.renderer == nil {
		_ = r.Dispose()
	}
}

func (s *Surface) frame(now time.Time) {
	s.mu.Lock()
	if s.phase != mounted {
		s.mu.Unlock()
		return
	}
	s.inFrame = true
	s.mu.Unlock()

	if s.clock != nil {
		now = s.clock()
	}
	s.animator.Step(now)
	if err := s.renderer.Get().Render(s.scene); err != nil {
		s.logger.Error("render frame", "err", err)
	}

	s.mu.Lock()
	s.inFrame = false
	deferred := s.phase == releasePending
	if deferred {
		s.phase = released
	}
	s.mu.Unlock()

	if deferred {
		s.finish()
	}
}

// Unmount tears the surface down. If a frame is running, release is
// deferred to its end and Unmount returns nil; Done reports completion.
// Unmounting an already unmounted surface does nothing and returns nil.
func (s *Surface) Unmount() error {
	s.mu.Lock()
	if s.phase != mounted {
		s.mu.Unlock()
		return nil
	}
	s.phase = unmounting
	s.mu.Unlock()

	s.sched.Cancel()
	s.adapter.Detach()

	s.mu.Lock()
	if s.inFrame {
		s.phase = releasePending
		s.mu.Unlock()
		s.logger.Debug("surface release deferred to end of frame")
		return nil
	}
	s.phase = released
	s.mu.Unlock()
	return s.finish()
}

func (s *Surface) finish() error {
	s.container.Detach(s.backend)
	err := s.releaseResources()

	s.mu.Lock()
	s.releaseErr = err
	s.mu.Unlock()
	close(s.done)

	if err != nil {
		s.logger.Error("surface release", "err", err)
	} else {
		s.logger.Info("surface unmounted", "frames", s.sched.Frames())
	}
	return err
}

// releaseResources drops every reference the surface holds, in teardown
// order. Shared solid resources are freed by the last solid's release.
func (s *Surface) releaseResources() error {
	var errs []error
	rel := func(release func() (bool, error)) {
		if _, err := release(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.stars != nil {
		rel(s.stars.Geometry.Release)
		rel(s.stars.Material.Release)
	}
	for _, m := range s.solids {
		rel(m.Geometry.Release)
	}
	for _, m := range s.solids {
		rel(m.Material.Release)
	}
	if s.renderer != nil {
		rel(s.renderer.Release)
	}
	return errors.Join(errs...)
}

// Mounted reports whether the surface is still live.
func (s *Surface) Mounted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase == mounted
}

// Done is closed once every resource has been released.
func (s *Surface) Done() <-chan struct{} { return s.done }

// Err returns the release error, if any, after Done is closed.
func (s *Surface) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.releaseErr
}

func (s *Surface) Scene() *scene.Scene         { return s.scene }
func (s *Surface) Stars() *scene.Points        { return s.stars }
func (s *Surface) Solids() []*scene.Mesh       { return s.solids }
func (s *Surface) Scheduler() *frame.Scheduler { return s.sched }
func (s *Surface) Adapter() *viewport.Adapter  { return s.adapter }
func (s *Surface) Animator() *anim.Animator    { return s.animator }
func (s *Surface) Renderer() *render.Renderer  { return s.renderer.Get() }
func (s *Surface) Backend() render.Backend     { return s.backend }
func (s *Surface) Config() *config.Config      { return s.cfg }

// Released lists freed resources in release order.
func (s *Surface) Released() []string { return s.arena.Released() }

// Resize applies a size directly, bypassing the container's notifier.
func (s *Surface) Resize(size viewport.Size) error {
	if !s.Mounted() {
		return ErrNotMounted
	}
	return s.adapter.Apply(size)
}
