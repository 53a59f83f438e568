package surface_test

import (
	"errors"
	"math/rand"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/cosmos/internal/config"
	"github.com/san-kum/cosmos/internal/frame"
	"github.com/san-kum/cosmos/internal/render"
	"github.com/san-kum/cosmos/internal/scene"
	"github.com/san-kum/cosmos/internal/surface"
)

var releaseOrder = []string{"star-geometry", "star-material", "solid-geometry", "solid-material", "renderer"}

func tick(c *fakeContainer, n int) {
	t := time.Unix(1000, 0)
	for i := 0; i < n; i++ {
		c.Advance(t.Add(time.Duration(i) * 16 * time.Millisecond))
	}
}

func mount(c *fakeContainer, seed int64) *surface.Surface {
	s, err := surface.Mount(c, surface.WithRand(rand.New(rand.NewSource(seed))))
	Expect(err).NotTo(HaveOccurred())
	return s
}

var _ = Describe("Mount", func() {
	var c *fakeContainer

	BeforeEach(func() {
		c = newContainer(800, 600, 1)
	})

	It("builds the starfield", func() {
		s := mount(c, 1)
		DeferCleanup(s.Unmount)

		geo := s.Stars().Geometry.Get()
		Expect(geo.Count()).To(Equal(3000))
		for _, v := range geo.Positions {
			Expect(v).To(BeNumerically(">=", -15))
			Expect(v).To(BeNumerically("<=", 15))
		}
		mat := s.Stars().Material.Get()
		Expect(mat.Blending).To(Equal(scene.AdditiveBlending))
		Expect(mat.Opacity).To(Equal(0.8))
	})

	It("keeps 3000 stars and 8 solids under every preset", func() {
		for _, name := range config.ListPresets() {
			pc := newContainer(640, 480, 1)
			s, err := surface.Mount(pc, surface.WithConfig(config.GetPreset(name)))
			Expect(err).NotTo(HaveOccurred(), name)
			Expect(s.Stars().Geometry.Get().Count()).To(Equal(3000), name)
			Expect(s.Solids()).To(HaveLen(8), name)
			Expect(s.Unmount()).To(Succeed())
		}
	})

	It("places eight solids sharing one geometry and material", func() {
		s := mount(c, 2)
		DeferCleanup(s.Unmount)

		solids := s.Solids()
		Expect(solids).To(HaveLen(8))
		for _, m := range solids {
			tr := m.Transform()
			Expect(tr.Scale.X).To(BeNumerically(">=", 0.2))
			Expect(tr.Scale.X).To(BeNumerically("<=", 1.0))
			Expect(tr.Position.Z).To(BeNumerically(">=", -7))
			Expect(tr.Position.Z).To(BeNumerically("<=", 3))
			Expect(m.Geometry).To(BeIdenticalTo(solids[0].Geometry))
			Expect(m.Material).To(BeIdenticalTo(solids[0].Material))
		}
		Expect(solids[0].Geometry.Refs()).To(Equal(8))
		Expect(solids[0].Geometry.Get().FaceCount()).To(Equal(20))
	})

	It("seals the scene with three lights", func() {
		s := mount(c, 3)
		DeferCleanup(s.Unmount)

		Expect(s.Scene().Lights()).To(HaveLen(3))
		Expect(s.Scene().Objects()).To(HaveLen(9))
		Expect(s.Scene().AddObject(s.Stars())).To(MatchError(scene.ErrSceneSealed))
	})

	It("attaches the drawable and starts one frame request", func() {
		s := mount(c, 4)
		DeferCleanup(s.Unmount)

		Expect(c.attached).To(BeIdenticalTo(c.backend))
		Expect(c.Pending()).To(Equal(1))
		Expect(s.Scheduler().State()).To(Equal(frame.Running))

		s.Scheduler().Start()
		Expect(c.Pending()).To(Equal(1))
	})

	It("sizes the camera and renderer from the container", func() {
		c = newContainer(800, 600, 3)
		s := mount(c, 5)
		DeferCleanup(s.Unmount)

		Expect(s.Scene().Camera().Aspect).To(Equal(800.0 / 600.0))
		Expect(s.Renderer().PixelRatio()).To(Equal(2.0))
		Expect(c.backend.w).To(Equal(1600))
		Expect(c.backend.h).To(Equal(1200))
	})

	It("honours the configured seed", func() {
		cfg := config.DefaultConfig()
		cfg.Seed = 99
		a, err := surface.Mount(c, surface.WithConfig(cfg))
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(a.Unmount)

		other := newContainer(800, 600, 1)
		b, err := surface.Mount(other, surface.WithConfig(cfg))
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(b.Unmount)

		Expect(a.Stars().Geometry.Get().Positions).To(Equal(b.Stars().Geometry.Get().Positions))
	})

	It("rejects an invalid config", func() {
		cfg := config.DefaultConfig()
		cfg.Stars.Count = 0
		s, err := surface.Mount(c, surface.WithConfig(cfg))
		Expect(err).To(MatchError(config.ErrInvalidConfig))
		Expect(s).To(BeNil())
	})

	Context("when the container has no drawing context", func() {
		It("fails with ContextCreationError and leaves nothing behind", func() {
			cause := errors.New("no gpu")
			c.ctxErr = cause
			s, err := surface.Mount(c)

			Expect(s).To(BeNil())
			Expect(errors.Is(err, render.ErrContextCreation)).To(BeTrue())
			Expect(errors.Is(err, cause)).To(BeTrue())
			var cce *surface.ContextCreationError
			Expect(errors.As(err, &cce)).To(BeTrue())
			Expect(c.Pending()).To(BeZero())
			Expect(c.bus.Listeners()).To(BeZero())
			Expect(c.log.all()).To(BeEmpty())
		})

		It("closes a context returned together with an error", func() {
			c.ctxErr = errors.New("lost device")
			c.partial = true
			s, err := surface.Mount(c)

			Expect(s).To(BeNil())
			Expect(err).To(MatchError(render.ErrContextCreation))
			Expect(c.log.all()).To(Equal([]string{"close"}))
		})

		It("treats a nil context as failure", func() {
			c.nilCtx = true
			_, err := surface.Mount(c)
			Expect(err).To(MatchError(render.ErrContextCreation))
		})
	})
})

var _ = Describe("Frames", func() {
	It("animates and renders once per frame", func() {
		c := newContainer(800, 600, 1)
		s := mount(c, 6)
		DeferCleanup(s.Unmount)

		tick(c, 3)
		Expect(s.Scheduler().Frames()).To(Equal(uint64(3)))
		Expect(s.Renderer().Frames()).To(Equal(uint64(3)))
		Expect(s.Stars().Transform().Rotation.Y).To(BeNumerically("~", 0.0009, 1e-12))
		Expect(c.backend.lines).To(BeNumerically(">", 0))
		Expect(c.Pending()).To(Equal(1))
	})

	It("uses the injected clock", func() {
		c := newContainer(800, 600, 1)
		cfg := config.DefaultConfig()
		cfg.Animation.PhaseClock = "wall"
		s, err := surface.Mount(c,
			surface.WithConfig(cfg),
			surface.WithClock(func() time.Time { return time.Unix(7, 0) }))
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(s.Unmount)

		tick(c, 1)
		Expect(s.Animator().Phase()).To(Equal(7.0))
	})
})

var _ = Describe("Resize", func() {
	It("tracks the container size with a capped pixel ratio", func() {
		c := newContainer(800, 600, 1)
		s := mount(c, 7)
		DeferCleanup(s.Unmount)
		cam := s.Scene().Camera()

		Expect(cam.Aspect).To(Equal(800.0 / 600.0))

		c.resize(1600, 900, 3)
		Expect(cam.Aspect).To(Equal(1600.0 / 900.0))
		Expect(s.Renderer().PixelRatio()).To(Equal(2.0))
		w, h := s.Renderer().Size()
		Expect([]int{w, h}).To(Equal([]int{1600, 900}))
		Expect(c.backend.w).To(Equal(3200))
	})

	It("ignores out of range sizes and keeps the previous state", func() {
		c := newContainer(800, 600, 1)
		s := mount(c, 8)
		DeferCleanup(s.Unmount)

		c.resize(0, 600, 1)
		c.resize(800, -1, 1)
		Expect(s.Scene().Camera().Aspect).To(Equal(800.0 / 600.0))
		Expect(c.backend.w).To(Equal(800))
		Expect(s.Resize(c.size)).To(HaveOccurred())
	})
})

var _ = Describe("Unmount", func() {
	var (
		c *fakeContainer
		s *surface.Surface
	)

	BeforeEach(func() {
		c = newContainer(800, 600, 1)
		s = mount(c, 9)
		tick(c, 2)
	})

	It("tears down in order", func() {
		Expect(s.Unmount()).To(Succeed())

		Expect(c.log.all()).To(Equal([]string{
			"attach", "present", "present",
			"cancel-frame", "unsubscribe", "detach", "close",
		}))
		Expect(s.Released()).To(Equal(releaseOrder))
		Expect(s.Mounted()).To(BeFalse())
		Expect(s.Done()).To(BeClosed())
		Expect(s.Err()).NotTo(HaveOccurred())
	})

	It("frees shared solid resources exactly once", func() {
		geo := s.Solids()[0].Geometry
		mat := s.Solids()[0].Material
		Expect(s.Unmount()).To(Succeed())

		Expect(geo.Freed()).To(BeTrue())
		Expect(geo.Get().Disposed()).To(BeTrue())
		Expect(mat.Get().Disposed()).To(BeTrue())
		Expect(s.Stars().Geometry.Get().Disposed()).To(BeTrue())
		Expect(s.Renderer().Disposed()).To(BeTrue())
	})

	It("unsubscribes from resizes", func() {
		Expect(s.Unmount()).To(Succeed())
		Expect(c.bus.Listeners()).To(BeZero())
		c.resize(100, 100, 1)
		Expect(s.Scene().Camera().Aspect).To(Equal(800.0 / 600.0))
		Expect(s.Resize(c.size)).To(MatchError(surface.ErrNotMounted))
	})

	It("is a no-op the second time", func() {
		Expect(s.Unmount()).To(Succeed())
		Expect(s.Unmount()).To(Succeed())
		Expect(s.Released()).To(Equal(releaseOrder))
		Expect(c.log.all()).To(HaveLen(7))
	})

	It("runs no frame after cancel even if the host still delivers it", func() {
		c.IgnoreCancel(true)
		Expect(s.Unmount()).To(Succeed())
		Expect(c.Pending()).To(Equal(1))

		Expect(c.Advance(time.Unix(2000, 0))).To(Equal(1))
		Expect(s.Scheduler().Frames()).To(Equal(uint64(2)))
		Expect(s.Renderer().Frames()).To(Equal(uint64(2)))
		events := c.log.all()
		Expect(events[len(events)-1]).To(Equal("close"))
	})

	It("defers release until the running frame completes", func() {
		var released []string
		c.backend.onPresent = func() {
			Expect(s.Unmount()).To(Succeed())
			released = s.Released()
			Expect(s.Done()).NotTo(BeClosed())
		}
		tick(c, 1)

		// The request that delivered this frame was already consumed, so
		// there is nothing for the pacer to cancel.
		Expect(released).To(BeEmpty())
		Expect(s.Released()).To(Equal(releaseOrder))
		Expect(s.Done()).To(BeClosed())
		Expect(c.log.all()).To(Equal([]string{
			"attach", "present", "present", "present",
			"unsubscribe", "detach", "close",
		}))
		Expect(c.Pending()).To(BeZero())
	})
})

var _ = Describe("Independent surfaces", func() {
	It("do not share transforms or resources", func() {
		ca, cb := newContainer(800, 600, 1), newContainer(640, 480, 1)
		a, b := mount(ca, 10), mount(cb, 11)
		DeferCleanup(b.Unmount)

		Expect(a.Solids()[0].Transform()).NotTo(BeIdenticalTo(b.Solids()[0].Transform()))
		Expect(a.Solids()[0].Geometry).NotTo(BeIdenticalTo(b.Solids()[0].Geometry))
		Expect(a.Scene().Camera()).NotTo(BeIdenticalTo(b.Scene().Camera()))

		before := b.Solids()[0].Transform().Position
		a.Solids()[0].Transform().Position.Y += 10
		Expect(b.Solids()[0].Transform().Position).To(Equal(before))

		tick(ca, 2)
		Expect(a.Scheduler().Frames()).To(Equal(uint64(2)))
		Expect(b.Scheduler().Frames()).To(BeZero())

		Expect(a.Unmount()).To(Succeed())
		tick(cb, 1)
		Expect(b.Mounted()).To(BeTrue())
		Expect(b.Scheduler().Frames()).To(Equal(uint64(1)))
		Expect(b.Solids()[0].Geometry.Freed()).To(BeFalse())
	})
})
