package rack

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cwbudde/algo-ambient/audio/graph"
	"github.com/cwbudde/algo-ambient/module"
	"github.com/cwbudde/algo-ambient/module/drone"
	"github.com/cwbudde/algo-ambient/persist"
	"github.com/cwbudde/algo-ambient/sched"
)

func newEnv() (module.Env, *sched.Manual) {
	audio := graph.NewContext()
	clock := sched.NewManual(time.Unix(0, 0))

	return module.Env{
		Audio:       audio,
		Destination: audio.Destination(),
		Scheduler:   clock,
	}, clock
}

func paramOf(m module.Module, name string) float64 {
	v, ok := m.Param(name)
	Expect(ok).To(BeTrue())

	return v
}

func newBase(id string, env module.Env) *module.Base {
	b, err := module.NewBase(id, module.TypeTexture, []module.ParamDef{{Name: "a", Default: 0.5}}, env)
	Expect(err).NotTo(HaveOccurred())
	Expect(b.Initialize()).To(Succeed())

	return b
}

var _ = Describe("Factory", func() {
	var env module.Env

	BeforeEach(func() {
		env, _ = newEnv()
	})

	It("should build every module type initialized", func() {
		for _, t := range module.Types() {
			m, err := New(t, "id-"+t.String(), env)

			Expect(err).NotTo(HaveOccurred())
			Expect(m.Type()).To(Equal(t))
			Expect(m.ID()).To(Equal("id-" + t.String()))
			Expect(m.Output()).NotTo(BeNil())
			Expect(m.Initialize()).To(MatchError(module.ErrAlreadyInitialized))
		}
	})

	It("should reject unknown types", func() {
		_, err := New(module.Type(42), "x", env)

		Expect(err).To(MatchError(ErrUnknownType))
	})

	It("should reject an incomplete environment", func() {
		_, err := New(module.TypeDrone, "x", module.Env{})

		Expect(err).To(MatchError(module.ErrInvalidEnv))
	})
})

var _ = Describe("Registry", func() {
	var (
		env      module.Env
		clock    *sched.Manual
		registry *Registry
	)

	BeforeEach(func() {
		env, clock = newEnv()
		registry = NewRegistry()
	})

	It("should look up registered modules", func() {
		m := newBase("b", env)
		Expect(registry.Register(m)).To(Succeed())
		Expect(registry.Register(newBase("a", env))).To(Succeed())

		got, ok := registry.Lookup("b")
		Expect(ok).To(BeTrue())
		Expect(got).To(BeIdenticalTo(m))
		Expect(registry.IDs()).To(Equal([]string{"a", "b"}))
		Expect(registry.Len()).To(Equal(2))
	})

	It("should dispose the module it replaces", func() {
		old := newBase("x", env)
		next := newBase("x", env)

		Expect(registry.Register(old)).To(Succeed())
		Expect(registry.Register(old)).To(Succeed())
		Expect(old.Disposed()).To(BeFalse())

		Expect(registry.Register(next)).To(Succeed())
		Expect(old.Disposed()).To(BeTrue())
		Expect(next.Disposed()).To(BeFalse())

		got, _ := registry.Lookup("x")
		Expect(got).To(BeIdenticalTo(next))
	})

	It("should dispose on unregister and ignore absent ids", func() {
		m := newBase("x", env)
		Expect(registry.Register(m)).To(Succeed())

		Expect(registry.Unregister("x")).To(BeTrue())
		Expect(m.Disposed()).To(BeTrue())
		Expect(registry.Unregister("x")).To(BeFalse())
		Expect(registry.Unregister("never")).To(BeFalse())

		clock.Advance(module.SettleTime)
		Expect(m.State()).To(Equal(module.StateDisposed))
	})

	It("should dispose everything on clear", func() {
		a, b := newBase("a", env), newBase("b", env)
		Expect(registry.Register(a)).To(Succeed())
		Expect(registry.Register(b)).To(Succeed())

		registry.Clear()

		Expect(registry.Len()).To(Equal(0))
		Expect(a.Disposed()).To(BeTrue())
		Expect(b.Disposed()).To(BeTrue())
	})

	It("should reject nil modules", func() {
		Expect(registry.Register(nil)).NotTo(Succeed())
	})
})

var _ = Describe("Session", func() {
	var (
		audio   *graph.Context
		clock   *sched.Manual
		session *Session
	)

	BeforeEach(func() {
		var err error

		audio = graph.NewContext()
		clock = sched.NewManual(time.Unix(0, 0))
		session, err = NewSession(audio, audio.Destination(), clock)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should create modules under unique ids", func() {
		a, err := session.Create(module.TypeDrone)
		Expect(err).NotTo(HaveOccurred())
		b, err := session.Create(module.TypeTexture)
		Expect(err).NotTo(HaveOccurred())

		Expect(a.ID()).NotTo(Equal(b.ID()))
		Expect(session.Registry().Len()).To(Equal(2))
		Expect(session.Drift().Len()).To(Equal(1))
		Expect(session.Drift().Running()).To(BeTrue())
		Expect(audio.Destination().Inputs()).To(Equal(2))
	})

	It("should replace a module in place", func() {
		old, err := session.CreateWithID("slot-1", module.TypeDrone)
		Expect(err).NotTo(HaveOccurred())

		next, err := session.Replace("slot-1", module.TypeTexture)
		Expect(err).NotTo(HaveOccurred())

		Expect(old.Disposed()).To(BeTrue())
		Expect(next.Type()).To(Equal(module.TypeTexture))

		got, _ := session.Registry().Lookup("slot-1")
		Expect(got).To(BeIdenticalTo(next))

		clock.Advance(module.SettleTime)
		Expect(session.Drift().Len()).To(Equal(0))
		Expect(audio.Destination().Inputs()).To(Equal(1))
	})

	It("should keep a drone drifting after replacing it with another drone", func() {
		old, err := session.CreateWithID("slot", module.TypeDrone)
		Expect(err).NotTo(HaveOccurred())
		offset, ok := session.Drift().PhaseOffset("slot")
		Expect(ok).To(BeTrue())

		next, err := session.Replace("slot", module.TypeDrone)
		Expect(err).NotTo(HaveOccurred())
		next.SetParamImmediate(drone.ParamDrift, 1)

		clock.Advance(module.SettleTime + time.Second)
		Expect(old.(*drone.Drone).State()).To(Equal(module.StateDisposed))

		kept, ok := session.Drift().PhaseOffset("slot")
		Expect(ok).To(BeTrue())
		Expect(kept).To(Equal(offset))

		d, ok := next.(*drone.Drone)
		Expect(ok).To(BeTrue())

		moving := 0
		for range 200 {
			clock.Advance(100 * time.Millisecond)
			if d.DriftCents() != 0 {
				moving++
			}
		}
		Expect(moving).To(BeNumerically(">", 100))

		Expect(session.Remove("slot")).To(BeTrue())
		clock.Advance(module.SettleTime)
		Expect(session.Drift().Len()).To(Equal(0))
	})

	It("should refuse to replace a missing module", func() {
		_, err := session.Replace("nope", module.TypeDrone)

		Expect(err).To(HaveOccurred())
	})

	It("should remove modules", func() {
		m, err := session.Create(module.TypeTexture)
		Expect(err).NotTo(HaveOccurred())

		Expect(session.Remove(m.ID())).To(BeTrue())
		Expect(session.Remove(m.ID())).To(BeFalse())
		Expect(m.Disposed()).To(BeTrue())
	})

	It("should restore stored state", func() {
		m, restored, err := session.Restore("t1", module.TypeTexture, &persist.Record{
			Params:    map[string]persist.ParamRecord{"color": {Value: 0.9}},
			IsPowered: false,
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(restored).To(BeTrue())
		Expect(m.Powered()).To(BeFalse())
		Expect(paramOf(m, "color")).To(Equal(0.9))

		_, restored, err = session.Restore("t2", module.TypeTexture, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(restored).To(BeFalse())
	})

	It("should dispose everything on close", func() {
		m, err := session.Create(module.TypeDrone)
		Expect(err).NotTo(HaveOccurred())

		session.Close()
		session.Close()

		Expect(m.Disposed()).To(BeTrue())
		Expect(session.Drift().Running()).To(BeFalse())

		_, err = session.Create(module.TypeDrone)
		Expect(err).To(MatchError(ErrSessionClosed))

		clock.Advance(time.Second)
		Expect(audio.Destination().Inputs()).To(Equal(0))
	})

	It("should run without drift", func() {
		s, err := NewSession(audio, audio.Destination(), clock, WithoutDrift())
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Drift()).To(BeNil())

		m, err := s.Create(module.TypeDrone)
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Output()).NotTo(BeNil())
	})

	It("should hand the drift refresh interval to modules", func() {
		s, err := NewSession(audio, audio.Destination(), clock, WithDriftRefresh(time.Second))
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Env().DriftRefresh).To(Equal(time.Second))

		_, err = NewSession(audio, audio.Destination(), clock, WithDriftRefresh(0))
		Expect(err).To(HaveOccurred())
	})

	It("should validate its collaborators", func() {
		_, err := NewSession(nil, nil, clock)
		Expect(err).To(MatchError(module.ErrInvalidEnv))

		_, err = NewSession(audio, audio.Destination(), clock, WithLogger(nil))
		Expect(err).To(HaveOccurred())
	})
})
