package rack

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gitlab.com/gomidi/midi/v2"
	"go.uber.org/mock/gomock"

	"github.com/cwbudde/algo-ambient/interact"
	"github.com/cwbudde/algo-ambient/interact/midicc"
	"github.com/cwbudde/algo-ambient/module"
	"github.com/cwbudde/algo-ambient/module/texture"
	"github.com/cwbudde/algo-ambient/sched"
)

var _ = Describe("Binding", func() {
	var (
		mockCtrl  *gomock.Controller
		committer *MockCommitter
		clock     *sched.Manual
		m         module.Module
		format    func(float64) string
	)

	BeforeEach(func() {
		var env module.Env

		mockCtrl = gomock.NewController(GinkgoT())
		committer = NewMockCommitter(mockCtrl)
		env, clock = newEnv()

		var err error
		m, err = New(module.TypeTexture, "tex", env)
		Expect(err).NotTo(HaveOccurred())

		for _, def := range texture.Params() {
			if def.Name == texture.ParamLevel {
				format = def.Format
			}
		}
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should update the module while dragging and commit once on release", func() {
		ctl, err := BindParam(clock, m, texture.ParamLevel, committer)
		Expect(err).NotTo(HaveOccurred())
		Expect(ctl.Value()).To(Equal(0.5))

		ctl.MouseDown(100)
		ctl.MouseMove(99)
		Expect(paramOf(m, texture.ParamLevel)).To(BeNumerically("~", 0.505, 1e-12))

		committer.EXPECT().
			Commit("tex", texture.ParamLevel, ctl.Value(), format(ctl.Value())).
			Times(1)

		ctl.MouseUp()
	})

	It("should commit only after a momentum glide settles", func() {
		ctl, err := BindParam(clock, m, texture.ParamLevel, committer)
		Expect(err).NotTo(HaveOccurred())

		ctl.MouseDown(100)
		ctl.MouseMove(80)
		ctl.MouseUp()
		Expect(ctl.State()).To(Equal(interact.StateSettling))

		var committed float64
		committer.EXPECT().
			Commit("tex", texture.ParamLevel, gomock.Any(), gomock.Any()).
			Do(func(_, _ string, v float64, display string) {
				committed = v
				Expect(display).To(Equal(format(v)))
			}).
			Times(1)

		clock.AdvanceUntilIdle(interact.DefaultFrameInterval, 10*time.Second)

		Expect(ctl.State()).To(Equal(interact.StateIdle))
		Expect(paramOf(m, texture.ParamLevel)).To(Equal(committed))
	})

	It("should reject unknown parameters", func() {
		_, err := BindParam(clock, m, "pitch", committer)
		Expect(err).To(MatchError(ErrUnknownParam))

		_, err = ParamTarget(m, "pitch", committer, nil)
		Expect(err).To(MatchError(ErrUnknownParam))
	})

	It("should commit power changes", func() {
		committer.EXPECT().CommitPower("tex", false).Times(1)

		SetPower(m, false, committer)
		Expect(m.Powered()).To(BeFalse())
	})

	It("should not commit power for disposed modules", func() {
		m.Dispose()

		SetPower(m, false, committer)
		Expect(m.Powered()).To(BeTrue())
	})

	It("should route MIDI CC to the module and the control", func() {
		ctl, err := BindParam(clock, m, texture.ParamLevel, committer)
		Expect(err).NotTo(HaveOccurred())

		target, err := ParamTarget(m, texture.ParamLevel, committer, ctl)
		Expect(err).NotTo(HaveOccurred())

		router, err := midicc.NewRouter(clock)
		Expect(err).NotTo(HaveOccurred())
		router.Map(0, 7, target)

		Expect(router.Handle(midi.ControlChange(0, 7, 127))).To(BeTrue())
		Expect(paramOf(m, texture.ParamLevel)).To(Equal(1.0))
		Expect(ctl.Value()).To(Equal(1.0))

		committer.EXPECT().Commit("tex", texture.ParamLevel, 1.0, format(1)).Times(1)
		clock.Advance(midicc.CommitDelay)
	})
})
