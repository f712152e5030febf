package interact

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-ambient/sched"
)

type recorder struct {
	immediate []float64
	committed []float64
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		OnImmediate: func(v float64) { r.immediate = append(r.immediate, v) },
		OnCommitted: func(v float64) { r.committed = append(r.committed, v) },
	}
}

func newControl(t *testing.T, initial float64, opts ...Option) (*Control, *recorder, *sched.Manual) {
	t.Helper()

	clock := sched.NewManual(time.Unix(0, 0))
	rec := &recorder{}
	c, err := New(clock, initial, rec.callbacks(), opts...)
	require.NoError(t, err)

	return c, rec, clock
}

func TestNewClampsInitial(t *testing.T) {
	c, _, _ := newControl(t, 3)
	require.Equal(t, 1.0, c.Value())
	require.Equal(t, StateIdle, c.State())
	require.False(t, c.IsDragging())
}

func TestOptionsValidation(t *testing.T) {
	clock := sched.NewManual(time.Unix(0, 0))

	for name, opt := range map[string]Option{
		"sensitivity":    WithSensitivity(0),
		"decay-zero":     WithDecay(0),
		"decay-one":      WithDecay(1),
		"release":        WithReleaseThreshold(-1),
		"stop":           WithStopThreshold(0),
		"frame-interval": WithFrameInterval(0),
	} {
		_, err := New(clock, 0, Callbacks{}, opt)
		require.Error(t, err, name)
	}
}

func TestDragMapsTravelToValue(t *testing.T) {
	c, rec, _ := newControl(t, 0.5)

	c.MouseDown(200)
	require.True(t, c.IsDragging())

	c.MouseMove(180)
	require.InDelta(t, 0.6, c.Value(), 1e-12)

	c.MouseMove(240)
	require.InDelta(t, 0.3, c.Value(), 1e-12)

	require.Len(t, rec.immediate, 2)
	require.Empty(t, rec.committed)
}

func TestDragClamps(t *testing.T) {
	c, rec, _ := newControl(t, 0.9)

	c.MouseDown(500)
	c.MouseMove(0)
	require.Equal(t, 1.0, c.Value())

	c.MouseMove(1000)
	require.Equal(t, 0.0, c.Value())

	for _, v := range rec.immediate {
		require.GreaterOrEqual(t, v, 0.0)
		require.LessOrEqual(t, v, 1.0)
	}
}

func TestSlowReleaseCommitsOnce(t *testing.T) {
	c, rec, clock := newControl(t, 0.5)

	c.MouseDown(100)
	c.MouseMove(99)
	c.MouseUp()

	require.Equal(t, StateIdle, c.State())
	require.Equal(t, []float64{c.Value()}, rec.committed)
	require.Equal(t, rec.immediate[len(rec.immediate)-1], rec.committed[0])
	require.Equal(t, 0, clock.Pending())
}

func TestVelocitySmoothing(t *testing.T) {
	c, _, _ := newControl(t, 0.5)

	c.MouseDown(100)
	c.MouseMove(90)
	require.InDelta(t, 0.3*0.05, c.Velocity(), 1e-12)

	c.MouseMove(80)
	require.InDelta(t, 0.3*0.05+0.7*0.015, c.Velocity(), 1e-12)
}

func TestMomentumConverges(t *testing.T) {
	for _, decay := range []float64{0.88, 0.92} {
		c, rec, clock := newControl(t, 0.5, WithDecay(decay))

		c.MouseDown(100)
		c.MouseMove(90)
		v, want, frames := c.Velocity(), c.Value(), 0

		c.MouseUp()
		require.Equal(t, StateSettling, c.State())
		require.Empty(t, rec.committed)

		for {
			want = math.Max(0, math.Min(1, want+v))
			v *= decay
			frames++
			if math.Abs(v) < DefaultStopThreshold {
				break
			}
		}

		clock.Advance(time.Duration(frames-1) * DefaultFrameInterval)
		require.Equal(t, StateSettling, c.State())
		require.Empty(t, rec.committed)

		clock.Advance(DefaultFrameInterval)
		require.Equal(t, StateIdle, c.State())
		require.Equal(t, []float64{want}, rec.committed)
		require.Len(t, rec.immediate, 1+frames)
		require.Equal(t, want, rec.immediate[len(rec.immediate)-1])

		clock.Advance(time.Second)
		require.Len(t, rec.committed, 1)
		require.Equal(t, 0, clock.Pending())
	}
}

func TestMomentumClampsAtBounds(t *testing.T) {
	c, rec, clock := newControl(t, 0.95)

	c.MouseDown(100)
	c.MouseMove(60)
	c.MouseUp()
	clock.AdvanceUntilIdle(DefaultFrameInterval, 10*time.Second)

	require.Equal(t, []float64{1}, rec.committed)
	for _, v := range rec.immediate {
		require.LessOrEqual(t, v, 1.0)
	}
}

func TestMomentumDisabledCommitsImmediately(t *testing.T) {
	c, rec, clock := newControl(t, 0.5, WithMomentum(false))

	c.MouseDown(100)
	c.MouseMove(50)
	c.MouseUp()

	require.Equal(t, StateIdle, c.State())
	require.Len(t, rec.committed, 1)
	require.Equal(t, 0, clock.Pending())
}

func TestDownDuringGlideCancelsWithoutCommit(t *testing.T) {
	c, rec, clock := newControl(t, 0.5)

	c.MouseDown(100)
	c.MouseMove(90)
	c.MouseUp()
	clock.Advance(5 * DefaultFrameInterval)

	glided := c.Value()
	require.Greater(t, glided, 0.55)

	c.MouseDown(300)
	require.True(t, c.IsDragging())
	require.Equal(t, 0.0, c.Velocity())
	require.Equal(t, 0, clock.Pending())
	require.Empty(t, rec.committed)

	c.MouseMove(290)
	require.InDelta(t, glided+0.05, c.Value(), 1e-12)

	c.Cancel()
	require.Equal(t, StateIdle, c.State())
	require.Empty(t, rec.committed)
}

func TestTouchFollowsActivePointerOnly(t *testing.T) {
	c, rec, _ := newControl(t, 0.5)

	c.TouchStart(7, 100)
	c.TouchStart(8, 100)
	c.TouchMove(8, 0)
	c.MouseMove(0)
	require.Equal(t, 0.5, c.Value())
	require.Empty(t, rec.immediate)

	c.TouchMove(7, 99)
	require.InDelta(t, 0.505, c.Value(), 1e-12)

	c.TouchEnd(8)
	c.MouseUp()
	require.True(t, c.IsDragging())

	c.TouchEnd(7)
	require.False(t, c.IsDragging())
	require.Len(t, rec.committed, 1)
}

func TestSetValueIgnoredDuringGesture(t *testing.T) {
	c, rec, _ := newControl(t, 0.5)

	c.SetValue(0.2)
	require.Equal(t, 0.2, c.Value())

	c.SetValue(math.NaN())
	require.Equal(t, 0.2, c.Value())

	c.MouseDown(10)
	c.SetValue(0.9)
	require.Equal(t, 0.2, c.Value())

	c.MouseUp()
	c.SetValue(7)
	require.Equal(t, 1.0, c.Value())
	require.Empty(t, rec.immediate)
}

func TestStateString(t *testing.T) {
	require.Equal(t, "idle", StateIdle.String())
	require.Equal(t, "dragging", StateDragging.String())
	require.Equal(t, "settling", StateSettling.String())
	require.Equal(t, "touch", SourceTouch.String())
	require.Equal(t, "mouse", SourceMouse.String())
}
