package output

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-ambient/audio/graph"
)

type fakeBackend struct {
	closed int
}

func (f *fakeBackend) Close() error {
	f.closed++
	return nil
}

func newFakeDevice(t *testing.T, openErr error) (*Device, *int, *fakeBackend) {
	t.Helper()

	d, err := New(graph.NewContext())
	require.NoError(t, err)

	calls := 0
	fb := &fakeBackend{}
	d.open = func(dest *graph.Destination, sampleRate int, buffer time.Duration) (backend, error) {
		calls++
		require.Equal(t, 48000, sampleRate)
		require.Equal(t, DefaultBufferDuration, buffer)
		require.NotNil(t, dest)

		if openErr != nil {
			return nil, openErr
		}

		return fb, nil
	}

	return d, &calls, fb
}

func TestDestinationBeforeInit(t *testing.T) {
	d, _, _ := newFakeDevice(t, nil)

	dest, err := d.Destination()
	require.ErrorIs(t, err, ErrNotInitialized)
	require.Nil(t, dest)
	require.False(t, d.Initialized())
}

func TestInitOpensOnce(t *testing.T) {
	d, calls, fb := newFakeDevice(t, nil)

	require.NoError(t, d.Init())
	require.NoError(t, d.Init())
	require.Equal(t, 1, *calls)

	dest, err := d.Destination()
	require.NoError(t, err)
	require.Equal(t, graph.Node(d.Context().Destination()), dest)

	require.NoError(t, d.Close())
	require.NoError(t, d.Close())
	require.Equal(t, 1, fb.closed)

	_, err = d.Destination()
	require.ErrorIs(t, err, ErrNotInitialized)
}

func TestInitFailureIsSticky(t *testing.T) {
	boom := errors.New("no device")
	d, calls, _ := newFakeDevice(t, boom)

	require.ErrorIs(t, d.Init(), boom)
	require.ErrorIs(t, d.Init(), boom)
	require.Equal(t, 1, *calls)

	_, err := d.Destination()
	require.ErrorIs(t, err, ErrNotInitialized)
}

func TestNewValidatesOptions(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)

	_, err = New(graph.NewContext(), WithBufferDuration(0))
	require.Error(t, err)

	_, err = New(graph.NewContext(), WithLogger(nil))
	require.Error(t, err)
}
