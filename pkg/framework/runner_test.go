package framework

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRunnerWait(t *testing.T) {
	errFoo, errBar := errors.New("foo"), errors.New("bar")
	testCases := []struct {
		name   string
		errs   []error
		expect []error
	}{
		{"none", nil, nil},
		{"all ok", []error{nil, nil}, nil},
		{"canceled ignored", []error{context.Canceled, nil}, nil},
		{"single", []error{nil, errFoo}, []error{errFoo}},
		{"multiple", []error{errFoo, context.Canceled, errBar}, []error{errFoo, errBar}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewRunner()
			for _, err := range tc.errs {
				err := err
				r.Go(RunFunc(func(context.Context) error {
					return err
				}))
			}
			err := r.Wait()
			if tc.expect == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, expected := range tc.expect {
				require.True(t, errors.Is(err, expected), "%v not in %v", expected, err)
			}
			if len(tc.expect) > 1 {
				agg, ok := err.(*AggregatedError)
				require.True(t, ok)
				require.Len(t, agg.Errors, len(tc.expect))
			}
		})
	}
}

func TestRunnerWaitNamesErrors(t *testing.T) {
	r := NewRunner()
	r.Go(NamedRun("bridge", RunFunc(func(context.Context) error {
		return errors.New("write failed")
	})))
	require.EqualError(t, r.Wait(), "bridge: write failed")
}

func TestRunnerCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := NewRunnerWith(ctx)
	r.Go(NamedRun("wait", RunFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})))
	require.Len(t, r.Runners, 1)
	require.Equal(t, "wait", r.Runners[0].(Named).Name())
	cancel()
	require.NoError(t, r.Wait())
}

func TestRunnerHandleSignals(t *testing.T) {
	r := NewRunner().HandleSignals(syscall.SIGTERM)
	r.Go(RunFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))
	proc, err := os.FindProcess(os.Getpid())
	require.NoError(t, err)
	require.NoError(t, proc.Signal(syscall.SIGTERM))
	require.NoError(t, r.Wait())
}

// testCloser records Close calls and unblocks the user of the resource.
type testCloser struct {
	closeCh chan struct{}
	calls   int32
	err     error
}

func newTestCloser(err error) *testCloser {
	return &testCloser{closeCh: make(chan struct{}), err: err}
}

func (c *testCloser) Close() error {
	if atomic.AddInt32(&c.calls, 1) == 1 {
		close(c.closeCh)
	}
	return c.err
}

func TestRunWithContextCloser(t *testing.T) {
	t.Run("close on cancel", func(t *testing.T) {
		c := newTestCloser(nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := RunWithContextCloser(ctx, c, func() error {
			// blocked on the resource until it's closed
			<-c.closeCh
			return nil
		})
		require.NoError(t, err)
		require.Equal(t, int32(1), atomic.LoadInt32(&c.calls))
	})

	t.Run("close after return", func(t *testing.T) {
		c := newTestCloser(nil)
		errRun := errors.New("run failed")
		err := RunWithContextCloser(context.Background(), c, func() error {
			return errRun
		})
		require.Equal(t, errRun, err)
		require.Equal(t, int32(1), atomic.LoadInt32(&c.calls))
	})

	t.Run("aggregate close error", func(t *testing.T) {
		errClose, errRun := errors.New("close failed"), errors.New("run failed")
		err := RunWithContextCloser(context.Background(), newTestCloser(errClose), func() error {
			return errRun
		})
		require.True(t, errors.Is(err, errRun))
		require.True(t, errors.Is(err, errClose))
		require.EqualError(t, err, "2 errors: run failed; close failed")
	})
}

func TestWithCloser(t *testing.T) {
	c := newTestCloser(errors.New("close failed"))
	ctx, cancel := context.WithCancel(context.Background())
	r := NewRunnerWith(ctx)
	r.Go(WithCloser(NamedRun("bridge", RunFunc(func(ctx context.Context) error {
		<-c.closeCh
		return ctx.Err()
	})), c))
	require.Equal(t, "bridge", r.Runners[0].(Named).Name())
	cancel()
	// cancellation is dropped, the close error is kept
	require.EqualError(t, r.Wait(), "bridge: close failed")
	require.Equal(t, int32(1), atomic.LoadInt32(&c.calls))

	r = NewRunner().Go(WithCloser(RunFunc(func(context.Context) error { return nil }), newTestCloser(nil)))
	require.NoError(t, r.Wait())
}

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Aggregate())
	errA := errors.New("a")
	errs.Add(nil, errA)
	require.Equal(t, errA, errs.Aggregate())
	errs.Add(&os.PathError{Op: "open", Path: "/dev/ttyUSB0", Err: os.ErrNotExist})
	require.EqualError(t, errs.Aggregate(), "2 errors: a; open /dev/ttyUSB0: file does not exist")
	require.True(t, errors.Is(errs.Aggregate(), os.ErrNotExist))
	var pathErr *os.PathError
	require.True(t, errors.As(errs.Aggregate(), &pathErr))
	require.Equal(t, "/dev/ttyUSB0", pathErr.Path)
	require.False(t, errors.Is(errs.Aggregate(), context.Canceled))
}

func TestTimeFunc(t *testing.T) {
	now := time.Unix(1234, 0)
	require.Equal(t, now, TimeFunc(func() time.Time { return now }).Time())
	require.False(t, SystemClock.Time().IsZero())
}
