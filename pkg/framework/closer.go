package framework

import (
	"context"
	"io"
	"sync"
)

// RunWithContextCloser runs fn and closes closer exactly once: as soon
// as ctx is done, to unblock fn, or after fn returns. The errors of fn
// and Close are aggregated.
func RunWithContextCloser(ctx context.Context, closer io.Closer, fn func() error) error {
	var once sync.Once
	var closeErr error
	closeOnce := func() {
		once.Do(func() { closeErr = closer.Close() })
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- fn()
	}()
	var err error
	select {
	case <-ctx.Done():
		closeOnce()
		err = <-errCh
	case err = <-errCh:
	}
	closeOnce()

	var errs AggregatedError
	return errs.Add(err, closeErr).Aggregate()
}

type closingRunnable struct {
	Runnable
	closer io.Closer
}

// WithCloser binds the resource a Runnable works on, e.g. a serial port,
// to its lifecycle. See RunWithContextCloser.
func WithCloser(runnable Runnable, closer io.Closer) Runnable {
	return &closingRunnable{Runnable: runnable, closer: closer}
}

// Name implements Named if the wrapped Runnable is named.
func (r *closingRunnable) Name() string {
	if named, ok := r.Runnable.(Named); ok {
		return named.Name()
	}
	return ""
}

// Run implements Runnable.
func (r *closingRunnable) Run(ctx context.Context) error {
	return RunWithContextCloser(ctx, r.closer, func() error {
		return r.Runnable.Run(ctx)
	})
}
