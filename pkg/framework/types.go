package framework

import (
	"context"
	"time"
)

// Named is an abstraction for things with a name.
type Named interface {
	Name() string
}

// Runnable defines a generic interface for background runners.
type Runnable interface {
	Run(context.Context) error
}

// RunFunc is the func form of Runnable.
type RunFunc func(context.Context) error

// Run implements Runnable.
func (f RunFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// TimeSource provides the time for controlling logic.
type TimeSource interface {
	Time() time.Time
}

// TimeFunc is the func form of TimeSource.
type TimeFunc func() time.Time

// Time implements TimeSource.
func (f TimeFunc) Time() time.Time {
	return f()
}

// SystemClock is the TimeSource backed by time.Now.
var SystemClock TimeSource = TimeFunc(time.Now)
