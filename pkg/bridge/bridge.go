// Package bridge runs the control cycle between the L1 controller and
// the fin firmware: receive and print frames, then send the next setpoint.
package bridge

import (
	"context"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/finlink/pkg/comm"
	"github.com/robotalks/finlink/pkg/framework"
)

// DefaultInterval is the pause between control cycles.
const DefaultInterval = 100 * time.Millisecond

// Transport is the channel to the device.
type Transport interface {
	IsOpen() bool
	// ReadAvailable must not block.
	ReadAvailable() ([]byte, error)
	Write([]byte) error
}

// Bridge exchanges frames over a Transport.
// All work happens in the goroutine calling Run.
type Bridge struct {
	Transport Transport
	Encoder   *comm.Encoder
	Clock     framework.TimeSource
	Interval  time.Duration
	Inbound   InboundHandler
	Outbound  OutboundHandler

	decoder comm.Decoder
}

// New creates a Bridge sending RHACT frames.
func New(t Transport) *Bridge {
	return &Bridge{
		Transport: t,
		Encoder:   comm.NewEncoder(),
		Clock:     framework.SystemClock,
		Interval:  DefaultInterval,
	}
}

// Run implements Runnable. It returns nil once the transport is closed.
func (b *Bridge) Run(ctx context.Context) error {
	interval := b.Interval
	if interval == 0 {
		interval = DefaultInterval
	}
	for b.Transport.IsOpen() {
		b.RunCycle(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
	glog.Info("transport closed")
	return nil
}

// RunCycle processes received bytes and sends one control frame.
func (b *Bridge) RunCycle(ctx context.Context) {
	b.receive(ctx)
	b.send(ctx)
}

func (b *Bridge) receive(ctx context.Context) {
	data, err := b.Transport.ReadAvailable()
	if err != nil {
		glog.Warningf("read error: %v", err)
	}
	if len(data) > 0 {
		if err := b.decoder.Feed(data); err != nil {
			glog.V(2).Infof("received chunk dropped: %v", err)
		}
	}
	frames, err := b.decoder.Drain()
	for _, frame := range frames {
		if h := b.Inbound; h != nil {
			h.HandleInbound(ctx, frame)
		}
	}
	if err != nil {
		glog.Warningf("receive error: %v", err)
	}
}

func (b *Bridge) send(ctx context.Context) {
	clock := b.Clock
	if clock == nil {
		clock = framework.SystemClock
	}
	frame := b.Encoder.NextFrame(clock.Time())
	if err := b.Transport.Write(frame.Bytes()); err != nil {
		glog.Warningf("write error: %v", err)
		return
	}
	if h := b.Outbound; h != nil {
		h.HandleOutbound(ctx, frame)
	}
}
