package bridge

import (
	"context"
	"fmt"
	"io"

	"github.com/robotalks/finlink/pkg/comm"
)

// InboundHandler is called when a complete frame is received.
type InboundHandler interface {
	HandleInbound(ctx context.Context, frame string)
}

// HandleInboundFunc is func type of InboundHandler.
type HandleInboundFunc func(context.Context, string)

// HandleInbound implements InboundHandler.
func (f HandleInboundFunc) HandleInbound(ctx context.Context, frame string) {
	f(ctx, frame)
}

// OutboundHandler is called after a control frame is sent.
type OutboundHandler interface {
	HandleOutbound(ctx context.Context, frame *comm.Frame)
}

// HandleOutboundFunc is func type of OutboundHandler.
type HandleOutboundFunc func(context.Context, *comm.Frame)

// HandleOutbound implements OutboundHandler.
func (f HandleOutboundFunc) HandleOutbound(ctx context.Context, frame *comm.Frame) {
	f(ctx, frame)
}

// Printer prints frames line by line.
// Received frames are printed as-is, sent frames without
// checksum and terminator.
type Printer struct {
	Writer io.Writer
}

// NewPrinter creates a Printer.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{Writer: w}
}

// HandleInbound implements InboundHandler.
func (p *Printer) HandleInbound(ctx context.Context, frame string) {
	fmt.Fprintln(p.Writer, frame)
}

// HandleOutbound implements OutboundHandler.
func (p *Printer) HandleOutbound(ctx context.Context, frame *comm.Frame) {
	fmt.Fprintln(p.Writer, frame.String())
}
