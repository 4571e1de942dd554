// Package serial provides the serial port transport of the bridge.
package serial

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/golang/glog"
	tarm "github.com/tarm/serial"
)

// Defaults of the reference fin setup.
const (
	DefaultName        = "/dev/ttyUSB0"
	DefaultBaud        = 115200
	DefaultReadTimeout = 100 * time.Millisecond

	readBufferSize = 1024
)

var (
	// ErrClosed indicates the port is not open.
	ErrClosed = errors.New("port closed")
	// ErrAlreadyOpen indicates Open is called on an open port.
	ErrAlreadyOpen = errors.New("port already open")
)

// ConnectionError reports the port can't be opened.
type ConnectionError struct {
	Port string
	Err  error
}

// Error implements error.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("open serial port %s: %v", e.Port, e.Err)
}

// Unwrap returns the cause.
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Config defines the serial port settings.
type Config struct {
	Name string
	Baud int
	// ReadTimeout bounds a single read of the background reader.
	// It's rounded to 100ms by the tty driver. Zero means
	// DefaultReadTimeout: without a timeout the reader blocks on an
	// idle line and Close never returns.
	ReadTimeout time.Duration
}

// DefaultConfig returns the configuration of the reference setup.
func DefaultConfig() Config {
	return Config{
		Name:        DefaultName,
		Baud:        DefaultBaud,
		ReadTimeout: DefaultReadTimeout,
	}
}

// Opener opens the underlying device.
type Opener func(*tarm.Config) (io.ReadWriteCloser, error)

// OpenTarm opens the device using github.com/tarm/serial.
func OpenTarm(c *tarm.Config) (io.ReadWriteCloser, error) {
	p, err := tarm.OpenPort(c)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Port is a serial port with non-blocking reads.
// Received bytes are collected by a background reader and
// retrieved using ReadAvailable.
type Port struct {
	Config Config
	Opener Opener

	lock    sync.Mutex
	rwc     io.ReadWriteCloser
	open    bool
	pending []byte
	doneCh  chan struct{}
}

// New creates a Port, it's not opened.
func New(conf Config) *Port {
	return &Port{Config: conf, Opener: OpenTarm}
}

// Open opens the port and starts the background reader.
func (p *Port) Open() error {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.open {
		return ErrAlreadyOpen
	}
	if p.Config.Name == "" {
		return &ConnectionError{Err: errors.New("port name not specified")}
	}
	opener := p.Opener
	if opener == nil {
		opener = OpenTarm
	}
	timeout := p.Config.ReadTimeout
	if timeout <= 0 {
		timeout = DefaultReadTimeout
	}
	rwc, err := opener(&tarm.Config{
		Name:        p.Config.Name,
		Baud:        p.Config.Baud,
		ReadTimeout: timeout,
	})
	if err != nil {
		return &ConnectionError{Port: p.Config.Name, Err: err}
	}
	p.rwc, p.open, p.pending = rwc, true, nil
	p.doneCh = make(chan struct{})
	go p.readLoop(rwc, timeout, p.doneCh)
	return nil
}

// IsOpen indicates if the port is open.
func (p *Port) IsOpen() bool {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.open
}

// ReadAvailable returns the bytes received since last call without blocking.
// Bytes received before the port closed are still returned.
func (p *Port) ReadAvailable() ([]byte, error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	data := p.pending
	p.pending = nil
	if len(data) == 0 && !p.open {
		return nil, ErrClosed
	}
	return data, nil
}

// Write writes all bytes to the port.
func (p *Port) Write(data []byte) error {
	p.lock.Lock()
	rwc, open := p.rwc, p.open
	p.lock.Unlock()
	if !open {
		return ErrClosed
	}
	_, err := rwc.Write(data)
	return err
}

// Close closes the port and waits for the background reader to exit.
func (p *Port) Close() error {
	p.lock.Lock()
	if !p.open {
		p.lock.Unlock()
		return nil
	}
	p.open = false
	err := p.rwc.Close()
	doneCh := p.doneCh
	p.lock.Unlock()
	<-doneCh
	return err
}

func (p *Port) readLoop(rwc io.ReadWriteCloser, timeout time.Duration, doneCh chan struct{}) {
	defer close(doneCh)
	buf := make([]byte, readBufferSize)
	for {
		start := time.Now()
		n, err := rwc.Read(buf)
		if n > 0 {
			p.lock.Lock()
			p.pending = append(p.pending, buf[:n]...)
			p.lock.Unlock()
		}
		if err == nil || isReadTimeout(n, err, time.Since(start), timeout) {
			continue
		}
		p.readFailed(rwc, err)
		return
	}
}

// isReadTimeout detects a read timeout. The tty driver reports it as an
// empty read which os.File translates to io.EOF, while a hung up device
// returns io.EOF immediately.
func isReadTimeout(n int, err error, elapsed, timeout time.Duration) bool {
	return n == 0 && err == io.EOF && elapsed >= timeout/2
}

func (p *Port) readFailed(rwc io.ReadWriteCloser, err error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	if !p.open || p.rwc != rwc {
		return
	}
	glog.Warningf("serial port %s read error: %v", p.Config.Name, err)
	p.open = false
	if err := rwc.Close(); err != nil {
		glog.V(2).Infof("serial port %s close error: %v", p.Config.Name, err)
	}
}
