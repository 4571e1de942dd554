package bridge

import (
	"flag"
	"os"
	"time"

	"github.com/robotalks/finlink/pkg/serial"
)

// Config defines the configurations for the bridge.
type Config struct {
	Serial   serial.Config
	Interval time.Duration
}

var _ Transport = (*serial.Port)(nil)

var defaultConfig = Config{
	Serial:   serial.DefaultConfig(),
	Interval: DefaultInterval,
}

func init() {
	if val := os.Getenv("FINLINK_PORT"); val != "" {
		defaultConfig.Serial.Name = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Serial.Name, "port", defaultConfig.Serial.Name, "Serial port device.")
	flag.IntVar(&defaultConfig.Serial.Baud, "baud", defaultConfig.Serial.Baud, "Serial port baud rate.")
	flag.DurationVar(&defaultConfig.Interval, "interval", defaultConfig.Interval, "Pause between control cycles.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewPort creates the serial port, it's not opened.
func (c *Config) NewPort() *serial.Port {
	return serial.New(c.Serial)
}

// NewBridge creates a bridge over the transport using the config.
func (c *Config) NewBridge(t Transport) *Bridge {
	b := New(t)
	b.Interval = c.Interval
	return b
}
