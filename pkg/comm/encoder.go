package comm

import (
	"math"
	"time"
)

// TagRHACT is the tag of fin actuation frames.
const TagRHACT = "RHACT"

// Neutral is the neutral actuator position.
const Neutral = 1500

// Setpoint contains the target positions of the actuators.
// The first one is driven by the oscillator, the others are fixed.
type Setpoint [4]int

// Frame builds a frame carrying the setpoint.
func (s Setpoint) Frame(tag string) *Frame {
	return &Frame{Tag: tag, Fields: s[:]}
}

// Oscillator generates a sine wave setpoint from time.
type Oscillator struct {
	Amplitude int
	Center    int
	// TimeScale divides the time (in seconds) before taking sin.
	// Zero means π, the scale of DefaultOscillator.
	TimeScale float64
}

// DefaultOscillator sweeps the full actuation range 1000-2000.
var DefaultOscillator = Oscillator{
	Amplitude: 500,
	Center:    Neutral,
	TimeScale: math.Pi,
}

// Value calculates the setpoint value at specified time.
// The result is always within [Center-Amplitude, Center+Amplitude].
func (o Oscillator) Value(now time.Time) int {
	scale := o.TimeScale
	if scale == 0 {
		scale = math.Pi
	}
	secs := float64(now.UnixNano()) / float64(time.Second)
	return int(math.Round(float64(o.Amplitude)*math.Sin(secs/scale) + float64(o.Center)))
}

// Encoder produces control frames. It keeps no state between frames.
type Encoder struct {
	Tag        string
	Oscillator Oscillator
	Fixed      [3]int
}

// NewEncoder creates an Encoder for RHACT frames with defaults.
func NewEncoder() *Encoder {
	return &Encoder{
		Tag:        TagRHACT,
		Oscillator: DefaultOscillator,
		Fixed:      [3]int{Neutral, Neutral, Neutral},
	}
}

// Setpoint calculates the setpoint at specified time.
func (e *Encoder) Setpoint(now time.Time) Setpoint {
	return Setpoint{e.Oscillator.Value(now), e.Fixed[0], e.Fixed[1], e.Fixed[2]}
}

// NextFrame builds the control frame at specified time.
func (e *Encoder) NextFrame(now time.Time) *Frame {
	return e.Setpoint(now).Frame(e.Tag)
}
