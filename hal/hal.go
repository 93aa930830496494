package hal

import (
	"errors"
	"time"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// LED is a minimal output pin abstraction.
type LED interface {
	High()
	Low()
}

var (
	ErrNotImplemented        = errors.New("not implemented")
	ErrDisplayNotResponding  = errors.New("display not responding")
	ErrADCChannelUnavailable = errors.New("adc channel unavailable")
)

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// Display is the panel: a framebuffer plus power sequencing.
type Display interface {
	// Init brings the panel up. A non-nil error means the panel did not respond;
	// what to do about it is left to the caller.
	Init() error
	Framebuffer() Framebuffer
	SetPower(on bool) error
}

// Button identifies one of the physical push buttons.
type Button uint8

const (
	Button1 Button = iota
	Button2
	Button3
	Button4

	NumButtons = 4
)

// Buttons is a polled view of the push buttons. Pressed reports the physical
// level, no debouncing and no event queue.
type Buttons interface {
	Pressed(b Button) bool
}

// Timer is the periodic tick source.
//
// The tick interrupt is the only writer of the counter; Ticks must be safe to
// call from any context.
type Timer interface {
	Ticks() uint64
	Hz() uint32
	Disable()
}

// Watchdog is the periodic supervision timer.
type Watchdog interface {
	Kick()
	Disable()
}

// ResetController exposes the persisted reset-cause register and the reset line.
type ResetController interface {
	Cause() ResetCause
	ClearCause()
	// Reset restarts the device. It does not return.
	Reset(cause ResetCause)
}

// ADCChannel identifies an analog input.
type ADCChannel uint8

const (
	ADCBattery ADCChannel = iota
	ADCBandgap
	ADCLight
)

// ADC reads raw 10-bit conversions.
type ADC interface {
	Read(ch ADCChannel) (uint16, error)
}

// RTC is the real-time clock.
type RTC interface {
	Now() time.Time
}

// Traps delivers pending fatal hardware traps.
//
// On hardware the trap vectors call into the error handler directly; on host
// they are injected events drained by the main loop.
type Traps interface {
	Pending() (Trap, bool)
}

// HAL provides the only contact point between the OS and the outside world.
type HAL interface {
	Logger() Logger
	LED() LED
	Display() Display
	Buttons() Buttons
	Timer() Timer
	Watchdog() Watchdog
	ResetController() ResetController
	ADC() ADC
	RTC() RTC
	Traps() Traps
}

// ButtonMask is a snapshot of all buttons, bit n set for Button(n).
type ButtonMask uint8

// Has reports whether b is set in the mask.
func (m ButtonMask) Has(b Button) bool { return m&(1<<b) != 0 }

// ReadButtons samples every button once.
func ReadButtons(in Buttons) ButtonMask {
	if in == nil {
		return 0
	}
	var m ButtonMask
	for b := Button(0); b < NumButtons; b++ {
		if in.Pressed(b) {
			m |= 1 << b
		}
	}
	return m
}

// AnyPressed reports whether at least one button is down.
func AnyPressed(in Buttons) bool {
	return ReadButtons(in) != 0
}
