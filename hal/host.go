//go:build !tinygo

package hal

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/mattn/go-colorable"
)

// HostConfig describes the simulated board.
type HostConfig struct {
	// Hz is the tick interrupt rate.
	Hz uint32
	// Width and Height size the OLED framebuffer.
	Width, Height int
	// ResetPath is the file backing the reset-cause register.
	ResetPath string
	// SerialPort mirrors the log to a serial device when set.
	SerialPort string
	// Watchdog is the supervision timeout; zero leaves it off.
	Watchdog time.Duration
	// DisplayFault makes the panel fail its init, for exercising the
	// init-failure policy.
	DisplayFault bool
}

const (
	hostDefaultHz     = 1000
	hostDefaultWidth  = 128
	hostDefaultHeight = 128
)

func (c *HostConfig) normalize() {
	if c.Hz == 0 {
		c.Hz = hostDefaultHz
	}
	if c.Width <= 0 {
		c.Width = hostDefaultWidth
	}
	if c.Height <= 0 {
		c.Height = hostDefaultHeight
	}
	if c.ResetPath == "" {
		c.ResetPath = hostResetDefaultPath
	}
}

type hostHAL struct {
	logger  *hostLogger
	led     *hostLED
	disp    *hostDisplay
	buttons *VirtualButtons
	timer   *hostTimer
	wdt     *hostWatchdog
	reset   *hostReset
	adc     *hostADC
	traps   *TrapQueue
}

// New returns a host HAL implementation with the default board.
func New() HAL {
	h, err := newHost(HostConfig{})
	if err != nil {
		panic(err)
	}
	return h
}

func newHost(cfg HostConfig) (*hostHAL, error) {
	cfg.normalize()
	if time.Second/time.Duration(cfg.Hz) <= 0 {
		return nil, fmt.Errorf("hal: %d Hz has no tick period", cfg.Hz)
	}

	logger := &hostLogger{w: colorable.NewColorableStdout()}
	if cfg.SerialPort != "" {
		port, err := openSerialMirror(cfg.SerialPort)
		if err != nil {
			return nil, fmt.Errorf("open serial %s: %w", cfg.SerialPort, err)
		}
		logger.mirror = port
	}

	timer := newHostTimer(cfg.Hz)
	reset := newHostReset(cfg.ResetPath, logger)
	h := &hostHAL{
		logger:  logger,
		led:     &hostLED{logger: logger},
		disp:    &hostDisplay{fb: newHostFramebuffer(cfg.Width, cfg.Height), fault: cfg.DisplayFault},
		buttons: &VirtualButtons{},
		timer:   timer,
		wdt:     newHostWatchdog(timer, cfg.Watchdog, reset),
		reset:   reset,
		adc:     newHostADC(timer),
		traps:   NewTrapQueue(4),
	}
	return h, nil
}

func (h *hostHAL) Logger() Logger                   { return h.logger }
func (h *hostHAL) LED() LED                         { return h.led }
func (h *hostHAL) Display() Display                 { return h.disp }
func (h *hostHAL) Buttons() Buttons                 { return h.buttons }
func (h *hostHAL) Timer() Timer                     { return h.timer }
func (h *hostHAL) Watchdog() Watchdog               { return h.wdt }
func (h *hostHAL) ResetController() ResetController { return h.reset }
func (h *hostHAL) ADC() ADC                         { return h.adc }
func (h *hostHAL) RTC() RTC                         { return hostRTC{} }
func (h *hostHAL) Traps() Traps                     { return h.traps }

// reboot brings the simulated board back to its power-up state after a reset.
// The reset-cause register survives.
func (h *hostHAL) reboot() {
	h.timer.restart()
	h.wdt.restart()
	h.disp.reset()
	h.buttons.Set(0)
	for {
		if _, ok := h.traps.Pending(); !ok {
			break
		}
	}
}

func (h *hostHAL) close() {
	h.timer.Disable()
	h.wdt.Disable()
	h.logger.close()
}

type hostLogger struct {
	mu     sync.Mutex
	w      io.Writer
	mirror io.WriteCloser
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
	if l.mirror != nil {
		_, _ = io.WriteString(l.mirror, s+"\r\n")
	}
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.WriteLineString(string(b))
}

func (l *hostLogger) close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.mirror != nil {
		_ = l.mirror.Close()
		l.mirror = nil
	}
}

type hostLED struct {
	mu     sync.Mutex
	on     bool
	logger *hostLogger
}

func (l *hostLED) High() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.on {
		l.on = true
		l.logger.WriteLineString("led: HIGH")
	}
}

func (l *hostLED) Low() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.on {
		l.on = false
		l.logger.WriteLineString("led: LOW")
	}
}

type hostRTC struct{}

func (hostRTC) Now() time.Time { return time.Now() }
