//go:build tinygo && !rp2040

package hal

import "time"

// New returns a board with no panel, no buttons and no analog inputs, so the
// firmware builds and boots on any TinyGo target. Log lines go to the
// runtime's default console.
func New() HAL {
	return &stubHAL{
		timer: &stubTimer{hz: 1000, start: time.Now()},
		traps: NewTrapQueue(1),
	}
}

type stubHAL struct {
	timer *stubTimer
	traps *TrapQueue
}

func (h *stubHAL) Logger() Logger                   { return stubLogger{} }
func (h *stubHAL) LED() LED                         { return stubLED{} }
func (h *stubHAL) Display() Display                 { return stubDisplay{} }
func (h *stubHAL) Buttons() Buttons                 { return stubButtons{} }
func (h *stubHAL) Timer() Timer                     { return h.timer }
func (h *stubHAL) Watchdog() Watchdog               { return stubWatchdog{} }
func (h *stubHAL) ResetController() ResetController { return stubReset{} }
func (h *stubHAL) ADC() ADC                         { return stubADC{} }
func (h *stubHAL) RTC() RTC                         { return stubRTC{} }
func (h *stubHAL) Traps() Traps                     { return h.traps }

type stubLogger struct{}

func (stubLogger) WriteLineString(s string) { println(s) }
func (stubLogger) WriteLineBytes(b []byte)  { println(string(b)) }

type stubLED struct{}

func (stubLED) High() {}
func (stubLED) Low()  {}

type stubFramebuffer struct{}

func (stubFramebuffer) Width() int             { return 0 }
func (stubFramebuffer) Height() int            { return 0 }
func (stubFramebuffer) Format() PixelFormat    { return PixelFormatRGB565 }
func (stubFramebuffer) StrideBytes() int       { return 0 }
func (stubFramebuffer) Buffer() []byte         { return nil }
func (stubFramebuffer) ClearRGB(r, g, b uint8) {}
func (stubFramebuffer) Present() error         { return ErrNotImplemented }

type stubDisplay struct{}

func (stubDisplay) Init() error              { return ErrDisplayNotResponding }
func (stubDisplay) Framebuffer() Framebuffer { return stubFramebuffer{} }
func (stubDisplay) SetPower(bool) error      { return ErrNotImplemented }

type stubButtons struct{}

func (stubButtons) Pressed(Button) bool { return false }

// stubTimer derives ticks from the runtime clock; there is no interrupt to
// disable, so Disable freezes the count instead.
type stubTimer struct {
	hz     uint32
	start  time.Time
	frozen uint64
	off    bool
}

func (t *stubTimer) Ticks() uint64 {
	if t.off {
		return t.frozen
	}
	return uint64(time.Since(t.start) / (time.Second / time.Duration(t.hz)))
}

func (t *stubTimer) Hz() uint32 { return t.hz }

func (t *stubTimer) Disable() {
	if !t.off {
		t.frozen = t.Ticks()
		t.off = true
	}
}

type stubWatchdog struct{}

func (stubWatchdog) Kick()    {}
func (stubWatchdog) Disable() {}

type stubReset struct{}

func (stubReset) Cause() ResetCause { return ResetPowerOn }
func (stubReset) ClearCause()       {}
func (stubReset) Reset(ResetCause) {
	println("reset: not supported on this target, halting")
	select {}
}

type stubADC struct{}

func (stubADC) Read(ADCChannel) (uint16, error) { return 0, ErrADCChannelUnavailable }

type stubRTC struct{}

func (stubRTC) Now() time.Time { return time.Now() }
