package app

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"zeitgeber/hal"
)

type memFB struct {
	w, h     int
	buf      []byte
	presents atomic.Int32
}

func newMemFB(w, h int) *memFB { return &memFB{w: w, h: h, buf: make([]byte, w*h*2)} }

func (f *memFB) Width() int              { return f.w }
func (f *memFB) Height() int             { return f.h }
func (f *memFB) Format() hal.PixelFormat { return hal.PixelFormatRGB565 }
func (f *memFB) StrideBytes() int        { return f.w * 2 }
func (f *memFB) Buffer() []byte          { return f.buf }
func (f *memFB) ClearRGB(r, g, b uint8)  { clear(f.buf) }
func (f *memFB) Present() error          { f.presents.Add(1); return nil }

type fakeDisplay struct {
	fb      *memFB
	initErr error
	powered atomic.Bool
}

func (d *fakeDisplay) Init() error {
	if d.initErr != nil {
		return d.initErr
	}
	d.powered.Store(true)
	return nil
}
func (d *fakeDisplay) Framebuffer() hal.Framebuffer { return d.fb }
func (d *fakeDisplay) SetPower(on bool) error       { d.powered.Store(on); return nil }

type fakeTimer struct {
	ticks    atomic.Uint64
	disabled atomic.Bool
}

func (t *fakeTimer) Ticks() uint64 { return t.ticks.Load() }
func (t *fakeTimer) Hz() uint32    { return 1000 }
func (t *fakeTimer) Disable()      { t.disabled.Store(true) }

type fakeWatchdog struct {
	kicks    atomic.Int32
	disabled atomic.Bool
}

func (w *fakeWatchdog) Kick()    { w.kicks.Add(1) }
func (w *fakeWatchdog) Disable() { w.disabled.Store(true) }

// fakeReset behaves like the host reset line: Reset unwinds with a
// hal.ResetSignal.
type fakeReset struct {
	mu      sync.Mutex
	cause   hal.ResetCause
	cleared bool
}

func (r *fakeReset) Cause() hal.ResetCause {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cause
}

func (r *fakeReset) ClearCause() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cause = hal.ResetNone
	r.cleared = true
}

func (r *fakeReset) Reset(c hal.ResetCause) {
	r.mu.Lock()
	r.cause = c
	r.mu.Unlock()
	panic(hal.ResetSignal{Cause: c})
}

type fakeADC struct{}

func (fakeADC) Read(ch hal.ADCChannel) (uint16, error) {
	switch ch {
	case hal.ADCBandgap:
		return 372, nil
	case hal.ADCBattery:
		return 600, nil
	}
	return 0, hal.ErrADCChannelUnavailable
}

type fakeRTC struct{}

func (fakeRTC) Now() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

type fakeLED struct{ high atomic.Bool }

func (l *fakeLED) High() { l.high.Store(true) }
func (l *fakeLED) Low()  { l.high.Store(false) }

type logBuf struct {
	mu    sync.Mutex
	lines []string
}

func (l *logBuf) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, s)
}
func (l *logBuf) WriteLineBytes(b []byte) { l.WriteLineString(string(b)) }

func (l *logBuf) contains(sub string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range l.lines {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

type fakeHAL struct {
	log     *logBuf
	led     *fakeLED
	disp    *fakeDisplay
	buttons *hal.VirtualButtons
	timer   *fakeTimer
	wdt     *fakeWatchdog
	reset   *fakeReset
	traps   *hal.TrapQueue
}

func newFakeHAL() *fakeHAL {
	return &fakeHAL{
		log:     &logBuf{},
		led:     &fakeLED{},
		disp:    &fakeDisplay{fb: newMemFB(128, 128)},
		buttons: &hal.VirtualButtons{},
		timer:   &fakeTimer{},
		wdt:     &fakeWatchdog{},
		reset:   &fakeReset{cause: hal.ResetSoftware},
		traps:   hal.NewTrapQueue(2),
	}
}

func (h *fakeHAL) Logger() hal.Logger                   { return h.log }
func (h *fakeHAL) LED() hal.LED                         { return h.led }
func (h *fakeHAL) Display() hal.Display                 { return h.disp }
func (h *fakeHAL) Buttons() hal.Buttons                 { return h.buttons }
func (h *fakeHAL) Timer() hal.Timer                     { return h.timer }
func (h *fakeHAL) Watchdog() hal.Watchdog               { return h.wdt }
func (h *fakeHAL) ResetController() hal.ResetController { return h.reset }
func (h *fakeHAL) ADC() hal.ADC                         { return fakeADC{} }
func (h *fakeHAL) RTC() hal.RTC                         { return fakeRTC{} }
func (h *fakeHAL) Traps() hal.Traps                     { return h.traps }
