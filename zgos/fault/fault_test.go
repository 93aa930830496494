package fault

import (
	"image/color"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"zeitgeber/hal"
	"zeitgeber/zgos/gfx"
)

type fakeDisabler struct{ disabled atomic.Bool }

func (d *fakeDisabler) Disable() { d.disabled.Store(true) }

type drawCall struct {
	text string
	x, y int16
	c    color.RGBA
}

type fakeScreen struct {
	on      bool
	clears  int
	updates int
	draws   []drawCall
}

func (s *fakeScreen) ClearImage() { s.clears++ }
func (s *fakeScreen) DrawString(text string, x, y int16, c color.RGBA) int16 {
	s.draws = append(s.draws, drawCall{text, x, y, c})
	return x
}
func (s *fakeScreen) UpdateDisplay() error { s.updates++; return nil }
func (s *fakeScreen) DisplayOn() error     { s.on = true; return nil }
func (s *fakeScreen) DisplayOff() error    { s.on = false; return nil }
func (s *fakeScreen) IsOn() bool           { return s.on }

// fakeReset stands in for the reset line: it records the cause and ends the
// calling goroutine, which is as close to "does not return" as a test gets.
type fakeReset struct {
	done  chan hal.ResetCause
	calls atomic.Int32
}

func (r *fakeReset) Reset(c hal.ResetCause) {
	r.calls.Add(1)
	r.done <- c
	runtime.Goexit()
}

type rig struct {
	h       *Handler
	timer   *fakeDisabler
	wdt     *fakeDisabler
	scr     *fakeScreen
	buttons *hal.VirtualButtons
	reset   *fakeReset
}

func newRig() *rig {
	r := &rig{
		timer:   &fakeDisabler{},
		wdt:     &fakeDisabler{},
		scr:     &fakeScreen{},
		buttons: &hal.VirtualButtons{},
		reset:   &fakeReset{done: make(chan hal.ResetCause, 1)},
	}
	r.h = New(Config{
		Timer:    r.timer,
		Watchdog: r.wdt,
		Screen:   r.scr,
		Buttons:  r.buttons,
		Reset:    r.reset,
	})
	return r
}

func waitPhase(t *testing.T, h *Handler, want Phase) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.Phase() != want {
		if time.Now().After(deadline) {
			t.Fatalf("Phase() = %v, want %v", h.Phase(), want)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestCriticalErrorSequence(t *testing.T) {
	r := newRig()
	if r.h.Phase() != PhaseNormal {
		t.Fatalf("Phase() = %v, want %v", r.h.Phase(), PhaseNormal)
	}

	returned := make(chan struct{})
	go func() {
		r.h.CriticalError("Trap: Stack Error")
		close(returned)
	}()

	waitPhase(t, r.h, PhaseAwaitPress)
	if !r.timer.disabled.Load() || !r.wdt.disabled.Load() {
		t.Fatalf("timer disabled=%v watchdog disabled=%v, want both", r.timer.disabled.Load(), r.wdt.disabled.Load())
	}
	if !r.scr.on || r.scr.clears != 1 || r.scr.updates != 1 {
		t.Fatalf("screen on=%v clears=%d updates=%d, want true,1,1", r.scr.on, r.scr.clears, r.scr.updates)
	}
	want := []drawCall{
		{Banner, 8, 8, gfx.Red},
		{"Trap: Stack Error", 8, 18, gfx.White},
	}
	if len(r.scr.draws) != len(want) {
		t.Fatalf("draws = %v, want %v", r.scr.draws, want)
	}
	for i := range want {
		if r.scr.draws[i] != want[i] {
			t.Fatalf("draws[%d] = %v, want %v", i, r.scr.draws[i], want[i])
		}
	}
	if r.h.Message() != "Trap: Stack Error" {
		t.Fatalf("Message() = %q, want %q", r.h.Message(), "Trap: Stack Error")
	}

	r.buttons.Press(hal.Button3)
	waitPhase(t, r.h, PhaseAwaitRelease)
	if n := r.reset.calls.Load(); n != 0 {
		t.Fatalf("reset calls while held = %d, want 0", n)
	}

	r.buttons.Release(hal.Button3)
	select {
	case c := <-r.reset.done:
		if c != hal.ResetTrap {
			t.Fatalf("reset cause = %v, want %v", c, hal.ResetTrap)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no reset after press and release")
	}
	if r.h.Phase() != PhaseReset {
		t.Fatalf("Phase() = %v, want %v", r.h.Phase(), PhaseReset)
	}
	select {
	case <-returned:
		t.Fatalf("CriticalError returned")
	default:
	}
}

func TestCriticalErrorWaitsForPress(t *testing.T) {
	r := newRig()
	go r.h.CriticalError("Trap: Stack Error")

	waitPhase(t, r.h, PhaseAwaitPress)
	time.Sleep(50 * time.Millisecond)
	if r.h.Phase() != PhaseAwaitPress {
		t.Fatalf("Phase() = %v, want %v", r.h.Phase(), PhaseAwaitPress)
	}
	if n := r.reset.calls.Load(); n != 0 {
		t.Fatalf("reset calls = %d, want 0", n)
	}

	r.buttons.Press(hal.Button1)
	waitPhase(t, r.h, PhaseAwaitRelease)
	r.buttons.Release(hal.Button1)
	<-r.reset.done
}

func TestCriticalErrorReleaseNeedsAllButtons(t *testing.T) {
	r := newRig()
	go r.h.CriticalError("boom")
	waitPhase(t, r.h, PhaseAwaitPress)

	r.buttons.Press(hal.Button1)
	r.buttons.Press(hal.Button4)
	waitPhase(t, r.h, PhaseAwaitRelease)

	r.buttons.Release(hal.Button1)
	time.Sleep(20 * time.Millisecond)
	if r.h.Phase() != PhaseAwaitRelease {
		t.Fatalf("Phase() with one button held = %v, want %v", r.h.Phase(), PhaseAwaitRelease)
	}
	r.buttons.Release(hal.Button4)
	<-r.reset.done
}

func TestTrapMessages(t *testing.T) {
	cases := []struct {
		trap hal.Trap
		want string
	}{
		{hal.TrapOscillatorFail, "Trap: OSC Failed"},
		{hal.TrapAddressError, "Trap: Address Error"},
		{hal.TrapStackError, "Trap: Stack Error"},
		{hal.TrapMathError, "Trap: Math Error"},
	}
	for _, tc := range cases {
		r := newRig()
		go r.h.Trap(tc.trap)
		waitPhase(t, r.h, PhaseAwaitPress)
		if got := r.h.Message(); got != tc.want {
			t.Fatalf("Trap(%v) message = %q, want %q", tc.trap, got, tc.want)
		}
		r.buttons.Press(hal.Button2)
		waitPhase(t, r.h, PhaseAwaitRelease)
		r.buttons.Release(hal.Button2)
		<-r.reset.done
	}
}

func TestCriticalErrorReentryBlocks(t *testing.T) {
	r := newRig()
	go r.h.CriticalError("first")
	waitPhase(t, r.h, PhaseAwaitPress)

	second := make(chan struct{})
	go func() {
		r.h.CriticalError("second")
		close(second)
	}()
	time.Sleep(20 * time.Millisecond)

	if r.h.Message() != "first" {
		t.Fatalf("Message() = %q, want %q", r.h.Message(), "first")
	}
	if r.scr.clears != 1 {
		t.Fatalf("clears = %d, want 1", r.scr.clears)
	}
	select {
	case <-second:
		t.Fatalf("re-entrant CriticalError returned")
	default:
	}

	r.buttons.Press(hal.Button1)
	waitPhase(t, r.h, PhaseAwaitRelease)
	r.buttons.Release(hal.Button1)
	<-r.reset.done
	if n := r.reset.calls.Load(); n != 1 {
		t.Fatalf("reset calls = %d, want 1", n)
	}
}

func TestCriticalErrorWithoutScreen(t *testing.T) {
	buttons := &hal.VirtualButtons{}
	reset := &fakeReset{done: make(chan hal.ResetCause, 1)}
	h := New(Config{Buttons: buttons, Reset: reset})
	go h.CriticalError("headless")

	waitPhase(t, h, PhaseAwaitPress)
	buttons.Press(hal.Button1)
	waitPhase(t, h, PhaseAwaitRelease)
	buttons.Release(hal.Button1)
	if c := <-reset.done; c != hal.ResetTrap {
		t.Fatalf("reset cause = %v, want %v", c, hal.ResetTrap)
	}
}

func TestPhaseString(t *testing.T) {
	if got := PhaseAwaitRelease.String(); got != "await-release" {
		t.Fatalf("String() = %q, want %q", got, "await-release")
	}
	if got := Phase(99).String(); got != "unknown" {
		t.Fatalf("String() = %q, want %q", got, "unknown")
	}
}

type brokenScreen struct{ fakeScreen }

func (s *brokenScreen) DrawString(string, int16, int16, color.RGBA) int16 {
	panic("font glyph out of range")
}

func TestCriticalErrorResetsWhenDrawingPanics(t *testing.T) {
	r := newRig()
	r.h.cfg.Screen = &brokenScreen{}

	go r.h.CriticalError("Trap: Address Error")

	select {
	case c := <-r.reset.done:
		if c != hal.ResetTrap {
			t.Fatalf("reset cause = %v, want %v", c, hal.ResetTrap)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no reset after the error screen panicked, phase %v", r.h.Phase())
	}
	if r.h.Phase() != PhaseReset {
		t.Fatalf("Phase() = %v, want %v", r.h.Phase(), PhaseReset)
	}
}

func TestCriticalErrorPassesResetSignalThrough(t *testing.T) {
	h := New(Config{Reset: panicReset{}, Buttons: &pressOnce{}})

	got := make(chan any, 1)
	go func() {
		defer func() { got <- recover() }()
		h.CriticalError("Trap: Math Error")
	}()

	select {
	case r := <-got:
		sig, ok := r.(hal.ResetSignal)
		if !ok || sig.Cause != hal.ResetTrap {
			t.Fatalf("recovered %v, want ResetSignal{%v}", r, hal.ResetTrap)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("CriticalError did not unwind, phase %v", h.Phase())
	}
}

// panicReset resets the way the host simulator does: by unwinding.
type panicReset struct{}

func (panicReset) Reset(c hal.ResetCause) { panic(hal.ResetSignal{Cause: c}) }

// pressOnce reports Button1 down on its first poll and up afterwards.
type pressOnce struct{ polls atomic.Int32 }

func (p *pressOnce) Pressed(b hal.Button) bool {
	return b == hal.Button1 && p.polls.Add(1) == 1
}
