// Package fault is the critical-error handler: the single funnel for fatal
// traps and "should never happen" checks. It takes the display over, waits
// for the operator to acknowledge with a button press and release, and resets
// the device. It never returns.
package fault

import (
	"runtime"
	"sync/atomic"

	"zeitgeber/hal"
	"zeitgeber/zgos/gfx"
)

// Phase is the handler's state.
type Phase uint32

const (
	PhaseNormal Phase = iota
	PhaseTrapped
	PhaseAwaitPress
	PhaseAwaitRelease
	PhaseReset
)

func (p Phase) String() string {
	switch p {
	case PhaseNormal:
		return "normal"
	case PhaseTrapped:
		return "trapped"
	case PhaseAwaitPress:
		return "await-press"
	case PhaseAwaitRelease:
		return "await-release"
	case PhaseReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Banner is the title line of the error screen.
const Banner = "CRITICAL ERROR"

// Disabler is a periodic source the handler silences on entry.
type Disabler interface {
	Disable()
}

// Resetter restarts the device.
type Resetter interface {
	Reset(cause hal.ResetCause)
}

// Logger receives the error message.
type Logger interface {
	WriteLineString(s string)
}

// Config lists what the handler drives directly. Nil members are skipped.
type Config struct {
	Timer    Disabler
	Watchdog Disabler
	Screen   gfx.Surface
	Buttons  hal.Buttons
	Reset    Resetter
	Logger   Logger
}

// Handler is the critical-error state machine.
type Handler struct {
	cfg    Config
	active atomic.Bool
	phase  atomic.Uint32
	msg    atomic.Value // string
}

// New returns a handler in PhaseNormal.
func New(cfg Config) *Handler {
	return &Handler{cfg: cfg}
}

// Phase returns the current state. Safe from any goroutine.
func (h *Handler) Phase() Phase { return Phase(h.phase.Load()) }

// Active reports whether the handler has been entered.
func (h *Handler) Active() bool { return h.active.Load() }

// Message returns the message being shown, if any.
func (h *Handler) Message() string {
	s, _ := h.msg.Load().(string)
	return s
}

// Trap enters the handler for a hardware trap vector.
func (h *Handler) Trap(t hal.Trap) {
	h.CriticalError(t.Message())
}

// CriticalError shows msg, waits for a press and release of any button and
// resets the device. It never returns. A second caller while the handler is
// active blocks forever. If the handler itself panics before the reset, it
// resets at once instead of waiting on a half-drawn screen.
func (h *Handler) CriticalError(msg string) {
	if !h.active.CompareAndSwap(false, true) {
		select {}
	}
	defer h.resetOnPanic()
	h.msg.Store(msg)

	h.setPhase(PhaseTrapped)
	if h.cfg.Timer != nil {
		h.cfg.Timer.Disable()
	}
	if h.cfg.Watchdog != nil {
		h.cfg.Watchdog.Disable()
	}
	if h.cfg.Logger != nil {
		h.cfg.Logger.WriteLineString("critical error: " + msg)
	}
	h.show(msg)

	h.setPhase(PhaseAwaitPress)
	for !hal.AnyPressed(h.cfg.Buttons) {
		runtime.Gosched()
	}

	h.setPhase(PhaseAwaitRelease)
	for hal.AnyPressed(h.cfg.Buttons) {
		runtime.Gosched()
	}

	h.setPhase(PhaseReset)
	if h.cfg.Reset != nil {
		h.cfg.Reset.Reset(hal.ResetTrap)
	}
	select {}
}

func (h *Handler) resetOnPanic() {
	r := recover()
	if r == nil {
		return
	}
	if sig, ok := r.(hal.ResetSignal); ok {
		panic(sig)
	}
	h.setPhase(PhaseReset)
	if h.cfg.Reset != nil {
		h.cfg.Reset.Reset(hal.ResetTrap)
	}
	select {}
}

func (h *Handler) show(msg string) {
	scr := h.cfg.Screen
	if scr == nil {
		return
	}
	if !scr.IsOn() {
		_ = scr.DisplayOn()
	}
	scr.ClearImage()
	scr.DrawString(Banner, 8, 8, gfx.Red)
	scr.DrawString(msg, 8, 18, gfx.White)
	if err := scr.UpdateDisplay(); err != nil && h.cfg.Logger != nil {
		h.cfg.Logger.WriteLineString("critical error: update display: " + err.Error())
	}
}

func (h *Handler) setPhase(p Phase) {
	h.phase.Store(uint32(p))
}
