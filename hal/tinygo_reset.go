//go:build tinygo && rp2040

package hal

import (
	"device/rp"
	"machine"
)

// rp2Reset keeps the reset cause in watchdog scratch register 0, which
// survives everything but a power cycle.
type rp2Reset struct{}

func (rp2Reset) Cause() ResetCause {
	c := DecodeResetWord(rp.WATCHDOG.SCRATCH0.Get())
	if c == ResetNone && rp.WATCHDOG.REASON.HasBits(rp.WATCHDOG_REASON_TIMER) {
		// A bite does not get to write the register.
		return ResetWatchdog
	}
	return c
}

func (rp2Reset) ClearCause() {
	rp.WATCHDOG.SCRATCH0.Set(EncodeResetWord(ResetNone))
}

func (rp2Reset) Reset(cause ResetCause) {
	rp.WATCHDOG.SCRATCH0.Set(EncodeResetWord(cause))
	machine.CPUReset()
	for {
	}
}

type rp2Watchdog struct {
	started bool
}

const rp2WatchdogTimeoutMs = 2000

func (w *rp2Watchdog) Kick() {
	if !w.started {
		if err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: rp2WatchdogTimeoutMs}); err != nil {
			return
		}
		if err := machine.Watchdog.Start(); err != nil {
			return
		}
		w.started = true
	}
	machine.Watchdog.Update()
}

func (w *rp2Watchdog) Disable() {
	rp.WATCHDOG.CTRL.ClearBits(rp.WATCHDOG_CTRL_ENABLE)
	w.started = false
}
