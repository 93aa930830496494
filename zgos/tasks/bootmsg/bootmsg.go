// Package bootmsg draws the boot banner and reports an unexpected previous
// reset before the scheduler starts.
package bootmsg

import (
	"runtime"

	"zeitgeber/hal"
	"zeitgeber/zgos/gfx"
)

// Title is the first line drawn at boot.
const Title = "OLED Watch v1.0"

// CauseRegister is the persisted reset-cause register.
type CauseRegister interface {
	Cause() hal.ResetCause
	ClearCause()
}

// Clock measures the hold period.
type Clock interface {
	Ticks() uint64
}

// Kicker is fed while the report is held on screen.
type Kicker interface {
	Kick()
}

// Config wires Show. Screen and Reset are required.
type Config struct {
	Screen   gfx.Surface
	Reset    CauseRegister
	Clock    Clock
	Watchdog Kicker
	Logger   hal.Logger
	// Hold is how many ticks an unexpected-reset report stays up.
	Hold uint64
	// Version is appended to the boot log line.
	Version string
}

// Show draws the banner, reports the previous reset cause if it was
// unexpected, holds it for cfg.Hold ticks and clears the register. It returns
// the cause it read.
func Show(cfg Config) hal.ResetCause {
	cause := cfg.Reset.Cause()
	if cfg.Logger != nil {
		line := "boot: " + Title
		if cfg.Version != "" {
			line += " (" + cfg.Version + ")"
		}
		cfg.Logger.WriteLineString(line)
		cfg.Logger.WriteLineString("boot: reset cause " + cause.String())
	}

	scr := cfg.Screen
	scr.ClearImage()
	scr.DrawString(Title, 8, 8, gfx.White)
	_ = scr.UpdateDisplay()

	if cause.Unexpected() {
		scr.DrawString(cause.Banner(), 8, 18, gfx.White)
		_ = scr.UpdateDisplay()
		hold(cfg)
	}

	cfg.Reset.ClearCause()
	return cause
}

func hold(cfg Config) {
	if cfg.Clock == nil || cfg.Hold == 0 {
		return
	}
	start := cfg.Clock.Ticks()
	for cfg.Clock.Ticks()-start < cfg.Hold {
		if cfg.Watchdog != nil {
			cfg.Watchdog.Kick()
		}
		runtime.Gosched()
	}
}
