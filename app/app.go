// Package app wires the HAL, the kernel, the fault handler and the apps into
// a bootable system.
package app

import (
	"fmt"
	"runtime"

	"zeitgeber/hal"
	"zeitgeber/internal/buildinfo"
	"zeitgeber/zgos/fault"
	"zeitgeber/zgos/gfx"
	"zeitgeber/zgos/kernel"
	"zeitgeber/zgos/services/power"
	"zeitgeber/zgos/tasks/bootmsg"
	"zeitgeber/zgos/tasks/kdiag"
	"zeitgeber/zgos/tasks/watchface"
)

type system struct {
	h      hal.HAL
	cfg    Config
	log    hal.Logger
	screen *gfx.Canvas
	fault  *fault.Handler
	power  *power.Monitor
	k      *kernel.Kernel
	traps  hal.Traps

	face kernel.TaskID
	diag kernel.TaskID
}

// New boots the system with the default config and returns one main-loop
// iteration.
func New(h hal.HAL) func() error {
	return NewWithConfig(h, DefaultConfig())
}

// Run boots the system and runs the main loop forever (TinyGo entrypoint).
func Run(h hal.HAL) {
	RunWithConfig(h, DefaultConfig())
}

func NewWithConfig(h hal.HAL, cfg Config) func() error {
	return newSystem(h, cfg).step
}

func RunWithConfig(h hal.HAL, cfg Config) {
	step := NewWithConfig(h, cfg)
	for {
		_ = step()
		// The tick goroutine only runs when the loop yields.
		runtime.Gosched()
	}
}

func newSystem(h hal.HAL, cfg Config) *system {
	s := prepare(h, cfg)
	s.boot()
	return s
}

// prepare builds the parts that must exist before anything can fail: the
// screen and the critical-error handler.
func prepare(h hal.HAL, cfg Config) *system {
	s := &system{h: h, cfg: cfg, log: h.Logger(), traps: h.Traps()}
	if err := s.cfg.Validate(); err != nil {
		s.logf("config: %v, using defaults", err)
		s.cfg = DefaultConfig()
	}
	s.screen = gfx.NewCanvas(h.Display())
	s.fault = fault.New(fault.Config{
		Timer:    h.Timer(),
		Watchdog: h.Watchdog(),
		Screen:   s.screen,
		Buttons:  h.Buttons(),
		Reset:    h.ResetController(),
		Logger:   s.log,
	})
	return s
}

// boot runs the startup sequence and registers the apps.
func (s *system) boot() {
	h, cfg := s.h, s.cfg
	bootStep(h, "hal")
	if led := h.LED(); led != nil {
		led.High()
	}

	bootStep(h, "display")
	s.initDisplay()

	bootStep(h, "banner")
	bootmsg.Show(bootmsg.Config{
		Screen:   s.screen,
		Reset:    h.ResetController(),
		Clock:    h.Timer(),
		Watchdog: h.Watchdog(),
		Logger:   s.log,
		Hold:     cfg.holdTicks(h.Timer().Hz()),
		Version:  buildinfo.Full(),
	})

	s.power = power.New(h.ADC(), h.Timer(), s.log)

	bootStep(h, "kernel")
	s.k = kernel.New(kernel.Config{
		Clock:         h.Timer(),
		Screen:        s.screen,
		Buttons:       h.Buttons(),
		Power:         s.power,
		Watchdog:      h.Watchdog(),
		Logger:        s.log,
		Fault:         s.fault.CriticalError,
		SwitchButton:  binding(cfg.SwitchButton),
		DisplayButton: binding(cfg.DisplayButton),
	})

	s.face = s.k.Register("Main", watchface.New(h.RTC(), s.power))
	s.k.SetForeground(s.face)
	s.diag = kernel.NoTask
	if cfg.KDiag {
		s.diag = s.k.Register("K-Diag", kdiag.New())
	}

	if led := h.LED(); led != nil {
		led.Low()
	}
	bootStep(h, "running")
}

// initDisplay brings the panel up and applies the init-failure policy.
func (s *system) initDisplay() {
	disp := s.h.Display()
	err := hal.ErrDisplayNotResponding
	if disp != nil {
		err = disp.Init()
	}
	if err == nil {
		err = s.screen.DisplayOn()
	}
	if err == nil {
		return
	}

	s.logf("display init: %v", err)
	if s.cfg.InitFailure == InitCritical {
		s.fault.CriticalError("Init: Display")
	}
}

// step is one main-loop iteration: deliver a pending trap, then run one
// scheduler cycle.
func (s *system) step() error {
	defer s.recoverTrap()

	if s.traps != nil {
		if t, ok := s.traps.Pending(); ok {
			s.fault.Trap(t)
		}
	}
	s.k.ProcessTasks()
	return nil
}

func (s *system) logf(format string, args ...any) {
	if s.log == nil {
		return
	}
	s.log.WriteLineString(fmt.Sprintf(format, args...))
}
