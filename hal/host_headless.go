//go:build !tinygo

package hal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	// Ticks stops the run after N tick periods of wall time (0 = run forever).
	Ticks uint64
	// TTY reads buttons and traps from the controlling terminal.
	TTY bool
	// Script is applied against wall-clock ticks since start.
	Script []ScriptEvent
	Board  HostConfig
}

// tapHold is how long a tapped button stays down.
const tapHold = 120 * time.Millisecond

// RunHeadless runs the firmware without opening a window. newApp boots the
// system and returns one main-loop iteration; it is called again after every
// reset.
func RunHeadless(ctx context.Context, newApp func(HAL) func() error, cfg HeadlessConfig) error {
	h, err := newHost(cfg.Board)
	if err != nil {
		return err
	}
	defer h.close()

	period := time.Second / time.Duration(h.timer.Hz())
	if period <= 0 {
		return fmt.Errorf("invalid headless hz: %d", h.timer.Hz())
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	limited := ctx
	if cfg.Ticks > 0 {
		var stop context.CancelFunc
		limited, stop = context.WithTimeout(ctx, time.Duration(cfg.Ticks)*period)
		defer stop()
	}

	g, gctx := errgroup.WithContext(limited)
	if len(cfg.Script) > 0 {
		g.Go(func() error { return runScript(gctx, h, cfg.Script, period, cancel) })
	}
	if cfg.TTY {
		g.Go(func() error { return readTTY(gctx, h, cancel) })
	}

	machine := make(chan error, 1)
	go func() { machine <- runMachine(gctx, h, newApp) }()

	select {
	case err = <-machine:
	case <-gctx.Done():
	}
	cancel()
	if gerr := g.Wait(); err == nil && gerr != nil && !errors.Is(gerr, context.Canceled) {
		err = gerr
	}

	switch {
	case err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(limited.Err(), context.DeadlineExceeded):
		return nil
	default:
		return ctx.Err()
	}
}

// runMachine boots the firmware and spins its main loop, rebooting after
// every reset. It only returns when the loop reports an error or ctx ends.
func runMachine(ctx context.Context, h *hostHAL, newApp func(HAL) func() error) error {
	for {
		cause, err := bootOnce(ctx, h, newApp)
		if err != nil {
			return err
		}
		h.logger.WriteLineString("host: reboot after " + cause.String() + " reset")
		h.reboot()
	}
}

func bootOnce(ctx context.Context, h *hostHAL, newApp func(HAL) func() error) (cause ResetCause, err error) {
	defer func() {
		if r := recover(); r != nil {
			sig, ok := r.(ResetSignal)
			if !ok {
				panic(r)
			}
			cause, err = sig.Cause, nil
		}
	}()

	step := newApp(h)
	period := time.Second / time.Duration(h.timer.Hz())
	for {
		if err := ctx.Err(); err != nil {
			return ResetNone, err
		}
		if step != nil {
			if err := step(); err != nil {
				return ResetNone, err
			}
		}
		h.timer.wait(period)
	}
}

func runScript(ctx context.Context, h *hostHAL, events []ScriptEvent, period time.Duration, quit context.CancelFunc) error {
	start := time.Now()
	poll := time.NewTicker(period)
	defer poll.Stop()

	for _, ev := range events {
		for uint64(time.Since(start)/period) < ev.At {
			select {
			case <-ctx.Done():
				return nil
			case <-poll.C:
			}
		}
		h.logger.WriteLineString(fmt.Sprintf("script: %d %s", ev.At, ev.Action))
		switch ev.Action {
		case ScriptPress:
			h.buttons.Press(ev.Button)
		case ScriptRelease:
			h.buttons.Release(ev.Button)
		case ScriptTap:
			tap(h.buttons, ev.Button)
		case ScriptTrap:
			h.traps.Inject(ev.Trap)
		case ScriptQuit:
			quit()
			return nil
		}
	}
	return nil
}

func tap(b *VirtualButtons, btn Button) {
	b.Press(btn)
	time.AfterFunc(tapHold, func() { b.Release(btn) })
}
