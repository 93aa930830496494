//go:build !tinygo

package hal

import (
	"context"
	"fmt"

	"github.com/mattn/go-tty"
)

// readTTY maps terminal keys onto the board: 1-4 tap a button, o/a/s/m raise
// the oscillator, address, stack and math traps, q quits.
func readTTY(ctx context.Context, h *hostHAL, quit context.CancelFunc) error {
	t, err := tty.Open()
	if err != nil {
		return fmt.Errorf("open tty: %w", err)
	}
	go func() {
		<-ctx.Done()
		_ = t.Close()
	}()

	for {
		r, err := t.ReadRune()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read tty: %w", err)
		}
		switch r {
		case '1', '2', '3', '4':
			tap(h.buttons, Button(r-'1'))
		case 'o':
			h.traps.Inject(TrapOscillatorFail)
		case 'a':
			h.traps.Inject(TrapAddressError)
		case 's':
			h.traps.Inject(TrapStackError)
		case 'm':
			h.traps.Inject(TrapMathError)
		case 'q', 0x03:
			quit()
			return nil
		}
	}
}
