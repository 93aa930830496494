//go:build tinygo && rp2040 && bootdebug

package app

import (
	"machine"
	"sync"
	"time"

	"zeitgeber/hal"
)

var (
	bootDiagMu   sync.Mutex
	bootDiagStep string
	bootDiagOnce sync.Once
)

// bootStep records the boot stage and, on first use, starts a goroutine that
// repeats it on the log and USB CDC so a hang during boot can be located
// without a debugger.
func bootStep(h hal.HAL, msg string) {
	bootDiagMu.Lock()
	bootDiagStep = msg
	bootDiagMu.Unlock()
	bootDiagOnce.Do(func() { bootDiagStart(h) })
}

func bootDiagStart(h hal.HAL) {
	if h == nil {
		return
	}
	l := h.Logger()

	go func() {
		for {
			bootDiagMu.Lock()
			step := bootDiagStep
			bootDiagMu.Unlock()

			if step == "" {
				step = "<empty>"
			}
			line := "bootdiag: " + step

			if l != nil {
				l.WriteLineString(line)
			}
			if usb := machine.USBCDC; usb != nil {
				_, _ = usb.Write([]byte(line + "\r\n"))
			}
			if step == "running" {
				return
			}

			time.Sleep(250 * time.Millisecond)
		}
	}()
}
