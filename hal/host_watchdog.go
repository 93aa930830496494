//go:build !tinygo

package hal

import (
	"sync"
	"time"
)

type hostWatchdog struct {
	timer   *hostTimer
	reset   *hostReset
	timeout uint64

	mu       sync.Mutex
	enabled  bool
	lastKick uint64
}

func newHostWatchdog(timer *hostTimer, timeout time.Duration, reset *hostReset) *hostWatchdog {
	w := &hostWatchdog{timer: timer, reset: reset}
	if timeout > 0 {
		w.timeout = uint64(timeout * time.Duration(timer.Hz()) / time.Second)
		if w.timeout == 0 {
			w.timeout = 1
		}
		w.enabled = true
		timer.setOnTick(w.check)
	}
	return w
}

func (w *hostWatchdog) Kick() {
	w.mu.Lock()
	w.lastKick = w.timer.Ticks()
	w.mu.Unlock()
}

func (w *hostWatchdog) Disable() {
	w.mu.Lock()
	w.enabled = false
	w.mu.Unlock()
}

func (w *hostWatchdog) restart() {
	w.mu.Lock()
	w.enabled = w.timeout > 0
	w.lastKick = 0
	w.mu.Unlock()
}

// check runs on the tick goroutine.
func (w *hostWatchdog) check(now uint64) {
	w.mu.Lock()
	bite := w.enabled && now-w.lastKick > w.timeout
	if bite {
		w.enabled = false
	}
	w.mu.Unlock()
	if bite {
		w.reset.hardReset(ResetWatchdog)
	}
}
