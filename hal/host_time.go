//go:build !tinygo

package hal

import (
	"sync"
	"sync/atomic"
	"time"
)

// hostTimer stands in for the tick interrupt. Its goroutine is the only writer
// of the counter.
type hostTimer struct {
	hz    uint32
	ticks atomic.Uint64

	mu     sync.Mutex
	stop   chan struct{}
	notify chan struct{}
	onTick func(now uint64)
}

func newHostTimer(hz uint32) *hostTimer {
	t := &hostTimer{hz: hz, notify: make(chan struct{}, 1)}
	t.start()
	return t
}

func (t *hostTimer) Ticks() uint64 { return t.ticks.Load() }
func (t *hostTimer) Hz() uint32    { return t.hz }

// Disable stops the interrupt. The counter keeps its last value.
func (t *hostTimer) Disable() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

func (t *hostTimer) enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop != nil
}

// restart models the power-on state: counter at zero, interrupt running.
func (t *hostTimer) restart() {
	t.Disable()
	t.ticks.Store(0)
	t.start()
}

func (t *hostTimer) start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop != nil {
		return
	}
	stop := make(chan struct{})
	t.stop = stop
	period := time.Second / time.Duration(t.hz)
	go t.run(stop, period)
}

func (t *hostTimer) run(stop <-chan struct{}, period time.Duration) {
	tk := time.NewTicker(period)
	defer tk.Stop()
	for {
		select {
		case <-stop:
			return
		case <-tk.C:
			now := t.ticks.Add(1)
			t.mu.Lock()
			fn := t.onTick
			t.mu.Unlock()
			if fn != nil {
				fn(now)
			}
			select {
			case t.notify <- struct{}{}:
			default:
			}
		}
	}
}

// setOnTick installs a callback run from the interrupt goroutine.
func (t *hostTimer) setOnTick(fn func(now uint64)) {
	t.mu.Lock()
	t.onTick = fn
	t.mu.Unlock()
}

// wait sleeps until the next tick or until d passes, like a WFI with a
// fallback wakeup.
func (t *hostTimer) wait(d time.Duration) {
	select {
	case <-t.notify:
	case <-time.After(d):
	}
}
