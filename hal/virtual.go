package hal

import "sync/atomic"

// VirtualButtons is a Buttons implementation driven by software: the host
// window, a terminal, an input script or a test.
type VirtualButtons struct {
	mask atomic.Uint32
}

func (v *VirtualButtons) Pressed(b Button) bool {
	return v.mask.Load()&(1<<b) != 0
}

// Press sets b down.
func (v *VirtualButtons) Press(b Button) {
	for {
		old := v.mask.Load()
		if v.mask.CompareAndSwap(old, old|1<<b) {
			return
		}
	}
}

// Release sets b up.
func (v *VirtualButtons) Release(b Button) {
	for {
		old := v.mask.Load()
		if v.mask.CompareAndSwap(old, old&^(1<<b)) {
			return
		}
	}
}

// Set replaces the whole mask.
func (v *VirtualButtons) Set(m ButtonMask) {
	v.mask.Store(uint32(m))
}

// TrapQueue holds injected traps until the main loop drains them.
type TrapQueue struct {
	ch chan Trap
}

// NewTrapQueue returns a queue holding up to depth pending traps.
func NewTrapQueue(depth int) *TrapQueue {
	if depth <= 0 {
		depth = 1
	}
	return &TrapQueue{ch: make(chan Trap, depth)}
}

// Inject raises a trap. It reports false if the queue is full.
func (q *TrapQueue) Inject(t Trap) bool {
	select {
	case q.ch <- t:
		return true
	default:
		return false
	}
}

func (q *TrapQueue) Pending() (Trap, bool) {
	select {
	case t := <-q.ch:
		return t, true
	default:
		return 0, false
	}
}
