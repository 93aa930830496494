package kernel

// SetForeground makes id the single foreground task. The previous foreground
// task keeps its state; only draw and input eligibility move.
func (k *Kernel) SetForeground(id TaskID) bool {
	if id == IdleTask || !k.valid(id) {
		return false
	}
	if k.fg != id {
		k.logf("kernel: foreground %q", k.tasks[id].name)
	}
	k.fg = id
	return true
}

// Foreground returns the foreground task, if any.
func (k *Kernel) Foreground() (TaskID, bool) {
	if !k.valid(k.fg) {
		return NoTask, false
	}
	return k.fg, true
}

// ClearForeground leaves no task in the foreground.
func (k *Kernel) ClearForeground() {
	k.fg = NoTask
}

// NextForeground moves the foreground to the next drawable task after the
// current one, wrapping, and resumes it. It returns the new foreground.
func (k *Kernel) NextForeground() (TaskID, bool) {
	n := k.count - 1
	if n <= 0 {
		return NoTask, false
	}
	start := 0
	if k.valid(k.fg) {
		start = int(k.fg)
	}
	for i := 1; i <= n; i++ {
		id := TaskID((start+i-1)%n + 1)
		if k.tasks[id].draw == nil {
			continue
		}
		k.SetForeground(id)
		k.Resume(id)
		return id, true
	}
	return k.Foreground()
}
