package kernel

// Context is a task's view of the kernel, passed to every hook.
type Context struct {
	k  *Kernel
	id TaskID
}

// TaskID returns the calling task.
func (c *Context) TaskID() TaskID { return c.id }

// Now returns the current tick count.
func (c *Context) Now() uint64 { return c.k.cfg.Clock.Ticks() }

// Hz returns the tick rate.
func (c *Context) Hz() uint32 { return c.k.cfg.Clock.Hz() }

// State returns the calling task's state.
func (c *Context) State() TaskState { return c.k.tasks[c.id].state }

// Run marks the calling task Running.
func (c *Context) Run() { c.k.Resume(c.id) }

// Stop marks the calling task Stopped: it stays registered but gets no more
// hook calls until resumed.
func (c *Context) Stop() { c.k.Stop(c.id) }

// Foreground reports whether the calling task is foreground.
func (c *Context) Foreground() bool {
	fg, ok := c.k.Foreground()
	return ok && fg == c.id
}

// RequestForeground makes the calling task foreground.
func (c *Context) RequestForeground() bool { return c.k.SetForeground(c.id) }

// SetNextRun records a scheduling hint. It does not gate Update.
func (c *Context) SetNextRun(tick uint64) { c.k.tasks[c.id].nextRun = tick }

// Stats returns a snapshot of the task table.
func (c *Context) Stats() Stats { return c.k.Stats() }

// Fail reports an unrecoverable condition to the critical-error funnel.
func (c *Context) Fail(msg string) { c.k.fail(msg) }
