// Package kernel is the cooperative task kernel: a fixed table of tasks, a
// scheduler loop that runs their hooks in registration order, CPU tick
// accounting and the foreground (display/input owner) selection.
package kernel

import (
	"fmt"

	"zeitgeber/hal"
	"zeitgeber/zgos/gfx"
)

const (
	// MaxTasks is the table capacity, idle slot included.
	MaxTasks = 8
	// DrawHz is the foreground redraw rate.
	DrawHz = 30
)

// TaskID is an opaque handle into the task table.
type TaskID uint8

const (
	// IdleTask is slot 0. It is never registered and owns all time spent
	// outside task hooks.
	IdleTask TaskID = 0
	// NoTask is returned when there is no task to refer to.
	NoTask TaskID = 0xFF
)

// TaskState is the scheduling state of a task.
type TaskState uint8

const (
	TaskStopped TaskState = iota
	TaskRunning
)

func (s TaskState) String() string {
	switch s {
	case TaskStopped:
		return "stopped"
	case TaskRunning:
		return "running"
	default:
		return "unknown"
	}
}

// Task is an application. Init runs once, synchronously, at registration.
// A task starts Stopped unless Init calls ctx.Run.
type Task interface {
	Init(ctx *Context)
}

// Updater is implemented by tasks with a periodic hook, called once per
// scheduler cycle while the task is Running.
type Updater interface {
	Update(ctx *Context)
}

// Drawer is implemented by tasks that render. Draw is called at DrawHz while
// the task is Running and foreground, on a cleared surface.
type Drawer interface {
	Draw(ctx *Context, s gfx.Surface)
}

// ButtonHandler is implemented by tasks that take input. It receives button
// edges while the task is Running and foreground.
type ButtonHandler interface {
	Button(ctx *Context, ev ButtonEvent)
}

// ButtonEvent is a button edge.
type ButtonEvent struct {
	Button  hal.Button
	Pressed bool
}

// Clock is the read side of the tick source.
type Clock interface {
	Ticks() uint64
	Hz() uint32
}

// Logger receives kernel log lines.
type Logger interface {
	WriteLineString(s string)
}

// Poller is a collaborator polled once per cycle.
type Poller interface {
	Poll()
}

// Kicker is fed once per cycle.
type Kicker interface {
	Kick()
}

// Binding assigns a kernel role to a button. The zero Binding is unbound.
type Binding uint8

// Bind returns the binding for b.
func Bind(b hal.Button) Binding { return Binding(b) + 1 }

// Button returns the bound button.
func (b Binding) Button() (hal.Button, bool) {
	if b == 0 {
		return 0, false
	}
	return hal.Button(b - 1), true
}

// Config wires the kernel to its collaborators. Only Clock is required.
type Config struct {
	Clock    Clock
	Screen   gfx.Surface
	Buttons  hal.Buttons
	Power    Poller
	Watchdog Kicker
	Logger   Logger

	// Fault is the critical-error funnel. Misuse of the kernel is reported
	// here; with no funnel configured the kernel panics.
	Fault func(msg string)

	// SwitchButton moves the foreground to the next app on press.
	SwitchButton Binding
	// DisplayButton toggles panel power on press.
	DisplayButton Binding
}

type taskSlot struct {
	name   string
	task   Task
	update Updater
	draw   Drawer
	input  ButtonHandler

	state    TaskState
	cpuTicks uint64
	nextRun  uint64
}

// Kernel owns the task table. It is not safe for concurrent use: everything
// but the tick counter belongs to the main loop.
type Kernel struct {
	cfg Config

	tasks [MaxTasks]taskSlot
	ctxs  [MaxTasks]Context
	count int

	totalCPUTicks uint64

	fg      TaskID
	started bool

	mark          uint64
	lastDraw      uint64
	ticksPerFrame uint64
	cycles        uint64
	frames        uint64
	buttons       hal.ButtonMask
}

// New creates a kernel with only the idle task in its table.
func New(cfg Config) *Kernel {
	if cfg.Clock == nil {
		panic("kernel: nil clock")
	}
	k := &Kernel{cfg: cfg, fg: NoTask}
	k.ticksPerFrame = TicksPerFrame(cfg.Clock.Hz())
	k.tasks[IdleTask] = taskSlot{name: "Idle", task: idle{}, state: TaskRunning}
	k.count = 1
	for i := range k.ctxs {
		k.ctxs[i] = Context{k: k, id: TaskID(i)}
	}
	return k
}

// TicksPerFrame is the draw period for a tick rate: ceil(hz/DrawHz), at
// least one tick.
func TicksPerFrame(hz uint32) uint64 {
	n := (uint64(hz) + DrawHz - 1) / DrawHz
	if n == 0 {
		n = 1
	}
	return n
}

type idle struct{}

func (idle) Init(*Context) {}

// Register appends a task to the table and runs its Init hook. It must be
// called before the first ProcessTasks; late registration and a full table
// are reported to the fault funnel and yield NoTask.
func (k *Kernel) Register(name string, t Task) TaskID {
	switch {
	case t == nil:
		k.fail("kernel: register " + name + ": nil task")
		return NoTask
	case k.started:
		k.fail("kernel: register " + name + ": scheduler running")
		return NoTask
	case k.count >= MaxTasks:
		k.fail("kernel: register " + name + ": task table full")
		return NoTask
	}

	id := TaskID(k.count)
	k.count++
	s := &k.tasks[id]
	*s = taskSlot{name: name, task: t, state: TaskStopped}
	s.update, _ = t.(Updater)
	s.draw, _ = t.(Drawer)
	s.input, _ = t.(ButtonHandler)

	t.Init(&k.ctxs[id])
	k.logf("kernel: task %d %q registered, %s", id, name, s.state)
	return id
}

// Started reports whether the scheduler loop has begun.
func (k *Kernel) Started() bool { return k.started }

// Count returns the number of populated slots, idle included.
func (k *Kernel) Count() int { return k.count }

// Resume marks a task Running.
func (k *Kernel) Resume(id TaskID) bool {
	return k.setState(id, TaskRunning)
}

// Stop marks a task Stopped. The idle task cannot be stopped.
func (k *Kernel) Stop(id TaskID) bool {
	if id == IdleTask {
		return false
	}
	return k.setState(id, TaskStopped)
}

// State returns a task's state.
func (k *Kernel) State(id TaskID) (TaskState, bool) {
	if !k.valid(id) {
		return TaskStopped, false
	}
	return k.tasks[id].state, true
}

func (k *Kernel) setState(id TaskID, st TaskState) bool {
	if !k.valid(id) {
		return false
	}
	k.tasks[id].state = st
	return true
}

func (k *Kernel) valid(id TaskID) bool {
	return int(id) < k.count
}

func (k *Kernel) fail(msg string) {
	k.logf("%s", msg)
	if k.cfg.Fault == nil {
		panic(msg)
	}
	k.cfg.Fault(msg)
}

func (k *Kernel) logf(format string, args ...any) {
	if k.cfg.Logger == nil {
		return
	}
	k.cfg.Logger.WriteLineString(fmt.Sprintf(format, args...))
}
