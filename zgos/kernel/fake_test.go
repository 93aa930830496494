package kernel

import (
	"image/color"

	"zeitgeber/hal"
	"zeitgeber/zgos/gfx"
)

type fakeClock struct {
	ticks uint64
	hz    uint32
}

func (c *fakeClock) Ticks() uint64 { return c.ticks }
func (c *fakeClock) Hz() uint32    { return c.hz }

type fakeScreen struct {
	on      bool
	clears  int
	updates int
	strings []string
}

func (s *fakeScreen) ClearImage() { s.clears++ }
func (s *fakeScreen) DrawString(text string, x, _ int16, _ color.RGBA) int16 {
	s.strings = append(s.strings, text)
	return x + int16(len(text))*6
}
func (s *fakeScreen) UpdateDisplay() error { s.updates++; return nil }
func (s *fakeScreen) DisplayOn() error     { s.on = true; return nil }
func (s *fakeScreen) DisplayOff() error    { s.on = false; return nil }
func (s *fakeScreen) IsOn() bool           { return s.on }

// counter counts its hook calls and burns cost ticks of the clock per update.
type counter struct {
	clock   *fakeClock
	cost    uint64
	run     bool
	updates int
	draws   int
	events  []ButtonEvent
}

func (c *counter) Init(ctx *Context) {
	if c.run {
		ctx.Run()
	}
}

func (c *counter) Update(*Context) {
	c.updates++
	if c.clock != nil {
		c.clock.ticks += c.cost
	}
}

type drawer struct {
	counter
}

func (d *drawer) Draw(_ *Context, s gfx.Surface) {
	d.draws++
	s.DrawString("frame", 0, 0, gfx.White)
}

type inputDrawer struct {
	drawer
}

func (d *inputDrawer) Button(_ *Context, ev ButtonEvent) {
	d.events = append(d.events, ev)
}

type inert struct{}

func (inert) Init(*Context) {}

func newTestKernel(hz uint32) (*Kernel, *fakeClock, *fakeScreen, *hal.VirtualButtons, *[]string) {
	clk := &fakeClock{hz: hz}
	scr := &fakeScreen{on: true}
	btn := &hal.VirtualButtons{}
	var faults []string
	k := New(Config{
		Clock:         clk,
		Screen:        scr,
		Buttons:       btn,
		Fault:         func(msg string) { faults = append(faults, msg) },
		SwitchButton:  Bind(hal.Button1),
		DisplayButton: Bind(hal.Button2),
	})
	return k, clk, scr, btn, &faults
}
