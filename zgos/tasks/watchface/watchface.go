// Package watchface is the main screen: battery gauge, time of day and the
// supply readings.
package watchface

import (
	"image/color"
	"strconv"
	"time"

	"zeitgeber/hal"
	"zeitgeber/zgos/gfx"
	"zeitgeber/zgos/kernel"
	"zeitgeber/zgos/services/power"
)

// Battery is the power reading source.
type Battery interface {
	Last() power.Reading
}

// Gauge width in pixels at 0 and 100 %.
const (
	gaugeMin = 4
	gaugeMax = 120
)

type rectFiller interface {
	FillRect(x, y, w, h int16, c color.RGBA)
}

// Task draws the watch face. It starts Running.
type Task struct {
	rtc     hal.RTC
	battery Battery

	hour12 bool
	now    time.Time
	next   uint64
	buf    []byte
}

func New(rtc hal.RTC, battery Battery) *Task {
	return &Task{rtc: rtc, battery: battery, buf: make([]byte, 0, 16)}
}

func (t *Task) Init(ctx *kernel.Context) {
	ctx.Run()
}

// Update samples the clock once per second of ticks.
func (t *Task) Update(ctx *kernel.Context) {
	if t.rtc == nil {
		return
	}
	now := ctx.Now()
	if !t.now.IsZero() && now < t.next {
		return
	}
	t.now = t.rtc.Now()
	t.next = now + uint64(ctx.Hz())
	ctx.SetNextRun(t.next)
}

// Button toggles the 12/24 hour format on button 3.
func (t *Task) Button(_ *kernel.Context, ev kernel.ButtonEvent) {
	if ev.Pressed && ev.Button == hal.Button3 {
		t.hour12 = !t.hour12
	}
}

func (t *Task) Draw(_ *kernel.Context, s gfx.Surface) {
	var r power.Reading
	if t.battery != nil {
		r = t.battery.Last()
	}

	if r.Valid {
		if f, ok := s.(rectFiller); ok {
			f.FillRect(4, 4, gaugeMin+int16(r.Level)*(gaugeMax-gaugeMin)/100, 10, gfx.Gray)
		}
		x := s.DrawString(t.itoa(uint64(r.Level)), 6, 5, gfx.Silver)
		s.DrawString("%", x, 5, gfx.Silver)
	}

	s.DrawString(t.clock(), 8, 22, gfx.White)

	if r.Valid {
		t.millivolts(s, "VDD: ", uint64(r.VDD), 38)
		t.millivolts(s, "VBAT: ", uint64(r.Battery), 54)
	}
}

// Hour12 reports whether the 12 hour format is selected.
func (t *Task) Hour12() bool { return t.hour12 }

func (t *Task) millivolts(s gfx.Surface, label string, mv uint64, y int16) {
	x := s.DrawString(label, 8, y, gfx.White)
	x = s.DrawString(t.itoa(mv), x, y, gfx.White)
	s.DrawString("mV", x, y, gfx.White)
}

func (t *Task) clock() string {
	if t.now.IsZero() {
		return "--:--:--"
	}
	if t.hour12 {
		return t.now.Format("3:04:05 PM")
	}
	return t.now.Format("15:04:05")
}

func (t *Task) itoa(v uint64) string {
	t.buf = strconv.AppendUint(t.buf[:0], v, 10)
	return string(t.buf)
}
