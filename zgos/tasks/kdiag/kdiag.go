// Package kdiag is the kernel diagnostics app: one row per task with its CPU
// share, white while running and gray while stopped.
package kdiag

import (
	"strconv"

	"zeitgeber/zgos/gfx"
	"zeitgeber/zgos/kernel"
)

const (
	colName = 8
	colCPU  = 60
	top     = 16
	rowH    = 8
)

// Task is registered Stopped and only runs while it is foreground.
type Task struct {
	buf []byte
}

func New() *Task { return &Task{buf: make([]byte, 0, 24)} }

func (t *Task) Init(ctx *kernel.Context) {
	ctx.Stop()
}

func (t *Task) Update(ctx *kernel.Context) {
	if !ctx.Foreground() {
		ctx.Stop()
	}
}

func (t *Task) Draw(ctx *kernel.Context, s gfx.Surface) {
	st := ctx.Stats()
	y := int16(top)

	s.DrawString("Kernel Info", colName, y, gfx.White)
	y += 12
	s.DrawString("CPU%", colCPU, y, gfx.White)
	y += rowH

	for _, ti := range st.Apps() {
		c := gfx.Gray
		if ti.State == kernel.TaskRunning {
			c = gfx.White
		}
		s.DrawString(ti.Name, colName, y, c)
		s.DrawString(t.percent(ti.CPUTicks, st.TotalCPUTicks), colCPU, y, c)
		y += rowH
	}

	var used uint64
	for _, ti := range st.Apps() {
		used += ti.CPUTicks
	}
	s.DrawString("Total", colName, y, gfx.White)
	s.DrawString(t.percent(used, st.TotalCPUTicks), colCPU, y, gfx.White)
}

// percent formats part/total as "12.3".
func (t *Task) percent(part, total uint64) string {
	var permille uint64
	if total > 0 {
		permille = part * 1000 / total
	}
	b := strconv.AppendUint(t.buf[:0], permille/10, 10)
	b = append(b, '.')
	b = strconv.AppendUint(b, permille%10, 10)
	t.buf = b
	return string(b)
}
