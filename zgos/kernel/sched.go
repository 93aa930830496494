package kernel

import "zeitgeber/hal"

// ProcessTasks runs one scheduler cycle: the update hook of every Running
// task in registration order, then the foreground draw if a frame boundary
// has passed, then the power poll and button routing. The host calls it
// forever.
//
// A cycle draws at most once. When a cycle spans several frame periods the
// draw clock jumps to the latest boundary and the skipped frames are dropped,
// so the draw count is floor(elapsed/TicksPerFrame) only while every cycle
// is shorter than a frame.
//
// Hooks run to completion; nothing here guards against a hook that does not
// return.
func (k *Kernel) ProcessTasks() {
	if !k.started {
		now := k.cfg.Clock.Ticks()
		k.started = true
		k.mark = now
		k.lastDraw = now
		k.logf("kernel: scheduler started with %d tasks, %d ticks/frame", k.count-1, k.ticksPerFrame)
	}
	k.cycles++

	k.charge(IdleTask)
	for id := TaskID(1); int(id) < k.count; id++ {
		s := &k.tasks[id]
		if s.state != TaskRunning || s.update == nil {
			continue
		}
		s.update.Update(&k.ctxs[id])
		k.charge(id)
	}

	if elapsed := k.cfg.Clock.Ticks() - k.lastDraw; elapsed >= k.ticksPerFrame {
		k.lastDraw += elapsed - elapsed%k.ticksPerFrame
		k.dispatchDraw()
	}

	if k.cfg.Power != nil {
		k.cfg.Power.Poll()
	}
	k.pollButtons()

	if k.cfg.Watchdog != nil {
		k.cfg.Watchdog.Kick()
	}
}

// charge attributes the ticks since the previous charge to id.
func (k *Kernel) charge(id TaskID) {
	now := k.cfg.Clock.Ticks()
	if now < k.mark {
		k.mark = now
		return
	}
	d := now - k.mark
	k.mark = now
	k.tasks[id].cpuTicks += d
	k.totalCPUTicks += d
}

func (k *Kernel) dispatchDraw() {
	scr := k.cfg.Screen
	if scr == nil || !scr.IsOn() || !k.valid(k.fg) {
		return
	}
	s := &k.tasks[k.fg]
	if s.state != TaskRunning || s.draw == nil {
		return
	}

	k.charge(IdleTask)
	scr.ClearImage()
	s.draw.Draw(&k.ctxs[k.fg], scr)
	if err := scr.UpdateDisplay(); err != nil {
		k.logf("kernel: update display: %v", err)
	}
	k.charge(k.fg)
	k.frames++
}

func (k *Kernel) pollButtons() {
	cur := hal.ReadButtons(k.cfg.Buttons)
	changed := cur ^ k.buttons
	k.buttons = cur
	if changed == 0 {
		return
	}
	for b := hal.Button(0); b < hal.NumButtons; b++ {
		if changed.Has(b) {
			k.route(ButtonEvent{Button: b, Pressed: cur.Has(b)})
		}
	}
}

func (k *Kernel) route(ev ButtonEvent) {
	if b, ok := k.cfg.SwitchButton.Button(); ok && b == ev.Button {
		if ev.Pressed {
			k.NextForeground()
		}
		return
	}
	if b, ok := k.cfg.DisplayButton.Button(); ok && b == ev.Button {
		if ev.Pressed {
			k.toggleDisplay()
		}
		return
	}

	if !k.valid(k.fg) {
		return
	}
	s := &k.tasks[k.fg]
	if s.state != TaskRunning || s.input == nil {
		return
	}
	k.charge(IdleTask)
	s.input.Button(&k.ctxs[k.fg], ev)
	k.charge(k.fg)
}

func (k *Kernel) toggleDisplay() {
	scr := k.cfg.Screen
	if scr == nil {
		return
	}
	var err error
	if scr.IsOn() {
		err = scr.DisplayOff()
	} else {
		err = scr.DisplayOn()
	}
	if err != nil {
		k.logf("kernel: display power: %v", err)
	}
}
