package kernel

// TaskInfo is a read-only copy of one table slot.
type TaskInfo struct {
	ID         TaskID
	Name       string
	State      TaskState
	CPUTicks   uint64
	NextRun    uint64
	Foreground bool
}

// Stats is a snapshot of the table and the scheduler counters.
type Stats struct {
	Tasks         [MaxTasks]TaskInfo
	Count         int
	TotalCPUTicks uint64
	Cycles        uint64
	Frames        uint64
}

// Apps returns the non-idle rows.
func (s *Stats) Apps() []TaskInfo {
	if s.Count <= 1 {
		return nil
	}
	return s.Tasks[1:s.Count]
}

// Stats copies out the table. It does not allocate.
func (k *Kernel) Stats() Stats {
	st := Stats{
		Count:         k.count,
		TotalCPUTicks: k.totalCPUTicks,
		Cycles:        k.cycles,
		Frames:        k.frames,
	}
	for i := 0; i < k.count; i++ {
		s := &k.tasks[i]
		st.Tasks[i] = TaskInfo{
			ID:         TaskID(i),
			Name:       s.name,
			State:      s.state,
			CPUTicks:   s.cpuTicks,
			NextRun:    s.nextRun,
			Foreground: k.fg == TaskID(i),
		}
	}
	return st
}

// TotalCPUTicks is the sum of every slot's CPU ticks, idle included.
func (k *Kernel) TotalCPUTicks() uint64 { return k.totalCPUTicks }

// CPUTicks returns one task's CPU ticks.
func (k *Kernel) CPUTicks(id TaskID) uint64 {
	if !k.valid(id) {
		return 0
	}
	return k.tasks[id].cpuTicks
}
