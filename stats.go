package ekernel

// statistics tracks switch-time figures (gap min/max and switch count);
// per-task CPU share is computed on demand by Kernel.CPUAllocation.
// Grounded on original_source/os/os_statistics.c/h.
type statistics struct {
	monitorSwitch bool

	haveSample bool
	lastCycle  uint64
	minGap     uint64
	maxGap     uint64
	switchCount uint64
}

func newStatistics(monitorSwitch bool) *statistics {
	return &statistics{monitorSwitch: monitorSwitch}
}

// recordSwitch is called from every context switch with the port's
// free-running cycle counter reading. It tracks only the gap between
// consecutive switches; the very first switch has no prior sample to
// compare against. Mirrors os_statistics_switch_time_hook.
func (s *statistics) recordSwitch(cycle uint64) {
	if !s.monitorSwitch {
		return
	}
	s.switchCount++
	if s.haveSample {
		gap := cycle - s.lastCycle
		if s.minGap == 0 && s.maxGap == 0 {
			s.minGap, s.maxGap = gap, gap
		} else {
			if gap < s.minGap {
				s.minGap = gap
			}
			if gap > s.maxGap {
				s.maxGap = gap
			}
		}
	}
	s.lastCycle = cycle
	s.haveSample = true
}

// SwitchJitter returns (max-min)/2 of the recorded inter-switch gaps,
// matching os_statistics_switch_time_jitter.
func (s *statistics) SwitchJitter() uint64 {
	return (s.maxGap - s.minGap) / 2
}

// SwitchAverage returns (max+min)/2 of the recorded inter-switch gaps,
// matching os_statistics_switch_time_average.
func (s *statistics) SwitchAverage() uint64 {
	return (s.maxGap + s.minGap) / 2
}

// SwitchCount returns how many context switches have been recorded.
func (s *statistics) SwitchCount() uint64 { return s.switchCount }

// CPUAllocation reports, for every task presently in the ready list,
// its estimated CPU share as a percentage: each task's priority share
// is 100 divided by its priority weight (priority+1, so P1 never
// divides by zero), and every task's final figure is its share
// normalized against the sum of all task shares currently in the list.
// The application placeholder and any enabled software interrupts are
// walked but excluded from both the sum and the result, matching
// os_statistics_task_cpu_allocation's os_process_is_task gate — only
// tasks compete for the reported CPU share. Returns nil when
// priorities are disabled, since every process then gets an equal,
// uninteresting share.
func (k *Kernel) CPUAllocation() map[string]float64 {
	if !k.cfg.UsePriority {
		return nil
	}

	type weighted struct {
		name  string
		share float64
	}

	k.port.CriticalEnter()
	var shares []weighted
	sum := 0.0
	start := k.app
	n := start
	for {
		if n.typ == typeTask {
			w := 100.0 / float64(int(n.priority)+1)
			shares = append(shares, weighted{n.name, w})
			sum += w
		}
		n = n.next
		if n == start {
			break
		}
	}
	k.port.CriticalLeave()

	result := make(map[string]float64, len(shares))
	for _, sh := range shares {
		if sum == 0 {
			result[sh.name] = 0
			continue
		}
		result[sh.name] = sh.share * 100 / sum
	}
	return result
}

// Stats exposes the switch-time figures to callers (e.g. cmd/ekernelctl
// stats), or the zero value if statistics were not enabled in Config.
func (k *Kernel) Stats() (jitter, average uint64, count uint64, enabled bool) {
	if k.stats == nil {
		return 0, 0, 0, false
	}
	return k.stats.SwitchJitter(), k.stats.SwitchAverage(), k.stats.SwitchCount(), true
}
