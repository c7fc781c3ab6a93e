package ekernel

import "go.uber.org/zap"

// SchedulerType selects how (and whether) tick-driven preemption is
// delivered. Mirrors CONFIG_OS_SCHEDULER_TYPE in
// original_source/os/os_core.h.
type SchedulerType int

const (
	// SchedulerCooperative disallows the tick counter entirely; tasks
	// only switch at explicit Yield/Sleep/blocking-call points.
	SchedulerCooperative SchedulerType = iota
	// SchedulerTickCompare, SchedulerTickRTC and SchedulerTickTimerCounter
	// name the peripheral strategy a real port would use to generate the
	// tick; the core treats all three identically, delegating the actual
	// peripheral setup to Port.SetupTick.
	SchedulerTickCompare
	SchedulerTickRTC
	SchedulerTickTimerCounter
)

// Config is the runtime form of the original's compile-time
// configuration surface, with the allocation-strategy switches
// (CONFIG_OS_USE_MALLOC, CONFIG_OS_USE_CUSTOM_MALLOC) folded into how a
// Task acquires its stack rather than kept as separate fields: Port.Acquire
// is already the pluggable allocation seam (CreateTask's TaskUseCustomStack
// option is the USE_MALLOC=false case, supplying a caller-owned stack
// instead of calling Acquire at all), and choosing a different allocator
// for the USE_MALLOC=true case means supplying a different Port, not a
// second Config flag with nothing new to wire it to. Where the original
// used preprocessor switches fixed at build time, this kernel accepts the
// rest of those knobs as plain struct fields so a single binary can be
// configured at startup. The core package itself never parses a config
// file — see cmd/ekernelctl for the viper-backed loader.
type Config struct {
	UseTickCounter bool
	Use16BitTicks  bool
	TickHz         uint32

	SchedulerType SchedulerType

	UsePriority         bool
	TaskDefaultPriority Priority

	UseEvents       bool
	UseSWInterrupts bool

	InterruptDefaultPriority Priority

	Debug             bool
	DebugStackPattern byte

	UseStatistics          bool
	StatisticsMonitorSwitch bool

	// Logger receives kernel diagnostics (stack overflow, stale pending
	// entries, port setup failures). Nil-safe: a nil Logger is replaced
	// by a no-op at New time. Never consulted on the hot path (scheduler
	// step, event loop body).
	Logger *zap.SugaredLogger
}

// DefaultConfig returns the configuration the original ships as its
// header defaults: preemptive tick scheduling at 1kHz, priorities and
// events on, debug off.
func DefaultConfig() Config {
	return Config{
		UseTickCounter:           true,
		Use16BitTicks:            false,
		TickHz:                   1000,
		SchedulerType:            SchedulerTickCompare,
		UsePriority:              true,
		TaskDefaultPriority:      P1,
		UseEvents:                true,
		UseSWInterrupts:          true,
		InterruptDefaultPriority: P1,
		Debug:                    false,
		DebugStackPattern:        0xAA,
		UseStatistics:            true,
		StatisticsMonitorSwitch:  true,
	}
}
