package ekernel

// Port is the set of primitives the kernel core delegates to the target
// platform, member-for-member with the original's platform hooks; only
// the underlying representation of "stack pointer" and "register file"
// changes to fit Go. port/sim provides a complete, goroutine-based
// implementation usable without real silicon.
type Port interface {
	// CriticalEnter/CriticalLeave/IsCritical implement a reentrancy-safe
	// critical section: nested CriticalEnter calls are no-ops, and only
	// the outermost CriticalLeave actually releases it. Preemptive tick
	// delivery and software-interrupt dispatch are both deferred while
	// critical.
	CriticalEnter()
	CriticalLeave()
	IsCritical() bool

	// ReadCycleCounter returns a free-running cycle counter used for
	// switch-time statistics.
	ReadCycleCounter() uint64

	// SetupTick arms the periodic tick at the configured frequency,
	// using refHz as the reference clock. Not called in cooperative-only
	// configurations.
	SetupTick(refHz, tickHz uint32) error

	// SwitchContext performs the cooperative context switch: unless
	// bypassSave is set, the calling process's state is parked so it can
	// be resumed later, then the named process is resumed in its place.
	// Returns once the calling process itself has been resumed again.
	SwitchContext(from, to *Process, bypassSave bool)

	// ContextLoad builds an initial execution frame for proc such that,
	// the first time it is switched into, it invokes entry(args) with
	// interrupts enabled. Returns ErrContextLoadFailure-wrapped error on
	// failure.
	ContextLoad(proc *Process, entry func(args any), args any) error

	// Acquire/Release manage stack memory for tasks that do not supply
	// their own buffer. Acquire returns (nil, false) on failure.
	Acquire(n int) ([]byte, bool)
	Release(buf []byte)
}
