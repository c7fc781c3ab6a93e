package ekernel

// TaskOption configures CreateTask. Mirrors
// original_source/os/os_core.h's enum os_task_option.
type TaskOption int

const (
	TaskDefault TaskOption = 0
	// TaskDisableAtCreate leaves the task out of the ready list until an
	// explicit Enable call.
	TaskDisableAtCreate TaskOption = 1 << iota
	// TaskUseCustomStack skips Port.Acquire; the caller supplies customStack.
	TaskUseCustomStack
)

// Task is a process with its own stack and entry function. Grounded on
// original_source/os/os_core.h's struct os_task and os_task_create.
type Task struct {
	proc Process

	kernel *Kernel
	stack  []byte
	owned  bool // true if the stack came from Port.Acquire and must be released

	entry func(args any)
	args  any
}

// Priority returns the task's configured priority.
func (t *Task) Priority() Priority { return t.proc.Priority() }

// SetPriority changes the task's priority. Outside the critical section
// is acceptable: a torn read costs at most one extra scheduling
// rotation.
func (t *Task) SetPriority(p Priority) { t.proc.SetPriority(p) }

// Name returns the diagnostic label passed to CreateTask.
func (t *Task) Name() string { return t.proc.name }

// CreateTask allocates (or adopts) a stack, asks the port to build the
// initial execution frame, and — unless TaskDisableAtCreate is set —
// enables the task. Returns ErrAllocationFailure if a non-custom stack
// cannot be acquired, or ErrContextLoadFailure if the port cannot build
// the initial frame. Grounded on os_task_create.
func (k *Kernel) CreateTask(name string, entry func(args any), args any, stackSize int, opts TaskOption, customStack []byte) (*Task, error) {
	t := &Task{kernel: k, entry: entry, args: args}
	t.proc.typ = typeTask
	t.proc.name = name
	t.proc.owner = t

	if opts&TaskUseCustomStack != 0 {
		t.stack = customStack
	} else {
		buf, ok := k.port.Acquire(stackSize)
		if !ok {
			return nil, ErrAllocationFailure
		}
		t.stack = buf
		t.owned = true
	}

	if k.cfg.Debug {
		fillStackMarker(t.stack, k.cfg.DebugStackPattern)
	}

	if k.cfg.UsePriority {
		t.proc.SetPriority(k.cfg.TaskDefaultPriority)
	}

	if err := k.port.ContextLoad(&t.proc, t.entry, t.args); err != nil {
		if t.owned {
			k.port.Release(t.stack)
		}
		return nil, ErrContextLoadFailure
	}

	if opts&TaskDisableAtCreate == 0 {
		k.Enable(&t.proc)
	}

	return t, nil
}

// fillStackMarker fills buf with pattern, used to detect stack overflow
// by checking the first byte is still intact at every tick. Mirrors
// HOOK_OS_DEBUG_TASK_ADD.
func fillStackMarker(buf []byte, pattern byte) {
	for i := range buf {
		buf[i] = pattern
	}
}

// DeleteTask disables the task and releases its stack if the kernel
// owns it. Mirrors os_task_delete.
func (k *Kernel) DeleteTask(t *Task) {
	k.Disable(&t.proc)
	if t.owned {
		k.port.Release(t.stack)
		t.stack = nil
	}
}

// Enable places proc in the ready list if it is not already there.
// Redundant enables are a silent no-op.
func (k *Kernel) Enable(proc *Process) {
	k.port.CriticalEnter()
	k.sched.enable(proc)
	k.port.CriticalLeave()
}

// disableRaw removes proc from the ready list under the critical
// section only, without requesting a context switch afterward. Mirrors
// the internal __os_process_disable, used by the software-interrupt
// trampoline which must not yield mid-handler.
func (k *Kernel) disableRaw(proc *Process) {
	k.port.CriticalEnter()
	k.sched.disable(proc)
	k.port.CriticalLeave()
}

// Disable removes proc from the ready list if present, then
// unconditionally requests a context switch — matching os_task_disable,
// which switches after every disable call regardless of whether the
// target was the caller itself, so control never resumes inside a
// no-longer-scheduled process. Redundant disables are a silent no-op.
//
// The caller identity is captured before disableRaw runs: disabling the
// currently running process reassigns scheduler.current as a side
// effect (possibly collapsing the ready list back to the application
// placeholder), and switchContextFrom needs the pre-disable identity to
// park the right goroutine rather than the scheduler's post-disable
// bookkeeping state.
func (k *Kernel) Disable(proc *Process) {
	from := k.sched.current
	k.disableRaw(proc)
	k.switchContextFrom(from, false)
}

// EnableTask and DisableTask are the Task-typed conveniences; Enable and
// Disable on *Process are what Event/Semaphore/Mutex use internally for
// both tasks and software interrupts alike.
func (k *Kernel) EnableTask(t *Task)  { k.Enable(&t.proc) }
func (k *Kernel) DisableTask(t *Task) { k.Disable(&t.proc) }

// IsTaskEnabled reports whether t currently appears in the ready list.
func (k *Kernel) IsTaskEnabled(t *Task) bool { return k.sched.isEnabled(&t.proc) }

// CurrentTask returns the task presently running, or nil if the
// application (idle/event-scheduler) placeholder is running. Mirrors
// os_task_current.
func (k *Kernel) CurrentTask() *Task {
	if k.sched.current == k.app {
		return nil
	}
	if t, ok := k.sched.current.owner.(*Task); ok {
		return t
	}
	return nil
}

// Delay blocks the calling task until tick_nb ticks have elapsed,
// handling tick-counter wrap exactly as os_task_delay does: if the
// target would wrap past the counter's width, first wait for the
// counter to finish wrapping around, then wait for it to reach the
// target. Requires UseTickCounter; must not be called with the tick
// source masked.
func (k *Kernel) Delay(ticks uint32) error {
	if !k.cfg.UseTickCounter {
		return ErrCooperativeOnly
	}
	if ticks == 0 {
		return nil
	}

	start := k.tick()
	last := start + ticks
	if k.cfg.Use16BitTicks {
		last = uint32(uint16(last))
	}

	if last < start {
		for k.tick() >= start {
			k.Yield()
		}
	}
	for k.tick() < last {
		k.Yield()
	}
	return nil
}

// checkStackOverflow inspects the current task's stack marker byte (the
// first byte, matching HOOK_OS_DEBUG_TICK's layout) and halts via the
// stack-overflow hook if it has been overwritten. Only active when
// Debug is enabled; called from every tick.
func (k *Kernel) checkStackOverflow() {
	if !k.cfg.Debug {
		return
	}
	t := k.CurrentTask()
	if t == nil || len(t.stack) == 0 {
		return
	}
	if t.stack[0] != k.cfg.DebugStackPattern {
		k.logger.Errorw("stack overflow detected", "task", t.Name(), "boot_id", k.bootID)
		k.haltOnStackOverflow()
	}
}

// haltOnStackOverflow is an unrecoverable trap: the kernel never
// returns from it. Isolated into its own function so tests can at least
// observe that it was reached without hanging the whole test binary
// (see task_test.go).
var stackOverflowTrap = func() {
	select {}
}

func (k *Kernel) haltOnStackOverflow() {
	stackOverflowTrap()
}
