package ekernel

// SoftwareInterrupt is a process that shares the application's stack
// when running and never blocks. Grounded on
// original_source/os/os_interrupt.c/h's struct os_interrupt,
// os_interrupt_setup and __os_interrupt_handler.
type SoftwareInterrupt struct {
	proc Process

	kernel  *Kernel
	handler func(args any)
	args    any

	running bool // set while the trampoline frame is loaded and executing
}

// SetupInterrupt registers a software interrupt. It starts dormant: its
// process has no stack pointer of its own until triggered.
func (k *Kernel) SetupInterrupt(name string, handler func(args any), args any) *SoftwareInterrupt {
	si := &SoftwareInterrupt{kernel: k, handler: handler, args: args}
	si.proc.typ = typeSoftwareInterrupt
	si.proc.name = name
	si.proc.owner = si
	if k.cfg.UsePriority {
		si.proc.SetPriority(k.cfg.InterruptDefaultPriority)
	}
	return si
}

// Trigger enables the interrupt's process, placing it in the ready
// list. The next time the scheduler selects it, the pre-interrupt hook
// (context.go's runPreInterruptHook) builds a frame on the application
// stack so that control runs the handler before returning to whatever
// was preempted. Mirrors os_interrupt_trigger.
func (k *Kernel) Trigger(si *SoftwareInterrupt) {
	k.Enable(&si.proc)
}

// Priority/SetPriority mirror Task's, for interrupts.
func (si *SoftwareInterrupt) Priority() Priority    { return si.proc.Priority() }
func (si *SoftwareInterrupt) SetPriority(p Priority) { si.proc.SetPriority(p) }
func (si *SoftwareInterrupt) Name() string           { return si.proc.name }

// interruptOf recovers the SoftwareInterrupt owning proc, or nil.
func (k *Kernel) interruptOf(proc *Process) *SoftwareInterrupt {
	si, _ := proc.owner.(*SoftwareInterrupt)
	return si
}

// runSoftwareInterrupt is the trampoline wrapping every handler
// invocation: it disables the interrupt's process so it runs at most
// once per trigger, calls the handler, then switches back out with the
// bypass-save flag set so the port does not try to re-park a process
// that was never really its own independent stack. Mirrors
// __os_interrupt_handler.
//
// The pre-disable identity is captured the same way Disable does: once
// the interrupt disables itself, scheduler.current may already point
// elsewhere (e.g. the application placeholder, if the interrupt was the
// only other ready-list member), and switchContextFrom needs si.proc's
// identity to correctly clear runPostInterruptHook's borrowed-stack
// bookkeeping and to send the waking signal to whichever process the
// rotation actually lands on.
func (k *Kernel) runSoftwareInterrupt(si *SoftwareInterrupt) {
	from := k.sched.current
	k.disableRaw(&si.proc)
	si.handler(si.args)
	k.switchContextFrom(from, true)
}
