// Package sim is a complete, goroutine-based Port implementation
// usable without real silicon: every "stack pointer" is a
// chan struct{}, every process is a parked or running goroutine, and
// the tick source is a time.Ticker goroutine. It plays the role
// original_source/port/avr32_uc3 plays for real hardware — without some
// Port nothing built on ekernel is runnable at all.
package sim

import (
	"errors"
	"sync"
	"time"

	"github.com/user-none/go-ekernel"
)

// Port is a software-only implementation of ekernel.Port. The zero
// value is not usable; construct with New.
type Port struct {
	stateMu sync.Mutex // protects depth, states, and per-process entry/args
	heldMu  sync.Mutex // the actual critical section lock
	depth   int

	states map[*ekernel.Process]*procState

	tickFunc func()
	stopTick chan struct{}
}

type procState struct {
	entry   func(args any)
	args    any
	started bool
}

// New constructs an idle simulator port. Call SetTickFunc before
// Kernel.Start when the kernel's Config enables tick-driven scheduling.
func New() *Port {
	return &Port{states: make(map[*ekernel.Process]*procState)}
}

// SetTickFunc binds the kernel's tick-advance seam (Kernel.TickAdvance)
// so SetupTick's background ticker has something to call. Must be set
// before Kernel.Start if the kernel's SchedulerType is not
// SchedulerCooperative.
func (p *Port) SetTickFunc(fn func()) {
	p.tickFunc = fn
}

// CriticalEnter/CriticalLeave/IsCritical implement a reentrant lock:
// nested CriticalEnter calls from the same logical flow of control
// succeed immediately, and only the outermost CriticalLeave releases
// the underlying mutex. This is what gives the simulated tick goroutine
// and the currently running task mutual exclusion over scheduler state.
func (p *Port) CriticalEnter() {
	p.stateMu.Lock()
	if p.depth == 0 {
		p.stateMu.Unlock()
		p.heldMu.Lock()
		p.stateMu.Lock()
	}
	p.depth++
	p.stateMu.Unlock()
}

func (p *Port) CriticalLeave() {
	p.stateMu.Lock()
	p.depth--
	d := p.depth
	p.stateMu.Unlock()
	if d == 0 {
		p.heldMu.Unlock()
	}
}

func (p *Port) IsCritical() bool {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()
	return p.depth > 0
}

// ReadCycleCounter returns a monotonic nanosecond timestamp, standing
// in for the free-running hardware cycle counter a real port would read
// for switch-time statistics.
func (p *Port) ReadCycleCounter() uint64 {
	return uint64(time.Now().UnixNano())
}

// SetupTick starts a goroutine that calls the bound tick function at
// tickHz, independent of refHz (a real port would derive tickHz from
// refHz through a prescaler; the simulator just asks time.Ticker for
// the period directly).
func (p *Port) SetupTick(refHz, tickHz uint32) error {
	if tickHz == 0 {
		return errors.New("sim: tick frequency must be nonzero")
	}
	if p.tickFunc == nil {
		return errors.New("sim: no tick function bound; call SetTickFunc before Start")
	}
	p.stopTick = make(chan struct{})
	period := time.Second / time.Duration(tickHz)
	stop := p.stopTick
	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				p.tickFunc()
			case <-stop:
				return
			}
		}
	}()
	return nil
}

// Stop halts the tick goroutine started by SetupTick, if any. Not part
// of ekernel.Port; callers that want a clean shutdown (tests, the CLI's
// run subcommand) call it directly on the concrete type.
func (p *Port) Stop() {
	if p.stopTick != nil {
		close(p.stopTick)
		p.stopTick = nil
	}
}

// ContextLoad spawns the goroutine that will run proc's entry function
// once it first becomes current, parked on proc.Channel() until then.
// A second ContextLoad against the same process (software interrupts
// are re-armed this way every trigger, see
// ekernel's runPreInterruptHook) does not spawn a new goroutine: it
// just updates what the already-parked loop will run on its next wake.
func (p *Port) ContextLoad(proc *ekernel.Process, entry func(args any), args any) error {
	if proc == nil || entry == nil {
		return ekernel.ErrContextLoadFailure
	}

	ch := proc.Channel()

	p.stateMu.Lock()
	st, ok := p.states[proc]
	if !ok {
		st = &procState{}
		p.states[proc] = st
	}
	st.entry = entry
	st.args = args
	alreadyStarted := st.started
	st.started = true
	p.stateMu.Unlock()

	if alreadyStarted {
		return nil
	}

	go func() {
		for {
			<-ch
			p.stateMu.Lock()
			e := st.entry
			a := st.args
			p.stateMu.Unlock()
			e(a)
		}
	}()
	return nil
}

// SwitchContext wakes to's goroutine (or, for a process never run
// through ContextLoad — the application/event-scheduler placeholder —
// resumes the call stack that originally invoked Kernel.Start) and,
// unless bypassSave is set, parks the caller on its own channel until
// some later SwitchContext names it as to again.
func (p *Port) SwitchContext(from, to *ekernel.Process, bypassSave bool) {
	if from == to {
		// Switching to the currently running process is a no-op: there
		// is no other goroutine to hand off to, and sending-then-
		// receiving on the same channel from the same goroutine would
		// deadlock. This is the sole-ready-process case (an idle loop
		// with nothing enabled yet, or a single-task system yielding to
		// itself).
		return
	}
	to.Channel() <- struct{}{}
	if !bypassSave {
		<-from.Channel()
	}
}

// Acquire/Release are a plain allocate/discard pair: the simulator has
// no real memory pool to exhaust, so Acquire only fails for a
// non-positive size.
func (p *Port) Acquire(n int) ([]byte, bool) {
	if n <= 0 {
		return nil, false
	}
	return make([]byte, n), true
}

func (p *Port) Release(buf []byte) {}
