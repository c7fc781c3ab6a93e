package ekernel

import (
	"sync"
	"time"
)

// testPort is a minimal in-package Port double, the same role
// testutil_test.go's testBus plays: a self-contained test double rather
// than importing port/sim (which itself imports this package, so it
// cannot be used from tests here without a cycle).
type testPort struct {
	mu      sync.Mutex
	depth   int
	held    sync.Mutex
	cycle   uint64
	states  map[*Process]*testProcState
	statesMu sync.Mutex
}

type testProcState struct {
	entry   func(args any)
	args    any
	started bool
}

func newTestPort() *testPort {
	return &testPort{states: make(map[*Process]*testProcState)}
}

func (p *testPort) CriticalEnter() {
	p.mu.Lock()
	if p.depth == 0 {
		p.mu.Unlock()
		p.held.Lock()
		p.mu.Lock()
	}
	p.depth++
	p.mu.Unlock()
}

func (p *testPort) CriticalLeave() {
	p.mu.Lock()
	p.depth--
	d := p.depth
	p.mu.Unlock()
	if d == 0 {
		p.held.Unlock()
	}
}

func (p *testPort) IsCritical() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.depth > 0
}

func (p *testPort) ReadCycleCounter() uint64 {
	p.statesMu.Lock()
	defer p.statesMu.Unlock()
	p.cycle++
	return p.cycle
}

func (p *testPort) SetupTick(refHz, tickHz uint32) error { return nil }

func (p *testPort) SwitchContext(from, to *Process, bypassSave bool) {
	if from == to {
		return
	}
	to.Channel() <- struct{}{}
	if !bypassSave {
		<-from.Channel()
	}
}

func (p *testPort) ContextLoad(proc *Process, entry func(args any), args any) error {
	if proc == nil || entry == nil {
		return ErrContextLoadFailure
	}
	ch := proc.Channel()

	p.statesMu.Lock()
	st, ok := p.states[proc]
	if !ok {
		st = &testProcState{}
		p.states[proc] = st
	}
	st.entry = entry
	st.args = args
	already := st.started
	st.started = true
	p.statesMu.Unlock()

	if already {
		return nil
	}

	go func() {
		for {
			<-ch
			p.statesMu.Lock()
			e, a := st.entry, st.args
			p.statesMu.Unlock()
			e(a)
		}
	}()
	return nil
}

func (p *testPort) Acquire(n int) ([]byte, bool) {
	if n <= 0 {
		return nil, false
	}
	return make([]byte, n), true
}

func (p *testPort) Release(buf []byte) {}

// waitUntil polls cond every millisecond for up to timeout, returning
// whether it became true. Used to observe state changes that happen on
// another goroutine (a parked task resuming) without a fixed sleep.
func waitUntil(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for {
		if cond() {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(time.Millisecond)
	}
}
