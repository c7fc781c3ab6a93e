package ekernel

import (
	"sync"
	"testing"
	"time"
)

func TestCreateTaskRoundRobinAndSelfDisable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UseStatistics = false
	port := newTestPort()
	k := New(port, cfg)

	var mu sync.Mutex
	var order []string

	makeTask := func(name string, iterations int) {
		var task *Task
		task, err := k.CreateTask(name, func(args any) {
			for i := 0; i < iterations; i++ {
				mu.Lock()
				order = append(order, name)
				mu.Unlock()
				k.Yield()
			}
			k.DisableTask(task)
		}, nil, 64, TaskDefault, nil)
		if err != nil {
			t.Fatalf("CreateTask(%s): %v", name, err)
		}
	}
	makeTask("a", 3)
	makeTask("b", 3)

	for i := 0; i < 12; i++ {
		k.Yield()
	}

	mu.Lock()
	got := append([]string(nil), order...)
	mu.Unlock()

	seenA, seenB := false, false
	for _, name := range got {
		if name == "a" {
			seenA = true
		}
		if name == "b" {
			seenB = true
		}
	}
	if !seenA || !seenB {
		t.Fatalf("round-robin did not run both tasks: %v", got)
	}
	if len(got) < 6 {
		t.Errorf("expected at least 6 recorded iterations across both tasks, got %d: %v", len(got), got)
	}
}

func TestTaskDisableAtCreateStaysOffReadyList(t *testing.T) {
	cfg := DefaultConfig()
	port := newTestPort()
	k := New(port, cfg)

	task, err := k.CreateTask("dormant", func(args any) {}, nil, 64, TaskDisableAtCreate, nil)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if k.IsTaskEnabled(task) {
		t.Errorf("task created with TaskDisableAtCreate is enabled, want disabled")
	}
}

func TestDelayWaitsForTickThenContinues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UseStatistics = false
	port := newTestPort()
	k := New(port, cfg)

	var mu sync.Mutex
	done := false

	var task *Task
	task, err := k.CreateTask("delayer", func(args any) {
		k.Delay(5)
		mu.Lock()
		done = true
		mu.Unlock()
		k.DisableTask(task)
	}, nil, 64, TaskDefault, nil)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	for i := 0; i < 5; i++ {
		k.Yield()
		k.TickAdvance()
	}
	for i := 0; i < 10 && !func() bool { mu.Lock(); defer mu.Unlock(); return done }(); i++ {
		k.Yield()
	}

	mu.Lock()
	defer mu.Unlock()
	if !done {
		t.Errorf("delayed task never resumed after enough ticks elapsed")
	}
}

func TestDelayRejectedWithoutTickCounter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UseTickCounter = false
	port := newTestPort()
	k := New(port, cfg)

	var task *Task
	gotErr := make(chan error, 1)
	task, err := k.CreateTask("t", func(args any) {
		gotErr <- k.Delay(1)
		k.DisableTask(task)
	}, nil, 64, TaskDefault, nil)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	k.Yield()

	select {
	case err := <-gotErr:
		if err != ErrCooperativeOnly {
			t.Errorf("Delay() error = %v, want ErrCooperativeOnly", err)
		}
	case <-time.After(time.Second):
		t.Fatal("task never observed Delay's error")
	}
}

func TestStackOverflowHalts(t *testing.T) {
	old := stackOverflowTrap
	halted := make(chan struct{}, 1)
	stackOverflowTrap = func() { halted <- struct{}{} }
	defer func() { stackOverflowTrap = old }()

	cfg := DefaultConfig()
	cfg.Debug = true
	cfg.DebugStackPattern = 0xAA
	port := newTestPort()
	k := New(port, cfg)

	stack := make([]byte, 16)
	fillStackMarker(stack, cfg.DebugStackPattern)

	started := make(chan struct{})
	_, err := k.CreateTask("corrupted", func(args any) {
		close(started)
		select {}
	}, nil, 0, TaskUseCustomStack, stack)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	// The corrupted task never yields back once running, so driving the
	// switch into it happens on its own goroutine; this test goroutine
	// only needs to wait for it to start, then advance a tick.
	go k.Yield()
	<-started

	// Corrupt the marker byte, then drive a tick so checkStackOverflow sees it.
	stack[0] = 0x00
	k.TickAdvance()

	select {
	case <-halted:
	case <-time.After(time.Second):
		t.Fatal("stack overflow was not detected within the timeout")
	}
}
