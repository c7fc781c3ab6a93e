package ekernel

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestBootIDIsPopulated(t *testing.T) {
	k := New(newTestPort(), DefaultConfig())
	if k.BootID() == uuid.Nil {
		t.Fatal("BootID() returned the nil UUID, want a generated boot id")
	}
}

func TestStartRotatesBetweenTaskAndIdle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UseStatistics = false
	port := newTestPort()
	k := New(port, cfg)

	const iterations = 5
	var mu sync.Mutex
	ran := 0
	done := make(chan struct{})

	var task *Task
	task, err := k.CreateTask("worker", func(args any) {
		for i := 0; i < iterations; i++ {
			mu.Lock()
			ran++
			mu.Unlock()
			k.Yield()
		}
		close(done)
		// Disabling the currently running process never returns here: the
		// goroutine parks on its own channel and is never resumed once it
		// is off the ready list.
		k.DisableTask(task)
	}, nil, 64, TaskDefault, nil)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	var idleMu sync.Mutex
	idleCalls := 0
	idleHook := func() {
		idleMu.Lock()
		idleCalls++
		idleMu.Unlock()
	}

	go k.Start(1000, idleHook)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker task never completed its iterations under Start")
	}

	idleMu.Lock()
	snapshot := idleCalls
	idleMu.Unlock()

	// Once the worker disables itself, Start's idle loop must keep
	// rotating (not hang on a stale channel) and keep calling idleHook.
	if !waitUntil(time.Second, func() bool {
		idleMu.Lock()
		defer idleMu.Unlock()
		return idleCalls > snapshot
	}) {
		t.Error("idle hook stopped firing after the worker disabled itself; Start's loop appears stuck")
	}

	mu.Lock()
	defer mu.Unlock()
	if ran != iterations {
		t.Errorf("worker ran %d iterations, want %d", ran, iterations)
	}
}
