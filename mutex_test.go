package ekernel

import (
	"sync"
	"testing"
	"time"
)

func TestMutexMutualExclusion(t *testing.T) {
	cfg := DefaultConfig()
	port := newTestPort()
	k := New(port, cfg)

	m := k.CreateMutex("m")

	var mu sync.Mutex
	inside := 0
	maxSeenInside := 0
	finished := make(chan struct{})
	count := 0

	var tasks [3]*Task
	for i := range tasks {
		i := i
		tasks[i], _ = k.CreateTask("t", func(args any) {
			for n := 0; n < 3; n++ {
				m.Lock()
				mu.Lock()
				inside++
				if inside > maxSeenInside {
					maxSeenInside = inside
				}
				mu.Unlock()

				k.Yield() // give other tasks a chance to observe/contend

				mu.Lock()
				inside--
				mu.Unlock()
				m.Unlock()
				k.Yield()
			}
			mu.Lock()
			count++
			done := count == len(tasks)
			mu.Unlock()
			if done {
				close(finished)
			}
			k.DisableTask(tasks[i])
		}, nil, 64, TaskDefault, nil)
	}

	go func() {
		for {
			k.Yield()
			select {
			case <-finished:
				return
			default:
			}
		}
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("mutex-guarded tasks never finished")
	}

	mu.Lock()
	defer mu.Unlock()
	if maxSeenInside > 1 {
		t.Errorf("observed %d tasks inside the critical section simultaneously, want at most 1", maxSeenInside)
	}
}

func TestMutexUnlockByNonOwnerIsNoOp(t *testing.T) {
	cfg := DefaultConfig()
	port := newTestPort()
	k := New(port, cfg)

	m := k.CreateMutex("m")
	m.Lock() // locked by the test's own goroutine identity (app, via tryEvent fast path)
	if !m.IsLocked() {
		t.Fatalf("IsLocked() = false after Lock, want true")
	}

	// Simulate a foreign process attempting to unlock: directly flip
	// m.owner and confirm Unlock still requires the caller to match.
	other := &Process{name: "other"}
	m.owner = other
	m.Unlock()
	if !m.IsLocked() {
		t.Errorf("Unlock() by a non-owner released the mutex, want no-op")
	}
}
