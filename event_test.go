package ekernel

import (
	"testing"
	"time"
)

func TestPredicateEventWakesOnBoolean(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UseStatistics = false
	port := newTestPort()
	k := New(port, cfg)

	ready := false
	ev := NewPredicateEvent("ready", func() bool { return ready })

	woke := make(chan *Event, 1)
	var task *Task
	task, err := k.CreateTask("waiter", func(args any) {
		woke <- k.Sleep(ev)
		k.DisableTask(task)
	}, nil, 64, TaskDefault, nil)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	// Start() is not used here, so its two cooperative drivers —
	// the event-scheduler pass and the idle loop's repeated Yield — are
	// reproduced directly: a task re-enabled by a woken event only
	// actually resumes once some later switch lands the rotation on it,
	// exactly as Start's own idle loop provides in production.
	go func() {
		for {
			k.Yield()
		}
	}()

	if !waitUntil(time.Second, func() bool { return ev.queueHead != nil }) {
		t.Fatal("waiter never registered against the event")
	}

	ready = true
	go func() {
		for {
			if !k.events.run(k) {
				return
			}
		}
	}()

	select {
	case got := <-woke:
		if got != ev {
			t.Errorf("Sleep returned %v, want the event it woke on", got)
		}
	case <-time.After(time.Second):
		t.Fatal("waiter was never woken once the predicate became true")
	}
}

func TestSleepWaitAnyWakesOnFirstEventAndDropsSibling(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UseStatistics = false
	port := newTestPort()
	k := New(port, cfg)

	first := NewPredicateEvent("first", func() bool { return true })
	second := NewPredicateEvent("second", func() bool { return true })

	woke := make(chan *Event, 1)
	var task *Task
	task, err := k.CreateTask("waiter", func(args any) {
		woke <- k.Sleep(first, second)
		k.DisableTask(task)
	}, nil, 64, TaskDefault, nil)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	go func() {
		for {
			k.Yield()
		}
	}()

	if !waitUntil(time.Second, func() bool { return first.queueHead != nil && second.queueHead != nil }) {
		t.Fatal("waiter never registered against both events")
	}

	go func() {
		for {
			if !k.events.run(k) {
				return
			}
		}
	}()

	select {
	case <-woke:
	case <-time.After(time.Second):
		t.Fatal("waiter was never woken")
	}

	if !waitUntil(time.Second, func() bool { return first.queueHead == nil && second.queueHead == nil }) {
		t.Errorf("sibling registration on the event not woken was not garbage collected")
	}
}

func TestStalePendingEntryIsDroppedNotHalted(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UseStatistics = false
	port := newTestPort()
	k := New(port, cfg)

	ev := NewPredicateEvent("never", func() bool { return false })
	stale := &Process{name: "stale", status: statusIdle} // not Pending: simulates the inconsistency
	queueInsertSorted(&ev.queueHead, &waitEntry{proc: stale, event: ev}, nil)
	k.events.linkPending(ev)

	done := make(chan struct{})
	go func() {
		k.events.run(k)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("run() did not return; a stale entry should be dropped, not block the scheduler")
	}

	if ev.queueHead != nil {
		t.Errorf("stale entry was not removed from the event's queue")
	}
}
