package ekernel

import "testing"

func TestSchedulerEnableDisableCollapsesToApplication(t *testing.T) {
	app := &Process{typ: typeApplication, name: "app"}
	s := newScheduler(app, false)

	if !s.onlyApplication() {
		t.Fatalf("fresh scheduler should start with only the application in the ring")
	}

	task := &Process{typ: typeTask, name: "task"}
	s.enable(task)

	if s.onlyApplication() {
		t.Errorf("after enabling task, onlyApplication() = true, want false")
	}
	if app.status != statusIdle {
		t.Errorf("app.status = %v after enabling the first task, want statusIdle", app.status)
	}
	if !s.isEnabled(task) {
		t.Errorf("isEnabled(task) = false, want true")
	}

	s.disable(task)

	if !s.onlyApplication() {
		t.Errorf("after disabling the sole task, onlyApplication() = false, want true")
	}
	if app.status != statusActive {
		t.Errorf("app.status = %v after the ring collapsed back to it, want statusActive", app.status)
	}
	if s.isEnabled(task) {
		t.Errorf("isEnabled(task) = true after disable, want false")
	}
}

func TestSchedulerStepRoundRobinNoPriority(t *testing.T) {
	app := &Process{typ: typeApplication, name: "app"}
	s := newScheduler(app, false)

	a := &Process{typ: typeTask, name: "a"}
	b := &Process{typ: typeTask, name: "b"}
	s.enable(a)
	s.enable(b)

	seen := map[string]bool{}
	for i := 0; i < 6; i++ {
		seen[s.step().name] = true
	}
	if !seen["a"] || !seen["b"] || !seen["app"] {
		t.Errorf("round-robin over 6 steps did not visit all three ring members: %v", seen)
	}
}

func TestSchedulerStepPriorityCounter(t *testing.T) {
	app := &Process{typ: typeApplication, name: "app", priority: P1, priorityCounter: P1}
	s := newScheduler(app, true)

	// a gets scheduled every pass (priority P1 == 0, counter resets to 0
	// immediately); b only every third pass (priority P3 == 2).
	a := &Process{typ: typeTask, name: "a"}
	a.SetPriority(P1)
	b := &Process{typ: typeTask, name: "b"}
	b.SetPriority(P3)
	s.enable(a)
	s.enable(b)

	counts := map[string]int{}
	for i := 0; i < 30; i++ {
		counts[s.step().name]++
	}
	if counts["a"] <= counts["b"] {
		t.Errorf("higher-priority task a should be scheduled more often than b: counts=%v", counts)
	}
}
