package scenario

import "github.com/user-none/go-ekernel"

// DefaultStackSize mirrors the 200-500 byte stacks the example
// programs pass to os_task_create; Go goroutines need nothing of the
// sort, but CreateTask still asks the port to Acquire something, so a
// nominal size is kept for parity with the original call sites.
const DefaultStackSize = 512

// EqualPriorityBlink reproduces
// original_source/examples/task_switch/main.c's core loop: one task
// per pin, all at the same (default) priority, each toggling its pin
// and delaying by delayTicks before yielding the CPU to its siblings —
// round-robin fairness among equal-priority tasks.
func EqualPriorityBlink(k *ekernel.Kernel, leds *LEDBank, pins []string, delayTicks uint32) error {
	for _, pin := range pins {
		p := pin
		_, err := k.CreateTask(p, func(args any) {
			for {
				leds.Toggle(p)
				k.Delay(delayTicks)
			}
		}, nil, DefaultStackSize, ekernel.TaskDefault, nil)
		if err != nil {
			return err
		}
	}
	return nil
}

// MutexBlink reproduces original_source/examples/mutex.c: every task
// locks the same mutex before toggling its pin and unlocks it after
// delaying, so only one pin ever toggles at a time regardless of how
// many tasks are enabled — mutual exclusion under contention.
func MutexBlink(k *ekernel.Kernel, leds *LEDBank, pins []string, delayTicks uint32) (*ekernel.Mutex, error) {
	m := k.CreateMutex("blink-mutex")
	for _, pin := range pins {
		p := pin
		_, err := k.CreateTask(p, func(args any) {
			for {
				m.Lock()
				leds.Toggle(p)
				k.Delay(delayTicks)
				m.Unlock()
			}
		}, nil, DefaultStackSize, ekernel.TaskDefault, nil)
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

// InterruptTriggerLoop reproduces original_source/main.c's root
// scenario: a task toggles its own pin, delays, yields, then triggers
// a software interrupt that toggles a second pin on the application
// stack. The triggered interrupt runs to completion the next time the
// scheduler selects it.
func InterruptTriggerLoop(k *ekernel.Kernel, leds *LEDBank, taskPin, interruptPin string, delayTicks uint32) (*ekernel.SoftwareInterrupt, error) {
	si := k.SetupInterrupt("int-"+interruptPin, func(args any) {
		leds.Toggle(interruptPin)
	}, nil)

	leds.On(taskPin)
	_, err := k.CreateTask(taskPin, func(args any) {
		for {
			leds.Toggle(taskPin)
			k.Delay(delayTicks)
			k.Yield()
			k.Trigger(si)
		}
	}, nil, DefaultStackSize, ekernel.TaskDefault, nil)
	if err != nil {
		return nil, err
	}
	return si, nil
}
