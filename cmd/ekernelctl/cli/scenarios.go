package cli

import (
	"fmt"

	"github.com/user-none/go-ekernel"
	"github.com/user-none/go-ekernel/internal/scenario"
	"github.com/user-none/go-ekernel/port/sim"
)

// scenarioNames lists every reference scenario ekernelctl can run.
var scenarioNames = []string{"blink", "mutex-blink", "interrupt"}

// pinsFor returns the LED pin names a scenario drives, so the LEDBank
// it runs against starts with every pin it will ever touch present
// (Snapshot output is otherwise missing pins nobody toggled yet).
func pinsFor(name string) []string {
	switch name {
	case "blink":
		return []string{"led0", "led1", "led2", "led3"}
	case "mutex-blink":
		return []string{"led0", "led1", "led2"}
	case "interrupt":
		return []string{"led0", "led3"}
	default:
		return nil
	}
}

// buildScenario wires a kernel, a sim port, and an LED bank for the
// named scenario and returns all three. It does not start the kernel:
// callers run Start on their own goroutine and call the port's Stop to
// tear down the sim port's tick goroutine.
func buildScenario(cfg ekernel.Config, name string) (*ekernel.Kernel, *sim.Port, *scenario.LEDBank, error) {
	pins := pinsFor(name)
	if pins == nil {
		return nil, nil, nil, fmt.Errorf("ekernelctl: unknown scenario %q (want one of %v)", name, scenarioNames)
	}

	port := sim.New()
	k := ekernel.New(port, cfg)
	port.SetTickFunc(k.TickAdvance)
	leds := scenario.NewLEDBank(pins...)

	var err error
	switch name {
	case "blink":
		err = scenario.EqualPriorityBlink(k, leds, pins, 2)
	case "mutex-blink":
		_, err = scenario.MutexBlink(k, leds, pins, 2)
	case "interrupt":
		_, err = scenario.InterruptTriggerLoop(k, leds, pins[0], pins[1], 2)
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("ekernelctl: setting up scenario %q: %w", name, err)
	}
	return k, port, leds, nil
}
