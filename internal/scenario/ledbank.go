// Package scenario reproduces the reference eeOS example programs
// (original_source/examples/task_switch/main.c,
// original_source/examples/mutex.c, and the root main.c) against an
// in-memory LED bank instead of real GPIO, since driving actual
// hardware pins is out of scope.
package scenario

import "sync"

// LEDBank stands in for gpio_tgl_gpio_pin/gpio_set_gpio_pin/
// gpio_clr_gpio_pin: a set of named boolean outputs a scenario task
// toggles. Safe for concurrent use from multiple task goroutines.
type LEDBank struct {
	mu    sync.Mutex
	state map[string]bool
}

// NewLEDBank creates a bank with the given pins initially off.
func NewLEDBank(pins ...string) *LEDBank {
	b := &LEDBank{state: make(map[string]bool, len(pins))}
	for _, p := range pins {
		b.state[p] = false
	}
	return b
}

// Toggle flips pin's state. Mirrors gpio_tgl_gpio_pin.
func (b *LEDBank) Toggle(pin string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state[pin] = !b.state[pin]
}

// On sets pin's logical state to on. Mirrors gpio_clr_gpio_pin (eeOS's LEDs are
// active-low; "on" clears the pin in hardware terms, but the bank's
// API speaks in logical LED state rather than pin polarity).
func (b *LEDBank) On(pin string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state[pin] = true
}

// Off sets pin's logical state to off. Mirrors gpio_set_gpio_pin.
func (b *LEDBank) Off(pin string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state[pin] = false
}

// State reports pin's current value.
func (b *LEDBank) State(pin string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state[pin]
}

// Snapshot returns a copy of every pin's current value, for
// ekernelctl inspect and tests.
func (b *LEDBank) Snapshot() map[string]bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[string]bool, len(b.state))
	for k, v := range b.state {
		out[k] = v
	}
	return out
}
