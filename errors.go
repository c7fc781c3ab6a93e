package ekernel

import "errors"

// Sentinel errors returned by the public API. Callers compare with
// errors.Is; the kernel itself never wraps or retries them.
var (
	// ErrAllocationFailure is returned by Kernel.CreateTask when a non-custom
	// stack cannot be acquired from the port.
	ErrAllocationFailure = errors.New("ekernel: allocation failure")

	// ErrContextLoadFailure is returned by Kernel.CreateTask when the port
	// cannot build the initial execution frame for the task.
	ErrContextLoadFailure = errors.New("ekernel: context load failure")

	// ErrPortFailure wraps a failure surfaced by the Port implementation.
	// The core does not translate it further; ports raise their own
	// specific errors wrapped behind this sentinel.
	ErrPortFailure = errors.New("ekernel: port failure")

	// ErrCooperativeOnly is returned by Delay when the kernel was
	// configured without a tick counter.
	ErrCooperativeOnly = errors.New("ekernel: tick counter disabled")
)
