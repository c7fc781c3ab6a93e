package ekernel

import (
	"go.uber.org/zap"

	"github.com/google/uuid"
)

// Kernel holds the process-wide state the original keeps as file-scope
// globals (os_app, os_current_task, tick_counter, the pending-events
// list head): the application/event-scheduler placeholder, the ready-list
// scheduler, the tick counter, the event registry, and optional
// switch-time statistics. Grounded on original_source/os/os_core.c and
// os_event.c.
//
// Unlike the original, this state lives in a value the caller
// constructs and owns rather than behind package-level variables, so a
// single process can in principle run more than one kernel instance
// (useful for tests that want isolation).
type Kernel struct {
	port   Port
	cfg    Config
	logger *zap.SugaredLogger
	bootID uuid.UUID

	app   *Process
	sched *scheduler

	tickCounter uint32 // masked to 16 bits when cfg.Use16BitTicks

	events *eventRegistry

	stats *statistics

	started bool
}

// New constructs a Kernel wired to port, with diagnostics and
// statistics configured by cfg. It does not start the tick or enter the
// idle loop; call Start for that.
func New(port Port, cfg Config) *Kernel {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if cfg.SchedulerType == SchedulerCooperative {
		cfg.UseTickCounter = false
	}

	app := &Process{typ: typeApplication, name: "app"}
	if cfg.UsePriority {
		app.priority = P1
		app.priorityCounter = P1
	}

	k := &Kernel{
		port:   port,
		cfg:    cfg,
		logger: logger,
		bootID: uuid.New(),
		app:    app,
		sched:  newScheduler(app, cfg.UsePriority),
		events: newEventRegistry(),
	}
	if cfg.UseStatistics {
		k.stats = newStatistics(cfg.StatisticsMonitorSwitch)
	}
	return k
}

// BootID identifies this kernel instance across log lines, the way a
// request id threads through a server's logs.
func (k *Kernel) BootID() uuid.UUID { return k.bootID }

// Start arms the tick peripheral (skipped in cooperative-only mode),
// then becomes the idle loop, yielding into the scheduler once per
// pass. It returns only if arming the tick fails, with an error that
// matches ErrPortFailure; otherwise it never returns. idleHook is
// invoked on every pass after which no event is left pending, whether
// or not tasks are ready; pass nil for a busy-wait idle loop.
func (k *Kernel) Start(refHz uint32, idleHook func()) error {
	k.logger.Infow("kernel starting", "boot_id", k.bootID, "tick_hz", k.cfg.TickHz)

	if k.cfg.SchedulerType != SchedulerCooperative {
		if err := k.port.SetupTick(refHz, k.cfg.TickHz); err != nil {
			k.logger.Errorw("tick setup failed", "error", err, "boot_id", k.bootID)
			return wrapPortFailure(err)
		}
	}
	k.started = true

	for {
		if !k.events.run(k) && idleHook != nil {
			idleHook()
		}
		k.Yield()
	}
}

// currentIsApplication reports whether the application placeholder
// itself is presently the scheduled process — equivalent to
// __os_task_is_application.
func (k *Kernel) currentIsApplication() bool {
	return k.sched.current == k.app
}

// wrapPortFailure tags an arbitrary port error with ErrPortFailure so
// callers can errors.Is against it regardless of the concrete port.
func wrapPortFailure(err error) error {
	if err == nil {
		return nil
	}
	return &portError{err: err}
}

type portError struct{ err error }

func (e *portError) Error() string { return "ekernel: port failure: " + e.err.Error() }
func (e *portError) Unwrap() error { return e.err }
func (e *portError) Is(target error) bool { return target == ErrPortFailure }
