package daemon

import (
	"sync"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/anti_cheat/internal/domain"
)

// dispatcher hands events to a sink on its own goroutine, in enqueue order.
// Enqueue never blocks on the sink. After Close returns nothing more is
// delivered, and any delivery that was in progress has finished.
type dispatcher struct {
	sink   domain.EventSink
	logger *zap.Logger

	mu     sync.Mutex
	queue  []domain.SwitchEvent
	closed bool
	wake   chan struct{}

	// held for the duration of each sink call; Close takes it as a barrier
	deliverMu sync.Mutex
	done      chan struct{}
}

func newDispatcher(sink domain.EventSink, logger *zap.Logger) *dispatcher {
	d := &dispatcher{
		sink:   sink,
		logger: logger,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go d.run()
	return d
}

// Enqueue adds an event for delivery. Returns false once closed.
func (d *dispatcher) Enqueue(event domain.SwitchEvent) bool {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return false
	}
	d.queue = append(d.queue, event)
	d.mu.Unlock()

	d.signal()
	return true
}

// Close drops queued events and waits for an in-flight delivery to finish.
func (d *dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	dropped := len(d.queue)
	d.queue = nil
	d.mu.Unlock()

	if dropped > 0 {
		d.logger.Debug("dropped queued switch events", zap.Int("count", dropped))
	}

	d.signal()
	d.deliverMu.Lock()
	d.deliverMu.Unlock()
}

func (d *dispatcher) signal() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *dispatcher) run() {
	defer close(d.done)

	for {
		event, ok, closed := d.next()
		if closed {
			return
		}
		if !ok {
			<-d.wake
			continue
		}
		d.deliver(event)
	}
}

func (d *dispatcher) next() (event domain.SwitchEvent, ok bool, closed bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return event, false, true
	}
	if len(d.queue) == 0 {
		return event, false, false
	}
	event = d.queue[0]
	d.queue[0] = domain.SwitchEvent{}
	d.queue = d.queue[1:]
	return event, true, false
}

func (d *dispatcher) deliver(event domain.SwitchEvent) {
	d.deliverMu.Lock()
	defer d.deliverMu.Unlock()

	d.mu.Lock()
	closed := d.closed
	d.mu.Unlock()
	if closed || d.sink == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("event sink panicked",
				zap.Any("panic", r),
				zap.String("app_name", event.AppName))
		}
	}()
	d.sink.OnAppSwitch(event)
}
