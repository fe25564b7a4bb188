// -----------------------------------------------------------------------------
// Event Dispatcher
// -----------------------------------------------------------------------------
// Registers listeners by event name and runs them, synchronously (Dispatch)
// or on a tracked goroutine (DispatchAsync). ShutdownWithTimeout waits for
// in-flight async dispatches so no event is lost on a graceful stop.
// -----------------------------------------------------------------------------

package events

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Dispatcher is safe for concurrent use.
type Dispatcher struct {
	mu        sync.RWMutex
	listeners map[string][]Listener
	logger    Logger
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewDispatcher(logger Logger) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		listeners: make(map[string][]Listener),
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Listen registers listener for eventName.
func (d *Dispatcher) Listen(eventName string, listener Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.listeners[eventName] = append(d.listeners[eventName], listener)
	d.logger.Info("Listener registered", "event", eventName)
}

// Dispatch runs every listener of the event in registration order. All
// listeners run even if one fails; the last error is returned.
func (d *Dispatcher) Dispatch(event Event) error {
	d.mu.RLock()
	listeners := d.listeners[event.Name()]
	d.mu.RUnlock()

	if len(listeners) == 0 {
		return nil
	}

	var lastError error
	for _, listener := range listeners {
		if err := d.handle(listener, event); err != nil {
			lastError = err
			d.logger.Error("Listener failed", "event", event.Name(), "error", err)
		}
	}

	return lastError
}

// handle turns a listener panic into an error so the remaining listeners
// and the async goroutine survive it.
func (d *Dispatcher) handle(listener Listener, event Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("listener panicked: %v", r)
		}
	}()
	return listener.Handle(event)
}

// DispatchAsync dispatches on a new goroutine. Events are dropped once the
// dispatcher is shutting down.
func (d *Dispatcher) DispatchAsync(event Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	select {
	case <-d.ctx.Done():
		d.logger.Warn("Dispatcher is shutting down, async event ignored", "event", event.Name())
		return
	default:
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		if err := d.Dispatch(event); err != nil {
			d.logger.Error("Async dispatch failed", "event", event.Name(), "error", err)
		}
	}()
}

// ShutdownWithTimeout stops accepting async events and waits up to timeout
// for the running ones.
func (d *Dispatcher) ShutdownWithTimeout(timeout time.Duration) error {
	// Taking the write lock orders cancel after every wg.Add in flight.
	d.mu.Lock()
	d.cancel()
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("Event dispatcher stopped")
		return nil
	case <-time.After(timeout):
		d.logger.Warn("Event dispatcher shutdown timed out", "timeout", timeout.String())
		return fmt.Errorf("shutdown timeout exceeded")
	}
}
