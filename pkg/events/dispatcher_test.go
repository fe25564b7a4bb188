package events

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// MockLogger records log messages for assertions.
type MockLogger struct {
	mu   sync.Mutex
	logs []string
}

func NewMockLogger() *MockLogger {
	return &MockLogger{logs: make([]string, 0)}
}

func (m *MockLogger) record(level, msg string, kv ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, fmt.Sprintf("%s %s %v", level, msg, kv))
}

func (m *MockLogger) Info(msg string, kv ...interface{})  { m.record("INFO", msg, kv...) }
func (m *MockLogger) Warn(msg string, kv ...interface{})  { m.record("WARN", msg, kv...) }
func (m *MockLogger) Error(msg string, kv ...interface{}) { m.record("ERROR", msg, kv...) }

func (m *MockLogger) GetLogs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.logs...)
}

// TestListener counts handled events.
type TestListener struct {
	handled *atomic.Int32
	delay   time.Duration
	err     error
}

func NewTestListener() *TestListener {
	return &TestListener{handled: &atomic.Int32{}}
}

func (l *TestListener) Handle(event Event) error {
	if l.delay > 0 {
		time.Sleep(l.delay)
	}
	l.handled.Add(1)
	return l.err
}

func (l *TestListener) HandledCount() int {
	return int(l.handled.Load())
}

func TestDispatcher_BasicDispatch(t *testing.T) {
	dispatcher := NewDispatcher(NewMockLogger())
	defer dispatcher.ShutdownWithTimeout(time.Second)

	listener := NewTestListener()
	dispatcher.Listen(EventPurchaseCompleted, listener)

	if err := dispatcher.Dispatch(NewPurchaseCompletedEvent("payload")); err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}

	if listener.HandledCount() != 1 {
		t.Errorf("Expected listener to be called once, got: %d", listener.HandledCount())
	}
}

func TestDispatcher_NoListeners(t *testing.T) {
	dispatcher := NewDispatcher(NewMockLogger())
	defer dispatcher.ShutdownWithTimeout(time.Second)

	if err := dispatcher.Dispatch(NewPurchaseFailedEvent(nil)); err != nil {
		t.Errorf("Expected nil for event without listeners, got %v", err)
	}
}

func TestDispatcher_OnlyMatchingEvent(t *testing.T) {
	dispatcher := NewDispatcher(NewMockLogger())
	defer dispatcher.ShutdownWithTimeout(time.Second)

	completed := NewTestListener()
	failed := NewTestListener()
	dispatcher.Listen(EventPurchaseCompleted, completed)
	dispatcher.Listen(EventPurchaseFailed, failed)

	dispatcher.Dispatch(NewPurchaseFailedEvent("boom"))

	if completed.HandledCount() != 0 || failed.HandledCount() != 1 {
		t.Errorf("Unexpected counts: completed=%d failed=%d", completed.HandledCount(), failed.HandledCount())
	}
}

func TestDispatcher_AsyncDispatch(t *testing.T) {
	dispatcher := NewDispatcher(NewMockLogger())
	defer dispatcher.ShutdownWithTimeout(time.Second)

	listener := NewTestListener()
	listener.delay = 100 * time.Millisecond
	dispatcher.Listen("test.event", listener)

	start := time.Now()
	dispatcher.DispatchAsync(NewBaseEvent("test.event", "async-data"))
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("DispatchAsync blocked for %v, expected < 50ms", elapsed)
	}

	time.Sleep(200 * time.Millisecond)

	if listener.HandledCount() != 1 {
		t.Errorf("Expected listener to be called once, got: %d", listener.HandledCount())
	}
}

func TestDispatcher_ShutdownWaitsForAsync(t *testing.T) {
	dispatcher := NewDispatcher(NewMockLogger())

	listener := NewTestListener()
	listener.delay = 50 * time.Millisecond
	dispatcher.Listen("test.event", listener)

	for i := 0; i < 10; i++ {
		dispatcher.DispatchAsync(NewBaseEvent("test.event", fmt.Sprintf("data-%d", i)))
	}

	if err := dispatcher.ShutdownWithTimeout(time.Second); err != nil {
		t.Fatalf("Expected a clean shutdown, got %v", err)
	}

	if listener.HandledCount() != 10 {
		t.Errorf("Expected 10 listener calls, got: %d", listener.HandledCount())
	}
}

func TestDispatcher_ShutdownWithTimeout(t *testing.T) {
	dispatcher := NewDispatcher(NewMockLogger())

	listener := NewTestListener()
	listener.delay = 500 * time.Millisecond
	dispatcher.Listen("test.event", listener)

	dispatcher.DispatchAsync(NewBaseEvent("test.event", "data"))

	if err := dispatcher.ShutdownWithTimeout(100 * time.Millisecond); err == nil {
		t.Error("Expected timeout error, got nil")
	}
}

func TestDispatcher_AsyncAfterShutdown(t *testing.T) {
	dispatcher := NewDispatcher(NewMockLogger())

	listener := NewTestListener()
	dispatcher.Listen("test.event", listener)

	dispatcher.ShutdownWithTimeout(time.Second)
	dispatcher.DispatchAsync(NewBaseEvent("test.event", "ignored-data"))

	time.Sleep(50 * time.Millisecond)

	if listener.HandledCount() != 0 {
		t.Errorf("Expected 0 listener calls after shutdown, got: %d", listener.HandledCount())
	}
}

func TestDispatcher_ConcurrentDispatch(t *testing.T) {
	dispatcher := NewDispatcher(NewMockLogger())
	defer dispatcher.ShutdownWithTimeout(time.Second)

	listener := NewTestListener()
	dispatcher.Listen("test.event", listener)

	var wg sync.WaitGroup
	numGoroutines := 50
	eventsPerGoroutine := 20

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < eventsPerGoroutine; j++ {
				dispatcher.Dispatch(NewBaseEvent("test.event", fmt.Sprintf("data-%d-%d", id, j)))
			}
		}(i)
	}

	wg.Wait()

	if expected := numGoroutines * eventsPerGoroutine; listener.HandledCount() != expected {
		t.Errorf("Expected %d listener calls, got: %d", expected, listener.HandledCount())
	}
}

func TestDispatcher_ListenerError(t *testing.T) {
	logger := NewMockLogger()
	dispatcher := NewDispatcher(logger)
	defer dispatcher.ShutdownWithTimeout(time.Second)

	listener1 := NewTestListener()
	listener2 := NewTestListener()
	listener2.err = fmt.Errorf("simulated error")
	listener3 := NewTestListener()

	dispatcher.Listen("test.event", listener1)
	dispatcher.Listen("test.event", listener2)
	dispatcher.Listen("test.event", listener3)

	if err := dispatcher.Dispatch(NewBaseEvent("test.event", "test-data")); err == nil {
		t.Error("Expected error from listener2, got nil")
	}

	for i, l := range []*TestListener{listener1, listener2, listener3} {
		if l.HandledCount() != 1 {
			t.Errorf("Listener %d: expected 1 call, got %d", i+1, l.HandledCount())
		}
	}

	found := false
	for _, line := range logger.GetLogs() {
		if len(line) >= 5 && line[:5] == "ERROR" {
			found = true
		}
	}
	if !found {
		t.Error("Expected the listener failure to be logged")
	}
}

type panickingListener struct{}

func (panickingListener) Handle(Event) error {
	panic("listener bug")
}

func TestDispatcher_ListenerPanic(t *testing.T) {
	dispatcher := NewDispatcher(NewMockLogger())
	defer dispatcher.ShutdownWithTimeout(time.Second)

	after := NewTestListener()
	dispatcher.Listen("test.event", panickingListener{})
	dispatcher.Listen("test.event", after)

	if err := dispatcher.Dispatch(NewBaseEvent("test.event", nil)); err == nil {
		t.Error("Expected the panic to be reported as an error")
	}
	if after.HandledCount() != 1 {
		t.Errorf("Expected the next listener to run, got %d calls", after.HandledCount())
	}
}

func TestDispatcher_AsyncListenerPanic(t *testing.T) {
	dispatcher := NewDispatcher(NewMockLogger())

	after := NewTestListener()
	dispatcher.Listen("test.event", panickingListener{})
	dispatcher.Listen("test.event", after)

	dispatcher.DispatchAsync(NewBaseEvent("test.event", nil))

	if err := dispatcher.ShutdownWithTimeout(time.Second); err != nil {
		t.Fatalf("Expected a clean shutdown, got %v", err)
	}
	if after.HandledCount() != 1 {
		t.Errorf("Expected the next listener to run, got %d calls", after.HandledCount())
	}
}

func BenchmarkDispatcher_SyncDispatch(b *testing.B) {
	dispatcher := NewDispatcher(NewMockLogger())
	defer dispatcher.ShutdownWithTimeout(time.Second)

	dispatcher.Listen("test.event", NewTestListener())
	event := NewBaseEvent("test.event", "bench-data")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		dispatcher.Dispatch(event)
	}
}
