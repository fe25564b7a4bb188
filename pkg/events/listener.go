package events

// Listener reacts to a dispatched event.
type Listener interface {
	Handle(event Event) error
}

// Logger is the logging contract of the event system. *logger.Logger
// satisfies it.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}
