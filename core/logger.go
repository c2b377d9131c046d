package core

// Logger is any service that can log leveled messages and report errors.
// Extra args may carry errors, key/value maps or the current session identity
// depending on the implementation.
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
