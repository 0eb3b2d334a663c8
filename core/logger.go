package core

// Logger is the application wide logger.
// args may hold errors, maps of extra data and at most one Person (the caller).
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Person identifies the authenticated caller in log entries.
type Person struct {
	ID       string
	Username string
	Email    string
}
