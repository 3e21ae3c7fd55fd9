package logger

import "context"

// discardLogger is installed until Init runs, so packages can log from tests and tools
// that never configure a backend.
type discardLogger struct{}

func (discardLogger) Log(context.Context, LogEntry)  {}
func (discardLogger) Shutdown(context.Context) error { return nil }
