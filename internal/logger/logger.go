// Package logger provides the application's leveled loggers.
package logger

import (
	"io"
	"log"
	"os"
)

// Shared loggers, ready to use at package load.
var (
	Info  = newLogger(os.Stdout, "INFO: ")
	Warn  = newLogger(os.Stdout, "WARN: ")
	Error = newLogger(os.Stderr, "ERROR: ")
	Debug = newLogger(os.Stdout, "DEBUG: ")
)

func newLogger(w io.Writer, prefix string) *log.Logger {
	return log.New(w, prefix, log.Ldate|log.Ltime|log.Lshortfile)
}

// SetOutput points every level at w. Tests use it to silence or capture logs.
func SetOutput(w io.Writer) {
	Info.SetOutput(w)
	Warn.SetOutput(w)
	Error.SetOutput(w)
	Debug.SetOutput(w)
}

// SetLogLevel discards debug output in production.
func SetLogLevel(env string) {
	if env == "production" {
		Debug.SetOutput(io.Discard)
	}
}
