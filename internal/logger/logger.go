package logger

import (
	"io"
	"log"
	"sync/atomic"
)

// Level orders log severities; lower is more severe.
type Level int32

const (
	LevelFatal Level = iota
	LevelError
	LevelWarn
	LevelInfo
	LevelDebug
)

const (
	fatalLabel = "[FATAL] "
	errorLabel = "[ERROR] "
	warnLabel  = "[WARN ] "
	infoLabel  = "[INFO ] "
	debugLabel = "[DEBUG] "
)

var threshold atomic.Int32

func init() {
	threshold.Store(int32(LevelInfo))
}

// SetLevel sets the most verbose level that is still printed.
func SetLevel(l Level) {
	threshold.Store(int32(l))
}

// SetOutput redirects the standard logger, e.g. to a buffer in tests.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

// Enabled reports whether messages at level l are printed.
func Enabled(l Level) bool {
	return Level(threshold.Load()) >= l
}

// mylog prepends the level string to log.Printf when the level is enabled.
// Arguments are handled in the manner of [fmt.Printf].
func mylog(l Level, label string, format string, args ...interface{}) {
	if !Enabled(l) {
		return
	}
	log.Printf(label+format, args...)
}

// Fatal calls [log.Fatalf], adding a fatal label.
// Arguments are handled in the manner of [fmt.Printf].
func Fatal(format string, args ...interface{}) {
	log.Fatalf(fatalLabel+format, args...)
}

// Error prints to the standard logger, adding an error label.
func Error(format string, args ...interface{}) {
	mylog(LevelError, errorLabel, format, args...)
}

// Warn prints to the standard logger, adding a warn label.
func Warn(format string, args ...interface{}) {
	mylog(LevelWarn, warnLabel, format, args...)
}

// Info prints to the standard logger, adding an info label.
func Info(format string, args ...interface{}) {
	mylog(LevelInfo, infoLabel, format, args...)
}

// Debug prints to the standard logger, adding a debug label.
// Suppressed unless the level is LevelDebug.
func Debug(format string, args ...interface{}) {
	mylog(LevelDebug, debugLabel, format, args...)
}
