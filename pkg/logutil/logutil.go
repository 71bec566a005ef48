package logutil

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

// The WARNING and ERROR tags are colored so they stand out in a terminal.
// The color package disables itself when stdout is not a tty.
var (
	warnTag = color.New(color.FgRed, color.Bold).Sprint("WARNING")
	errTag  = color.New(color.BgRed, color.Bold).Sprint("ERROR")
)

// Logger writes "LEVEL message" lines for the operator watching a
// diagnostic run. Diagnostics are single-threaded; the mutex only keeps
// lines whole if a hook ever logs from a goroutine.
type Logger struct {
	mu      sync.Mutex
	out     io.Writer
	verbose bool
}

func New(out io.Writer) *Logger {
	return &Logger{out: out}
}

var std = New(os.Stdout)

// Default returns the process-wide logger used by components that are not
// handed an explicit one.
func Default() *Logger {
	return std
}

func (l *Logger) SetVerbose(verbose bool) {
	l.verbose = verbose
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.write("INFO", format, args...)
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	l.write("DEBUG", format, args...)
}

func (l *Logger) Warningf(format string, args ...interface{}) {
	l.write(warnTag, format, args...)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.write(errTag, format, args...)
}

func (l *Logger) write(tag, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "%s %s\n", tag, fmt.Sprintf(format, args...))
}
