package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Logger provides colored output functions for CLI feedback.
type Logger struct {
	out      io.Writer
	errOut   io.Writer
	noColor  bool
	verbose  bool
	jsonMode bool

	// Spinner state
	spinnerMu      sync.Mutex
	spinnerActive  bool
	spinnerStop    chan struct{}
	spinnerDone    chan struct{}
	spinnerMessage string
	autoSpinner    bool // If true, automatically start spinner after Success/Info logs
}

// NewLogger creates a new Logger instance.
func NewLogger() *Logger {
	return &Logger{
		out:    os.Stdout,
		errOut: os.Stderr,
	}
}

// SetNoColor disables colored output.
func (l *Logger) SetNoColor(noColor bool) {
	l.noColor = noColor
	color.NoColor = noColor
}

// SetVerbose enables verbose logging.
func (l *Logger) SetVerbose(verbose bool) {
	l.verbose = verbose
}

// SetJSONMode enables JSON output mode (suppresses text output).
func (l *Logger) SetJSONMode(jsonMode bool) {
	l.jsonMode = jsonMode
}

// SetAutoSpinner enables or disables automatic spinner after Success/Info logs.
// When enabled, a spinner will be shown after each Success or Info log to indicate
// ongoing work. The spinner is automatically cleared when the next log is printed.
func (l *Logger) SetAutoSpinner(enabled bool) {
	l.spinnerMu.Lock()
	defer l.spinnerMu.Unlock()

	l.autoSpinner = enabled
	if !enabled && l.spinnerActive {
		l.stopSpinnerLocked()
	}
}

// Info prints an informational message in default color.
// If autoSpinner is enabled, a spinner will be shown after the message.
func (l *Logger) Info(format string, args ...interface{}) {
	if l.jsonMode {
		return
	}
	l.StopSpinner() // Stop any existing spinner
	fmt.Fprintf(l.out, format+"\n", args...)
	if l.autoSpinner {
		l.StartSpinner("Processing...")
	}
}

// Warn prints a warning message in yellow.
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.jsonMode {
		return
	}
	l.StopSpinner()
	yellow := color.New(color.FgYellow)
	yellow.Fprintf(l.errOut, "Warning: "+format+"\n", args...)
}

// Success prints a success message in green with checkmark.
// If autoSpinner is enabled, a spinner will be shown after the message.
func (l *Logger) Success(format string, args ...interface{}) {
	if l.jsonMode {
		return
	}
	l.StopSpinner() // Stop any existing spinner
	green := color.New(color.FgGreen)
	green.Fprintf(l.out, "✓ "+format+"\n", args...)
	if l.autoSpinner {
		l.StartSpinner("Processing...")
	}
}

// Bold prints a message in bold.
func (l *Logger) Bold(format string, args ...interface{}) {
	if l.jsonMode {
		return
	}
	l.StopSpinner()
	bold := color.New(color.Bold)
	bold.Fprintf(l.out, format+"\n", args...)
}

// Print prints a plain message without newline.
func (l *Logger) Print(format string, args ...interface{}) {
	if l.jsonMode {
		return
	}
	fmt.Fprintf(l.out, format, args...)
}

// Println prints a plain message with newline.
func (l *Logger) Println(format string, args ...interface{}) {
	if l.jsonMode {
		return
	}
	l.StopSpinner()
	fmt.Fprintf(l.out, format+"\n", args...)
}

// spinnerFrames defines the animation frames for the spinner.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// StartSpinner starts an animated spinner with a message.
// The spinner runs in a background goroutine until StopSpinner is called.
func (l *Logger) StartSpinner(message string) {
	if l.jsonMode {
		return
	}

	l.spinnerMu.Lock()
	defer l.spinnerMu.Unlock()

	// If spinner is already running, stop it first
	if l.spinnerActive {
		l.stopSpinnerLocked()
	}

	l.spinnerActive = true
	l.spinnerMessage = message
	l.spinnerStop = make(chan struct{})
	l.spinnerDone = make(chan struct{})

	go l.runSpinner()
}

// runSpinner runs the spinner animation in a goroutine.
func (l *Logger) runSpinner() {
	defer close(l.spinnerDone)

	cyan := color.New(color.FgCyan)
	frameIdx := 0
	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-l.spinnerStop:
			return
		case <-ticker.C:
			l.spinnerMu.Lock()
			if l.spinnerActive {
				frame := spinnerFrames[frameIdx%len(spinnerFrames)]
				cyan.Fprintf(l.out, "\r  %s %s", frame, l.spinnerMessage)
				frameIdx++
			}
			l.spinnerMu.Unlock()
		}
	}
}

// StopSpinner stops the spinner and clears the spinner line.
func (l *Logger) StopSpinner() {
	if l.jsonMode {
		return
	}

	l.spinnerMu.Lock()
	defer l.spinnerMu.Unlock()

	l.stopSpinnerLocked()
}

// stopSpinnerLocked stops the spinner (must be called with spinnerMu held).
func (l *Logger) stopSpinnerLocked() {
	if !l.spinnerActive {
		return
	}

	l.spinnerActive = false
	close(l.spinnerStop)
	<-l.spinnerDone

	// Clear the spinner line
	l.clearLineLocked()
}

// clearLineLocked clears the current line (must be called with spinnerMu held).
func (l *Logger) clearLineLocked() {
	// Get terminal width if possible, otherwise use default
	width := 80
	if f, ok := l.out.(*os.File); ok {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			width = w
		}
	}
	fmt.Fprintf(l.out, "\r%s\r", strings.Repeat(" ", width))
}

// IsVerbose returns whether verbose mode is enabled.
func (l *Logger) IsVerbose() bool {
	return l.verbose
}

// Writer returns the underlying writer for stdout.
// This can be used to pass to external commands.
func (l *Logger) Writer() io.Writer {
	if l.jsonMode {
		return io.Discard
	}
	return l.out
}

// ErrWriter returns the underlying writer for stderr.
func (l *Logger) ErrWriter() io.Writer {
	return l.errOut
}
