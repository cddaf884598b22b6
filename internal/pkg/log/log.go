package log

import (
	"context"
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
)

type contextKey string

const contextKeyRunID contextKey = "run_id"

var (
	out    io.Writer = color.Output
	errOut io.Writer = color.Error

	debugEnabled bool
)

// dumper renders result structures the way the console shows them to a reader.
var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// SetOutput redirects info and warning lines to w and error lines to e.
// It returns a func restoring the previous writers.
func SetOutput(w, e io.Writer) func() {
	prevOut, prevErr := out, errOut
	out, errOut = w, e
	return func() {
		out, errOut = prevOut, prevErr
	}
}

// WithRunID adds the run ID to context for logging
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, contextKeyRunID, runID)
}

// RunID retrieves the run ID from context
func RunID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(contextKeyRunID).(string); ok {
		return id
	}
	return ""
}

// formatLog formats log message with optional run ID
func formatLog(runID string, format string, a ...interface{}) string {
	msg := fmt.Sprintf(format, a...)
	if runID != "" {
		return fmt.Sprintf("[run_id=%s] %s", runID, msg)
	}
	return msg
}

// SetDebug turns Debug output on or off
func SetDebug(enabled bool) {
	debugEnabled = enabled
}

// Debug logs diagnostic detail to the info writer when debug output is on
func Debug(format string, a ...interface{}) {
	if !debugEnabled {
		return
	}
	debug := color.New(color.FgWhite, color.BgBlue).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", debug("[DEBUG]"), fmt.Sprintf(format, a...))
}

// Info log information
func Info(format string, a ...interface{}) {
	info := color.New(color.FgWhite, color.BgGreen).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", info("[INFO] "), fmt.Sprintf(format, a...))
}

// InfoWithContext logs information with context (includes run ID if available)
func InfoWithContext(ctx context.Context, format string, a ...interface{}) {
	info := color.New(color.FgWhite, color.BgGreen).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", info("[INFO] "), formatLog(RunID(ctx), format, a...))
}

// Warn log warning
func Warn(format string, a ...interface{}) {
	warn := color.New(color.FgWhite, color.BgYellow).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", warn("[WARN] "), fmt.Sprintf(format, a...))
}

// Error log error
func Error(format string, a ...interface{}) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(errOut, "%s %s\n", red("[Error]"), fmt.Sprintf(format, a...))
}

// ErrorWithContext logs error with context (includes run ID if available)
func ErrorWithContext(ctx context.Context, format string, a ...interface{}) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(errOut, "%s %s\n", red("[Error]"), formatLog(RunID(ctx), format, a...))
}

// Dump prints a heading followed by a readable rendering of v.
func Dump(ctx context.Context, heading string, v interface{}) {
	InfoWithContext(ctx, "%s", heading)
	fmt.Fprint(out, dumper.Sdump(v))
}

// DumpText prints a heading followed by preformatted text.
func DumpText(ctx context.Context, heading string, text string) {
	InfoWithContext(ctx, "%s", heading)
	fmt.Fprintln(out, text)
}
