package runner

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNoUsableOutput reports a clean tool exit whose output satisfied neither
// the JSON heuristic nor the non-empty requirement.
var ErrNoUsableOutput = errors.New("no usable output from tool")

// NotFoundError reports a tool binary missing from PATH.
type NotFoundError struct {
	Binary string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s: tool not installed", e.Binary)
}

// TimeoutError reports an invocation that exceeded the wall-clock limit and
// was killed.
type TimeoutError struct {
	Binary  string
	Timeout time.Duration
}

func (e TimeoutError) Error() string {
	return fmt.Sprintf("%s: timed out after %s", e.Binary, e.Timeout)
}

// ToolError reports a tool that ran and exited non-zero. Output holds the
// merged stdout+stderr the tool produced.
type ToolError struct {
	Binary   string
	ExitCode int
	Output   string
}

func (e ToolError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Binary, e.ExitCode)
	if line := firstLine(e.Output); line != "" {
		msg += ": " + line
	}
	return msg
}

// SystemError reports a spawn-level failure other than a missing binary.
type SystemError struct {
	Binary string
	Err    error
}

func (e SystemError) Error() string {
	return fmt.Sprintf("%s: %v", e.Binary, e.Err)
}

func (e SystemError) Unwrap() error { return e.Err }

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(line)
}
