// Package runner invokes the external accounting tool under a hard timeout,
// walking a fallback chain of binary and flag combinations until one yields
// usable output.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Kind selects which report the tool should produce.
type Kind string

const (
	Balance  Kind = "balance"
	Register Kind = "register"
)

// Defaults used when Options leaves a field zero.
const (
	DefaultPrimary   = "hledger"
	DefaultSecondary = "ledger"
	DefaultTimeout   = 5000 * time.Millisecond
)

// waitDelay bounds how long a killed process's stuck pipes can delay Wait.
const waitDelay = time.Second

// Output is one accepted tool invocation: the binary and arguments that
// produced it, and its merged stdout+stderr.
type Output struct {
	Binary string
	Args   []string
	Text   string
}

// attempt is one invocation descriptor in the fallback chain. wantJSON
// attempts are accepted only when the trimmed output starts like JSON;
// plain attempts only need non-empty output.
type attempt struct {
	binary   string
	args     []string
	wantJSON bool
}

func (a attempt) String() string {
	return a.binary + " " + strings.Join(a.args, " ")
}

// Options configures a Runner. Zero fields fall back to the defaults.
type Options struct {
	Primary   string // JSON-capable tool, tried first
	Secondary string // alternate tool for later chain positions
	Timeout   time.Duration
}

// Runner executes the accounting tool. One subprocess is in flight at a
// time; concurrent Run calls from separate analyses are independent.
type Runner struct {
	primary   string
	secondary string
	timeout   time.Duration
	log       zerolog.Logger
}

func New(opts Options, log zerolog.Logger) *Runner {
	r := &Runner{
		primary:   opts.Primary,
		secondary: opts.Secondary,
		timeout:   opts.Timeout,
		log:       log,
	}
	if r.primary == "" {
		r.primary = DefaultPrimary
	}
	if r.secondary == "" {
		r.secondary = DefaultSecondary
	}
	if r.timeout <= 0 {
		r.timeout = DefaultTimeout
	}
	return r
}

// attempts builds the ordered fallback chain for one report kind. filePath
// must be absolute; the tool resolves it, not us.
func (r *Runner) attempts(kind Kind, filePath string) []attempt {
	if kind == Register {
		return []attempt{
			{r.primary, []string{"-f", filePath, "register", "-O", "json"}, true},
			{r.primary, []string{"-f", filePath, "register"}, false},
			{r.secondary, []string{"-f", filePath, "register"}, false},
		}
	}
	return []attempt{
		{r.primary, []string{"-f", filePath, "balance", "-O", "json"}, true},
		{r.primary, []string{"-f", filePath, "balance"}, false},
		{r.secondary, []string{"-f", filePath, "balance", "--output-format", "json"}, true},
		{r.secondary, []string{"-f", filePath, "balance", "--format", "json"}, true},
		{r.secondary, []string{"-f", filePath, "balance"}, false},
	}
}

// Run walks the fallback chain until an attempt yields usable output.
//
// Missing binaries, timeouts, spawn failures, unusable output and non-final
// tool errors advance the chain. A non-zero exit from the final attempt is
// surfaced as that ToolError; any other exhaustion returns the final
// attempt's error wrapped with the report kind.
func (r *Runner) Run(ctx context.Context, kind Kind, filePath string) (Output, error) {
	attempts := r.attempts(kind, filePath)
	var lastErr error
	for i, att := range attempts {
		final := i == len(attempts)-1

		text, err := r.execute(ctx, att)
		if err != nil {
			var toolErr ToolError
			if final && errors.As(err, &toolErr) {
				return Output{}, err
			}
			r.log.Debug().Str("attempt", att.String()).Err(err).Msg("tool attempt failed")
			lastErr = err
			continue
		}

		if !usable(att, text) {
			r.log.Debug().Str("attempt", att.String()).Int("bytes", len(text)).Msg("tool output unusable")
			lastErr = fmt.Errorf("%s: %w", att.String(), ErrNoUsableOutput)
			continue
		}

		r.log.Debug().Str("attempt", att.String()).Int("bytes", len(text)).Msg("tool output accepted")
		return Output{Binary: att.binary, Args: att.args, Text: text}, nil
	}
	return Output{}, fmt.Errorf("%s: %w", kind, lastErr)
}

// execute runs one attempt to completion, classifying its failure mode. The
// process is always reaped: CommandContext kills on deadline and WaitDelay
// bounds pipe teardown.
func (r *Runner) execute(ctx context.Context, att attempt) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, att.binary, att.args...)
	cmd.WaitDelay = waitDelay
	out, err := cmd.CombinedOutput()
	if err == nil {
		return string(out), nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return "", TimeoutError{Binary: att.binary, Timeout: r.timeout}
		}
		return "", SystemError{Binary: att.binary, Err: ctxErr}
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return "", ToolError{Binary: att.binary, ExitCode: exitErr.ExitCode(), Output: string(out)}
	}
	if errors.Is(err, exec.ErrNotFound) {
		return "", NotFoundError{Binary: att.binary}
	}
	return "", SystemError{Binary: att.binary, Err: err}
}

func usable(att attempt, text string) bool {
	trimmed := strings.TrimSpace(text)
	if att.wantJSON {
		return strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{")
	}
	return trimmed != ""
}
