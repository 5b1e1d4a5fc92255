package tool

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/vk/clitoolgo/internal/ctxlog"
	"github.com/vk/clitoolgo/signature"
)

// Execute invokes the target function with a bound call and returns the
// Result. It records start and end times, emits the start, outcome, and
// closing log lines, and captures any returned error or recovered panic.
// Execute itself never fails; every outcome is a Result.
func (t *Tool) Execute(ctx context.Context, call *signature.Call) *Result {
	logger := ctxlog.FromContext(ctx)
	result := &Result{}
	start := time.Now()

	if t.Label != "" {
		logger.Info(t.Label)
	}
	logger.Info("Start Time: " + start.Format(clilogTimeFormat))

	output, errInfo := t.run(ctx, call)
	if errInfo != nil {
		result.Status = 1
		result.Err = errInfo
		logger.Error(fmt.Sprintf("%s: %s", errInfo.Type, errInfo.Message))
		logger.Debug(errInfo.Trace)
	} else {
		result.Output = output
	}

	end := time.Now()
	verdict := "SUCCEEDED"
	if result.Status != 0 {
		verdict = "FAILED"
	}
	logger.Info(fmt.Sprintf("%s at %s (Elapsed Time: %s)", verdict, end.Format(clilogTimeFormat), formatElapsed(end.Sub(start))))

	return result
}

// run performs the reflective call, converting a returned error or a
// recovered panic into an ErrInfo. The panic recovery here is the only place
// a wrapped function's panic is caught.
func (t *Tool) run(ctx context.Context, call *signature.Call) (output any, errInfo *ErrInfo) {
	defer func() {
		if r := recover(); r != nil {
			errInfo = &ErrInfo{
				Type:    fmt.Sprintf("%T", r),
				Message: fmt.Sprint(r),
				Trace:   string(debug.Stack()),
			}
		}
	}()

	output, err := t.Sig.Invoke(ctx, t.Fn, call)
	if err != nil {
		return nil, &ErrInfo{
			Type:    fmt.Sprintf("%T", err),
			Message: err.Error(),
			Trace:   errorTrace(err),
		}
	}
	return output, nil
}

// errorTrace renders an error's unwrap chain, outermost first.
func errorTrace(err error) string {
	var lines []string
	for e := err; e != nil; e = errors.Unwrap(e) {
		lines = append(lines, fmt.Sprintf("%T: %s", e, e.Error()))
	}
	return strings.Join(lines, "\n")
}

// formatElapsed renders a duration as H:MM:SS.ffffff and drops the last
// four characters, leaving hundredths of a second.
func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second
	d -= seconds * time.Second
	micros := d / time.Microsecond

	text := fmt.Sprintf("%d:%02d:%02d.%06d", hours, minutes, seconds, micros)
	return text[:len(text)-4]
}
