package tool

import (
	"bytes"
	"errors"
	"io"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/clitoolgo/clilog"
	"github.com/vk/clitoolgo/cliparse"
	"github.com/vk/clitoolgo/signature"
)

// newQuietTool builds a Tool with silenced sinks, the usual test setup.
func newQuietTool(t *testing.T, fn any, sig *signature.Signature) *Tool {
	t.Helper()
	tl, err := New(fn, sig)
	require.NoError(t, err)
	tl.Log = clilog.NewManager(io.Discard)
	tl.Out = io.Discard
	return tl
}

func TestNewRejectsShapeMismatch(t *testing.T) {
	t.Parallel()

	_, err := New(func(a string) {}, signature.New().Required("a").Required("b"))

	require.Error(t, err)
	var cfgErr *signature.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestInvokeRoundTrip(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	fn := func(param1, param2 string, args []string, kwargs map[string]any) []any {
		return []any{param1, param2, args, kwargs}
	}
	sig := signature.New().
		Required("param1").
		Required("param2").
		VarPositional("args").
		VarKeyword("kwargs")
	tl := newQuietTool(t, fn, sig)

	// --- Act ---
	result, err := tl.Invoke([]string{"A", "B", "C", "D", `--kwargs={"E": 5}`})

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, 0, result.Status)
	assert.Nil(t, result.Err)
	assert.Equal(t,
		[]any{"A", "B", []string{"C", "D"}, map[string]any{"E": float64(5)}},
		result.Output)
}

func TestInvokeFailureCaptured(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	add := func(num1, num2 string) (int, error) {
		a, err := strconv.Atoi(num1)
		if err != nil {
			return 0, err
		}
		b, err := strconv.Atoi(num2)
		if err != nil {
			return 0, err
		}
		return a + b, nil
	}
	tl := newQuietTool(t, add, signature.New().Required("num1").Required("num2"))

	// --- Act ---
	result, err := tl.Invoke([]string{"1", "b"})

	// --- Assert ---
	require.NoError(t, err, "a failed call is a Result, not an invocation error")
	assert.Equal(t, 1, result.Status)
	assert.Nil(t, result.Output)
	require.NotNil(t, result.Err)
	assert.Contains(t, result.Err.Type, "NumError")
	assert.Contains(t, result.Err.Message, "b")
	assert.NotEmpty(t, result.Err.Trace)
}

func TestInvokeReusedToolResetsDefaults(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	fn := func(name string, shout bool) bool { return shout }
	tl := newQuietTool(t, fn, signature.New().Required("name").Optional("shout", false))

	// --- Act ---
	result, err := tl.Invoke([]string{"bob", "--shout=1"})
	require.NoError(t, err)
	assert.Equal(t, true, result.Output)

	result, err = tl.Invoke([]string{"bob"})

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, false, result.Output, "the cached parser must not carry the previous invocation's flag value")
}

func TestInvokeBadLogLevelIsUsageError(t *testing.T) {
	t.Parallel()

	tl := newQuietTool(t, func(a string) {}, signature.New().Required("a"))

	_, err := tl.Invoke([]string{"x", "--loglevel=loud"})

	var exitErr *cliparse.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code, "an invalid severity is a parse-time usage error")
}

func TestInvokeUsageErrorBeforeExecution(t *testing.T) {
	t.Parallel()

	executed := false
	fn := func(a string) { executed = true }
	tl := newQuietTool(t, fn, signature.New().Required("a"))

	_, err := tl.Invoke([]string{})

	var exitErr *cliparse.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
	assert.False(t, executed, "the target must not run on a usage error")
}

func TestInvokeHelpRequest(t *testing.T) {
	t.Parallel()

	tl := newQuietTool(t, func(a string) {}, signature.New().Required("a"))

	_, err := tl.Invoke([]string{"--help"})

	var exitErr *cliparse.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 0, exitErr.Code)
}

func TestInvokeLogFlagsRideTheCommandLine(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	tl := newQuietTool(t, func(a string) string { return a }, signature.New().Required("a"))
	tl.Log = clilog.NewManager(out)

	result, err := tl.Invoke([]string{"x", "--loglevel", "error"})

	require.NoError(t, err)
	assert.Equal(t, 0, result.Status)
	// At level error the start and closing info lines are suppressed.
	assert.Empty(t, out.String())
}

func TestInvokeLogsLifecycle(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	tl := newQuietTool(t, func() string { return "ok" }, signature.New())
	tl.Label = "Demo run"
	tl.Log = clilog.NewManager(out)

	_, err := tl.Invoke([]string{})

	require.NoError(t, err)
	text := out.String()
	assert.Contains(t, text, "[INFO] Demo run")
	assert.Contains(t, text, "Start Time: ")
	assert.Contains(t, text, "SUCCEEDED at ")
	assert.Contains(t, text, "(Elapsed Time: ")
}

func TestInvokeLogsFailureVerdict(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	tl := newQuietTool(t, func() error { return errors.New("boom") }, signature.New())
	tl.Log = clilog.NewManager(out)

	result, err := tl.Invoke([]string{})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Status)
	assert.Contains(t, out.String(), "FAILED at ")
	assert.Contains(t, out.String(), "boom")
}

func TestExecuteRecoversPanic(t *testing.T) {
	t.Parallel()

	tl := newQuietTool(t, func() { panic("unexpected state") }, signature.New())

	result, err := tl.Invoke([]string{})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Status)
	require.NotNil(t, result.Err)
	assert.Equal(t, "string", result.Err.Type)
	assert.Equal(t, "unexpected state", result.Err.Message)
	assert.Contains(t, result.Err.Trace, "goroutine", "panic trace is a stack dump")
}

func TestParserCachedPerInstance(t *testing.T) {
	t.Parallel()

	tl := newQuietTool(t, func(a string) {}, signature.New().Required("a"))

	first, err := tl.Parser()
	require.NoError(t, err)
	second, err := tl.Parser()
	require.NoError(t, err)
	assert.Same(t, first, second)

	other := newQuietTool(t, func(a string) {}, signature.New().Required("a"))
	otherParser, err := other.Parser()
	require.NoError(t, err)
	assert.NotSame(t, first, otherParser)
}

func TestParserDocSeedsUsage(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	tl := newQuietTool(t, func(name string) {}, signature.New().Required("name"))
	tl.Out = out
	tl.Doc = "Greet a person.\n\nArgs:\n    name: who to greet"
	tl.ParseDoc = true

	parser, err := tl.Parser()
	require.NoError(t, err)
	parser.PrintUsage()

	assert.Contains(t, out.String(), "Greet a person.")
	assert.Contains(t, out.String(), "who to greet")
}

func TestParserExplicitFieldsWin(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	tl := newQuietTool(t, func(name string) {}, signature.New().Required("name"))
	tl.Out = out
	tl.Label = "Explicit label"
	tl.Doc = "Doc summary.\n\nArgs:\n    name: from the doc"
	tl.ParseDoc = true

	parser, err := tl.Parser()
	require.NoError(t, err)
	parser.PrintUsage()

	assert.Contains(t, out.String(), "Explicit label")
	assert.NotContains(t, out.String(), "Doc summary.")
}

func TestParserMalformedDocArgsFails(t *testing.T) {
	t.Parallel()

	tl := newQuietTool(t, func(name string) {}, signature.New().Required("name"))
	tl.Doc = "Summary.\n\nArgs:\n    this line is not a pair"
	tl.ParseDoc = true

	_, err := tl.Parser()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected name: value pair")
}

func TestFormatElapsed(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		d    string
		want string
	}{
		{"zero", "0s", "0:00:00.00"},
		{"sub-second", "123456us", "0:00:00.12"},
		{"minutes", "1m30s", "0:01:30.00"},
		{"hours", "2h3m4s", "2:03:04.00"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			d, err := time.ParseDuration(tc.d)
			require.NoError(t, err)
			assert.Equal(t, tc.want, formatElapsed(d))
		})
	}
}

func TestErrorTraceWalksUnwrapChain(t *testing.T) {
	t.Parallel()

	inner := errors.New("root cause")
	outer := wrapError{msg: "context", err: inner}

	trace := errorTrace(outer)

	assert.Contains(t, trace, "context")
	assert.Contains(t, trace, "root cause")
}

type wrapError struct {
	msg string
	err error
}

func (e wrapError) Error() string { return e.msg + ": " + e.err.Error() }
func (e wrapError) Unwrap() error { return e.err }
