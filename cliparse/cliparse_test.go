package cliparse

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/clitoolgo/signature"
)

func newTestCommandLine(sig *signature.Signature) (*CommandLine, *bytes.Buffer) {
	out := &bytes.Buffer{}
	c := New(Options{Name: "testtool", Output: out})
	c.AddSignature(sig, nil, "")
	return c, out
}

func TestParseInterleavedPositionalsAndFlags(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	sig := signature.New().
		Required("param1").
		Required("param2").
		VarPositional("args").
		VarKeyword("kwargs")
	c, _ := newTestCommandLine(sig)

	// --- Act ---
	values, err := c.Parse([]string{"A", "B", "C", "D", `--kwargs={"E": 5}`})

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "A", values["param1"])
	assert.Equal(t, "B", values["param2"])
	assert.Equal(t, []string{"C", "D"}, values["args"])
	assert.Equal(t, map[string]any{"E": float64(5)}, values["kwargs"])
}

func TestParseFlagBeforePositionals(t *testing.T) {
	t.Parallel()

	sig := signature.New().Required("name").Optional("count", 1)
	c, _ := newTestCommandLine(sig)

	values, err := c.Parse([]string{"--count", "3", "bob"})

	require.NoError(t, err)
	assert.Equal(t, "bob", values["name"])
	assert.Equal(t, 3, values["count"])
}

func TestParseUnsetFlagYieldsDefault(t *testing.T) {
	t.Parallel()

	sig := signature.New().Required("name").Optional("precision", 2)
	c, _ := newTestCommandLine(sig)

	values, err := c.Parse([]string{"x"})

	require.NoError(t, err)
	assert.Equal(t, 2, values["precision"])
}

func TestParseConvertsFlagValue(t *testing.T) {
	t.Parallel()

	sig := signature.New().Optional("ratio", 1.0).Optional("loud", false)
	c, _ := newTestCommandLine(sig)

	values, err := c.Parse([]string{"--ratio", "2.5", "--loud=1"})

	require.NoError(t, err)
	assert.Equal(t, 2.5, values["ratio"])
	assert.Equal(t, true, values["loud"])
}

func TestParseReusedCommandLineResetsDefaults(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	sig := signature.New().Required("name").Optional("shout", false)
	c, _ := newTestCommandLine(sig)

	// --- Act ---
	values, err := c.Parse([]string{"bob", "--shout=1"})
	require.NoError(t, err)
	assert.Equal(t, true, values["shout"])

	values, err = c.Parse([]string{"bob"})

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, false, values["shout"], "an omitted flag falls back to its declared default on every parse")
}

func TestParseBadFlagValueIsUsageError(t *testing.T) {
	t.Parallel()

	sig := signature.New().Optional("loud", false)
	c, out := newTestCommandLine(sig)

	_, err := c.Parse([]string{"--loud=maybe"})

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, out.String(), "expected 'True', 'False', '1', '0'")
}

func TestParseMissingRequiredIsUsageError(t *testing.T) {
	t.Parallel()

	sig := signature.New().Required("src").Required("dst")
	c, out := newTestCommandLine(sig)

	_, err := c.Parse([]string{"only-one"})

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, out.String(), "the following arguments are required: dst")
	assert.Contains(t, out.String(), "Usage: testtool")
}

func TestParseUnrecognizedExtrasIsUsageError(t *testing.T) {
	t.Parallel()

	sig := signature.New().Required("only")
	c, out := newTestCommandLine(sig)

	_, err := c.Parse([]string{"a", "b", "c"})

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, out.String(), "unrecognized arguments: b c")
}

func TestParseUnknownFlagIsUsageError(t *testing.T) {
	t.Parallel()

	sig := signature.New().Required("a")
	c, _ := newTestCommandLine(sig)

	_, err := c.Parse([]string{"x", "--no-such-flag"})

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParseHelpRequestExitsZero(t *testing.T) {
	t.Parallel()

	sig := signature.New().Required("a")
	c, out := newTestCommandLine(sig)

	_, err := c.Parse([]string{"--help"})

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 0, exitErr.Code)
	assert.Contains(t, out.String(), "Usage: testtool")
}

func TestParseEmptyVarPositional(t *testing.T) {
	t.Parallel()

	sig := signature.New().Required("a").VarPositional("rest")
	c, _ := newTestCommandLine(sig)

	values, err := c.Parse([]string{"x"})

	require.NoError(t, err)
	assert.Equal(t, []string{}, values["rest"])
}

func TestSingleCharFlagGetsShorthand(t *testing.T) {
	t.Parallel()

	sig := signature.New().Optional("v", 0)
	c, _ := newTestCommandLine(sig)

	values, err := c.Parse([]string{"-v", "3"})

	require.NoError(t, err)
	assert.Equal(t, 3, values["v"])
}

func TestArgFileExpansion(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	inner := filepath.Join(dir, "inner.txt")
	require.NoError(t, os.WriteFile(inner, []byte("C\nD\n"), 0o644))
	outer := filepath.Join(dir, "outer.txt")
	require.NoError(t, os.WriteFile(outer, []byte("B\r\n@"+inner+"\r\n"), 0o644))

	sig := signature.New().Required("param1").Required("param2").VarPositional("args")
	c, _ := newTestCommandLine(sig)

	// --- Act ---
	values, err := c.Parse([]string{"A", "@" + outer})

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "A", values["param1"])
	assert.Equal(t, "B", values["param2"])
	assert.Equal(t, []string{"C", "D"}, values["args"])
}

func TestArgFileMissingIsUsageError(t *testing.T) {
	t.Parallel()

	sig := signature.New().Required("a")
	c, out := newTestCommandLine(sig)

	_, err := c.Parse([]string{"@/no/such/file"})

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, out.String(), "cannot read argument file")
}

func TestPrintUsageLayout(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	out := &bytes.Buffer{}
	c := New(Options{
		Name:        "greeter",
		Label:       "Greet a person by name.",
		Description: "Examples:\n  greeter bob --shout=1",
		Output:      out,
	})
	sig := signature.New().Required("name").Optional("shout", false).VarPositional("extras")
	c.AddSignature(sig, map[string]string{
		"name":  "who to greet",
		"shout": "greet at full volume",
	}, "greeting arguments")

	// --- Act ---
	c.PrintUsage()

	// --- Assert ---
	text := out.String()
	assert.Contains(t, text, "Usage: greeter [options] name [extras ...]")
	assert.Contains(t, text, "Greet a person by name.")
	assert.Contains(t, text, "Arguments:")
	assert.Contains(t, text, "who to greet")
	assert.Contains(t, text, "Greeting arguments:")
	assert.Contains(t, text, "--shout value")
	assert.Contains(t, text, "(default: false)")
	assert.Contains(t, text, "Examples:")
}
