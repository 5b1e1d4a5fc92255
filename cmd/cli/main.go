package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/vk/clitoolgo/clilog"
	"github.com/vk/clitoolgo/cliparse"
	"github.com/vk/clitoolgo/signature"
	"github.com/vk/clitoolgo/tool"
	"github.com/vk/clitoolgo/toolbox"
)

// main is the entrypoint for the demo calculator toolbox.
func main() {
	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *cliparse.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the toolbox logic for easier testing and error handling.
// Command log lines go to logW, command output to outW. A non-zero command
// status is returned as an ExitError so main can exit with it.
func run(outW, logW io.Writer, args []string) error {
	box, err := buildToolbox(outW, logW)
	if err != nil {
		return err
	}

	result, err := box.Invoke(args)
	if err != nil {
		return err
	}

	if result.Output != nil {
		fmt.Fprintln(outW, result.Output)
	}
	if result.Status != 0 {
		return &cliparse.ExitError{Code: result.Status, Message: "command failed"}
	}
	return nil
}

// buildToolbox registers the demo commands.
func buildToolbox(outW, logW io.Writer) (*toolbox.Toolbox, error) {
	box := toolbox.New("calc - a small calculator toolbox.")
	box.Out = outW

	commands := []struct {
		fn   any
		sig  *signature.Signature
		name string
		doc  string
	}{
		{add, signature.New().Required("num1").Required("num2"), "add", addDoc},
		{subtract, signature.New().Required("num1").Required("num2"), "subtract", subtractDoc},
		{greet, signature.New().Required("name").Optional("shout", false), "greet", greetDoc},
	}

	for _, cmd := range commands {
		t, err := tool.New(cmd.fn, cmd.sig)
		if err != nil {
			return nil, err
		}
		t.Name = cmd.name
		t.Out = outW
		t.Log = clilog.NewManager(logW)
		t.Doc = cmd.doc
		t.ParseDoc = true

		if err := box.Register(t, cmd.name, "", true); err != nil {
			return nil, err
		}
	}

	return box, nil
}

const addDoc = `Add two numbers.

Args:
    num1: first addend
    num2: second addend

Returns:
    The sum of num1 and num2.`

// add returns the sum of two numeric arguments.
func add(num1, num2 string) (float64, error) {
	a, err := strconv.ParseFloat(num1, 64)
	if err != nil {
		return 0, err
	}
	b, err := strconv.ParseFloat(num2, 64)
	if err != nil {
		return 0, err
	}
	return a + b, nil
}

const subtractDoc = `Subtract the second number from the first.

Args:
    num1: minuend
    num2: subtrahend

Returns:
    The difference num1 - num2.`

// subtract returns the difference of two numeric arguments.
func subtract(num1, num2 string) (float64, error) {
	a, err := strconv.ParseFloat(num1, 64)
	if err != nil {
		return 0, err
	}
	b, err := strconv.ParseFloat(num2, 64)
	if err != nil {
		return 0, err
	}
	return a - b, nil
}

const greetDoc = `Greet a person by name.

Args:
    name: who to greet
    shout: greet at full volume`

// greet returns a greeting for the named person.
func greet(name string, shout bool) string {
	greeting := fmt.Sprintf("Hello %s!", name)
	if shout {
		return strings.ToUpper(greeting)
	}
	return greeting
}
