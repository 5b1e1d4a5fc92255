package cliparse

import (
	"fmt"
	"os"
	"strings"
)

// ExpandArgFiles replaces every token of the form @path with the arguments
// read from that file, one argument per line. Lines read from a file are
// themselves expanded, so argument files may nest.
func ExpandArgFiles(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		if !strings.HasPrefix(arg, "@") {
			out = append(out, arg)
			continue
		}

		path := arg[1:]
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read argument file '%s': %w", path, err)
		}

		text := strings.ReplaceAll(string(data), "\r\n", "\n")
		lines := strings.Split(text, "\n")
		if n := len(lines); n > 0 && lines[n-1] == "" {
			lines = lines[:n-1]
		}

		nested, err := ExpandArgFiles(lines)
		if err != nil {
			return nil, err
		}
		out = append(out, nested...)
	}
	return out, nil
}
