package docparse

import (
	"fmt"
	"regexp"
	"strings"
)

// argPattern matches a line that starts a new "name: description" entry.
var argPattern = regexp.MustCompile(`^(\w+):(.+)$`)

// DocArgs maps parameter names to their descriptions, preserving first-seen
// order for listings.
type DocArgs struct {
	names []string
	descs map[string]string
}

// Names returns the parameter names in first-seen order.
func (d *DocArgs) Names() []string {
	return d.names
}

// Get returns the description for a parameter name.
func (d *DocArgs) Get(name string) (string, bool) {
	desc, ok := d.descs[name]
	return desc, ok
}

// Map returns the name-to-description mapping. The map is shared, not copied.
func (d *DocArgs) Map() map[string]string {
	return d.descs
}

// ParseArgs parses the Args section of a structured doc comment. A line
// matching "name: description" starts a new entry; any other line is appended
// to the most recently started entry, space-joined and trimmed. A non-matching
// line before any entry has started is an input error.
func ParseArgs(text string) (*DocArgs, error) {
	result := &DocArgs{descs: make(map[string]string)}
	if text == "" {
		return result, nil
	}

	name := ""
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")

		if match := argPattern.FindStringSubmatch(line); match != nil {
			name = match[1]
			if _, seen := result.descs[name]; !seen {
				result.names = append(result.names, name)
			}
			result.descs[name] = strings.TrimSpace(match[2])
			continue
		}
		if name == "" {
			return nil, fmt.Errorf("expected name: value pair; got '%s'", line)
		}
		result.descs[name] += " " + strings.TrimSpace(line)
	}

	return result, nil
}
