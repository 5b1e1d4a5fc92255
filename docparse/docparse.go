package docparse

import (
	"runtime"
	"strings"
)

// DocInfo holds the parsed sections of a structured doc comment. An empty
// field means the section was absent from the source text.
type DocInfo struct {
	Summary     string
	Description string
	Args        string
	Returns     string
	Yields      string
	Raises      string
}

// sections lists the recognized section names in their required order.
var sections = []string{"summary", "description", "args", "returns", "yields", "raises"}

// lineSep is the platform line separator used to join section body lines.
var lineSep = func() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}()

// isSectionName reports whether the line, lowered and with any trailing
// colons removed, names one of the recognized sections.
func isSectionName(line string) bool {
	name := strings.TrimRight(strings.ToLower(line), ":")
	for _, section := range sections {
		if name == section {
			return true
		}
	}
	return false
}

// takeBody collects lines up to (not including) the next recognized section
// name, or the end of the text.
func takeBody(lines []string) []string {
	for i, line := range lines {
		if isSectionName(line) {
			return lines[:i]
		}
	}
	return lines
}

// title returns the section header form of a name, e.g. "args" -> "Args:".
func title(section string) string {
	return strings.ToUpper(section[:1]) + section[1:] + ":"
}

// Parse parses a structured doc comment and returns the DocInfo. It is total:
// malformed input degrades to sections being absent, never to an error.
//
// The summary is the first line, but only when it stands alone or is followed
// by a blank line; otherwise it folds into the description. Each headed
// section opens only when the next unconsumed line is exactly its title-cased
// header ("Args:", "Returns:", ...), and its body runs to the next recognized
// section name.
func Parse(text string) DocInfo {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return DocInfo{}
	}

	raw := strings.Split(trimmed, "\n")
	lines := make([]string, len(raw))
	for i, line := range raw {
		lines[i] = strings.TrimSpace(line)
	}

	var info DocInfo
	for _, section := range sections {
		var matches []string

		switch section {
		case "summary":
			if len(lines) == 1 || (len(lines) > 1 && lines[1] == "") {
				matches = lines[:1]
			}
		case "description":
			matches = takeBody(lines)
		default:
			if len(lines) > 0 && lines[0] == title(section) {
				lines = lines[1:]
				matches = takeBody(lines)
			}
		}

		if len(matches) == 0 {
			continue
		}
		value := strings.TrimSpace(strings.Join(matches, lineSep))
		lines = lines[len(matches):]

		switch section {
		case "summary":
			info.Summary = value
		case "description":
			info.Description = value
		case "args":
			info.Args = value
		case "returns":
			info.Returns = value
		case "yields":
			info.Yields = value
		case "raises":
			info.Raises = value
		}
	}

	return info
}
