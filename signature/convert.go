package signature

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Converter turns a raw command-line token into a typed value.
type Converter func(text string) (any, error)

// Infer chooses a converter from the runtime type of a default value:
// booleans get the strict boolean parser, integers and floats their numeric
// parsers, time.Time the date/time parser. Any other type means the raw
// string passes through unconverted.
func Infer(def any) Converter {
	switch def.(type) {
	case bool:
		return ToBool
	case int, int32, int64:
		return ToInt
	case float32, float64:
		return ToFloat
	case time.Time:
		return ToTime
	default:
		return nil
	}
}

// ToBool converts text to a bool. Exactly "True" and "1" are true and
// "False" and "0" are false, compared case-insensitively; anything else is a
// value error naming the allowed set.
func ToBool(text string) (any, error) {
	switch strings.ToLower(text) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	}
	return nil, fmt.Errorf("expected 'True', 'False', '1', '0'; got '%s'", text)
}

// ToInt converts text to an int.
func ToInt(text string) (any, error) {
	value, err := strconv.Atoi(text)
	if err != nil {
		return nil, err
	}
	return value, nil
}

// ToFloat converts text to a float64.
func ToFloat(text string) (any, error) {
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, err
	}
	return value, nil
}

// dateLayouts are tried in order by ToTime. The list favors unambiguous
// ISO-style forms before the US-style calendar date.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006 15:04:05",
	"01/02/2006",
	"Jan 2, 2006",
	"Jan 2 2006",
}

// ToTime converts text to a time.Time by trying a fixed list of layouts.
func ToTime(text string) (any, error) {
	for _, layout := range dateLayouts {
		if value, err := time.Parse(layout, text); err == nil {
			return value, nil
		}
	}
	return nil, fmt.Errorf("unrecognized date/time '%s'", text)
}

// ToJSON converts text to the value it encodes as JSON. Numbers decode as
// float64, objects as map[string]any.
func ToJSON(text string) (any, error) {
	var value any
	if err := json.Unmarshal([]byte(text), &value); err != nil {
		return nil, err
	}
	return value, nil
}
