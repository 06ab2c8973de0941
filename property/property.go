// Package property splits single "key=value" lines into a Property.
//
// Two entry points are provided. MustSplit assumes the caller already knows
// the line holds exactly one separator and panics otherwise. TrySplit is the
// safe entry point: blank lines, comment lines and lines with a wrong
// separator count yield no result instead of a panic.
package property

import (
	"fmt"
	"strings"
)

// DefaultSeparator is used whenever no separator is given (the zero rune).
const DefaultSeparator = '='

// Property is a key/value pair taken from one line.
type Property struct {
	Key   string
	Value string
}

// New returns the Property for key and value as given, without trimming.
func New(key, value string) Property {
	return Property{Key: key, Value: value}
}

// FormatError is the panic value of MustSplit.
type FormatError struct {
	Line      string
	Separator rune
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid property line %q: expected format \"key%cvalue\"", e.Line, e.Separator)
}

func resolveSeparator(sep rune) rune {
	if sep == 0 {
		return DefaultSeparator
	}
	return sep
}

// MustSplit splits line on sep and returns the trimmed key and value.
// A zero sep selects DefaultSeparator. It panics with a *FormatError unless
// sep occurs exactly once in line.
func MustSplit(line string, sep rune) Property {
	sep = resolveSeparator(sep)
	parts := strings.Split(line, string(sep))
	if len(parts) != 2 {
		panic(&FormatError{Line: line, Separator: sep})
	}
	return Property{
		Key:   strings.TrimSpace(parts[0]),
		Value: strings.TrimSpace(parts[1]),
	}
}

// Skip reports whether line is empty or starts with comment. An empty
// comment never matches.
func Skip(line, comment string) bool {
	return line == "" || (comment != "" && strings.HasPrefix(line, comment))
}

// TrySplit returns the Property for line, or false when the line is empty,
// starts with comment (an empty comment disables the check), or does not
// contain the separator exactly once.
func TrySplit(line string, sep rune, comment string) (Property, bool) {
	if Skip(line, comment) {
		return Property{}, false
	}
	if strings.Count(line, string(resolveSeparator(sep))) != 1 {
		return Property{}, false
	}
	return MustSplit(line, sep), true
}
