package env

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"propline/property"
)

// MaxLineSize is the longest line Scan accepts.
const MaxLineSize = 1024 * 1024

// Entry is a parsed property together with its 1-based line number.
type Entry struct {
	property.Property
	Line int
}

type Options struct {
	Separator rune
	Comment   string
	// Strict reports malformed lines instead of skipping them.
	Strict bool
}

// LineError reports a malformed line seen in strict mode.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// Scan reads r line by line and returns the properties it holds, in input
// order. Blank and comment lines are always skipped.
func Scan(r io.Reader, opts Options) ([]Entry, error) {
	var out []Entry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	n := 0
	for scanner.Scan() {
		n++
		line := scanner.Text()

		if opts.Strict {
			if property.Skip(line, opts.Comment) {
				continue
			}
			p, err := strictSplit(line, opts.Separator)
			if err != nil {
				return out, &LineError{Line: n, Err: err}
			}
			out = append(out, Entry{Property: p, Line: n})
			continue
		}

		p, ok := property.TrySplit(line, opts.Separator, opts.Comment)
		if !ok {
			continue
		}
		out = append(out, Entry{Property: p, Line: n})
	}
	if err := scanner.Err(); err != nil {
		return out, fmt.Errorf("read lines: %w", err)
	}
	return out, nil
}

// strictSplit turns the MustSplit panic into an error at this boundary.
func strictSplit(line string, sep rune) (p property.Property, err error) {
	defer func() {
		if r := recover(); r != nil {
			var fe *property.FormatError
			if e, ok := r.(error); ok && errors.As(e, &fe) {
				err = fe
				return
			}
			panic(r)
		}
	}()
	return property.MustSplit(line, sep), nil
}

// Filter returns the entries whose key is in only (when only is non-empty)
// and not in exclude. Order is preserved.
func Filter(entries []Entry, only, exclude []string) []Entry {
	onlySet := toSet(only)
	excludeSet := toSet(exclude)

	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if len(onlySet) > 0 {
			if _, ok := onlySet[e.Key]; !ok {
				continue
			}
		}
		if _, ex := excludeSet[e.Key]; ex {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Map collapses entries into a map; the last occurrence of a key wins.
func Map(entries []Entry) map[string]string {
	out := make(map[string]string, len(entries))
	for _, e := range entries {
		out[e.Key] = e.Value
	}
	return out
}

func toSet(keys []string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k != "" {
			set[k] = struct{}{}
		}
	}
	return set
}
