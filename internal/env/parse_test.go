package env

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propline/property"
)

func entry(line int, k, v string) Entry {
	return Entry{Property: property.New(k, v), Line: line}
}

func TestScan_Tolerant(t *testing.T) {
	input := "# comment\r\n" +
		"\n" +
		"A = 1\r\n" +
		"broken line\n" +
		"B=two=parts\n" +
		"  # indented is not a comment = x\n" +
		"C=\n"

	got, err := Scan(strings.NewReader(input), Options{Comment: "#"})
	require.NoError(t, err)

	want := []Entry{
		entry(3, "A", "1"),
		entry(6, "# indented is not a comment", "x"),
		entry(7, "C", ""),
	}
	assert.Equal(t, want, got)
}

func TestScan_CustomSeparator(t *testing.T) {
	input := "//skip:me\nhost: example.org\nport:8080\nurl: http://x\n"

	got, err := Scan(strings.NewReader(input), Options{Separator: ':', Comment: "//"})
	require.NoError(t, err)

	want := []Entry{
		entry(2, "host", "example.org"),
		entry(3, "port", "8080"),
	}
	assert.Equal(t, want, got)
}

func TestScan_Strict(t *testing.T) {
	input := "# header\nA=1\n\nB=2=3\nC=4\n"

	got, err := Scan(strings.NewReader(input), Options{Comment: "#", Strict: true})
	require.Error(t, err)

	var le *LineError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, 4, le.Line)

	var fe *property.FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "B=2=3", fe.Line)
	assert.Equal(t, '=', fe.Separator)

	assert.Equal(t, []Entry{entry(2, "A", "1")}, got)
}

func TestScan_StrictWellFormed(t *testing.T) {
	got, err := Scan(strings.NewReader("A=1\nB = 2\n"), Options{Strict: true})
	require.NoError(t, err)
	assert.Equal(t, []Entry{entry(1, "A", "1"), entry(2, "B", "2")}, got)
}

func TestFilter(t *testing.T) {
	entries := []Entry{entry(1, "A", "1"), entry(2, "B", "2"), entry(3, "C", "3"), entry(4, "A", "4")}

	tests := []struct {
		name    string
		only    []string
		exclude []string
		want    []Entry
	}{
		{"no filters", nil, nil, entries},
		{"only", []string{"A", " "}, nil, []Entry{entry(1, "A", "1"), entry(4, "A", "4")}},
		{"exclude", nil, []string{" B "}, []Entry{entry(1, "A", "1"), entry(3, "C", "3"), entry(4, "A", "4")}},
		{"only and exclude", []string{"A", "C"}, []string{"A"}, []Entry{entry(3, "C", "3")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(entries, tt.only, tt.exclude)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMap_LastWins(t *testing.T) {
	got := Map([]Entry{entry(1, "A", "1"), entry(2, "B", "2"), entry(3, "A", "3")})
	assert.Equal(t, map[string]string{"A": "3", "B": "2"}, got)
}

func TestScan_LongLine(t *testing.T) {
	long := strings.Repeat("x", 70000)
	input := "A=1\nB=" + long + "\nC=3\n"

	got, err := Scan(strings.NewReader(input), Options{Comment: "#"})
	require.NoError(t, err)
	assert.Equal(t, []Entry{entry(1, "A", "1"), entry(2, "B", long), entry(3, "C", "3")}, got)
}

func TestScan_LineTooLong(t *testing.T) {
	input := "A=1\nB=" + strings.Repeat("x", MaxLineSize) + "\n"

	_, err := Scan(strings.NewReader(input), Options{})
	require.Error(t, err)
}
