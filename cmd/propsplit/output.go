package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"propline/internal/env"
)

type record struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
	Line  int    `json:"line" yaml:"line"`
}

func toRecords(entries []env.Entry) []record {
	out := make([]record, 0, len(entries))
	for _, e := range entries {
		out = append(out, record{Key: e.Key, Value: e.Value, Line: e.Line})
	}
	return out
}

var envName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func quoteForSh(v string) string {
	if v == "" {
		return "''"
	}
	if !strings.ContainsAny(v, " \t'\"\\$`;&|<>()*?[]#~") {
		return v
	}
	return "'" + strings.ReplaceAll(v, "'", `'\''`) + "'"
}

func quoteForPowerShell(v string) string {
	if v == "" {
		return "''"
	}
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}

func quoteForCmd(v string) string {
	if v == "" {
		return `""`
	}
	if !strings.ContainsAny(v, " \t\"&|<>^") {
		return v
	}
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

// writeEnv prints one assignment per entry for the given shell. Keys that are
// not valid variable names are skipped with a warning.
func writeEnv(w io.Writer, entries []env.Entry, shell string) error {
	for _, e := range entries {
		if !envName.MatchString(e.Key) {
			log.Printf("line %d: skipping %q: not a valid variable name", e.Line, e.Key)
			continue
		}
		var err error
		switch shell {
		case "pwsh":
			_, err = fmt.Fprintf(w, "$Env:%s = %s\n", e.Key, quoteForPowerShell(e.Value))
		case "cmd":
			_, err = fmt.Fprintf(w, "set %s=%s\n", e.Key, quoteForCmd(e.Value))
		default:
			_, err = fmt.Fprintf(w, "export %s=%s\n", e.Key, quoteForSh(e.Value))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, entries []env.Entry) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toRecords(entries)); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, entries []env.Entry) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(toRecords(entries)); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func writeRaw(w io.Writer, entries []env.Entry, sep rune) error {
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%s%c%s\n", e.Key, sep, e.Value); err != nil {
			return err
		}
	}
	return nil
}

func writeEntries(w io.Writer, entries []env.Entry, format, shell string, sep rune) error {
	switch format {
	case "env":
		return writeEnv(w, entries, shell)
	case "json":
		return writeJSON(w, entries)
	case "yaml":
		return writeYAML(w, entries)
	case "raw":
		return writeRaw(w, entries, sep)
	default:
		return fmt.Errorf("invalid format %q", format)
	}
}

// oneLinerForShell returns a command that evaluates the env output of
// "exe split files..." in the given shell.
func oneLinerForShell(shell, exe string, files []string) string {
	switch shell {
	case "pwsh":
		return fmt.Sprintf("%s split --format=env --shell=pwsh%s | Invoke-Expression", exe, joinQuoted(files, quoteForPowerShell))
	case "cmd":
		// inside a batch file %L must be written as %%L
		return fmt.Sprintf(`for /f "delims=" %%L in ('%s split --format=env --shell=cmd%s') do @%%L`, exe, joinQuoted(files, quoteForCmd))
	default:
		return fmt.Sprintf(`eval "$(%s split --format=env --shell=sh%s)"`, exe, joinQuoted(files, quoteForSh))
	}
}

func joinQuoted(args []string, quote func(string) string) string {
	var b strings.Builder
	for _, a := range args {
		b.WriteString(" ")
		b.WriteString(quote(a))
	}
	return b.String()
}
