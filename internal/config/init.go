package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spf13/viper"
)

const EnvPrefix = "PROPLINE"

// Formats accepted by the format setting.
var Formats = []string{"env", "json", "yaml", "raw"}

// Shells accepted by the shell setting.
var Shells = []string{"auto", "sh", "pwsh", "cmd"}

type Settings struct {
	Separator rune
	Comment   string
	Format    string
	Strict    bool
	Shell     string
}

// InitConfig points v at the config file and registers defaults. A missing
// config file is not an error.
func InitConfig(v *viper.Viper, configFile string) error {
	if configFile == "" {
		configFile = os.Getenv(EnvPrefix + "_CONFIG_FILE")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if exePath, err := os.Executable(); err == nil {
			v.AddConfigPath(filepath.Dir(exePath))
		}
		v.AddConfigPath(".")
	}

	v.SetDefault("separator", "=")
	v.SetDefault("comment", "#")
	v.SetDefault("format", "env")
	v.SetDefault("strict", false)
	v.SetDefault("shell", "auto")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var configFileNotFoundError viper.ConfigFileNotFoundError
	if err := v.ReadInConfig(); err != nil {
		if errors.As(err, &configFileNotFoundError) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load decodes and validates the settings held by v.
func Load(v *viper.Viper) (Settings, error) {
	sep, err := parseSeparator(v.GetString("separator"))
	if err != nil {
		return Settings{}, err
	}

	format := strings.ToLower(strings.TrimSpace(v.GetString("format")))
	if !oneOf(format, Formats) {
		return Settings{}, fmt.Errorf("invalid format %q (allowed: %s)", format, strings.Join(Formats, ", "))
	}

	shell := strings.ToLower(strings.TrimSpace(v.GetString("shell")))
	if shell == "" {
		shell = "auto"
	}
	if !oneOf(shell, Shells) {
		return Settings{}, fmt.Errorf("invalid shell %q (allowed: %s)", shell, strings.Join(Shells, ", "))
	}

	return Settings{
		Separator: sep,
		Comment:   v.GetString("comment"),
		Format:    format,
		Strict:    v.GetBool("strict"),
		Shell:     shell,
	}, nil
}

// parseSeparator accepts exactly one non-whitespace, non-NUL character.
func parseSeparator(s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("invalid separator %q: must be a single character", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == 0 || r == utf8.RuneError || unicode.IsSpace(r) {
		return 0, fmt.Errorf("invalid separator %q: NUL, whitespace and invalid UTF-8 are not allowed", s)
	}
	return r, nil
}

func oneOf(s string, allowed []string) bool {
	for _, a := range allowed {
		if a == s {
			return true
		}
	}
	return false
}
