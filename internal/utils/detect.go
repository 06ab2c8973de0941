package utils

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	ps "github.com/mitchellh/go-ps"
)

// ResolveShell maps a --shell value to one of "sh", "pwsh", "cmd".
// "auto" or an empty value detects the calling shell.
func ResolveShell(pref string) string {
	switch pref = strings.ToLower(strings.TrimSpace(pref)); pref {
	case "sh", "pwsh", "cmd":
		return pref
	}
	return DetectShell()
}

// DetectShell returns one of: "sh", "pwsh", "cmd".
func DetectShell() string {
	if proc, err := ps.FindProcess(os.Getpid()); err == nil && proc != nil {
		cur := proc
		for cur != nil && cur.Pid() != 0 {
			if shell, ok := shellFromExecutable(cur.Executable()); ok {
				return shell
			}
			cur, _ = ps.FindProcess(cur.PPid())
		}
	}
	return shellFromEnv(runtime.GOOS, os.Getenv)
}

func shellFromExecutable(exe string) (string, bool) {
	switch strings.ToLower(filepath.Base(exe)) {
	case "cmd.exe", "cmd":
		return "cmd", true
	case "pwsh.exe", "powershell.exe", "pwsh", "powershell":
		return "pwsh", true
	case "bash", "zsh", "sh", "dash", "ksh":
		return "sh", true
	}
	return "", false
}

func shellFromEnv(goos string, getenv func(string) string) string {
	if goos == "windows" {
		if strings.Contains(strings.ToLower(strings.TrimSpace(getenv("COMSPEC"))), "cmd.exe") {
			return "cmd"
		}
		if getenv("PSModulePath") != "" || getenv("PSExecutionPolicyPreference") != "" {
			return "pwsh"
		}
		return "cmd"
	}

	shellEnv := strings.ToLower(strings.TrimSpace(getenv("SHELL")))
	if strings.Contains(shellEnv, "pwsh") || strings.Contains(shellEnv, "powershell") {
		return "pwsh"
	}
	return "sh"
}
