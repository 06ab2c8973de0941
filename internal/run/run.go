package run

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
)

// CommandWithEnv runs cmdName with the current environment plus env.
// Keys are appended in sorted order so the child sees a stable environment.
func CommandWithEnv(ctx context.Context, cmdName string, cmdArgs []string, env map[string]string) error {
	cmd := exec.CommandContext(ctx, cmdName, cmdArgs...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = mergeEnv(os.Environ(), env)

	if err := cmd.Run(); err != nil {
		return err
	}
	return nil
}

func mergeEnv(base []string, env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	merged := append([]string(nil), base...)
	for _, k := range keys {
		merged = append(merged, fmt.Sprintf("%s=%s", k, env[k]))
	}
	return merged
}
