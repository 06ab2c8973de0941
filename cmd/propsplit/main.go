package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"propline/internal/config"
	"propline/internal/env"
	"propline/internal/run"
	"propline/internal/utils"
	"propline/internal/version"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("propsplit: ")

	if err := newRootCmd(viper.New()).Execute(); err != nil {
		var exitErr *exitCodeError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		log.Fatal(err)
	}
}

// exitCodeError carries the exit status of a child started by run.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("command exited with status %d", e.code)
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	var configFile string
	var settings config.Settings

	cmdRoot := &cobra.Command{
		Use:           "propsplit",
		Short:         "split key/value lines into properties",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.InitConfig(v, configFile); err != nil {
				return err
			}
			s, err := config.Load(v)
			if err != nil {
				return err
			}
			settings = s
			return nil
		},
	}

	pf := cmdRoot.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file (default: config.yaml next to the executable)")
	pf.StringP("separator", "s", "=", "separator character between key and value")
	pf.StringP("comment", "c", "#", "comment prefix; lines starting with it are skipped (empty disables)")
	pf.Bool("strict", false, "fail on malformed lines instead of skipping them")
	for _, name := range []string{"separator", "comment", "strict"} {
		if err := v.BindPFlag(name, pf.Lookup(name)); err != nil {
			log.Fatal(err)
		}
	}

	cmdRoot.AddCommand(cmdSplit(v, &settings))
	cmdRoot.AddCommand(cmdRun(&settings))
	cmdRoot.AddCommand(cmdVersion())
	return cmdRoot
}

func cmdSplit(v *viper.Viper, settings *config.Settings) *cobra.Command {
	var only, exclude []string
	var applyOneLiner bool
	cmd := &cobra.Command{
		Use:   "split [file...]",
		Short: "print the properties found in the input (stdin when no file is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if applyOneLiner {
				shell := utils.ResolveShell(settings.Shell)
				_, err := fmt.Fprintln(cmd.OutOrStdout(), oneLinerForShell(shell, exeName(), args))
				return err
			}
			entries, err := readEntries(cmd.InOrStdin(), args, optionsFrom(*settings))
			if err != nil {
				return err
			}
			entries = env.Filter(entries, only, exclude)
			shell := utils.ResolveShell(settings.Shell)
			return writeEntries(cmd.OutOrStdout(), entries, settings.Format, shell, settings.Separator)
		},
	}
	cmd.Flags().StringP("format", "f", "env", "output format: env|json|yaml|raw")
	cmd.Flags().String("shell", "auto", "shell for env output: auto|sh|pwsh|cmd")
	cmd.Flags().StringSliceVar(&only, "only", nil, "comma-separated list of keys to include")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "comma-separated list of keys to exclude")
	cmd.Flags().BoolVar(&applyOneLiner, "apply-one-liner", false, "print a shell-specific one-liner that applies the properties in the current shell")
	for _, name := range []string{"format", "shell"} {
		if err := v.BindPFlag(name, cmd.Flags().Lookup(name)); err != nil {
			log.Fatal(err)
		}
	}
	return cmd
}

func cmdRun(settings *config.Settings) *cobra.Command {
	files := []string{".env"}
	cmd := &cobra.Command{
		Use:   "run [flags] -- command [args...]",
		Short: "run a command with the properties as environment variables",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(files) == 0 {
				return errors.New("run requires at least one --env-file")
			}
			entries, err := readEntries(nil, files, optionsFrom(*settings))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err = run.CommandWithEnv(ctx, args[0], args[1:], env.Map(entries))
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				return &exitCodeError{code: exitErr.ExitCode()}
			}
			if err != nil {
				return fmt.Errorf("command failed: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&files, "env-file", "e", files, "files to read properties from")
	return cmd
}

func cmdVersion() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the version",
		// skip config loading
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(*cobra.Command, []string) {
			version.PrintVersion()
		},
	}
}

func exeName() string {
	return filepath.Base(os.Args[0])
}

func optionsFrom(s config.Settings) env.Options {
	return env.Options{Separator: s.Separator, Comment: s.Comment, Strict: s.Strict}
}

// readEntries scans stdin when paths is empty, otherwise each path in order.
func readEntries(stdin io.Reader, paths []string, opts env.Options) ([]env.Entry, error) {
	if len(paths) == 0 {
		return env.Scan(stdin, opts)
	}

	var out []env.Entry
	for _, path := range paths {
		entries, err := scanFile(path, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, entries...)
	}
	return out, nil
}

func scanFile(path string, opts env.Options) ([]env.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entries, err := env.Scan(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}
