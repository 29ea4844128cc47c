package bench

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"
	"unicode/utf8"
)

// ErrEmptyCommand is returned when a command has no arguments.
var ErrEmptyCommand = errors.New("empty command")

// maxStderr limits how much of a failing command's stderr ends up in the error.
const maxStderr = 512

// CommandOptions controls how external commands are executed.
type CommandOptions struct {
	// Shell runs the joined arguments through the system shell.
	Shell bool
	// Stdout and Stderr receive the command's output. Both default to
	// io.Discard; stderr is additionally kept for error messages.
	Stdout io.Writer
	Stderr io.Writer
}

// Command returns a benchmark function that runs argv as an external process.
func Command(argv []string, shell bool) (Func, error) {
	return CommandWith(argv, CommandOptions{Shell: shell})
}

// CommandWith is like Command with explicit options.
func CommandWith(argv []string, opts CommandOptions) (Func, error) {
	if len(argv) == 0 || strings.TrimSpace(strings.Join(argv, "")) == "" {
		return nil, ErrEmptyCommand
	}

	name, args := argv[0], argv[1:]
	if opts.Shell {
		name, args = shellCommand(strings.Join(argv, " "))
	} else if _, err := exec.LookPath(name); err != nil {
		return nil, fmt.Errorf("command %q: %w", name, err)
	}

	stdout := opts.Stdout
	if stdout == nil {
		stdout = io.Discard
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = io.Discard
	}

	return func(ctx context.Context) error {
		var captured bytes.Buffer
		cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec // G204: running user supplied commands is the purpose
		cmd.Stdout = stdout
		cmd.Stderr = io.MultiWriter(stderr, &captured)

		if err := cmd.Run(); err != nil {
			msg := strings.TrimSpace(captured.String())
			if len(msg) > maxStderr {
				msg = truncate(msg, maxStderr) + "..."
			}
			if msg != "" {
				return fmt.Errorf("%s: %w: %s", name, err, msg)
			}
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}, nil
}

// CommandName returns a short label for argv.
func CommandName(argv []string) string {
	const limit = 40
	name := strings.Join(argv, " ")
	if len(name) > limit {
		name = truncate(name, limit-3) + "..."
	}
	return name
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func shellCommand(line string) (string, []string) {
	if runtime.GOOS == "windows" {
		return "cmd", []string{"/C", line}
	}
	return "/bin/sh", []string{"-c", line}
}
