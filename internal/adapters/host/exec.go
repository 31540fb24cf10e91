package host

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/bnema/animation-wardrobe/internal/ports"
)

var ErrUnavailable = errors.New("command program unavailable")

type runFunc func(ctx context.Context, program string, args ...string) (stdout string, stderr string, err error)

// ExecSink hands each command to an external program as its last argument. A program that
// ran and exited non-zero is reported as ports.ErrCommandRejected so no fallback resends it.
type ExecSink struct {
	program string
	args    []string
	run     runFunc
}

var _ ports.CommandSink = (*ExecSink)(nil)

// NewExecSink splits commandLine on whitespace into program and leading arguments.
func NewExecSink(commandLine string) (*ExecSink, error) {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil, errors.New("exec command is empty")
	}

	return &ExecSink{program: fields[0], args: fields[1:], run: runProgram}, nil
}

func (s *ExecSink) Submit(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	args := append(append([]string(nil), s.args...), text)
	_, stderr, err := s.run(ctx, s.program, args...)
	if err != nil {
		err = formatError(s.program, text, err, stderr)
		// The program started, so the command may already have reached the game.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%w: %w", ports.ErrCommandRejected, err)
		}
		return err
	}

	return nil
}

func runProgram(ctx context.Context, program string, args ...string) (string, string, error) {
	path, err := exec.LookPath(program)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", "", ErrUnavailable
		}
		return "", "", fmt.Errorf("locate %s: %w", program, err)
	}

	cmd := exec.CommandContext(ctx, path, args...)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	return stdout.String(), strings.TrimSpace(stderr.String()), err
}

func formatError(program string, text string, err error, stderr string) error {
	if stderr == "" {
		return fmt.Errorf("%s %q: %w", program, text, err)
	}

	return fmt.Errorf("%s %q: %w: %s", program, text, err, stderr)
}
