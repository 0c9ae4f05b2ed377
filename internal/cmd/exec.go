package cmd

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/raphi011/shelf/internal/log"
)

// Error is returned when a command exits unsuccessfully.
// Its message is the trimmed stderr of the command when there was any.
type Error struct {
	Name     string
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *Error) Error() string {
	if e.Stderr != "" {
		return e.Stderr
	}
	return e.Name + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// ExitCode returns the exit status carried by err, or -1 if err did not
// come from a command that ran to completion.
func ExitCode(err error) int {
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.ExitCode
	}
	return -1
}

func command(ctx context.Context, dir, name string, args []string) *exec.Cmd {
	log.FromContext(ctx).Command(name, args...)
	c := exec.CommandContext(ctx, name, args...)
	if dir != "" {
		c.Dir = dir
	}
	return c
}

func wrap(ctx context.Context, name string, args []string, stderr *bytes.Buffer, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	code := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	}
	return &Error{
		Name:     name,
		Args:     args,
		ExitCode: code,
		Stderr:   strings.TrimSpace(stderr.String()),
		Err:      err,
	}
}

// RunContext executes a command in dir and returns stderr in the error message if it fails.
// A cancelled context is reported as the context's error.
func RunContext(ctx context.Context, dir, name string, args ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c := command(ctx, dir, name, args)
	var stderr bytes.Buffer
	c.Stderr = &stderr
	if err := c.Run(); err != nil {
		return wrap(ctx, name, args, &stderr, err)
	}
	return nil
}

// OutputContext executes a command in dir and returns stdout, with stderr in the error if it fails.
func OutputContext(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c := command(ctx, dir, name, args)
	var stderr bytes.Buffer
	c.Stderr = &stderr
	out, err := c.Output()
	if err != nil {
		return nil, wrap(ctx, name, args, &stderr, err)
	}
	return out, nil
}
