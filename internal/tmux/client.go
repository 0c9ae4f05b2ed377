// Package tmux queries and renames the current tmux window.
package tmux

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/raphi011/shelf/internal/cmd"
)

// ErrNotInTmux is returned by every method of a nil *Client.
var ErrNotInTmux = errors.New("not inside tmux")

// Runner runs tmux with args and returns its stdout.
type Runner interface {
	Output(ctx context.Context, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Output(ctx context.Context, args ...string) ([]byte, error) {
	return cmd.OutputContext(ctx, "", "tmux", args...)
}

// Client talks to the tmux server of the current session.
type Client struct {
	run Runner
}

// New returns a client that runs tmux through r.
func New(r Runner) *Client {
	return &Client{run: r}
}

// Detect returns a client when the TMUX session variable is set, and nil
// otherwise. lookup is typically os.LookupEnv.
func Detect(lookup func(string) (string, bool)) *Client {
	if _, ok := lookup("TMUX"); !ok {
		return nil
	}
	return New(execRunner{})
}

func (c *Client) output(ctx context.Context, args ...string) (string, error) {
	if c == nil {
		return "", ErrNotInTmux
	}
	out, err := c.run.Output(ctx, args...)
	if err != nil {
		return "", fmt.Errorf("tmux %s: %w", args[0], err)
	}
	return strings.TrimSpace(string(out)), nil
}

// WindowName returns the name of the current window.
func (c *Client) WindowName(ctx context.Context) (string, error) {
	return c.output(ctx, "display-message", "-p", "#W")
}

// WindowIndex returns the index of the current window.
func (c *Client) WindowIndex(ctx context.Context) (int, error) {
	out, err := c.output(ctx, "display-message", "-p", "#I")
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(out, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("could not parse window index %q: %w", out, err)
	}
	return int(n), nil
}

// PaneCount returns the number of panes in the current window.
func (c *Client) PaneCount(ctx context.Context) (int, error) {
	out, err := c.output(ctx, "list-panes")
	if err != nil {
		return 0, err
	}
	return len(strings.Split(out, "\n")), nil
}

// RenameWindow renames the current window.
func (c *Client) RenameWindow(ctx context.Context, name string) error {
	idx, err := c.WindowIndex(ctx)
	if err != nil {
		return err
	}
	_, err = c.output(ctx, "rename-window", "-t", strconv.Itoa(idx), name)
	return err
}
