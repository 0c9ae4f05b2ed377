// Package action performs the side effect of a selection.
package action

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/raphi011/shelf/internal/git"
	"github.com/raphi011/shelf/internal/history"
	"github.com/raphi011/shelf/internal/log"
	"github.com/raphi011/shelf/internal/output"
	"github.com/raphi011/shelf/internal/picker"
	"github.com/raphi011/shelf/internal/scan"
	"github.com/raphi011/shelf/internal/target"
)

// WindowRenamer renames the current terminal multiplexer window.
// *tmux.Client satisfies it.
type WindowRenamer interface {
	RenameWindow(ctx context.Context, name string) error
}

// Checkouter switches the work tree. *git.Repo satisfies it.
type Checkouter interface {
	CheckoutBranch(ctx context.Context, b git.Branch) error
	CheckoutCommit(ctx context.Context, id string) error
}

// ProjectOptions controls the extra effects of a project selection.
type ProjectOptions struct {
	// Copy writes the path to the system clipboard.
	Copy bool
	// Window, when set, is renamed to the project title.
	Window WindowRenamer
	// HistoryFile, when set, records the selection.
	HistoryFile string
	// CopyFunc replaces the system clipboard; tests only.
	CopyFunc func(string) error
}

// Dispatch runs the action matching the kind of sel. A nil selection is a
// successful no-op.
func Dispatch(ctx context.Context, sel picker.Candidate, repo Checkouter, opts ProjectOptions) error {
	switch c := sel.(type) {
	case nil:
		log.FromContext(ctx).Warnf("no selection was made")
		return nil
	case *picker.TargetItem:
		return Target(ctx, repo, c.Target)
	case *picker.ProjectItem:
		return Project(ctx, c.Project, opts)
	default:
		return fmt.Errorf("unsupported selection %T", sel)
	}
}

// Project prints the path of p on stdout and applies the optional effects.
// Failures of the optional effects are logged, not returned.
func Project(ctx context.Context, p scan.Project, opts ProjectOptions) error {
	l := log.FromContext(ctx)

	if err := output.FromContext(ctx).Path(p.Path); err != nil {
		return err
	}

	if opts.Copy {
		write := opts.CopyFunc
		if write == nil {
			write = clipboard.WriteAll
		}
		if err := write(p.Path); err != nil {
			l.Warnf("could not copy %s to the clipboard: %v", p.Path, err)
		}
	}

	if opts.Window != nil {
		if err := opts.Window.RenameWindow(ctx, p.Title); err != nil {
			l.Warnf("could not rename window: %v", err)
		}
	}

	if opts.HistoryFile != "" {
		e := history.Entry{Path: p.Path, Type: p.Type, Title: p.Title}
		if err := history.Record(opts.HistoryFile, e); err != nil {
			l.Warnf("could not record history: %v", err)
		}
	}
	return nil
}

// Target checks out the first branch of t, or the bare commit when t has
// no branch.
func Target(ctx context.Context, repo Checkouter, t target.Target) error {
	l := log.FromContext(ctx)

	if len(t.Branches) > 0 {
		b := t.Branches[0]
		l.Infof("checking out %s", b.Name)
		return repo.CheckoutBranch(ctx, b)
	}
	l.Infof("checking out %s", t.Commit.ID)
	return repo.CheckoutCommit(ctx, t.Commit.ID)
}
