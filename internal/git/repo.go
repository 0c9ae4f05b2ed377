package git

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/raphi011/shelf/internal/cmd"
	"github.com/raphi011/shelf/internal/log"
)

var (
	// ErrNotACommit is returned when a ref cannot be peeled to a commit.
	ErrNotACommit = errors.New("not a commit")
	// ErrNoCommonAncestor is returned by MergeBase for unrelated histories.
	ErrNoCommonAncestor = errors.New("no common ancestor")
)

// Repo is a handle on a git work tree.
//
// It holds no open resources, so it may be shared between goroutines.
type Repo struct {
	// Path is the absolute path of the work tree root.
	Path string
	// GitDir is the absolute path of the .git directory.
	GitDir string

	mu      sync.Mutex
	commits map[string]Commit
}

// Open returns a Repo for a known work tree without running git.
func Open(path string) *Repo {
	return &Repo{Path: path, commits: make(map[string]Commit)}
}

// Discover finds the repository containing start.
func Discover(ctx context.Context, start string) (*Repo, error) {
	out, err := outputGit(ctx, start, "rev-parse", "--show-toplevel", "--absolute-git-dir")
	if err != nil {
		return nil, fmt.Errorf("discover repository from %s: %w", start, err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 2 {
		return nil, fmt.Errorf("discover repository from %s: unexpected rev-parse output %q", start, out)
	}
	r := Open(lines[0])
	r.GitDir = lines[1]
	log.FromContext(ctx).Debugf("discovered repository %s (git dir %s)", r.Path, r.GitDir)
	return r, nil
}

// field separator used in --format strings; unlikely to occur in ref names or author names
const sep = "\x1f"

const branchFormat = "%(refname)%1f%(refname:short)%1f%(HEAD)%1f%(upstream)%1f%(objectname)"

// ListBranches returns all local and remote-tracking branches in ref order.
func (r *Repo) ListBranches(ctx context.Context) ([]Branch, error) {
	out, err := outputGit(ctx, r.Path, "for-each-ref", "--format="+branchFormat, "refs/heads", "refs/remotes")
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	return parseBranches(out)
}

func parseBranches(out []byte) ([]Branch, error) {
	var branches []Branch
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, sep)
		if len(fields) != 5 {
			return nil, fmt.Errorf("malformed for-each-ref line %q", line)
		}
		kind, ok := kindOf(fields[0])
		if !ok {
			continue
		}
		branches = append(branches, Branch{
			RefName:  fields[0],
			Name:     fields[1],
			Kind:     kind,
			Head:     fields[2] == "*",
			Upstream: fields[3],
			Object:   fields[4],
		})
	}
	return branches, sc.Err()
}

// %B is last so a message may contain the separator
const commitFormat = "%H%x1f%an%x1f%at%x1f%ai%x1f%B"

// resolveCommit reads the commit rev peels to.
func (r *Repo) resolveCommit(ctx context.Context, rev string) (Commit, error) {
	out, err := outputGit(ctx, r.Path, "show", "-s", "--no-color", "--format="+commitFormat, rev+"^{commit}", "--")
	if err != nil {
		return Commit{}, fmt.Errorf("%s: %w: %w", rev, ErrNotACommit, err)
	}
	c, err := parseCommit(out)
	if err != nil {
		return Commit{}, fmt.Errorf("%s: %w", rev, err)
	}
	return c, nil
}

func parseCommit(out []byte) (Commit, error) {
	fields := strings.SplitN(string(out), sep, 5)
	if len(fields) != 5 {
		return Commit{}, fmt.Errorf("malformed commit output %q", out)
	}
	secs, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return Commit{}, fmt.Errorf("parse commit time %q: %w", fields[2], err)
	}
	return Commit{
		ID:      fields[0],
		Author:  fields[1],
		Time:    time.Unix(secs, 0).In(zoneOf(fields[3])),
		Message: strings.TrimRight(fields[4], "\n"),
	}, nil
}

// zoneOf returns the fixed zone of an ISO-like date "2006-01-02 15:04:05 -0700".
func zoneOf(iso string) *time.Location {
	t, err := time.Parse("2006-01-02 15:04:05 -0700", strings.TrimSpace(iso))
	if err != nil {
		return time.UTC
	}
	return t.Location()
}

// ResolveBranchTip returns the commit at the tip of b.
// Failures wrap ErrNotACommit. Results are cached per object id.
func (r *Repo) ResolveBranchTip(ctx context.Context, b Branch) (Commit, error) {
	if b.Object != "" {
		r.mu.Lock()
		c, ok := r.commits[b.Object]
		r.mu.Unlock()
		if ok {
			return c, nil
		}
	}

	c, err := r.resolveCommit(ctx, b.RefName)
	if err != nil {
		return Commit{}, err
	}

	if b.Object != "" {
		r.mu.Lock()
		if r.commits == nil {
			r.commits = make(map[string]Commit)
		}
		r.commits[b.Object] = c
		r.mu.Unlock()
	}
	return c, nil
}

// MergeBase returns the id of the best common ancestor of a and b.
// Unrelated histories yield an error wrapping ErrNoCommonAncestor.
func (r *Repo) MergeBase(ctx context.Context, a, b string) (string, error) {
	out, err := outputGit(ctx, r.Path, "merge-base", a, b)
	if err != nil {
		if cmd.ExitCode(err) == 1 {
			return "", fmt.Errorf("merge-base %s %s: %w", a, b, ErrNoCommonAncestor)
		}
		return "", fmt.Errorf("merge-base %s %s: %w", a, b, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// ResolvePrimary returns the commit refs/remotes/origin/HEAD points at.
// A missing ref is not an error: it returns nil, nil.
func (r *Repo) ResolvePrimary(ctx context.Context) (*Commit, error) {
	err := runGit(ctx, r.Path, "rev-parse", "--verify", "--quiet", OriginHead+"^{commit}")
	if err != nil {
		if cmd.ExitCode(err) == 1 {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve %s: %w", OriginHead, err)
	}
	c, err := r.resolveCommit(ctx, OriginHead)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UserName returns the configured user.name, or "" when unset.
func (r *Repo) UserName(ctx context.Context) string {
	out, err := outputGit(ctx, r.Path, "config", "user.name")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// CheckoutBranch checks out b. Local branches become HEAD; remote-tracking
// branches are checked out detached at the ref.
func (r *Repo) CheckoutBranch(ctx context.Context, b Branch) error {
	if b.Kind == Local {
		if err := runGit(ctx, r.Path, "checkout", "--quiet", b.LocalName()); err != nil {
			return fmt.Errorf("checkout %s: %w", b.Name, err)
		}
		return nil
	}
	if err := runGit(ctx, r.Path, "checkout", "--quiet", "--detach", b.RefName); err != nil {
		return fmt.Errorf("checkout %s: %w", b.Name, err)
	}
	return nil
}

// CheckoutCommit detaches HEAD at the commit id.
func (r *Repo) CheckoutCommit(ctx context.Context, id string) error {
	if err := runGit(ctx, r.Path, "checkout", "--quiet", "--detach", id); err != nil {
		return fmt.Errorf("checkout %s: %w", id, err)
	}
	return nil
}

const graphFormat = "%C(red)%h%Creset -%C(bold yellow)%d%Creset %s %Cgreen(%cr) %C(blue)<%an>%Creset"

// GraphLog returns colored `git log --graph` output starting at id.
func (r *Repo) GraphLog(ctx context.Context, id string, limit int) (string, error) {
	args := []string{"log", "--color=always", "--graph", "--topo-order", "--pretty=format:" + graphFormat}
	if limit > 0 {
		args = append(args, "-n", strconv.Itoa(limit))
	}
	args = append(args, id, "--")
	out, err := outputGit(ctx, r.Path, args...)
	if err != nil {
		return "", fmt.Errorf("log %s: %w", id, err)
	}
	return string(out), nil
}
