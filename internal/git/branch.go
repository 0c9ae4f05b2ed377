package git

import (
	"strings"
	"time"
)

// OriginHead is the symbolic ref pointing at the remote's default branch.
const OriginHead = "refs/remotes/origin/HEAD"

const (
	localPrefix  = "refs/heads/"
	remotePrefix = "refs/remotes/"
)

// Commit is a commit read from the object store.
type Commit struct {
	ID      string
	Message string
	Author  string
	// Time is the author date in the author's own zone offset.
	Time time.Time
}

// Subject returns the first line of the commit message, trimmed.
func (c Commit) Subject() string {
	subject, _, _ := strings.Cut(c.Message, "\n")
	return strings.TrimSpace(subject)
}

// Kind distinguishes local branches from remote-tracking branches.
type Kind int

const (
	Local Kind = iota
	Remote
)

func (k Kind) String() string {
	if k == Remote {
		return "remote"
	}
	return "local"
}

// Status is the relation between a branch and its upstream.
type Status int

const (
	// Unique means there is no upstream to compare against.
	Unique Status = iota
	// Match means the branch and its upstream point at the same commit.
	Match
	// Ahead means the upstream is an ancestor of the branch.
	Ahead
	// Behind covers every other case, including a failed merge-base lookup.
	Behind
)

func (s Status) String() string {
	switch s {
	case Match:
		return "match"
	case Ahead:
		return "ahead"
	case Behind:
		return "behind"
	default:
		return "unique"
	}
}

// Branch is a local or remote-tracking branch.
type Branch struct {
	// Name is the short name, e.g. "main" or "origin/main".
	Name string
	// RefName is the full ref, e.g. "refs/heads/main".
	RefName string
	Kind    Kind
	// Head is set for the currently checked-out branch.
	Head bool
	// Upstream is the full ref name of the configured upstream, if any.
	Upstream string
	// Object is the object id the ref points at, before peeling.
	Object string
	Status Status
}

// LocalName returns the branch name without refs/heads/, or "" for remote branches.
func (b Branch) LocalName() string {
	name, ok := strings.CutPrefix(b.RefName, localPrefix)
	if !ok {
		return ""
	}
	return name
}

// CompareBranches orders local before remote, then by ref name, then the
// checked-out branch after any other branch with the same ref name.
// It returns a negative number when a sorts before b.
func CompareBranches(a, b Branch) int {
	if a.Kind != b.Kind {
		if a.Kind == Local {
			return -1
		}
		return 1
	}
	if c := strings.Compare(a.RefName, b.RefName); c != 0 {
		return c
	}
	switch {
	case a.Head == b.Head:
		return 0
	case b.Head:
		return -1
	default:
		return 1
	}
}

func kindOf(refName string) (Kind, bool) {
	switch {
	case strings.HasPrefix(refName, localPrefix):
		return Local, true
	case strings.HasPrefix(refName, remotePrefix):
		return Remote, true
	default:
		return 0, false
	}
}
