// Package target aggregates branches into one record per distinct tip commit
// and classifies each record against the repository's primary reference.
package target

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/raphi011/shelf/internal/git"
	"github.com/raphi011/shelf/internal/log"
)

// Querier is the subset of repository queries the aggregator needs.
// *git.Repo satisfies it.
type Querier interface {
	ListBranches(ctx context.Context) ([]git.Branch, error)
	ResolveBranchTip(ctx context.Context, b git.Branch) (git.Commit, error)
	MergeBase(ctx context.Context, a, b string) (string, error)
	ResolvePrimary(ctx context.Context) (*git.Commit, error)
}

// Target is one distinct tip commit and the branches pointing at it.
type Target struct {
	Commit git.Commit
	// Branches is sorted with git.CompareBranches and never holds two
	// entries with the same ref name.
	Branches []git.Branch
	// IsMerged is set when the commit is an ancestor of (or equal to) the primary tip.
	IsMerged bool
	// IsPrimary is set when the commit is the primary tip itself.
	IsPrimary bool
	RepoPath  string
}

// Head returns the checked-out branch on this target, if any.
func (t Target) Head() (git.Branch, bool) {
	for _, b := range t.Branches {
		if b.Head {
			return b, true
		}
	}
	return git.Branch{}, false
}

// Filter decides which branches take part in aggregation.
type Filter struct {
	// Author, when set, keeps only branches whose tip was authored by this name.
	Author string
}

// Accept reports whether b with tip c passes the filter.
// The origin/HEAD alias is always rejected.
func (f Filter) Accept(b git.Branch, c git.Commit) bool {
	if b.RefName == git.OriginHead {
		return false
	}
	if f.Author != "" && c.Author != f.Author {
		return false
	}
	return true
}

// Options configures Build.
type Options struct {
	Filter Filter
	// ShowAllBranches keeps every branch on a target instead of only the first.
	ShowAllBranches bool
	// RepoPath is copied onto every target.
	RepoPath string
}

// Build returns one Target per distinct tip commit, most recent first.
//
// Per-branch failures are logged and the branch is skipped. Only a failure to
// list branches is returned.
func Build(ctx context.Context, q Querier, opts Options) ([]Target, error) {
	l := log.FromContext(ctx)

	branches, err := q.ListBranches(ctx)
	if err != nil {
		return nil, fmt.Errorf("aggregate targets: %w", err)
	}

	byRef := make(map[string]git.Branch, len(branches))
	for _, b := range branches {
		byRef[b.RefName] = b
	}

	byID := make(map[string]*Target)
	var order []string

	for _, b := range branches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		tip, err := q.ResolveBranchTip(ctx, b)
		if err != nil {
			l.Warnf("skipping branch %s: %v", b.Name, err)
			continue
		}
		if !opts.Filter.Accept(b, tip) {
			l.Debugf("filtered branch %s", b.Name)
			continue
		}

		b.Status = status(ctx, q, b, tip, byRef)

		t, ok := byID[tip.ID]
		if !ok {
			t = &Target{Commit: tip, RepoPath: opts.RepoPath}
			byID[tip.ID] = t
			order = append(order, tip.ID)
		}
		if !slices.ContainsFunc(t.Branches, func(o git.Branch) bool { return o.RefName == b.RefName }) {
			t.Branches = append(t.Branches, b)
		}
	}

	primary, err := q.ResolvePrimary(ctx)
	if err != nil {
		l.Warnf("primary reference unavailable: %v", err)
	}

	targets := make([]Target, 0, len(order))
	for _, id := range order {
		t := byID[id]
		slices.SortStableFunc(t.Branches, git.CompareBranches)
		if !opts.ShowAllBranches && len(t.Branches) > 1 {
			t.Branches = t.Branches[:1:1]
		}
		if primary != nil {
			classify(ctx, q, t, primary.ID)
		}
		targets = append(targets, *t)
	}

	slices.SortStableFunc(targets, func(a, b Target) int {
		if c := b.Commit.Time.Compare(a.Commit.Time); c != 0 {
			return c
		}
		return cmp.Compare(a.Commit.ID, b.Commit.ID)
	})

	l.Infof("aggregated %d branches into %d targets", len(branches), len(targets))
	return targets, nil
}

// status compares b (at tip) with its upstream. An unresolvable upstream is
// treated as no upstream; a failed merge-base lookup is reported as Behind.
// Listed upstreams are resolved through their listed entry so the tip cache
// applies.
func status(ctx context.Context, q Querier, b git.Branch, tip git.Commit, byRef map[string]git.Branch) git.Status {
	if b.Upstream == "" {
		return git.Unique
	}
	upstream, ok := byRef[b.Upstream]
	if !ok {
		upstream = git.Branch{Name: b.Upstream, RefName: b.Upstream}
	}
	up, err := q.ResolveBranchTip(ctx, upstream)
	if err != nil {
		log.FromContext(ctx).Debugf("upstream %s of %s: %v", b.Upstream, b.Name, err)
		return git.Unique
	}
	if up.ID == tip.ID {
		return git.Match
	}
	base, err := q.MergeBase(ctx, tip.ID, up.ID)
	if err != nil {
		log.FromContext(ctx).Debugf("merge-base %s/%s: %v", b.Name, b.Upstream, err)
		return git.Behind
	}
	if base == up.ID {
		return git.Ahead
	}
	return git.Behind
}

// classify sets the merged and primary flags of t. On a merge-base failure
// both stay false.
func classify(ctx context.Context, q Querier, t *Target, primary string) {
	base, err := q.MergeBase(ctx, primary, t.Commit.ID)
	if err != nil {
		log.FromContext(ctx).Debugf("merge-base with primary for %s: %v", t.Commit.ID, err)
		return
	}
	t.IsMerged = base == t.Commit.ID
	t.IsPrimary = primary == t.Commit.ID
}
