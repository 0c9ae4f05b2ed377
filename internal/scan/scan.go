// Package scan discovers git repositories below configured project roots.
//
// A scan is driven by an explicit FIFO queue of (group, parent) entries.
// Each entry walks its group's root; every repository found is labeled
// with the group's extractor and, for recursive groups, queued again as a
// new root so that nested repositories are found in a later iteration.
package scan

import (
	"context"
	"fmt"
	"regexp"

	"github.com/raphi011/shelf/internal/config"
	"github.com/raphi011/shelf/internal/log"
)

// Project is a discovered repository.
type Project struct {
	Path string
	// Type is the owning group's title, or "<parent type>/<parent title>"
	// for repositories found by recursion.
	Type  string
	Title string
}

// Extractor derives a project title from a path with a group's Extract regex.
type Extractor struct {
	group config.ProjectGroup
	re    *regexp.Regexp
}

// NewExtractor compiles the extract pattern of g.
func NewExtractor(g config.ProjectGroup) (*Extractor, error) {
	re, err := regexp.Compile(g.Extract)
	if err != nil {
		return nil, fmt.Errorf("group %q: extract pattern: %w", g.Title, err)
	}
	return &Extractor{group: g, re: re}, nil
}

// Extract labels the repository at path. It reports false when the pattern
// does not match or its first capture group is empty.
func (e *Extractor) Extract(path string, parent *Project) (Project, bool) {
	m := e.re.FindStringSubmatch(path)
	if len(m) < 2 || m[1] == "" {
		return Project{}, false
	}
	typ := e.group.Title
	if parent != nil {
		typ = parent.Type + "/" + parent.Title
	}
	return Project{Path: path, Type: typ, Title: m[1]}, true
}

// DefaultGroup is the fallback used when a group's own extractor fails.
func DefaultGroup() config.ProjectGroup {
	return config.ProjectGroup{Title: "unknown", Extract: "(.*)"}
}

// DefaultExtractor returns an extractor for DefaultGroup. It matches every
// non-empty path.
func DefaultExtractor() *Extractor {
	g := DefaultGroup()
	return &Extractor{group: g, re: regexp.MustCompile(g.Extract)}
}

// Group is a project group with its patterns compiled.
type Group struct {
	config.ProjectGroup
	exclude []*regexp.Regexp
	extract *Extractor
}

// Compile validates and compiles the patterns of every group. Any invalid
// pattern fails the whole call so that no scan starts half-configured.
func Compile(groups []config.ProjectGroup) ([]Group, error) {
	out := make([]Group, 0, len(groups))
	for _, g := range groups {
		root, err := config.ExpandPath(g.Root)
		if err != nil {
			return nil, err
		}
		g.Root = root

		ex, err := NewExtractor(g)
		if err != nil {
			return nil, err
		}
		excl := make([]*regexp.Regexp, 0, len(g.Exclude))
		for _, pat := range g.Exclude {
			re, err := regexp.Compile(pat)
			if err != nil {
				return nil, fmt.Errorf("group %q: exclude pattern %q: %w", g.Title, pat, err)
			}
			excl = append(excl, re)
		}
		out = append(out, Group{ProjectGroup: g, exclude: excl, extract: ex})
	}
	return out, nil
}

// rooted returns a copy of g scanning from root instead.
func (g Group) rooted(root string) Group {
	g.Root = root
	return g
}

type entry struct {
	group  Group
	parent *Project
}

// Scanner runs queued scans.
type Scanner struct {
	fallback *Extractor
}

// NewScanner returns a scanner that labels unmatched repositories with fallback.
func NewScanner(fallback *Extractor) *Scanner {
	return &Scanner{fallback: fallback}
}

// Scan walks every group and calls emit for each repository in discovery
// order. The first emit error stops the scan and is returned.
func (s *Scanner) Scan(ctx context.Context, groups []Group, emit func(Project) error) error {
	l := log.FromContext(ctx)

	queue := make([]entry, 0, len(groups))
	for _, g := range groups {
		queue = append(queue, entry{group: g})
	}

	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		l.Debugf("scanning %s (%s)", e.group.Root, e.group.Title)

		for path := range Walk(ctx, e.group.Root, e.group.exclude) {
			p, ok := e.group.extract.Extract(path, e.parent)
			if !ok {
				p, ok = s.fallback.Extract(path, e.parent)
			}
			if !ok {
				l.Warnf("could not label %s", path)
				continue
			}
			if err := emit(p); err != nil {
				return err
			}
			if e.group.Recurse {
				queue = append(queue, entry{group: e.group.rooted(p.Path), parent: &p})
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}
