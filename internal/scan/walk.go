package scan

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"regexp"

	"github.com/raphi011/shelf/internal/log"
)

// Walk yields every directory below root that directly contains a .git
// entry. It does not descend into a yielded directory, prunes directories
// whose full path matches any exclude pattern, and never yields root itself.
// A symlinked root is followed; yielded paths stay below root as given.
// Unreadable entries are logged and skipped.
func Walk(ctx context.Context, root string, exclude []*regexp.Regexp) iter.Seq[string] {
	return func(yield func(string) bool) {
		l := log.FromContext(ctx)
		root = filepath.Clean(root)

		resolved, err := filepath.EvalSymlinks(root)
		if err != nil {
			l.Debugf("could not resolve %s: %v", root, err)
			return
		}

		_ = filepath.WalkDir(resolved, func(path string, d fs.DirEntry, err error) error {
			if rel, rerr := filepath.Rel(resolved, path); rerr == nil {
				path = filepath.Join(root, rel)
			}
			if err != nil {
				l.Debugf("could not read %s: %v", path, err)
				if d != nil && d.IsDir() && path != root {
					return fs.SkipDir
				}
				return nil
			}
			if ctx.Err() != nil {
				return fs.SkipAll
			}
			if !d.IsDir() || path == root {
				return nil
			}
			if d.Name() == ".git" {
				return fs.SkipDir
			}
			if excluded(path, exclude) {
				return fs.SkipDir
			}
			if !isRepo(path) {
				return nil
			}
			if !yield(path) {
				return fs.SkipAll
			}
			return fs.SkipDir
		})
	}
}

func excluded(path string, exclude []*regexp.Regexp) bool {
	for _, re := range exclude {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// isRepo reports whether dir directly contains a .git file or directory.
func isRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}
