package picker

import (
	"context"
	"path/filepath"
	"time"

	"github.com/raphi011/shelf/internal/config"
	"github.com/raphi011/shelf/internal/git"
	"github.com/raphi011/shelf/internal/scan"
	"github.com/raphi011/shelf/internal/target"
)

// TargetSource aggregates the branches of repo once and emits every target
// in aggregate order.
func TargetSource(repo *git.Repo, opts target.Options, details bool) Source {
	return func(ctx context.Context, emit func(Candidate) error) error {
		targets, err := target.Build(ctx, repo, opts)
		if err != nil {
			return err
		}
		now := time.Now()
		for _, t := range targets {
			if err := emit(NewTargetItem(t, repo, details, now)); err != nil {
				return err
			}
		}
		return nil
	}
}

// ManualProject turns a configured directory into a project. The label
// defaults to the directory name.
func ManualProject(d config.ManualDirectory) scan.Project {
	title := d.Label
	if title == "" {
		title = filepath.Base(d.Path)
	}
	return scan.Project{Path: d.Path, Type: "directory", Title: title}
}

// ProjectSource emits the manual directories first, then every repository
// found by scanning groups.
func ProjectSource(dirs []config.ManualDirectory, groups []scan.Group, scanner *scan.Scanner) Source {
	return func(ctx context.Context, emit func(Candidate) error) error {
		for _, d := range dirs {
			if err := emit(NewProjectItem(ManualProject(d))); err != nil {
				return err
			}
		}
		return scanner.Scan(ctx, groups, func(p scan.Project) error {
			return emit(NewProjectItem(p))
		})
	}
}
