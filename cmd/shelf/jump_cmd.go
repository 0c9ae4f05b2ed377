package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/raphi011/shelf/internal/action"
	"github.com/raphi011/shelf/internal/git"
	"github.com/raphi011/shelf/internal/log"
	"github.com/raphi011/shelf/internal/picker"
	"github.com/raphi011/shelf/internal/target"
)

func newJumpCmd() *cobra.Command {
	var (
		root        string
		useAuthor   bool
		allBranches bool
		details     bool
		noPreview   bool
	)

	cmd := &cobra.Command{
		Use:         "jump",
		Short:       "Pick a branch tip and check it out",
		GroupID:     GroupPicker,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{needsGit: "true"},
		Long: `Pick a branch tip of the current repository and check it out.

Every distinct tip commit is listed once, most recent first, with the
branches pointing at it. Branches merged into origin/HEAD are greyed out.`,
		Example: `  shelf jump
  shelf jump --author --all-branches
  shelf jump --root ~/src/shelf --details`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			start := root
			if start == "" {
				wd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("failed to get working directory: %w", err)
				}
				start = wd
			}

			repo, err := git.Discover(ctx, start)
			if err != nil {
				return err
			}
			l.Debugf("using %s as repository", repo.Path)

			opts := target.Options{ShowAllBranches: allBranches, RepoPath: repo.Path}
			if useAuthor {
				opts.Filter.Author = repo.UserName(ctx)
				if opts.Filter.Author == "" {
					return errors.New("--author needs user.name to be configured")
				}
			}

			if err := requireTerminal(); err != nil {
				return err
			}

			fe := &picker.Finder{Prompt: "branch", NoPreview: noPreview}
			sel, err := picker.Run(ctx, fe, picker.TargetSource(repo, opts, details))
			if err != nil {
				return err
			}
			return action.Dispatch(ctx, sel, repo, action.ProjectOptions{})
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "Start repository discovery here instead of the working directory")
	cmd.Flags().BoolVar(&useAuthor, "author", false, "Only list branches whose tip was authored by you")
	cmd.Flags().BoolVar(&allBranches, "all-branches", false, "List every branch of a tip instead of the first")
	cmd.Flags().BoolVar(&details, "details", false, "Preview target details instead of the commit graph")
	cmd.Flags().BoolVar(&noPreview, "no-preview", false, "Never show the preview pane")
	_ = cmd.MarkFlagDirname("root")

	return cmd
}
