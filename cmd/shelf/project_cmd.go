package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/raphi011/shelf/internal/action"
	"github.com/raphi011/shelf/internal/config"
	"github.com/raphi011/shelf/internal/history"
	"github.com/raphi011/shelf/internal/log"
	"github.com/raphi011/shelf/internal/picker"
	"github.com/raphi011/shelf/internal/scan"
	"github.com/raphi011/shelf/internal/tmux"
)

// projectFlags are shared by every project subcommand.
type projectFlags struct {
	copy         bool
	renameWindow bool
	noPreview    bool
	noHistory    bool
}

func (f *projectFlags) register(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVar(&f.copy, "copy", false, "Copy the selected path to the clipboard")
	cmd.PersistentFlags().BoolVar(&f.renameWindow, "rename-window", false, "Rename the current tmux window to the project title")
	cmd.PersistentFlags().BoolVar(&f.noPreview, "no-preview", false, "Never show the preview pane")
	cmd.PersistentFlags().BoolVar(&f.noHistory, "no-history", false, "Do not record the selection")
}

// options builds the effects applied to the selected project.
func (f *projectFlags) options(ctx context.Context) action.ProjectOptions {
	l := log.FromContext(ctx)
	opts := action.ProjectOptions{Copy: f.copy}

	if f.renameWindow {
		if c := tmux.Detect(os.LookupEnv); c != nil {
			opts.Window = c
		} else {
			l.Warnf("not inside tmux")
		}
	}

	if !f.noHistory {
		path, err := history.Path(os.Getenv)
		if err != nil {
			l.Debugf("history disabled: %v", err)
		} else {
			opts.HistoryFile = path
		}
	}
	return opts
}

func newProjectCmd() *cobra.Command {
	var flags projectFlags

	cmd := &cobra.Command{
		Use:     "project",
		Short:   "Pick a project directory and print its path",
		GroupID: GroupPicker,
		Example: `  cd "$(shelf project preset)"
  cd "$(shelf project dirs ~/src ~/work --git-recurse)"
  cd "$(shelf project last)"`,
	}
	flags.register(cmd)

	cmd.AddCommand(newProjectDirsCmd(&flags))
	cmd.AddCommand(newProjectPresetCmd(&flags))
	cmd.AddCommand(newProjectLastCmd(&flags))
	return cmd
}

func newProjectDirsCmd(flags *projectFlags) *cobra.Command {
	var gitRecurse bool

	cmd := &cobra.Command{
		Use:   "dirs <root>...",
		Short: "Scan the given roots for git repositories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			groups, err := rootGroups(args, gitRecurse)
			if err != nil {
				return err
			}
			return pickProject(cmd.Context(), groups, nil, flags)
		},
	}
	cmd.Flags().BoolVar(&gitRecurse, "git-recurse", false, "Keep scanning inside discovered repositories")
	return cmd
}

func newProjectPresetCmd(flags *projectFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "preset [config]",
		Short: "Scan the project groups of the config file",
		Long: `Scan the project groups and list the directories of the config file.

The config is read from the given path, else from
$XDG_CONFIG_HOME/shelf/shelf.yml, else from ~/.config/shelf/shelf.yml.
Files ending in .toml are read as TOML.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var override string
			if len(args) == 1 {
				override = args[0]
			}
			cfg, err := config.Load(override)
			if err != nil {
				return err
			}
			return pickProject(cmd.Context(), cfg.Projects, cfg.Directories, flags)
		},
	}
}

func newProjectLastCmd(flags *projectFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "last",
		Short: "Print the most recently picked project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path, err := history.Path(os.Getenv)
			if err != nil {
				return err
			}
			e, ok, err := history.Last(path)
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("no project has been picked yet")
			}
			p := scan.Project{Path: e.Path, Type: e.Type, Title: e.Title}
			return action.Project(ctx, p, flags.options(ctx))
		},
	}
}

// rootGroups turns each root into a group titled by the root as given.
// Roots are made absolute so discovered paths are too.
func rootGroups(roots []string, recurse bool) ([]config.ProjectGroup, error) {
	groups := make([]config.ProjectGroup, 0, len(roots))
	for _, root := range roots {
		expanded, err := config.ExpandPath(root)
		if err != nil {
			return nil, err
		}
		expanded, err = filepath.Abs(expanded)
		if err != nil {
			return nil, fmt.Errorf("resolve root %s: %w", root, err)
		}
		groups = append(groups, config.ProjectGroup{
			Root:    expanded,
			Title:   root,
			Extract: "^" + regexp.QuoteMeta(expanded) + "/(.*)",
			Recurse: recurse,
		})
	}
	return groups, nil
}

func pickProject(ctx context.Context, groups []config.ProjectGroup, dirs []config.ManualDirectory, flags *projectFlags) error {
	l := log.FromContext(ctx)

	compiled, err := scan.Compile(groups)
	if err != nil {
		return fmt.Errorf("invalid project group: %w", err)
	}
	for _, g := range compiled {
		l.Debug("project group", "root", g.Root, "title", g.Title, "extract", g.Extract, "recurse", g.Recurse)
	}

	if err := requireTerminal(); err != nil {
		return err
	}

	src := picker.ProjectSource(dirs, compiled, scan.NewScanner(scan.DefaultExtractor()))
	sel, err := picker.Run(ctx, &picker.Finder{Prompt: "project", NoPreview: flags.noPreview}, src)
	if err != nil {
		return err
	}
	return action.Dispatch(ctx, sel, nil, flags.options(ctx))
}
