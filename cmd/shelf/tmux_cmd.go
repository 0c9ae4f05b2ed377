package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/raphi011/shelf/internal/log"
	"github.com/raphi011/shelf/internal/output"
	"github.com/raphi011/shelf/internal/tmux"
)

func newTmuxCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "tmux",
		Short:   "Show the current tmux window",
		GroupID: GroupUtility,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			c := tmux.Detect(os.LookupEnv)
			if c == nil {
				log.FromContext(ctx).Warnf("not inside tmux")
				return nil
			}

			idx, err := c.WindowIndex(ctx)
			if err != nil {
				return err
			}
			name, err := c.WindowName(ctx)
			if err != nil {
				return err
			}
			panes, err := c.PaneCount(ctx)
			if err != nil {
				return err
			}
			output.FromContext(ctx).Printf("Tmux #%d [%s] panes=%d\n", idx, name, panes)
			return nil
		},
	}
}
