package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/raphi011/shelf/internal/git"
	"github.com/raphi011/shelf/internal/log"
	"github.com/raphi011/shelf/internal/output"
	"github.com/raphi011/shelf/internal/ui/styles"
)

var (
	// Global flags
	verbosity  int
	logFile    string
	themeName  string
	noNerdfont bool

	// set up in PersistentPreRunE
	logger    = log.New(os.Stderr, 0)
	logCloser io.Closer
)

// needsGit marks commands that shell out to git.
const needsGit = "shelf/needs-git"

// Command group IDs for organizing help output
const (
	GroupPicker  = "picker"
	GroupUtility = "utility"
)

var rootCmd = &cobra.Command{
	Use:   "shelf",
	Short: "Fuzzy picker for git branches and project directories",
	Long: `shelf streams candidates into an interactive fuzzy finder and acts on the
one you pick.

  shelf jump             check out a branch tip of the current repository
  shelf project preset   print the path of a configured project

The picker draws on stderr; only the result is written to stdout, so
cd "$(shelf project preset)" works as expected.`,
	SilenceUsage:               true,
	SilenceErrors:              true,
	SuggestionsMinimumDistance: 2,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if logFile != "" {
			logger, logCloser = log.NewFile(logFile, verbosity)
		} else {
			logger = log.New(os.Stderr, verbosity)
		}
		cmd.SetContext(log.WithLogger(cmd.Context(), logger))

		if err := styles.Init(themeName); err != nil {
			return err
		}
		styles.SetNerdfont(!noNerdfont)

		if cmd.Annotations[needsGit] == "" {
			return nil
		}
		return git.CheckGit()
	},
}

// Execute runs the root command and exits with its status.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	ctx = log.WithLogger(ctx, logger)
	ctx = output.WithPrinter(ctx, os.Stdout)
	rootCmd.SetContext(ctx)

	code := 0
	if err := rootCmd.Execute(); err != nil {
		code = report(logger, os.Stderr, err)
	}

	logger.Sync()
	if logCloser != nil {
		_ = logCloser.Close()
	}
	cancel()
	os.Exit(code)
}

// report prints err as a single line and logs its cause chain at debug.
// Cancellation is not an error.
func report(l *log.Logger, w io.Writer, err error) int {
	if errors.Is(err, context.Canceled) {
		l.Debugf("cancelled: %v", err)
		return 0
	}
	if l.Enabled() {
		for i, cause := range causeChain(err) {
			l.Debug("error chain", "depth", i, "cause", cause)
		}
	}
	fmt.Fprintf(w, "shelf: %v\n", err)
	return 1
}

// causeChain returns the message of err and of every error it wraps.
func causeChain(err error) []string {
	var chain []string
	for err != nil {
		chain = append(chain, err.Error())
		err = errors.Unwrap(err)
	}
	return chain
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v info, -vv debug, -vvv trace commands)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to a rotated file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "default", "Color theme")
	rootCmd.PersistentFlags().BoolVar(&noNerdfont, "no-nerdfont", false, "Use plain ASCII instead of Nerd Font symbols")

	_ = rootCmd.RegisterFlagCompletionFunc("theme", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return styles.ThemeNames(), cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.AddGroup(
		&cobra.Group{ID: GroupPicker, Title: "Picker Commands:"},
		&cobra.Group{ID: GroupUtility, Title: "Utility Commands:"},
	)

	rootCmd.AddCommand(newJumpCmd())
	rootCmd.AddCommand(newProjectCmd())
	rootCmd.AddCommand(newTmuxCmd())
	rootCmd.AddCommand(newCompletionCmd())
}
