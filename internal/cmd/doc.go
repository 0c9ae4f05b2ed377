// Package cmd runs external programs (git, tmux) for shelf.
//
// A failing command yields an [*Error] whose message is the program's
// trimmed stderr, so that "fatal: not a git repository" reaches the user
// unchanged. The exit status stays available through [ExitCode] for
// callers that give meaning to it, such as git merge-base exiting 1 for
// unrelated histories.
//
// Every command is traced through the context logger at the highest
// verbosity (-vvv) before it starts. A cancelled context is returned as
// the context error rather than wrapped, so callers can test for
// [context.Canceled] directly.
package cmd
