package main

import (
	"errors"
	"os"

	"github.com/mattn/go-isatty"
)

var errNoTerminal = errors.New("the picker needs a terminal on stdin and stderr")

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// requireTerminal fails when the interactive picker could not be drawn.
func requireTerminal() error {
	if !isTerminal(os.Stdin) || !isTerminal(os.Stderr) {
		return errNoTerminal
	}
	return nil
}
