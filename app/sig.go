package app

import (
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"
)

// TrapSignals restores the terminal's prior cooked/raw state before exiting
// on SIGTERM/SIGINT/SIGQUIT, so an InlinePrompt left mid-raw-mode (e.g. a
// y/n/q confirmation interrupted by Ctrl-C) never leaves the caller's shell
// broken.
func TrapSignals() {
	prev, err := term.GetState(int(os.Stdin.Fd()))
	if err != nil {
		prev = nil
	}

	caught := make(chan os.Signal, 1)
	signal.Notify(caught, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	for range caught {
		term.Restore(int(os.Stdin.Fd()), prev)
		os.Exit(1)
	}
}
