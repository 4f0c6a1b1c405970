package app

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	ansi "github.com/jhunt/go-ansi"
)

// CommandType classifies a registered command, the same tag the teacher's
// cmd_*.go files put on every registration. The "commands" help topic
// lists commands by name and does not group them by type.
type CommandType int

const (
	NonDestructiveCommand CommandType = iota
	DestructiveCommand
	AdministrativeCommand
	HiddenCommand
)

// Handler is the function shape every dispatched command implements.
type Handler func(cmd string, args ...string) error

// Help documents one command for `genesis help <command>` and for its
// entry in the "commands" topic listing.
type Help struct {
	Summary     string
	Usage       string
	Description string
	Type        CommandType
}

// HelpTopic is a freestanding help entry, either derived from a command's
// Help or registered directly (HelpTopic) for topics with no handler, like
// envvars.
type HelpTopic struct {
	Summary     string
	Usage       string
	Description string
	Type        CommandType
}

// Runner is genesis's command dispatch table: every top-level verb
// registers a Handler plus, usually, a Help entry, grounded in the
// teacher's main.go registerXCommands()/r.Execute() split.
type Runner struct {
	Handlers map[string]Handler
	Topics   map[string]*HelpTopic
	order    []string
}

// NewRunner builds an empty Runner ready for Dispatch calls.
func NewRunner() *Runner {
	return &Runner{
		Handlers: map[string]Handler{},
		Topics:   map[string]*HelpTopic{},
	}
}

// Dispatch registers fn as cmd's handler and, when help is non-nil and not
// HiddenCommand, files it under the same name as a help topic.
func (r *Runner) Dispatch(cmd string, help *Help, fn Handler) {
	r.Handlers[cmd] = fn
	r.order = append(r.order, cmd)
	if help == nil || help.Type == HiddenCommand {
		return
	}
	r.Topics[cmd] = &HelpTopic{
		Summary:     help.Summary,
		Usage:       help.Usage,
		Description: strings.TrimSpace(help.Description),
		Type:        help.Type,
	}
}

// HelpTopic registers a help entry with no backing command, the way the
// teacher's registerHelpCommands wires up `envvars`.
func (r *Runner) HelpTopic(name, description string) {
	r.Topics[name] = &HelpTopic{Description: strings.TrimSpace(description)}
}

// Execute runs cmd's registered handler with args, or reports an unknown
// command.
func (r *Runner) Execute(cmd string, args ...string) error {
	fn, ok := r.Handlers[cmd]
	if !ok {
		return fmt.Errorf("unknown command '%s'", cmd)
	}
	return fn(cmd, args...)
}

// ExitWithUsage prints cmd's registered usage line to stderr, prefixed
// "USAGE" (the marker main.go's dispatch loop checks to color usage
// errors differently from operational ones), and exits 2 per the CLI's
// usage/parse-error exit code.
func (r *Runner) ExitWithUsage(cmd string) {
	if t, ok := r.Topics[cmd]; ok && t.Usage != "" {
		ansi.Fprintf(os.Stderr, "@Y{USAGE: %s}\n", t.Usage)
	} else {
		ansi.Fprintf(os.Stderr, "@Y{USAGE: %s}\n", cmd)
	}
	os.Exit(2)
}

// Help renders topic to w: the full command list for "commands", or one
// command/topic's summary/usage/description. An unrecognized topic is a
// user-facing usage error, fatal the same way the teacher's main.go help
// handler exits on a bad topic name.
func (r *Runner) Help(w io.Writer, topic string) {
	if topic == "" || topic == "commands" {
		r.helpCommands(w)
		return
	}
	t, ok := r.Topics[topic]
	if !ok {
		ansi.Fprintf(os.Stderr, "@R{!! '%s' is not a recognized command or help topic}\n", topic)
		os.Exit(1)
	}
	if t.Summary != "" {
		ansi.Fprintf(w, "@G{%s}\n", t.Summary)
	}
	if t.Usage != "" {
		ansi.Fprintf(w, "\n@C{%s}\n", t.Usage)
	}
	if t.Description != "" {
		ansi.Fprintf(w, "\n%s\n", t.Description)
	}
}

func (r *Runner) helpCommands(w io.Writer) {
	ansi.Fprintf(w, "@G{Valid commands for genesis are:}\n\n")
	names := make([]string, 0, len(r.Topics))
	for name := range r.Topics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t := r.Topics[name]
		ansi.Fprintf(w, "  @C{%-16s} %s\n", name, t.Summary)
	}
}
