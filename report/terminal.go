package report

import (
	"bufio"
	"errors"
	"os"
	"strings"

	fmt "github.com/jhunt/go-ansi"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// ErrNoTTY is returned by Prompt/InlinePrompt when stdin is not a
// controlling terminal and interactive input was required.
var ErrNoTTY = errors.New("no TTY available for interactive prompt")

// TerminalSink renders events to the controlling terminal using colored
// output, the way the teacher's command handlers print directly via
// go-ansi. Prompts degrade to ErrNoTTY when stdin isn't a terminal.
type TerminalSink struct {
	in  *bufio.Reader
	out *os.File
}

// NewTerminalSink builds a Sink bound to process stdin/stdout.
func NewTerminalSink() *TerminalSink {
	return &TerminalSink{in: bufio.NewReader(os.Stdin), out: os.Stdout}
}

func (t *TerminalSink) isTTY() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

func (t *TerminalSink) Wait(total int) {
	fmt.Fprintf(t.out, "@C{Gathering %d item(s)...}\n", total)
}

func (t *TerminalSink) WaitDone() {}

func (t *TerminalSink) Init(total int) {
	fmt.Fprintf(t.out, "@G{Processing %d item(s)}\n", total)
}

func (t *TerminalSink) StartItem(it Item) {
	fmt.Fprintf(t.out, "  @Y{%s}  @W{%s}", it.Action, it.Path)
	if it.Detail != "" {
		fmt.Fprintf(t.out, " @K{(%s)}", it.Detail)
	}
}

func (t *TerminalSink) DoneItem(it Item, err error) {
	if err != nil {
		fmt.Fprintf(t.out, " @R{failed: %s}\n", err)
		return
	}
	fmt.Fprintf(t.out, " @G{ok}\n")
}

func (t *TerminalSink) Notify(level Level, message string) {
	switch level {
	case Warn:
		fmt.Fprintf(t.out, "@Y{WARNING:} %s\n", message)
	case Error:
		fmt.Fprintf(os.Stderr, "@R{ERROR:} %s\n", message)
	default:
		fmt.Fprintf(t.out, "%s\n", message)
	}
}

func (t *TerminalSink) Prompt(question string) (string, error) {
	if !t.isTTY() {
		return "", ErrNoTTY
	}
	fmt.Fprintf(t.out, "@C{%s}", question)
	line, err := t.in.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (t *TerminalSink) InlinePrompt(question string) (rune, error) {
	if !t.isTTY() {
		return 0, ErrNoTTY
	}
	fmt.Fprintf(t.out, "@C{%s}", question)
	fd := int(os.Stdin.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		line, rerr := t.in.ReadString('\n')
		if rerr != nil || len(line) == 0 {
			return 0, rerr
		}
		return rune(line[0]), nil
	}
	defer term.Restore(fd, state)
	b := make([]byte, 1)
	if _, err := os.Stdin.Read(b); err != nil {
		return 0, err
	}
	fmt.Fprintf(t.out, "%c\n", b[0])
	return rune(b[0]), nil
}

func (t *TerminalSink) Abort(reason string) {
	fmt.Fprintf(os.Stderr, "@R{Aborted:} %s\n", reason)
}

func (t *TerminalSink) Empty(message string) {
	fmt.Fprintf(t.out, "@K{%s}\n", message)
}

func (t *TerminalSink) Completed(succeeded, failed, skipped int) {
	fmt.Fprintf(t.out, "@G{%d done}, @Y{%d skipped}, @R{%d failed}\n", succeeded, skipped, failed)
}
