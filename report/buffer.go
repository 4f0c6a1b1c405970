package report

import "fmt"

// Event is a single recorded call against a BufferSink, retained in the
// order it was received so tests can assert exact event sequences the way
// the teacher's ginkgo suites assert against captured buffers.
type Event struct {
	Kind    EventKind
	Path    string
	Action  string
	Level   Level
	Message string
	Err     error
}

// BufferSink records every event in order instead of printing it, and
// answers scripted responses to Prompt/InlinePrompt so tests can drive
// interactive flows deterministically.
type BufferSink struct {
	Events   []Event
	Answers  []string
	Keys     []rune
	answerAt int
	keyAt    int
}

// NewBufferSink builds a BufferSink with pre-scripted prompt answers and
// inline keypresses, consumed in order as the executor asks for them.
func NewBufferSink(answers []string, keys []rune) *BufferSink {
	return &BufferSink{Answers: answers, Keys: keys}
}

func (b *BufferSink) Wait(total int) {
	b.Events = append(b.Events, Event{Kind: Wait, Message: fmt.Sprintf("%d", total)})
}

func (b *BufferSink) WaitDone() {
	b.Events = append(b.Events, Event{Kind: WaitDone})
}

func (b *BufferSink) Init(total int) {
	b.Events = append(b.Events, Event{Kind: Init, Message: fmt.Sprintf("%d", total)})
}

func (b *BufferSink) StartItem(it Item) {
	b.Events = append(b.Events, Event{Kind: StartItem, Path: it.Path, Action: it.Action})
}

func (b *BufferSink) DoneItem(it Item, err error) {
	b.Events = append(b.Events, Event{Kind: DoneItem, Path: it.Path, Action: it.Action, Err: err})
}

func (b *BufferSink) Notify(level Level, message string) {
	b.Events = append(b.Events, Event{Kind: Notify, Level: level, Message: message})
}

func (b *BufferSink) Prompt(question string) (string, error) {
	b.Events = append(b.Events, Event{Kind: Prompt, Message: question})
	if b.answerAt >= len(b.Answers) {
		return "", ErrNoTTY
	}
	a := b.Answers[b.answerAt]
	b.answerAt++
	return a, nil
}

func (b *BufferSink) InlinePrompt(question string) (rune, error) {
	b.Events = append(b.Events, Event{Kind: InlinePrompt, Message: question})
	if b.keyAt >= len(b.Keys) {
		return 0, ErrNoTTY
	}
	k := b.Keys[b.keyAt]
	b.keyAt++
	return k, nil
}

func (b *BufferSink) Abort(reason string) {
	b.Events = append(b.Events, Event{Kind: Abort, Message: reason})
}

func (b *BufferSink) Empty(message string) {
	b.Events = append(b.Events, Event{Kind: Empty, Message: message})
}

func (b *BufferSink) Completed(succeeded, failed, skipped int) {
	b.Events = append(b.Events, Event{Kind: Completed, Message: fmt.Sprintf("%d/%d/%d", succeeded, failed, skipped)})
}

// Paths returns the ordered list of item paths the sink saw via StartItem,
// used to assert executor/validator ordering guarantees.
func (b *BufferSink) Paths() []string {
	var paths []string
	for _, e := range b.Events {
		if e.Kind == StartItem {
			paths = append(paths, e.Path)
		}
	}
	return paths
}
