package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/genesis-community/genesis/planset"
)

// AtomKind tags which of the four atom grammars (§4.D) an Atom carries.
type AtomKind int

const (
	AtomEq AtomKind = iota
	AtomNeq
	AtomRegex
	AtomNotRegex
)

// Atom is one element of a `||`-joined filter clause.
type Atom struct {
	Kind  AtomKind
	Key   string
	Value string
	Re    *regexp.Regexp
}

// Matches reports whether plan satisfies the atom: key=value/key!=value
// compare against plan's Describe() map, stringified; the regex forms
// match against the plan's path.
func (a Atom) Matches(plan planset.Plan) bool {
	switch a.Kind {
	case AtomEq:
		v, ok := plan.Describe()[a.Key]
		return ok && fmt.Sprint(v) == a.Value
	case AtomNeq:
		v, ok := plan.Describe()[a.Key]
		return !ok || fmt.Sprint(v) != a.Value
	case AtomRegex:
		return a.Re.MatchString(plan.Path())
	case AtomNotRegex:
		return !a.Re.MatchString(plan.Path())
	}
	return false
}

// BadFilterError reports a syntactically invalid filter atom.
type BadFilterError struct {
	Atom   string
	Reason string
}

func (e *BadFilterError) Error() string {
	return fmt.Sprintf("bad filter %q: %s", e.Atom, e.Reason)
}

// IsBadFilter reports whether err is a *BadFilterError.
func IsBadFilter(err error) bool {
	_, ok := err.(*BadFilterError)
	return ok
}

// parseAtom recognizes one of the four atom shapes. The second return
// value is false (with a nil error) when s doesn't look like atom syntax
// at all, signaling the caller to treat it as a literal path instead.
func parseAtom(s string) (Atom, bool, error) {
	switch {
	case strings.HasPrefix(s, "!/"):
		re, err := compileRegexAtom(s[1:])
		if err != nil {
			return Atom{}, true, err
		}
		return Atom{Kind: AtomNotRegex, Re: re}, true, nil

	case strings.HasPrefix(s, "/"):
		re, err := compileRegexAtom(s)
		if err != nil {
			return Atom{}, true, err
		}
		return Atom{Kind: AtomRegex, Re: re}, true, nil

	case strings.Contains(s, "!="):
		idx := strings.Index(s, "!=")
		return Atom{Kind: AtomNeq, Key: s[:idx], Value: s[idx+2:]}, true, nil

	case strings.Contains(s, "="):
		idx := strings.Index(s, "=")
		return Atom{Kind: AtomEq, Key: s[:idx], Value: s[idx+1:]}, true, nil
	}
	return Atom{}, false, nil
}

// compileRegexAtom parses `/pattern/` or `/pattern/i`.
func compileRegexAtom(s string) (*regexp.Regexp, error) {
	if !strings.HasPrefix(s, "/") {
		return nil, &BadFilterError{Atom: s, Reason: "regex atom must start with `/`"}
	}
	body := s[1:]
	idx := strings.LastIndex(body, "/")
	if idx < 0 {
		return nil, &BadFilterError{Atom: s, Reason: "unterminated regex atom"}
	}
	pattern, flags := body[:idx], body[idx+1:]
	switch flags {
	case "":
	case "i":
		pattern = "(?i)" + pattern
	default:
		return nil, &BadFilterError{Atom: s, Reason: fmt.Sprintf("unknown regex flag %q", flags)}
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &BadFilterError{Atom: s, Reason: err.Error()}
	}
	return re, nil
}
