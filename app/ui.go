package app

import (
	"fmt"
	"io/ioutil"
	"strings"
)

// ParseKeyVal splits a `key=value`, `key@file`, or bare `key` command-line
// argument the way the teacher's `safe set`/`safe gen` argument loop does.
// A bare key signals the caller should prompt for the value interactively
// (quiet controls whether that prompt, when it happens, echoes input).
func ParseKeyVal(arg string, quiet bool) (key, value string, prompt bool, err error) {
	_ = quiet

	if idx := strings.Index(arg, "="); idx >= 0 {
		return arg[:idx], arg[idx+1:], false, nil
	}

	if idx := strings.Index(arg, "@"); idx >= 0 {
		key = arg[:idx]
		path := arg[idx+1:]
		if path == "" {
			return key, "", true, fmt.Errorf("No file specified for key '%s'", key)
		}
		contents, err := ioutil.ReadFile(path)
		if err != nil {
			return key, "", false, fmt.Errorf("Failed to read %s: %s", path, err)
		}
		return key, string(contents), false, nil
	}

	return arg, "", true, nil
}
