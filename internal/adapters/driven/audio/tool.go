package audio

import (
	"os/exec"
	"strings"
)

// Tool is an external command line program and its fixed arguments.
type Tool struct {
	// Name is the executable looked up on PATH.
	Name string

	// Args are passed before any per-call arguments.
	Args []string
}

// ParseTool splits a command line such as "arecord -f cd -t wav -" into a
// Tool. Returns false for a blank line.
func ParseTool(line string) (Tool, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Tool{}, false
	}
	return Tool{Name: fields[0], Args: fields[1:]}, true
}

// lookPathFunc resolves an executable name. Replaced in tests.
type lookPathFunc func(string) (string, error)

// resolve returns the first tool found on PATH.
func resolve(tools []Tool, lookPath lookPathFunc) (Tool, string, bool) {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	for _, t := range tools {
		path, err := lookPath(t.Name)
		if err == nil {
			return t, path, true
		}
	}
	return Tool{}, "", false
}

// withOverride puts a user-configured command line ahead of the defaults.
func withOverride(override string, defaults []Tool) []Tool {
	t, ok := ParseTool(override)
	if !ok {
		return defaults
	}
	return []Tool{t}
}
