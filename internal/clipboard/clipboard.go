// Package clipboard copies rendered charts to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// ErrUnavailable is returned when no clipboard tool is installed.
var ErrUnavailable = errors.New("no clipboard tool available")

// tool is a command that reads the clipboard contents from stdin.
type tool struct {
	name string
	args []string
}

// tools lists candidate commands per platform, most preferred first.
var tools = map[string][]tool{
	"darwin":  {{"pbcopy", nil}},
	"linux":   {{"wl-copy", nil}, {"xclip", []string{"-selection", "clipboard"}}, {"xsel", []string{"--clipboard", "--input"}}},
	"windows": {{"clip", nil}},
}

// Clipboard writes text through the first available tool.
type Clipboard struct {
	goos     string
	lookPath func(string) (string, error)
	run      func(name string, args []string, stdin string) error
}

// New returns a clipboard for the running platform.
func New() *Clipboard {
	return &Clipboard{goos: runtime.GOOS, lookPath: exec.LookPath, run: run}
}

func run(name string, args []string, stdin string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(stdin)
	return cmd.Run()
}

func (c *Clipboard) find() (tool, bool) {
	for _, t := range tools[c.goos] {
		if _, err := c.lookPath(t.name); err == nil {
			return t, true
		}
	}
	return tool{}, false
}

// Available reports whether a clipboard tool is installed.
func (c *Clipboard) Available() bool {
	_, ok := c.find()
	return ok
}

// Write copies text to the clipboard.
func (c *Clipboard) Write(text string) error {
	t, ok := c.find()
	if !ok {
		return fmt.Errorf("%w on %s", ErrUnavailable, c.goos)
	}
	if err := c.run(t.name, t.args, text); err != nil {
		return fmt.Errorf("running %s: %w", t.name, err)
	}
	return nil
}
