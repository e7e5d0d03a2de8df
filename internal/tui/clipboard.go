package tui

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type clipboardCmd struct {
	name string
	args []string
}

// clipboardCmds lists the copy programs to try, most specific first.
func clipboardCmds(goos string) []clipboardCmd {
	switch goos {
	case "darwin":
		return []clipboardCmd{{name: "pbcopy"}}
	case "windows":
		return []clipboardCmd{
			{name: "cmd", args: []string{"/c", "clip"}},
			{name: "powershell", args: []string{"-NoProfile", "-Command", "Set-Clipboard"}},
		}
	default:
		return []clipboardCmd{
			{name: "wl-copy"},
			{name: "xclip", args: []string{"-selection", "clipboard"}},
			{name: "xsel", args: []string{"--clipboard", "--input"}},
		}
	}
}

var errNoClipboard = errors.New("no clipboard program found")

func copyToClipboard(s string) error {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	var errs []error
	for _, c := range clipboardCmds(runtime.GOOS) {
		if _, err := exec.LookPath(c.name); err != nil {
			continue
		}
		cmd := exec.Command(c.name, c.args...)
		cmd.Stdin = strings.NewReader(s)
		if err := cmd.Run(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c.name, err))
			continue
		}
		return nil
	}
	if len(errs) == 0 {
		return errNoClipboard
	}
	return errors.Join(errs...)
}

type clipboardMsg struct {
	text string
	err  error
}

// copyCmd copies text off the update loop.
func copyCmd(text string, write func(string) error) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{text: text, err: write(text)}
	}
}
