package store

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter abstracts the blocking confirm/prompt dialogs. An
// operation gated on Confirm proceeds only if the user affirms; a declined
// confirmation aborts the operation silently.
type Prompter interface {
	// Confirm asks a yes/no question and reports the answer.
	Confirm(message string) bool

	// Input asks for a line of text, offering initial as the default.
	// An empty return means the user gave nothing (or cancelled).
	Input(message, initial string) string
}

// TerminalPrompter implements [Prompter] over stdio.
type TerminalPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminalPrompter creates a prompter reading from in and writing to out.
func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{in: bufio.NewReader(in), out: out}
}

func (p *TerminalPrompter) Confirm(message string) bool {
	fmt.Fprintf(p.out, "%s [y/N]: ", message)
	line, err := p.in.ReadString('\n')
	if err != nil {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func (p *TerminalPrompter) Input(message, initial string) string {
	if initial != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", message, initial)
	} else {
		fmt.Fprintf(p.out, "%s: ", message)
	}

	line, err := p.in.ReadString('\n')
	if err != nil {
		return ""
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return initial
	}
	return line
}
