package shell

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter asks the user questions on the shell's input stream.
type Prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewPrompter reads answers from in and writes questions to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{scanner: bufio.NewScanner(in), out: out}
}

// Line prints prompt and returns the next input line, or false at EOF.
func (p *Prompter) Line(prompt string) (string, bool) {
	fmt.Fprint(p.out, prompt)
	if !p.scanner.Scan() {
		return "", false
	}
	return p.scanner.Text(), true
}

// Ask prints label and returns the trimmed answer.
func (p *Prompter) Ask(label string) string {
	line, _ := p.Line(label + ": ")
	return strings.TrimSpace(line)
}

// Secret asks for a value that must not be trimmed, such as a password.
func (p *Prompter) Secret(label string) string {
	line, _ := p.Line(label + ": ")
	return line
}

// Confirm asks a yes/no question; anything but y/yes is a no.
func (p *Prompter) Confirm(prompt string) bool {
	switch strings.ToLower(p.Ask(prompt + " [y/N]")) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
