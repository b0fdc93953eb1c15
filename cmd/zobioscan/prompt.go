package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// prompter reads operator input line by line. When attached to a terminal it
// prints prompts before reading; when input is piped it stays quiet so script
// output remains parseable.
type prompter struct {
	in       *bufio.Reader
	out      io.Writer
	terminal bool
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	terminal := false
	if file, ok := in.(*os.File); ok {
		fd := file.Fd()
		terminal = isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
	return &prompter{
		in:       bufio.NewReader(in),
		out:      out,
		terminal: terminal,
	}
}

// line prints the prompt when interactive and reads one trimmed input line.
// io.EOF is returned unchanged so callers can treat it as session end.
func (p *prompter) line(prompt string) (string, error) {
	if p.terminal && prompt != "" {
		fmt.Fprint(p.out, prompt)
	}
	text, err := p.in.ReadString('\n')
	if err != nil {
		if err == io.EOF && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text), nil
		}
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// confirm asks a yes/no question and only returns true on an explicit yes.
func (p *prompter) confirm(question string) (bool, error) {
	answer, err := p.line(question + " [y/N]: ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
