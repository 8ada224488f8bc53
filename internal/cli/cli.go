// Package cli prints colored terminal output and reads user input for the
// interactive commands.
package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/buger/goterm"
	"github.com/chzyer/readline"
	"github.com/fatih/color"
)

var (
	userColor      = color.New(color.FgWhite)
	assistantColor = color.New(color.FgCyan)
	titleColor     = color.New(color.FgMagenta, color.Bold)
	separatorColor = color.New(color.FgHiBlack)
	successColor   = color.New(color.FgGreen)
	errorColor     = color.New(color.FgRed)
	infoColor      = color.New(color.FgYellow)
	promptColor    = color.New(color.FgHiBlue)
)

// ErrAborted is returned when the user interrupts a prompt.
var ErrAborted = errors.New("aborted")

// Width of the terminal, falling back to 80 columns.
func Width() int {
	if w := goterm.Width(); w > 0 {
		return w
	}
	return 80
}

// Separator printed to cli.
func Separator() {
	separatorColor.Println(strings.Repeat("-", Width()))
}

// Title printed to cli, centered between separators.
func Title(text string, args ...any) {
	width := Width()
	title := "      " + fmt.Sprintf(text, args...) + "      "
	left := max((width-len(title))/2, 0)
	right := max(width-len(title)-left, 0)
	titleColor.Println(strings.Repeat("-", left) + title + strings.Repeat("-", right))
}

func User(text string, args ...any) { userColor.Printf(text, args...) }

// Assistant prints model output verbatim.
func Assistant(text string) { assistantColor.Print(text) }

func Success(text string, args ...any) { successColor.Printf(text, args...) }

func Error(text string, args ...any) { errorColor.Printf(text, args...) }

func Info(text string, args ...any) { infoColor.Printf(text, args...) }

// Prompt reads lines with history and editing.
type Prompt struct {
	rl *readline.Instance
}

// NewPrompt opens a line reader. historyFile may be empty.
func NewPrompt(historyFile string) (*Prompt, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            promptColor.Sprint("> "),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistoryFile:       historyFile,
		HistorySearchFold: true,
	})
	if err != nil {
		return nil, err
	}
	return &Prompt{rl: rl}, nil
}

// Line reads one line. Interrupt and EOF both yield ErrAborted.
func (p *Prompt) Line() (string, error) {
	line, err := p.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
		return "", ErrAborted
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Lines reads until an empty line and joins what was typed.
func (p *Prompt) Lines() (string, error) {
	var lines []string
	defer p.rl.SetPrompt(promptColor.Sprint("> "))
	for {
		line, err := p.Line()
		if err != nil {
			return "", err
		}
		if line == "" {
			return strings.Join(lines, "\n"), nil
		}
		lines = append(lines, line)
		p.rl.SetPrompt(promptColor.Sprint(". "))
	}
}

func (p *Prompt) Close() error { return p.rl.Close() }

// Choose asks the user to pick one of options and returns its index.
func Choose(message string, options []string) (int, error) {
	var idx int
	err := survey.AskOne(&survey.Select{Message: message, Options: options}, &idx)
	if errors.Is(err, terminal.InterruptErr) {
		return 0, ErrAborted
	}
	return idx, err
}

// Confirm asks a yes/no question.
func Confirm(question string) bool {
	confirm := false
	if err := survey.AskOne(&survey.Confirm{Message: question}, &confirm); err != nil {
		return false
	}
	return confirm
}
