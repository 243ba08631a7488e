package menu

import (
	"errors"
	"strings"

	"github.com/manifoldco/promptui"
)

const _selectSize = 10

// TerminalPrompter asks on the process terminal.
type TerminalPrompter struct {
	size int
}

func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{
		size: _selectSize,
	}
}

func (p *TerminalPrompter) Select(label string, items []string) (string, error) {
	s := promptui.Select{
		Label: label,
		Items: items,
		Size:  p.size,
		Searcher: func(input string, index int) bool {
			return strings.Contains(strings.ToLower(items[index]), strings.ToLower(strings.TrimSpace(input)))
		},
	}

	_, value, err := s.Run()
	if err != nil {
		return "", promptError(err)
	}
	return value, nil
}

func (p *TerminalPrompter) Input(label string, validate func(string) error) (string, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Validate: validate,
	}

	value, err := prompt.Run()
	if err != nil {
		return "", promptError(err)
	}
	return value, nil
}

func promptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrAbort) {
		return ErrAborted
	}
	return err
}
