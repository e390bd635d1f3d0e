package cli

import (
	"errors"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"golang.org/x/term"
)

// errNotInteractive is returned when a prompt is needed but stdin is not a
// terminal.
var errNotInteractive = errors.New("input required: stdin is not a terminal, pass the value as a flag")

// askOne prompts for a single value. Replaced in tests.
var askOne = survey.AskOne

// isInteractive reports whether prompts can be shown. Replaced in tests.
var isInteractive = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// promptInput asks for a value unless it is already set.
func promptInput(value *string, message, help string, required bool) error {
	if *value != "" {
		return nil
	}
	if !isInteractive() {
		return errNotInteractive
	}
	var opts []survey.AskOpt
	if required {
		opts = append(opts, survey.WithValidator(survey.Required))
	}
	return askOne(&survey.Input{Message: message, Help: help}, value, opts...)
}

// promptPassword asks for a hidden value unless it is already set.
func promptPassword(value *string, message string) error {
	if *value != "" {
		return nil
	}
	if !isInteractive() {
		return errNotInteractive
	}
	return askOne(&survey.Password{Message: message}, value, survey.WithValidator(survey.Required))
}

// promptSelect asks the user to pick one option unless value is set.
func promptSelect(value *string, message string, options []string) error {
	if *value != "" {
		return nil
	}
	if !isInteractive() {
		return errNotInteractive
	}
	return askOne(&survey.Select{Message: message, Options: options}, value)
}

// promptConfirm asks a yes/no question. Non-interactive sessions get def.
func promptConfirm(message string, def bool) (bool, error) {
	if !isInteractive() {
		return def, nil
	}
	answer := def
	if err := askOne(&survey.Confirm{Message: message, Default: def}, &answer); err != nil {
		return false, err
	}
	return answer, nil
}

// promptMultiline opens a multi-line editor prompt unless value is set.
func promptMultiline(value *string, message, def string) error {
	if *value != "" {
		return nil
	}
	if !isInteractive() {
		return errNotInteractive
	}
	return askOne(&survey.Multiline{Message: message, Default: def}, value)
}
