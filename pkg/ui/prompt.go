package ui

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"
)

// PromptText asks for a line of input, returning def when the user just
// presses enter.
func PromptText(label, def string) (string, error) {
	if def != "" {
		Out().Printf("%s [%s]: ", label, def)
	} else {
		Out().Printf("%s: ", label)
	}
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def, nil
	}
	return line, nil
}

// PromptSecret asks for a line of input with the terminal echo disabled,
// falling back to a plain read when no terminal is attached.
func PromptSecret(label, def string) (string, error) {
	suffix := ": "
	if def != "" {
		suffix = " [keep current]: "
	}
	Out().Printf("%s%s", label, suffix)

	value, err := term.ReadPassword(int(syscall.Stdin))
	Out().Print("\n")
	if err != nil {
		// Not a terminal; read normally.
		reader := bufio.NewReader(os.Stdin)
		line, rerr := reader.ReadString('\n')
		if rerr != nil {
			return "", fmt.Errorf("reading input: %w", rerr)
		}
		value = []byte(strings.TrimSpace(line))
	}
	if len(value) == 0 {
		return def, nil
	}
	return string(value), nil
}

// PromptConfirm asks a yes/no question.
func PromptConfirm(label string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	Out().Printf("%s (%s): ", label, hint)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return def, fmt.Errorf("reading input: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	case "":
		return def, nil
	default:
		return def, nil
	}
}
