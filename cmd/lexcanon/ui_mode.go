package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode is the --ui flag value; it satisfies pflag.Value.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch m := uiMode(strings.ToLower(strings.TrimSpace(value))); m {
	case "":
		return uiModeAuto, nil
	case uiModeAuto, uiModeOn, uiModeOff:
		return m, nil
	}
	return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

func (m *uiMode) String() string { return string(*m) }
func (m *uiMode) Type() string   { return "auto|on|off" }

func (m *uiMode) Set(value string) error {
	parsed, err := readUIMode(value)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// shouldUseTUI: auto needs an interactive stderr, no --quiet, and stdout
// not carrying the token output.
func shouldUseTUI(mode uiMode, quiet, stdoutBusy bool) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return !quiet && !stdoutBusy && isTerminal(os.Stderr)
	}
}
