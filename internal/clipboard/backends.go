package clipboard

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"github.com/atotto/clipboard"
)

type termuxBackend struct{}

func termuxAvailable() bool {
	_, setErr := exec.LookPath("termux-clipboard-set")
	_, getErr := exec.LookPath("termux-clipboard-get")
	return setErr == nil && getErr == nil
}

func (termuxBackend) Name() string { return "termux" }

func (termuxBackend) Write(text string) error {
	cmd := exec.Command("termux-clipboard-set")
	cmd.Stdin = strings.NewReader(text)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("termux-clipboard-set: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

func (termuxBackend) Read() (string, error) {
	out, err := exec.Command("termux-clipboard-get").Output()
	if err != nil {
		return "", fmt.Errorf("termux-clipboard-get: %w", err)
	}
	return string(out), nil
}

type systemBackend struct{}

func systemAvailable() bool {
	return !clipboard.Unsupported
}

func (systemBackend) Name() string { return "system" }

func (systemBackend) Write(text string) error {
	return clipboard.WriteAll(text)
}

func (systemBackend) Read() (string, error) {
	return clipboard.ReadAll()
}
