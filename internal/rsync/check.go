package rsync

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrNotFound is returned by Check when the rsync binary cannot be found.
var ErrNotFound = errors.New("rsync not found")

// Check verifies that binary can be executed and returns the first line of
// its --version output.
func Check(binary string) (string, error) {
	if binary == "" {
		binary = "rsync"
	}

	path, err := exec.LookPath(binary)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, binary)
	}

	out, err := exec.Command(path, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("%s --version: %w", path, err)
	}

	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	return firstLine, nil
}
