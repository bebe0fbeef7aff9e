//go:build !linux && !darwin && !freebsd && !dragonfly && !windows

package transfer

import (
	"errors"
	"fmt"
)

// FreeSpace is not implemented on this platform; use WithSpaceProbe.
func FreeSpace(path string) (int64, error) {
	return 0, fmt.Errorf("free space of %s: %w", path, errors.ErrUnsupported)
}
