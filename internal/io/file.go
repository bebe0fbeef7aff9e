package ioutils

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// fat32Reserved lists the printable characters FAT32 does not allow in long
// file names, plus a few that confuse players reading the card.
const fat32Reserved = `*/:<>?\|+,.;=[]"`

// WriteFile writes data to a file, creating it if necessary.
//
// The file is created with mode 0644. If the file already exists,
// it is truncated before writing.
//
// Parameters:
//   - ctx: Context for cancellation, checked before the file is opened
//   - path: File path to write to
//   - data: Bytes to write
//
// Returns an error if:
//   - ctx is already cancelled
//   - The file cannot be created or written
//
// Example:
//
//	err := WriteFile(ctx, "/tmp/fplsync-123/include.txt", []byte("/**/\n/a.mp3\n"))
func WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SanitizeFileName replaces characters that are invalid in FAT32 file names.
//
// The name is first normalized to NFC so that accented characters count as a
// single rune. Control characters (below 0x20 and DEL) and the characters
// *, /, :, <, >, ?, \, |, +, comma, period, ;, =, [, ] and " become
// underscores. An empty name becomes a single underscore.
//
// Example:
//
//	SanitizeFileName("My:Mix*?")  // Returns "My_Mix__"
//	SanitizeFileName("Vol. 2")    // Returns "Vol_ 2"
func SanitizeFileName(name string) string {
	name = norm.NFC.String(name)

	sanitized := strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(fat32Reserved, r) {
			return '_'
		}
		return r
	}, name)

	if sanitized == "" {
		return "_"
	}
	return sanitized
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
//
// Parameters:
//   - path: Directory to create, along with any missing parents
//
// Returns an error if:
//   - path or one of its parents exists and is not a directory
//   - A directory cannot be created
//
// Example:
//
//	err := EnsureDir("/tmp/fplsync-123/playlists")
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// DirSize returns the total size in bytes of the regular files below dir.
// Symlinks are not followed and directories themselves count as zero. A
// missing dir has size zero.
func DirSize(ctx context.Context, dir string) (int64, error) {
	var total int64

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir && os.IsNotExist(err) {
				return fs.SkipAll
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})

	return total, err
}
