package rsync

import (
	"path/filepath"
	"strings"
)

// Options control every rsync invocation.
type Options struct {
	// Binary is the rsync executable name or path.
	Binary string

	// DryRun adds -n so rsync only reports what it would do.
	DryRun bool
}

func (o Options) binary() string {
	if o.Binary == "" {
		return "rsync"
	}
	return o.Binary
}

// PlaylistArgs returns the command line mirroring the staged playlist
// directory src onto dest. Files are compared by size only because staged
// playlists always carry a fresh modification time. Anything in dest that
// was not staged is deleted.
func PlaylistArgs(o Options, src, dest string) []string {
	args := []string{o.binary(), "-r", "--delete", "--size-only"}
	if o.DryRun {
		args = append(args, "-n")
	}
	return append(args, dirContents(src), trimSep(dest))
}

// SongArgs returns the command line mirroring the songs listed in
// includeFile from src onto dest. Everything not included is excluded, and
// excluded files already in dest are deleted before the transfer starts.
func SongArgs(o Options, includeFile, src, dest string) []string {
	args := []string{
		o.binary(),
		"-mrltD",
		"--delete-before",
		"--modify-window=1",
		"--delete-excluded",
		"--include-from=" + includeFile,
		"--exclude=*",
	}
	if o.DryRun {
		args = append(args, "-n")
	}
	return append(args, dirContents(src), trimSep(dest))
}

// dirContents adds the trailing separator that makes rsync copy the contents
// of a directory rather than the directory itself.
func dirContents(dir string) string {
	return trimSep(dir) + string(filepath.Separator)
}

func trimSep(dir string) string {
	trimmed := strings.TrimRight(dir, string(filepath.Separator))
	if trimmed == "" {
		return string(filepath.Separator)
	}
	return trimmed
}
