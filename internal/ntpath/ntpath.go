// Package ntpath implements Windows path manipulation that behaves the same
// on every host OS.
//
// foobar2000 stores track locations as Windows paths ("F:\Music\a.mp3") even
// when the playlists are read on Linux, so the standard path/filepath package,
// which follows the host's conventions, cannot be used to normalize them.
//
//	ntpath.Clean(`f:/Music\.\Rock\..\Pop\song.mp3`) // `F:\Music\Pop\song.mp3`
//	ntpath.IsAbs(`F:\Music`)                        // true
//	ntpath.ToLocal(`Pop\song.mp3`)                  // "Pop/song.mp3" on Linux
package ntpath

import (
	"path/filepath"
	"strings"
)

// Sep is the Windows path separator.
const Sep = `\`

// SplitDrive splits p into a drive ("C:" or a UNC share "\\server\share")
// and the remaining path. Forward slashes are treated as separators.
func SplitDrive(p string) (drive, rest string) {
	p = strings.ReplaceAll(p, "/", Sep)

	if len(p) >= 2 && p[1] == ':' && isLetter(p[0]) {
		return strings.ToUpper(p[:1]) + ":", p[2:]
	}

	if strings.HasPrefix(p, `\\`) && !strings.HasPrefix(p, `\\\`) {
		server := strings.Index(p[2:], Sep)
		if server <= 0 {
			return "", p
		}
		shareStart := 2 + server + 1
		share := strings.Index(p[shareStart:], Sep)
		if share == 0 {
			return "", p
		}
		if share < 0 {
			return p, ""
		}
		return p[:shareStart+share], p[shareStart+share:]
	}

	return "", p
}

// IsAbs reports whether p is fully qualified: a drive letter followed by a
// separator, or a UNC share.
func IsAbs(p string) bool {
	drive, rest := SplitDrive(p)
	if strings.HasPrefix(drive, `\\`) {
		return true
	}
	return drive != "" && strings.HasPrefix(rest, Sep)
}

// Clean returns the shortest equivalent Windows path: separators are
// normalized to backslashes, "." elements are dropped and ".." elements are
// resolved lexically. ".." never climbs above a root. The drive letter is
// upper-cased. An empty result is returned as ".".
func Clean(p string) string {
	drive, rest := SplitDrive(p)

	root := ""
	if strings.HasPrefix(rest, Sep) {
		root = Sep
		rest = strings.TrimLeft(rest, Sep)
	}

	var out []string
	for _, part := range strings.Split(rest, Sep) {
		switch part {
		case "", ".":
			continue
		case "..":
			if len(out) > 0 && out[len(out)-1] != ".." {
				out = out[:len(out)-1]
			} else if root == "" && drive == "" {
				out = append(out, part)
			}
		default:
			out = append(out, part)
		}
	}

	cleaned := drive + root + strings.Join(out, Sep)
	if cleaned == "" {
		return "."
	}
	return cleaned
}

// WithTrailingSep returns p with exactly one trailing separator.
func WithTrailingSep(p string) string {
	return strings.TrimRight(p, Sep) + Sep
}

// ToLocal converts a relative Windows path into the host's path syntax.
func ToLocal(p string) string {
	return strings.ReplaceAll(p, Sep, string(filepath.Separator))
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
