package transfer

import (
	"path/filepath"
	"strings"

	"github.com/handiism/fplsync/internal/model"
)

// includeAllDirs makes rsync descend into every directory so that the
// per-file patterns below it can match.
const includeAllDirs = "/**/"

var patternEscaper = strings.NewReplacer(`[`, `\[`, `*`, `\*`, `?`, `\?`)

// IncludeList renders an rsync --include-from file selecting exactly songs.
// Each song is anchored at the transfer root by its relative path, with the
// wildcard characters [, * and ? escaped.
func IncludeList(songs []*model.Song) []byte {
	var sb strings.Builder
	sb.WriteString(includeAllDirs)
	sb.WriteByte('\n')
	for _, song := range songs {
		sb.WriteByte('/')
		sb.WriteString(patternEscaper.Replace(filepath.ToSlash(song.RelativePath)))
		sb.WriteByte('\n')
	}
	return []byte(sb.String())
}
