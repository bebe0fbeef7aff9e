package transfer

import (
	"context"

	"go.uber.org/zap"

	"github.com/handiism/fplsync/internal/model"
)

// PlaylistLookup returns a playlist by name.
type PlaylistLookup interface {
	Playlist(name string) (*model.Playlist, error)
}

// GatherResult lists what Gather could not fit.
type GatherResult struct {
	// PlaylistRejection is set when a playlist file did not fit.
	PlaylistRejection *Rejection

	// SongRejection is set when a song did not fit.
	SongRejection *Rejection
}

// Gather fills d from the named playlists.
//
// When a playlist destination is configured, every playlist is staged first,
// stopping at the first that does not fit. Then the songs of each playlist
// are added in the order given, stopping at the first song that does not
// fit. Lookup errors and admission errors end the gathering.
func Gather(ctx context.Context, d *Director, lookup PlaylistLookup, names []string, shuffle bool) (GatherResult, error) {
	var res GatherResult

	if d.cfg.PlaylistDest != "" {
		for _, name := range names {
			p, err := lookup.Playlist(name)
			if err != nil {
				return res, err
			}
			adm, err := d.AddPlaylist(ctx, p)
			if err != nil {
				return res, err
			}
			if adm.Rejected != nil {
				d.logger.Warn("Out of space for playlists", zap.Error(adm.Err()))
				res.PlaylistRejection = adm.Rejected
				break
			}
		}
	}

	for _, name := range names {
		p, err := lookup.Playlist(name)
		if err != nil {
			return res, err
		}
		adm, err := d.AddSongs(p.Songs, shuffle)
		if err != nil {
			return res, err
		}
		d.logger.Info("Added songs",
			zap.String("playlist", p.Name),
			zap.Int("admitted", adm.Admitted),
			zap.Int64("remaining", adm.Remaining))
		if adm.Rejected != nil {
			d.logger.Warn("Out of space for songs", zap.Error(adm.Err()))
			res.SongRejection = adm.Rejected
			break
		}
	}

	return res, nil
}
