package transfer

import "github.com/handiism/fplsync/internal/model"

// Rejection identifies the item that stopped an admission. Exactly one of
// Song and Playlist is set.
type Rejection struct {
	Song     *model.Song
	Playlist *model.Playlist
	Size     int64
}

func (r *Rejection) String() string {
	if r.Playlist != nil {
		return r.Playlist.String()
	}
	return r.Song.String()
}

// Admission is the outcome of AddPlaylist or AddSongs.
type Admission struct {
	// Admitted is the number of items newly selected by the call.
	Admitted int

	// Remaining is the budget left after the call.
	Remaining int64

	// Rejected is set when the call stopped because an item did not fit.
	Rejected *Rejection
}

// OK reports whether every item was admitted.
func (a Admission) OK() bool {
	return a.Rejected == nil
}

// Err returns an *OutOfSpaceError describing the rejection, or nil.
func (a Admission) Err() error {
	if a.Rejected == nil {
		return nil
	}
	return &OutOfSpaceError{
		Item:      a.Rejected.String(),
		Size:      a.Rejected.Size,
		Remaining: a.Remaining,
	}
}
