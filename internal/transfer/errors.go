package transfer

import (
	"errors"
	"fmt"
)

var (
	// ErrNotEnoughSpace is returned by New when the budget is below
	// MinBudget.
	ErrNotEnoughSpace = errors.New("not enough free space")

	// ErrTransferStarted is returned when adding after Transfer was called,
	// or calling Transfer twice.
	ErrTransferStarted = errors.New("transfer already started")

	// ErrNoPlaylistDest is returned by AddPlaylist when no playlist
	// destination is configured.
	ErrNoPlaylistDest = errors.New("no playlist destination configured")

	// ErrNameCollision is returned by AddPlaylist when two playlists map to
	// the same file name.
	ErrNameCollision = errors.New("playlist file name collision")

	// ErrAborted is returned by Transfer when the operator declines to go on
	// after the playlist sync failed.
	ErrAborted = errors.New("transfer aborted")
)

// OutOfSpaceError reports an item that did not fit in the remaining budget.
type OutOfSpaceError struct {
	// Item describes the rejected song or playlist.
	Item string

	// Size is the size of the item in bytes.
	Size int64

	// Remaining is the budget left when the item was rejected.
	Remaining int64
}

func (e *OutOfSpaceError) Error() string {
	return fmt.Sprintf("%s was too big at %d bytes (%d bytes left)", e.Item, e.Size, e.Remaining)
}
