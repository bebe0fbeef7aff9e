// Package transfer plans and runs a sync to a capacity-limited device.
//
// A Director is created once per run. It measures the space it may fill, the
// budget, then admits playlists and songs until the budget runs out, and
// finally hands the selection to rsync:
//
//	d, err := transfer.New(ctx, cfg, logger, transfer.WithConfirmer(c))
//	if err != nil {
//	    return err // e.g. ErrNotEnoughSpace
//	}
//
//	adm, err := d.AddSongs(playlist.Songs, cfg.Shuffle)
//	if err != nil {
//	    return err
//	}
//	if adm.Rejected != nil {
//	    // out of space: everything admitted so far is kept
//	}
//
//	report, err := d.Transfer(ctx)
//
// # Budget
//
// The budget is the free space on the destination plus everything already
// stored under the destination directories, since rsync deletes whatever was
// not selected. A negative max size leaves that many bytes free, a positive
// one caps the budget, and min free reserves space on top. Whichever limit is
// smallest wins.
//
// # Admission
//
// Adding stops at the first item that does not fit. That item is reported in
// Admission.Rejected and is not added; songs admitted before it stay
// selected. A song referenced several times is admitted and counted once.
//
// # Transfer
//
// Transfer ends the gathering phase for good. Staged playlists are mirrored
// first; if that fails the Confirmer decides whether songs are still
// mirrored. Song mirroring failures are only logged. The scratch directory is
// removed at the end unless the configuration asks to keep it.
package transfer
