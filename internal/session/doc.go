// Package session provides the orchestration shared by the command line and
// the terminal UI.
//
// # Manager
//
// The Manager coordinates a sync run:
//
//  1. Open the foobar2000 playlist index
//  2. Measure the space budget on the device
//  3. Stage playlists and select songs until the budget is used up
//  4. Mirror playlists and songs with rsync
//  5. Write run metrics (optional)
//
// # Basic Usage
//
//	manager := session.NewManager(cfg, logger, transfer.WithConfirmer(c))
//
//	gathered, err := manager.Initialize(ctx)
//	if err != nil {
//	    return err
//	}
//	if gathered.SongRejection != nil {
//	    // not everything fit
//	}
//
//	report, err := manager.Transfer(ctx)
//
// # Listings
//
// Index and Describe serve the list and show commands without touching the
// device.
package session
