// Package rsync builds and runs the rsync invocations that mirror staged
// playlists and selected songs onto the device.
//
// Argument construction is kept separate from execution so the exact command
// lines can be tested without rsync installed:
//
//	opts := rsync.Options{Binary: "rsync", DryRun: true}
//	args := rsync.SongArgs(opts, includeFile, "/media/music", "/media/phone/Music")
//	res := rsync.NewExecRunner(os.Stdout, os.Stderr).Run(ctx, args)
//	if res.Failed() {
//	    // non-zero exit or failure to start
//	}
package rsync
