package transfer

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/handiism/fplsync/internal/audio"
	"github.com/handiism/fplsync/internal/config"
	ioutils "github.com/handiism/fplsync/internal/io"
	"github.com/handiism/fplsync/internal/metrics"
	"github.com/handiism/fplsync/internal/model"
	"github.com/handiism/fplsync/internal/rsync"
)

const (
	playlistsDir    = "playlists"
	includeFileName = "include.txt"
)

// ensureDir is replaced in tests.
var ensureDir = ioutils.EnsureDir

// Option configures a Director.
type Option func(*Director)

// WithSpaceProbe replaces the free-space lookup.
func WithSpaceProbe(p SpaceProbe) Option {
	return func(d *Director) { d.probe = p }
}

// WithRunner replaces the process runner used for rsync.
func WithRunner(r rsync.Runner) Option {
	return func(d *Director) { d.runner = r }
}

// WithConfirmer sets who is asked after a failed playlist sync. The default
// declines.
func WithConfirmer(c Confirmer) Option {
	return func(d *Director) { d.confirm = c }
}

// WithRand sets the source used to shuffle songs.
func WithRand(r *rand.Rand) Option {
	return func(d *Director) { d.rng = r }
}

// WithMetrics records the run into rec.
func WithMetrics(rec *metrics.Recorder) Option {
	return func(d *Director) { d.metrics = rec }
}

// WithScratchRoot creates the scratch directory below dir instead of the
// system temp directory.
func WithScratchRoot(dir string) Option {
	return func(d *Director) { d.scratchRoot = dir }
}

// Report summarizes a finished transfer.
type Report struct {
	Budget    int64
	Size      int64
	Songs     int
	Playlists int
	DryRun    bool

	// PlaylistSync and SongSync are nil when the step did not run.
	PlaylistSync *rsync.Result
	SongSync     *rsync.Result

	// ScratchDir is set when the scratch directory was kept.
	ScratchDir string
}

// Director selects songs and playlists within the space budget and mirrors
// them onto the device.
//
// A Director is not safe for concurrent use.
type Director struct {
	cfg     *config.Config
	logger  *zap.Logger
	probe   SpaceProbe
	runner  rsync.Runner
	confirm Confirmer
	rng     *rand.Rand
	metrics *metrics.Recorder
	creator *audio.PlaylistCreator

	scratchRoot string
	scratch     string

	budget    int64
	size      int64
	songs     []*model.Song
	selected  map[string]struct{}
	staged    map[string]string // file name -> playlist name
	gathering bool
	cleaned   bool
}

// New measures the budget for cfg and prepares an empty selection.
//
// Returns an error wrapping ErrNotEnoughSpace when the budget is below
// MinBudget. The scratch directory is only created once the budget has been
// accepted.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...Option) (*Director, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	d := &Director{
		cfg:       cfg,
		logger:    logger,
		probe:     SpaceProbeFunc(FreeSpace),
		runner:    rsync.NewExecRunner(os.Stdout, os.Stderr),
		confirm:   Decline,
		creator:   audio.NewPlaylistCreator(),
		selected:  make(map[string]struct{}),
		staged:    make(map[string]string),
		gathering: true,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.rng == nil {
		seed := uint64(cfg.Seed)
		if cfg.Seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		d.rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}

	free, err := d.probe.Free(cfg.Dest)
	if err != nil {
		return nil, err
	}

	reclaimable, err := Reclaimable(ctx, cfg.Dest, cfg.PlaylistDest)
	if err != nil {
		return nil, fmt.Errorf("measure destination: %w", err)
	}

	d.budget = ComputeBudget(free, reclaimable, cfg.MaxSize, cfg.MinFree)
	logger.Info("Computed budget",
		zap.Int64("free", free),
		zap.Int64("reclaimable", reclaimable),
		zap.Int64("budget", d.budget))

	if d.budget < MinBudget {
		return nil, fmt.Errorf("%w: budget of %d bytes is below %d", ErrNotEnoughSpace, d.budget, MinBudget)
	}
	d.metrics.SetBudget(d.budget)

	d.scratch, err = os.MkdirTemp(d.scratchRoot, "fplsync")
	if err != nil {
		return nil, fmt.Errorf("create scratch directory: %w", err)
	}
	if cfg.PlaylistDest != "" {
		if err := ensureDir(d.playlistDir()); err != nil {
			_ = os.RemoveAll(d.scratch)
			return nil, err
		}
	}
	logger.Debug("Created scratch directory", zap.String("path", d.scratch))

	return d, nil
}

// Budget returns the total number of bytes that may be selected.
func (d *Director) Budget() int64 { return d.budget }

// Size returns the number of bytes selected so far.
func (d *Director) Size() int64 { return d.size }

// Remaining returns Budget() - Size().
func (d *Director) Remaining() int64 { return d.budget - d.size }

// Gathering reports whether items can still be added.
func (d *Director) Gathering() bool { return d.gathering }

// ScratchDir returns the directory holding staged playlists and the include
// list.
func (d *Director) ScratchDir() string { return d.scratch }

// Songs returns the selected songs in admission order.
func (d *Director) Songs() []*model.Song {
	songs := make([]*model.Song, len(d.songs))
	copy(songs, d.songs)
	return songs
}

// Playlists returns the number of staged playlists.
func (d *Director) Playlists() int { return len(d.staged) }

// Contains reports whether song is selected.
func (d *Director) Contains(song *model.Song) bool {
	_, ok := d.selected[song.NativePath]
	return ok
}

func (d *Director) playlistDir() string {
	return filepath.Join(d.scratch, playlistsDir)
}

// AddPlaylist renders p as an m3u8 file and stages it for the playlist
// destination. A playlist that does not fit is removed again and reported in
// the Admission. Adding the same playlist twice has no effect.
func (d *Director) AddPlaylist(ctx context.Context, p *model.Playlist) (Admission, error) {
	if !d.gathering {
		return Admission{}, ErrTransferStarted
	}
	if d.cfg.PlaylistDest == "" {
		return Admission{}, ErrNoPlaylistDest
	}

	name := d.creator.FileName(p)
	if other, ok := d.staged[name]; ok {
		if other == p.Name {
			return Admission{Remaining: d.Remaining()}, nil
		}
		return Admission{}, fmt.Errorf("%w: %q and %q both become %s", ErrNameCollision, other, p.Name, name)
	}

	path, size, err := d.creator.WritePlaylist(ctx, d.playlistDir(), p)
	if err != nil {
		return Admission{}, fmt.Errorf("stage playlist %q: %w", p.Name, err)
	}

	if d.size+size > d.budget {
		if err := os.Remove(path); err != nil {
			return Admission{}, err
		}
		d.metrics.Rejected(metrics.KindPlaylist)
		return Admission{
			Remaining: d.Remaining(),
			Rejected:  &Rejection{Playlist: p, Size: size},
		}, nil
	}

	d.size += size
	d.staged[name] = p.Name
	d.metrics.PlaylistStaged()
	d.metrics.Selected(d.size)
	d.logger.Debug("Staged playlist",
		zap.String("name", p.Name),
		zap.String("file", name),
		zap.Int64("size", size))

	return Admission{Admitted: 1, Remaining: d.Remaining()}, nil
}

// AddSong adds a single song. See AddSongs.
func (d *Director) AddSong(song *model.Song) (Admission, error) {
	return d.AddSongs([]*model.Song{song}, false)
}

// AddSongs selects songs in order until one does not fit.
//
// Songs already selected are skipped without being sized again. With shuffle
// set, a shuffled copy of songs is processed instead. The first song that
// would exceed the budget is reported in the Admission; songs admitted
// before it remain selected. A song whose size cannot be read is an error,
// again keeping earlier admissions.
func (d *Director) AddSongs(songs []*model.Song, shuffle bool) (Admission, error) {
	if !d.gathering {
		return Admission{}, ErrTransferStarted
	}

	if shuffle {
		shuffled := make([]*model.Song, len(songs))
		copy(shuffled, songs)
		d.rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		songs = shuffled
	}

	defer func() { d.metrics.Selected(d.size) }()

	var adm Admission
	for _, song := range songs {
		if d.Contains(song) {
			continue
		}

		size, err := song.Size()
		if err != nil {
			adm.Remaining = d.Remaining()
			return adm, fmt.Errorf("size of %s: %w", song, err)
		}

		if d.size+size > d.budget {
			d.metrics.Rejected(metrics.KindSong)
			adm.Remaining = d.Remaining()
			adm.Rejected = &Rejection{Song: song, Size: size}
			return adm, nil
		}

		d.selected[song.NativePath] = struct{}{}
		d.songs = append(d.songs, song)
		d.size += size
		adm.Admitted++
		d.metrics.SongAdmitted()
	}

	adm.Remaining = d.Remaining()
	return adm, nil
}

// Transfer ends the gathering phase and mirrors the selection.
//
// Staged playlists are synced first. When that fails the Confirmer is asked
// whether to continue; declining removes the scratch directory and returns
// ErrAborted. Then the selected songs are synced; a failure there is logged
// but not returned. The scratch directory is removed unless KeepTemp is set.
// Fatal errors leave the scratch directory in place.
func (d *Director) Transfer(ctx context.Context) (Report, error) {
	if !d.gathering {
		return Report{}, ErrTransferStarted
	}
	d.gathering = false

	report := Report{
		Budget:    d.budget,
		Size:      d.size,
		Songs:     len(d.songs),
		Playlists: len(d.staged),
		DryRun:    d.cfg.DryRun,
	}
	opts := rsync.Options{Binary: d.cfg.RsyncPath, DryRun: d.cfg.DryRun}

	if len(d.staged) > 0 {
		res := d.run(ctx, metrics.StepPlaylists, rsync.PlaylistArgs(opts, d.playlistDir(), d.cfg.PlaylistDest))
		report.PlaylistSync = &res

		if res.Failed() {
			d.logger.Warn("Playlist sync failed",
				zap.Int("exit_code", res.ExitCode),
				zap.Error(res.Err))

			ok, err := d.confirm.Confirm(ctx, "Playlist sync failed. Continue with songs?")
			if err != nil {
				return report, err
			}
			if !ok {
				if err := d.cleanup(&report); err != nil {
					return report, err
				}
				return report, ErrAborted
			}
		}
	}

	if len(d.songs) > 0 {
		includeFile := filepath.Join(d.scratch, includeFileName)
		if err := ioutils.WriteFile(ctx, includeFile, IncludeList(d.songs)); err != nil {
			return report, fmt.Errorf("write include list: %w", err)
		}

		res := d.run(ctx, metrics.StepSongs, rsync.SongArgs(opts, includeFile, d.cfg.Source, d.cfg.Dest))
		report.SongSync = &res

		if res.Failed() {
			d.logger.Warn("Song sync failed",
				zap.Int("exit_code", res.ExitCode),
				zap.Error(res.Err))
		}
	}

	return report, d.cleanup(&report)
}

func (d *Director) run(ctx context.Context, step string, args []string) rsync.Result {
	d.logger.Info("Running rsync", zap.String("step", step), zap.Strings("args", args))
	res := d.runner.Run(ctx, args)
	d.metrics.Rsync(step, res.ExitCode, res.Duration)
	return res
}

// Close abandons a Director that will not transfer. It ends the gathering
// phase and removes the scratch directory unless KeepTemp is set. Close after
// Transfer does nothing.
func (d *Director) Close() error {
	d.gathering = false
	if d.cleaned {
		return nil
	}
	return d.cleanup(&Report{})
}

func (d *Director) cleanup(report *Report) error {
	d.cleaned = true
	if d.cfg.KeepTemp {
		d.logger.Info("Keeping scratch directory", zap.String("path", d.scratch))
		report.ScratchDir = d.scratch
		return nil
	}
	if err := os.RemoveAll(d.scratch); err != nil {
		return fmt.Errorf("remove scratch directory: %w", err)
	}
	d.logger.Debug("Removed scratch directory", zap.String("path", d.scratch))
	return nil
}
