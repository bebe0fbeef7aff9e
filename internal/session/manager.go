package session

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/handiism/fplsync/internal/audio"
	"github.com/handiism/fplsync/internal/config"
	"github.com/handiism/fplsync/internal/library"
	"github.com/handiism/fplsync/internal/metrics"
	"github.com/handiism/fplsync/internal/model"
	"github.com/handiism/fplsync/internal/transfer"
)

// ErrNotInitialized is returned by Transfer before Initialize succeeded.
var ErrNotInitialized = errors.New("session not initialized")

// maxConcurrentTagReads limits how many files are opened at once by Describe.
const maxConcurrentTagReads = 8

// SongInfo describes one playlist entry for listings.
type SongInfo struct {
	Song *model.Song
	Size int64
	Tags audio.TrackInfo

	// Err is set when the file could not be sized or its tags not read.
	Err error
}

// Progress is a snapshot of the selection.
type Progress struct {
	Budget    int64
	Size      int64
	Songs     int
	Playlists int
}

// Manager coordinates one sync run: it opens the playlist index, fills a
// transfer.Director from the configured playlists and runs the transfer.
type Manager struct {
	cfg     *config.Config
	logger  *zap.Logger
	opts    []transfer.Option
	metrics *metrics.Recorder
	tags    *audio.TagReader

	index    *library.PlaylistIndex
	director *transfer.Director
	gathered transfer.GatherResult
}

// NewManager creates a Manager for cfg. opts are passed on to the Director.
// When cfg.MetricsFile is set, the run is recorded and written there after
// Transfer.
func NewManager(cfg *config.Config, logger *zap.Logger, opts ...transfer.Option) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{
		cfg:    cfg,
		logger: logger,
		tags:   audio.NewTagReader(),
	}
	if cfg.MetricsFile != "" {
		m.metrics = metrics.New()
		opts = append(opts, transfer.WithMetrics(m.metrics))
	}
	m.opts = opts
	return m
}

// Index opens the playlist index on first use.
func (m *Manager) Index() (*library.PlaylistIndex, error) {
	if m.index != nil {
		return m.index, nil
	}

	songs := library.NewSongIndex(m.cfg.PathConfig())
	index, err := library.Open(m.cfg.PlaylistSource, songs, m.logger.Named("library"))
	if err != nil {
		return nil, err
	}
	m.index = index
	return index, nil
}

// Initialize measures the budget and gathers the configured playlists.
// Running out of space is not an error; it is reported in the result.
func (m *Manager) Initialize(ctx context.Context) (transfer.GatherResult, error) {
	if len(m.cfg.Playlists) == 0 {
		return transfer.GatherResult{}, fmt.Errorf("%w: no playlists given", config.ErrInvalid)
	}

	index, err := m.Index()
	if err != nil {
		return transfer.GatherResult{}, err
	}

	director, err := transfer.New(ctx, m.cfg, m.logger.Named("director"), m.opts...)
	if err != nil {
		return transfer.GatherResult{}, err
	}
	m.director = director

	m.gathered, err = transfer.Gather(ctx, director, index, m.cfg.Playlists, m.cfg.Shuffle)
	if err != nil {
		return m.gathered, err
	}

	m.logger.Info("Selection complete",
		zap.Int("songs", len(director.Songs())),
		zap.Int("playlists", director.Playlists()),
		zap.Int64("size", director.Size()),
		zap.Int64("budget", director.Budget()))

	return m.gathered, nil
}

// Transfer mirrors the gathered selection and writes the metrics file.
func (m *Manager) Transfer(ctx context.Context) (transfer.Report, error) {
	if m.director == nil {
		return transfer.Report{}, ErrNotInitialized
	}

	report, err := m.director.Transfer(ctx)

	if werr := m.metrics.WriteTextfile(m.cfg.MetricsFile); werr != nil {
		m.logger.Warn("Failed to write metrics", zap.String("path", m.cfg.MetricsFile), zap.Error(werr))
	}

	return report, err
}

// Close releases a Manager that will not transfer.
func (m *Manager) Close() error {
	if m.director == nil {
		return nil
	}
	return m.director.Close()
}

// Progress returns the state of the selection. It is zero before
// Initialize.
func (m *Manager) Progress() Progress {
	if m.director == nil {
		return Progress{}
	}
	return Progress{
		Budget:    m.director.Budget(),
		Size:      m.director.Size(),
		Songs:     len(m.director.Songs()),
		Playlists: m.director.Playlists(),
	}
}

// Describe lists the entries of a playlist with their sizes and tags. Files
// are read concurrently; per-file problems are reported in SongInfo.Err.
func (m *Manager) Describe(ctx context.Context, name string) (*model.Playlist, []SongInfo, error) {
	index, err := m.Index()
	if err != nil {
		return nil, nil, err
	}
	p, err := index.Playlist(name)
	if err != nil {
		return nil, nil, err
	}

	// Sizes are cached on the shared *Song, so stat sequentially.
	infos := make([]SongInfo, len(p.Songs))
	for i, song := range p.Songs {
		infos[i].Song = song
		infos[i].Size, infos[i].Err = song.Size()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentTagReads)
	for i := range infos {
		if infos[i].Err != nil {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			tags, err := m.tags.Read(infos[i].Song.SourcePath)
			infos[i].Tags = tags
			if err != nil {
				m.logger.Debug("Failed to read tags", zap.Stringer("song", infos[i].Song), zap.Error(err))
				infos[i].Err = err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return p, infos, nil
}
