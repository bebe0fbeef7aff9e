// Package main provides the fplsync command line entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/handiism/fplsync/internal/config"
	"github.com/handiism/fplsync/internal/logging"
	"github.com/handiism/fplsync/internal/rsync"
	"github.com/handiism/fplsync/internal/session"
	"github.com/handiism/fplsync/internal/transfer"
)

var (
	cfgFile  string
	settings *config.Settings
)

var rootCmd = &cobra.Command{
	Use:   "fplsync [flags] PLAYLIST...",
	Short: "Sync foobar2000 playlists to a device",
	Long: `fplsync copies the songs of foobar2000 playlists to a size-limited device
with rsync. Playlists are filled in the order given until the space budget
runs out, and are optionally converted to M3U8 files next to the music.`,
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSync,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the playlists in index.dat",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var showCmd = &cobra.Command{
	Use:   "show PLAYLIST...",
	Short: "Show the songs of playlists with their size and tags",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runShow,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (JSON, YAML or TOML)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("playlist-source", "", "foobar2000 playlists directory containing index.dat")
	flags.String("source", "", "local music directory")
	flags.String("source-mapping", "", `Windows path that corresponds to --source, e.g. 'F:\Music'`)

	syncFlags := rootCmd.Flags()
	syncFlags.String("dest", "", "music directory on the device")
	syncFlags.String("playlist-dest", "", "playlist directory on the device")
	syncFlags.BoolP("dry-run", "n", false, "run rsync with --dry-run")
	syncFlags.String("max-size", "", "space to use on the device (negative: leave that much free)")
	syncFlags.String("min-free", "", "space to always leave free on the device")
	syncFlags.Bool("shuffle", false, "add the songs of each playlist in random order")
	syncFlags.Int64("seed", 0, "shuffle seed (0 picks one)")
	syncFlags.Bool("keep-temp", false, "keep the scratch directory after the run")
	syncFlags.String("rsync", "rsync", "rsync binary")
	syncFlags.String("metrics-file", "", "write run metrics in Prometheus text format to this file")
	syncFlags.BoolP("yes", "y", false, "continue with songs when the playlist sync fails")

	rootCmd.AddCommand(listCmd, showCmd)

	if err := bindFlags(rootCmd.PersistentFlags(), rootCmd.Flags()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind flags: %v\n", err)
		os.Exit(1)
	}
}

func bindFlags(sets ...*pflag.FlagSet) error {
	for _, fs := range sets {
		if err := viper.BindPFlags(fs); err != nil {
			return err
		}
	}
	return nil
}

func initConfig() {
	if err := gotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
	}

	viper.SetEnvPrefix("FPLSYNC")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
			os.Exit(1)
		}
	}

	settings = buildSettings()
}

func buildSettings() *config.Settings {
	s := config.DefaultSettings()

	s.PlaylistSource = viper.GetString("playlist-source")
	s.Source = viper.GetString("source")
	s.Dest = viper.GetString("dest")
	s.PlaylistDest = viper.GetString("playlist-dest")
	s.SourceMapping = viper.GetString("source-mapping")

	s.MaxSize = viper.GetString("max-size")
	s.MinFree = viper.GetString("min-free")
	s.Shuffle = viper.GetBool("shuffle")
	s.Seed = viper.GetInt64("seed")

	s.DryRun = viper.GetBool("dry-run")
	s.KeepTemp = viper.GetBool("keep-temp")
	if path := viper.GetString("rsync"); path != "" {
		s.RsyncPath = path
	}
	s.MetricsFile = viper.GetString("metrics-file")
	s.AssumeYes = viper.GetBool("yes")
	s.LogLevel = viper.GetString("log-level")

	return s
}

func runSync(_ *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: no playlists given", config.ErrInvalid)
	}
	settings.Playlists = args

	cfg, err := settings.Resolve()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	version, err := rsync.Check(cfg.RsyncPath)
	if err != nil {
		return err
	}
	logger.Debug("Using rsync", zap.String("version", version))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var confirmer transfer.Confirmer = transfer.NewPromptConfirmer(os.Stdin, os.Stdout)
	if cfg.AssumeYes {
		confirmer = transfer.Accept
	}

	manager := session.NewManager(cfg, logger,
		transfer.WithRunner(rsync.NewExecRunner(os.Stdout, os.Stderr)),
		transfer.WithConfirmer(confirmer))

	if _, err := manager.Initialize(ctx); err != nil {
		_ = manager.Close()
		return err
	}

	report, err := manager.Transfer(ctx)
	if err != nil {
		if errors.Is(err, transfer.ErrAborted) {
			logger.Info("Transfer aborted")
		}
		return err
	}

	fmt.Printf("Synced %d songs and %d playlists (%s of %s)%s\n",
		report.Songs, report.Playlists,
		formatSize(report.Size), formatSize(report.Budget),
		dryRunSuffix(report.DryRun))
	return nil
}

func runList(_ *cobra.Command, _ []string) error {
	cfg, err := settings.ResolveLibrary()
	if err != nil {
		return err
	}

	index, err := session.NewManager(cfg, nil).Index()
	if err != nil {
		return err
	}

	for _, name := range index.Names() {
		fmt.Println(name)
	}
	return nil
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4ECDC4")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Padding(0, 1)
)

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := settings.ResolveLibrary()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	manager := session.NewManager(cfg, logger)

	for _, name := range args {
		p, infos, err := manager.Describe(cmd.Context(), name)
		if err != nil {
			return err
		}

		var total int64
		failed := make(map[int]bool)
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			Headers("#", "Artist", "Title", "Album", "Size", "Path")
		for i, info := range infos {
			total += info.Size
			size := formatSize(info.Size)
			if info.Err != nil {
				failed[i+1] = true
				if info.Size == 0 {
					size = "missing"
				}
			}
			t.Row(strconv.Itoa(i+1), info.Tags.Artist, info.Tags.Title, info.Tags.Album, size, info.Song.RelativePath)
		}
		t.StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case failed[row+1]:
				return errorStyle
			default:
				return cellStyle
			}
		})

		fmt.Printf("%s: %d songs, %s\n", p.Name, p.Len(), formatSize(total))
		fmt.Println(t.Render())
	}
	return nil
}

func formatSize(n int64) string {
	const unit = 1024
	if n < unit && n > -unit {
		return fmt.Sprintf("%d B", n)
	}
	f := float64(n)
	for _, suffix := range []string{"KiB", "MiB", "GiB"} {
		f /= unit
		if f < unit && f > -unit {
			return fmt.Sprintf("%.1f %s", f, suffix)
		}
	}
	return fmt.Sprintf("%.1f TiB", f/unit)
}

func dryRunSuffix(dryRun bool) string {
	if dryRun {
		return " [dry run]"
	}
	return ""
}
