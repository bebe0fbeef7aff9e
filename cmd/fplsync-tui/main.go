// Package main provides the interactive fplsync terminal interface.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/handiism/fplsync/internal/config"
	"github.com/handiism/fplsync/internal/tui"
)

var settingsPath string

var rootCmd = &cobra.Command{
	Use:   "fplsync-tui",
	Short: "Pick foobar2000 playlists and sync them to a device interactively",
	Long: `fplsync-tui lists the playlists in index.dat, lets you pick and order
them, shows what fits on the device and runs the sync. The directories and
options are read from a JSON settings file, and the selection is saved back
to it when a sync starts.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(_ *cobra.Command, _ []string) error {
		return tui.Run(settingsPath)
	},
}

func main() {
	rootCmd.Flags().StringVar(&settingsPath, "settings", config.DefaultSettingsPath(), "settings file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
