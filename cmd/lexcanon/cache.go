package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lexcanon/internal/driver"
	"lexcanon/internal/project"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the persistent cache of canonical streams",
}

var cacheDirCmd = &cobra.Command{
	Use:   "dir",
	Short: "Print the cache directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		disk, err := openProjectCache()
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, disk.Dir())
		return nil
	},
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Drop every cached stream",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		disk, err := openProjectCache()
		if err != nil {
			return err
		}
		if err := disk.DropAll(); err != nil {
			return fmt.Errorf("failed to clean cache: %w", err)
		}
		if quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet"); !quiet {
			fmt.Fprintf(os.Stdout, "removed %s\n", disk.Dir())
		}
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheDirCmd)
	cacheCmd.AddCommand(cacheCleanCmd)
}

// openProjectCache opens the cache configured in lexcanon.toml, or the
// user cache directory outside a project.
func openProjectCache() (*driver.DiskCache, error) {
	manifest, _, err := project.LoadManifest(".")
	if err != nil {
		return nil, err
	}
	return driver.OpenDiskCache("lexcanon", manifest.CacheDir())
}
