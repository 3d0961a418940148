package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"qawarn/internal/driver"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the decoded-input disk cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clean",
		Short: "Remove every cached entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cache, err := driver.OpenDiskCache("qawarn")
			if err != nil {
				return fmt.Errorf("failed to open cache: %w", err)
			}
			if err := cache.DropAll(); err != nil {
				return fmt.Errorf("failed to clean %s: %w", cache.Dir(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", cache.Dir())
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "dir",
		Short: "Print the cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cache, err := driver.OpenDiskCache("qawarn")
			if err != nil {
				return fmt.Errorf("failed to open cache: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), cache.Dir())
			return nil
		},
	})
	return cmd
}
