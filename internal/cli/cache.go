package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/rohmanhakim/parks-explorer/internal/cache"
	"github.com/rohmanhakim/parks-explorer/internal/config"
	"github.com/rohmanhakim/parks-explorer/internal/metadata"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or reset the local cache file.",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached identities and their payload sizes.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := InitConfigWithError()
		if err != nil {
			return err
		}
		return listCache(cmd.OutOrStdout(), cfg.CacheFile())
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached entry.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := InitConfigWithError()
		if err != nil {
			return err
		}
		logger, err := config.InitLogger(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		return clearCache(cmd.OutOrStdout(), cfg.CacheFile(), metadata.NewRecorder(logger))
	},
}

func init() {
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func listCache(out io.Writer, path string) error {
	store, err := cache.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read cache %s: %w", path, err)
	}

	identities := store.Identities()
	if len(identities) == 0 {
		fmt.Fprintf(out, "cache %s is empty\n", path)
		return nil
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Footer = text.FormatDefault
	tw.AppendHeader(table.Row{"Identity", "Bytes"})
	for _, identity := range identities {
		payload, _ := store.Get(identity)
		tw.AppendRow(table.Row{identity, len(payload)})
	}
	tw.AppendFooter(table.Row{fmt.Sprintf("%d entries", len(identities)), ""})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	fmt.Fprintln(out, tw.Render())
	return nil
}

func clearCache(out io.Writer, path string, sink metadata.MetadataSink) error {
	fileCache := cache.OpenFileCache(path, sink)
	removed := fileCache.Len()
	if err := fileCache.Clear(); err != nil {
		return err
	}
	fmt.Fprintf(out, "removed %d entries from %s\n", removed, fileCache.Path())
	return nil
}
