package cmd

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"

	"github.com/rohmanhakim/parks-explorer/internal/cache"
	"github.com/rohmanhakim/parks-explorer/internal/catalog"
	"github.com/rohmanhakim/parks-explorer/internal/config"
	"github.com/rohmanhakim/parks-explorer/internal/explorer"
	"github.com/rohmanhakim/parks-explorer/internal/extractor"
	"github.com/rohmanhakim/parks-explorer/internal/fetcher"
	"github.com/rohmanhakim/parks-explorer/internal/lookup"
	"github.com/rohmanhakim/parks-explorer/internal/metadata"
	"github.com/rohmanhakim/parks-explorer/internal/readthrough"
	"go.uber.org/zap"
)

// runExplorer wires the components for one interactive session.
func runExplorer(ctx context.Context, cfg config.Config, logger *zap.Logger, in io.Reader, out io.Writer) error {
	sink := metadata.NewRecorder(logger)
	store := openCache(cfg, sink, logger)

	reader := readthrough.NewReader(store, sink)
	httpFetcher := fetcher.NewHttpFetcher(sink, &http.Client{Timeout: cfg.Timeout()})
	ext := extractor.NewDomExtractor(sink)

	site := catalog.NewCatalog(cfg.BaseURL(), cfg.UserAgent(), httpFetcher, &ext, reader, sink)
	finder := lookup.NewClient(
		httpFetcher,
		reader,
		cfg.LookupURL(),
		cfg.APIKey(),
		cfg.SearchRadius(),
		cfg.MaxMatches(),
		cfg.UserAgent(),
		sink,
	)
	if cfg.APIKey() == "" {
		logger.Warn("no API key configured, nearby search is unavailable")
	}

	session := explorer.NewSession(site, finder, in, out, cfg.TableOutput())
	return session.Run(ctx)
}

// openCache returns the durable cache, or an in-memory copy of it on a dry run.
func openCache(cfg config.Config, sink metadata.MetadataSink, logger *zap.Logger) cache.Cache {
	if !cfg.DryRun() {
		return cache.OpenFileCache(cfg.CacheFile(), sink)
	}

	if cfg.CacheFile() == "" {
		return cache.NewMemoryCache()
	}
	store, err := cache.Load(cfg.CacheFile())
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("dry run starts with an empty cache", zap.String("path", cfg.CacheFile()), zap.Error(err))
	}
	return cache.NewMemoryCacheFrom(store)
}
