// Package catalog reads the directory site: the region menu, the listing of
// each region and the detail page of each location. Every page goes through
// the read-through cache, so the stored value is the extracted result rather
// than the raw HTML.
package catalog

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rohmanhakim/parks-explorer/internal/extractor"
	"github.com/rohmanhakim/parks-explorer/internal/fetcher"
	"github.com/rohmanhakim/parks-explorer/internal/metadata"
	"github.com/rohmanhakim/parks-explorer/internal/readthrough"
	"github.com/rohmanhakim/parks-explorer/internal/record"
	"github.com/rohmanhakim/parks-explorer/pkg/failure"
	"github.com/rohmanhakim/parks-explorer/pkg/urlutil"
)

type Catalog struct {
	baseURL      url.URL
	userAgent    string
	fetcher      fetcher.Fetcher
	extractor    *extractor.DomExtractor
	reader       *readthrough.Reader
	metadataSink metadata.MetadataSink
}

func NewCatalog(
	baseURL url.URL,
	userAgent string,
	f fetcher.Fetcher,
	ext *extractor.DomExtractor,
	reader *readthrough.Reader,
	metadataSink metadata.MetadataSink,
) *Catalog {
	return &Catalog{
		baseURL:      urlutil.Canonicalize(baseURL),
		userAgent:    userAgent,
		fetcher:      f,
		extractor:    ext,
		reader:       reader,
		metadataSink: metadataSink,
	}
}

// Regions returns the region menu keyed by lower-cased region name.
func (c *Catalog) Regions(ctx context.Context) (map[string]string, failure.ClassifiedError) {
	identity := c.baseURL.String()
	return readthrough.Fetch(ctx, c.reader, identity, func(ctx context.Context) (map[string]string, failure.ClassifiedError) {
		body, err := c.fetchPage(ctx, c.baseURL)
		if err != nil {
			return nil, err
		}
		return c.extractor.ExtractDirectory(c.baseURL, body)
	})
}

// Listing returns the location page URLs of one region, in page order.
func (c *Catalog) Listing(ctx context.Context, regionURL string) ([]string, failure.ClassifiedError) {
	u, err := c.parse("Catalog.Listing", regionURL)
	if err != nil {
		return nil, err
	}
	return readthrough.Fetch(ctx, c.reader, regionURL, func(ctx context.Context) ([]string, failure.ClassifiedError) {
		body, err := c.fetchPage(ctx, u)
		if err != nil {
			return nil, err
		}
		return c.extractor.ExtractListing(u, body)
	})
}

// Location returns the detail record of one location page.
func (c *Catalog) Location(ctx context.Context, locationURL string) (record.Location, failure.ClassifiedError) {
	u, err := c.parse("Catalog.Location", locationURL)
	if err != nil {
		return record.Location{}, err
	}
	return readthrough.Fetch(ctx, c.reader, locationURL, func(ctx context.Context) (record.Location, failure.ClassifiedError) {
		body, err := c.fetchPage(ctx, u)
		if err != nil {
			return record.Location{}, err
		}
		return c.extractor.ExtractLocation(u, body)
	})
}

// Locations returns every location of a region in listing order.
// The first failing page aborts the walk.
func (c *Catalog) Locations(ctx context.Context, regionURL string) ([]record.Location, failure.ClassifiedError) {
	links, err := c.Listing(ctx, regionURL)
	if err != nil {
		return nil, err
	}
	locations := make([]record.Location, 0, len(links))
	for _, link := range links {
		location, err := c.Location(ctx, link)
		if err != nil {
			return nil, err
		}
		locations = append(locations, location)
	}
	return locations, nil
}

func (c *Catalog) fetchPage(ctx context.Context, u url.URL) ([]byte, failure.ClassifiedError) {
	result, err := c.fetcher.Fetch(ctx, fetcher.NewFetchParam(u, c.userAgent, fetcher.ContentHTML))
	if err != nil {
		return nil, err
	}
	return result.Body(), nil
}

func (c *Catalog) parse(action string, raw string) (url.URL, failure.ClassifiedError) {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() {
		catalogErr := &CatalogError{
			Message:   fmt.Sprintf("not an absolute url: %q", raw),
			Retryable: false,
			Cause:     ErrCauseInvalidURL,
		}
		c.metadataSink.RecordError(
			time.Now(),
			"catalog",
			action,
			mapCatalogErrorToMetadataCause(catalogErr),
			catalogErr.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrURL, raw),
			},
		)
		return url.URL{}, catalogErr
	}
	return *u, nil
}
