// Package lookup finds places near a location through a radius search API.
package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rohmanhakim/parks-explorer/internal/fetcher"
	"github.com/rohmanhakim/parks-explorer/internal/metadata"
	"github.com/rohmanhakim/parks-explorer/internal/readthrough"
	"github.com/rohmanhakim/parks-explorer/internal/record"
	"github.com/rohmanhakim/parks-explorer/pkg/failure"
	"github.com/rohmanhakim/parks-explorer/pkg/hashutil"
)

const (
	keyParam         = "key"
	keyFingerprint   = "keyfp"
	fingerprintChars = 12
)

type Client struct {
	fetcher      fetcher.Fetcher
	reader       *readthrough.Reader
	endpoint     url.URL
	apiKey       string
	radius       int
	maxMatches   int
	userAgent    string
	metadataSink metadata.MetadataSink
}

func NewClient(
	f fetcher.Fetcher,
	reader *readthrough.Reader,
	endpoint url.URL,
	apiKey string,
	radius int,
	maxMatches int,
	userAgent string,
	metadataSink metadata.MetadataSink,
) *Client {
	return &Client{
		fetcher:      f,
		reader:       reader,
		endpoint:     endpoint,
		apiKey:       apiKey,
		radius:       radius,
		maxMatches:   maxMatches,
		userAgent:    userAgent,
		metadataSink: metadataSink,
	}
}

// FetchNearby returns the places around the location's postal code.
//
// The result is cached under an identity that carries a fingerprint of the
// API key instead of the key itself.
func (c *Client) FetchNearby(
	ctx context.Context,
	location record.Location,
) ([]record.NearbyPlace, failure.ClassifiedError) {
	if location.PostalCode == nil {
		err := &LookupError{
			Message:   fmt.Sprintf("%s has no postal code to search around", record.Or(location.Name, record.NoName)),
			Retryable: true,
			Cause:     ErrCauseMissingOrigin,
		}
		c.recordError(err, "")
		return nil, err
	}
	if c.apiKey == "" {
		err := &LookupError{
			Message:   "no API key configured",
			Retryable: true,
			Cause:     ErrCauseMissingCredential,
		}
		c.recordError(err, "")
		return nil, err
	}

	params := c.params(*location.PostalCode)
	identity := c.Identity(*location.PostalCode)

	return readthrough.Fetch(ctx, c.reader, identity, func(ctx context.Context) ([]record.NearbyPlace, failure.ClassifiedError) {
		requestURL := c.endpoint
		params.Set(keyParam, c.apiKey)
		requestURL.RawQuery = params.Encode()

		result, err := c.fetcher.Fetch(
			ctx,
			fetcher.NewFetchParam(requestURL, c.userAgent, fetcher.ContentJSON).WithRedactedParams(keyParam),
		)
		if err != nil {
			return nil, err
		}

		places, lookupErr := decodeNearby(result.Body())
		if lookupErr != nil {
			c.recordError(lookupErr, identity)
			return nil, lookupErr
		}
		return places, nil
	})
}

// Identity returns the cache identity of a search around origin. The API
// key is replaced by its fingerprint, so a rotated key gets fresh entries.
func (c *Client) Identity(origin string) string {
	params := c.params(origin)
	params.Set(keyFingerprint, hashutil.Fingerprint(c.apiKey, fingerprintChars))
	identity := c.endpoint
	identity.RawQuery = params.Encode()
	return identity.String()
}

func (c *Client) params(origin string) url.Values {
	params := url.Values{}
	params.Set("origin", origin)
	params.Set("radius", strconv.Itoa(c.radius))
	params.Set("maxMatches", strconv.Itoa(c.maxMatches))
	params.Set("ambiguities", "ignore")
	params.Set("outFormat", "json")
	return params
}

func decodeNearby(body []byte) ([]record.NearbyPlace, *LookupError) {
	var resp radiusResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &LookupError{
			Message:   fmt.Sprintf("undecodable response: %v", err),
			Retryable: false,
			Cause:     ErrCauseDecodeFailure,
		}
	}
	if resp.Info.StatusCode != 0 {
		return nil, &LookupError{
			Message:   fmt.Sprintf("status %d: %s", resp.Info.StatusCode, strings.Join(resp.Info.Messages, "; ")),
			Retryable: false,
			Cause:     ErrCauseAPIStatus,
		}
	}

	places := make([]record.NearbyPlace, 0, len(resp.SearchResults))
	for _, result := range resp.SearchResults {
		places = append(places, result.toNearbyPlace())
	}
	return places, nil
}

func (c *Client) recordError(err *LookupError, identity string) {
	attrs := []metadata.Attribute{}
	if identity != "" {
		attrs = append(attrs, metadata.NewAttr(metadata.AttrIdentity, identity))
	}
	c.metadataSink.RecordError(
		time.Now(),
		"lookup",
		"Client.FetchNearby",
		mapLookupErrorToMetadataCause(err),
		err.Error(),
		attrs,
	)
}
