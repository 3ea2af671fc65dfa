package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rohmanhakim/parks-explorer/internal/metadata"
	"github.com/rohmanhakim/parks-explorer/pkg/failure"
)

/*
Responsibilities

- Perform one HTTP GET per call
- Apply headers and timeouts
- Classify responses

Fetch Semantics

- Only 2xx responses of the expected content kind are returned
- Failures are returned as *FetchError, never retried
- Every call is recorded with metadata

The fetcher never parses content; it only returns bytes and metadata.
*/

type HttpFetcher struct {
	metadataSink metadata.MetadataSink
	httpClient   *http.Client
}

// NewHttpFetcher uses httpClient as-is; its Timeout bounds every request.
func NewHttpFetcher(
	metadataSink metadata.MetadataSink,
	httpClient *http.Client,
) *HttpFetcher {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &HttpFetcher{
		metadataSink: metadataSink,
		httpClient:   httpClient,
	}
}

func (h *HttpFetcher) Fetch(
	ctx context.Context,
	fetchParam FetchParam,
) (FetchResult, failure.ClassifiedError) {
	callerMethod := "HttpFetcher.Fetch"
	startTime := time.Now()

	result, err := h.performFetch(ctx, fetchParam)

	duration := time.Since(startTime)

	var statusCode int
	var contentType string
	var sizeByte uint64
	if err != nil {
		statusCode = err.StatusCode
	} else {
		statusCode = result.Code()
		contentType = result.ContentType()
		sizeByte = result.SizeByte()
	}

	h.metadataSink.RecordFetch(
		fetchParam.loggableURL(),
		statusCode,
		duration,
		contentType,
		sizeByte,
	)

	if err != nil {
		h.recordFetchError(callerMethod, fetchParam, err)
		return FetchResult{}, err
	}

	return result, nil
}

func (h *HttpFetcher) recordFetchError(callerMethod string, fetchParam FetchParam, err *FetchError) {
	h.metadataSink.RecordError(
		time.Now(),
		"fetcher",
		callerMethod,
		mapFetchErrorToMetadataCause(err),
		err.Error(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrURL, fetchParam.loggableURL()),
			metadata.NewAttr(metadata.AttrHost, fetchParam.fetchUrl.Host),
		},
	)
}

func (h *HttpFetcher) performFetch(ctx context.Context, fetchParam FetchParam) (FetchResult, *FetchError) {
	fetchUrl := fetchParam.fetchUrl
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchUrl.String(), nil)
	if err != nil {
		return FetchResult{}, &FetchError{
			Message:   fmt.Sprintf("failed to create request: %v", err),
			Retryable: false,
			Cause:     ErrCauseInvalidRequest,
		}
	}

	for key, value := range requestHeaders(fetchParam.userAgent, fetchParam.kind) {
		req.Header.Set(key, value)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		// *url.Error repeats the full request URL, which may carry redacted params
		cause := err
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			cause = urlErr.Err
		}
		if isTimeout(err) {
			return FetchResult{}, &FetchError{
				Message:   fmt.Sprintf("request timed out: %v", cause),
				Retryable: true,
				Cause:     ErrCauseTimeout,
			}
		}
		// Network/transport errors are transient
		return FetchResult{}, &FetchError{
			Message:   fmt.Sprintf("request failed: %v", cause),
			Retryable: true,
			Cause:     ErrCauseNetworkFailure,
		}
	}
	defer resp.Body.Close()

	if fetchErr := classifyStatus(resp.StatusCode); fetchErr != nil {
		return FetchResult{}, fetchErr
	}

	contentType := resp.Header.Get("Content-Type")
	if !matchesContentKind(contentType, fetchParam.kind) {
		return FetchResult{}, &FetchError{
			Message:    fmt.Sprintf("expected %s, got content type %q", fetchParam.kind, contentType),
			Retryable:  false,
			Cause:      ErrCauseContentTypeInvalid,
			StatusCode: resp.StatusCode,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return FetchResult{}, &FetchError{
			Message:    fmt.Sprintf("failed to read response body: %v", err),
			Retryable:  true,
			Cause:      ErrCauseReadResponseBodyError,
			StatusCode: resp.StatusCode,
		}
	}

	result := FetchResult{
		body: body,
		meta: ResponseMeta{
			statusCode:          resp.StatusCode,
			contentType:         contentType,
			transferredSizeByte: uint64(len(body)),
		},
	}

	return result, nil
}

// classifyStatus returns nil for 2xx responses.
func classifyStatus(statusCode int) *FetchError {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return nil

	case statusCode >= 500:
		return &FetchError{
			Message:    fmt.Sprintf("server error: %d", statusCode),
			Retryable:  true,
			Cause:      ErrCauseRequest5xx,
			StatusCode: statusCode,
		}

	case statusCode == http.StatusTooManyRequests:
		return &FetchError{
			Message:    "rate limited (429)",
			Retryable:  true,
			Cause:      ErrCauseRequestTooMany,
			StatusCode: statusCode,
		}

	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return &FetchError{
			Message:    fmt.Sprintf("access denied: %d", statusCode),
			Retryable:  false,
			Cause:      ErrCauseRequestPageForbidden,
			StatusCode: statusCode,
		}

	case statusCode == http.StatusNotFound:
		return &FetchError{
			Message:    "page not found (404)",
			Retryable:  false,
			Cause:      ErrCauseRequestNotFound,
			StatusCode: statusCode,
		}

	case statusCode >= 400:
		return &FetchError{
			Message:    fmt.Sprintf("client error: %d", statusCode),
			Retryable:  false,
			Cause:      ErrCauseRequestClientError,
			StatusCode: statusCode,
		}

	default:
		// Redirects are followed by http.Client; seeing one here means
		// the redirect limit was exceeded or Location was missing.
		return &FetchError{
			Message:    fmt.Sprintf("unexpected status: %d", statusCode),
			Retryable:  false,
			Cause:      ErrCauseRedirectLimitExceeded,
			StatusCode: statusCode,
		}
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func matchesContentKind(contentType string, kind ContentKind) bool {
	contentType = strings.ToLower(contentType)
	switch kind {
	case ContentJSON:
		return strings.Contains(contentType, "application/json") ||
			strings.Contains(contentType, "text/json") ||
			strings.Contains(contentType, "+json")
	default:
		return strings.Contains(contentType, "text/html") ||
			strings.Contains(contentType, "application/xhtml")
	}
}

func requestHeaders(userAgent string, kind ContentKind) map[string]string {
	accept := "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	if kind == ContentJSON {
		accept = "application/json"
	}
	return map[string]string{
		"User-Agent":      userAgent,
		"Accept":          accept,
		"Accept-Language": "en-US,en;q=0.5",
	}
}
