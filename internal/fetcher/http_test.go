package fetcher_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rohmanhakim/parks-explorer/internal/fetcher"
	"github.com/rohmanhakim/parks-explorer/internal/metadata"
	"github.com/rohmanhakim/parks-explorer/pkg/failure"
)

// mockMetadataSink is a test double for metadata.MetadataSink
type mockMetadataSink struct {
	fetchEvents []fetchEvent
	errorEvents []errorEvent
}

type fetchEvent struct {
	fetchUrl    string
	httpStatus  int
	duration    time.Duration
	contentType string
	sizeByte    uint64
}

type errorEvent struct {
	packageName string
	action      string
	cause       metadata.ErrorCause
	details     string
	attrs       []metadata.Attribute
}

func (m *mockMetadataSink) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	contentType string,
	sizeByte uint64,
) {
	m.fetchEvents = append(m.fetchEvents, fetchEvent{
		fetchUrl:    fetchUrl,
		httpStatus:  httpStatus,
		duration:    duration,
		contentType: contentType,
		sizeByte:    sizeByte,
	})
}

func (m *mockMetadataSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause metadata.ErrorCause,
	details string,
	attrs []metadata.Attribute,
) {
	m.errorEvents = append(m.errorEvents, errorEvent{
		packageName: packageName,
		action:      action,
		cause:       cause,
		details:     details,
		attrs:       attrs,
	})
}

func (m *mockMetadataSink) RecordCacheLookup(identity string, hit bool) {}

func (m *mockMetadataSink) RecordArtifact(kind metadata.ArtifactKind, path string, attrs []metadata.Attribute) {
}

func mustParse(t *testing.T, raw string) url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("failed to parse %s: %v", raw, err)
	}
	return *u
}

func TestHttpFetcher_Fetch_HTMLSuccess(t *testing.T) {
	var gotUserAgent, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<html><body>Parks</body></html>"))
	}))
	defer server.Close()

	sink := &mockMetadataSink{}
	f := fetcher.NewHttpFetcher(sink, server.Client())

	param := fetcher.NewFetchParam(mustParse(t, server.URL), "test-user-agent", fetcher.ContentHTML)
	result, err := f.Fetch(context.Background(), param)

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if result.Code() != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, result.Code())
	}
	if string(result.Body()) != "<html><body>Parks</body></html>" {
		t.Errorf("unexpected body: %s", string(result.Body()))
	}
	if result.SizeByte() != uint64(len(result.Body())) {
		t.Errorf("unexpected size %d", result.SizeByte())
	}
	if gotUserAgent != "test-user-agent" {
		t.Errorf("expected user agent to be sent, got %q", gotUserAgent)
	}
	if !strings.Contains(gotAccept, "text/html") {
		t.Errorf("expected html accept header, got %q", gotAccept)
	}

	if len(sink.fetchEvents) != 1 {
		t.Fatalf("expected 1 fetch event, got %d", len(sink.fetchEvents))
	}
	fetchEvt := sink.fetchEvents[0]
	if fetchEvt.fetchUrl != server.URL {
		t.Errorf("expected URL %s, got %s", server.URL, fetchEvt.fetchUrl)
	}
	if fetchEvt.httpStatus != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, fetchEvt.httpStatus)
	}
	if fetchEvt.sizeByte != uint64(len("<html><body>Parks</body></html>")) {
		t.Errorf("expected recorded size %d, got %d", len("<html><body>Parks</body></html>"), fetchEvt.sizeByte)
	}
	if len(sink.errorEvents) != 0 {
		t.Errorf("expected 0 error events, got %d", len(sink.errorEvents))
	}
}

func TestHttpFetcher_Fetch_JSONSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("expected json accept header, got %q", r.Header.Get("Accept"))
		}
		w.Header().Set("Content-Type", "application/json;charset=UTF-8")
		w.Write([]byte(`{"searchResults":[]}`))
	}))
	defer server.Close()

	f := fetcher.NewHttpFetcher(&mockMetadataSink{}, server.Client())
	param := fetcher.NewFetchParam(mustParse(t, server.URL), "ua", fetcher.ContentJSON)

	result, err := f.Fetch(context.Background(), param)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if string(result.Body()) != `{"searchResults":[]}` {
		t.Errorf("unexpected body: %s", result.Body())
	}
}

func TestHttpFetcher_Fetch_ContentKindMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message": "not html"}`))
	}))
	defer server.Close()

	sink := &mockMetadataSink{}
	f := fetcher.NewHttpFetcher(sink, server.Client())
	param := fetcher.NewFetchParam(mustParse(t, server.URL), "ua", fetcher.ContentHTML)

	_, err := f.Fetch(context.Background(), param)
	if err == nil {
		t.Fatal("expected error for non-HTML content, got nil")
	}

	var fetchErr *fetcher.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %T", err)
	}
	if fetchErr.Cause != fetcher.ErrCauseContentTypeInvalid {
		t.Errorf("unexpected cause %s", fetchErr.Cause)
	}
	if err.Severity() != failure.SeverityFatal {
		t.Error("expected fatal severity for invalid content type")
	}

	if len(sink.errorEvents) != 1 {
		t.Fatalf("expected 1 error event, got %d", len(sink.errorEvents))
	}
	if sink.errorEvents[0].packageName != "fetcher" {
		t.Errorf("expected package name 'fetcher', got %s", sink.errorEvents[0].packageName)
	}
	if sink.errorEvents[0].cause != metadata.CauseContentInvalid {
		t.Errorf("expected CauseContentInvalid, got %v", sink.errorEvents[0].cause)
	}
}

func TestHttpFetcher_Fetch_StatusClassification(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		cause     fetcher.FetchErrorCause
		retryable bool
	}{
		{name: "404", status: http.StatusNotFound, cause: fetcher.ErrCauseRequestNotFound, retryable: false},
		{name: "403", status: http.StatusForbidden, cause: fetcher.ErrCauseRequestPageForbidden, retryable: false},
		{name: "401", status: http.StatusUnauthorized, cause: fetcher.ErrCauseRequestPageForbidden, retryable: false},
		{name: "400", status: http.StatusBadRequest, cause: fetcher.ErrCauseRequestClientError, retryable: false},
		{name: "429", status: http.StatusTooManyRequests, cause: fetcher.ErrCauseRequestTooMany, retryable: true},
		{name: "500", status: http.StatusInternalServerError, cause: fetcher.ErrCauseRequest5xx, retryable: true},
		{name: "503", status: http.StatusServiceUnavailable, cause: fetcher.ErrCauseRequest5xx, retryable: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			sink := &mockMetadataSink{}
			f := fetcher.NewHttpFetcher(sink, server.Client())
			param := fetcher.NewFetchParam(mustParse(t, server.URL), "ua", fetcher.ContentHTML)

			_, err := f.Fetch(context.Background(), param)
			if err == nil {
				t.Fatalf("expected error for status %d", tt.status)
			}

			var fetchErr *fetcher.FetchError
			if !errors.As(err, &fetchErr) {
				t.Fatalf("expected FetchError, got %T", err)
			}
			if fetchErr.Cause != tt.cause {
				t.Errorf("expected cause %s, got %s", tt.cause, fetchErr.Cause)
			}
			if fetchErr.Retryable != tt.retryable {
				t.Errorf("expected retryable %t, got %t", tt.retryable, fetchErr.Retryable)
			}
			if fetchErr.StatusCode != tt.status {
				t.Errorf("expected status %d on error, got %d", tt.status, fetchErr.StatusCode)
			}
			if calls != 1 {
				t.Errorf("expected exactly 1 request (no retries), got %d", calls)
			}
			if len(sink.fetchEvents) != 1 || sink.fetchEvents[0].httpStatus != tt.status {
				t.Errorf("expected fetch event with status %d, got %+v", tt.status, sink.fetchEvents)
			}
		})
	}
}

func TestHttpFetcher_Fetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := server.Client()
	client.Timeout = 50 * time.Millisecond

	f := fetcher.NewHttpFetcher(&mockMetadataSink{}, client)
	param := fetcher.NewFetchParam(mustParse(t, server.URL), "ua", fetcher.ContentHTML)

	_, err := f.Fetch(context.Background(), param)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	var fetchErr *fetcher.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %T", err)
	}
	if fetchErr.Cause != fetcher.ErrCauseTimeout {
		t.Errorf("expected timeout cause, got %s", fetchErr.Cause)
	}
	if !failure.IsRecoverable(err) {
		t.Error("expected timeout to be recoverable")
	}
}

func TestHttpFetcher_Fetch_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	target := server.URL
	server.Close()

	sink := &mockMetadataSink{}
	f := fetcher.NewHttpFetcher(sink, &http.Client{Timeout: time.Second})
	param := fetcher.NewFetchParam(mustParse(t, target), "ua", fetcher.ContentHTML)

	_, err := f.Fetch(context.Background(), param)
	if err == nil {
		t.Fatal("expected network error")
	}
	var fetchErr *fetcher.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %T", err)
	}
	if fetchErr.Cause != fetcher.ErrCauseNetworkFailure {
		t.Errorf("expected network failure cause, got %s", fetchErr.Cause)
	}
	if len(sink.errorEvents) != 1 || sink.errorEvents[0].cause != metadata.CauseNetworkFailure {
		t.Errorf("expected network failure error event, got %+v", sink.errorEvents)
	}
}

func TestHttpFetcher_Fetch_RedactsParamsInMetadata(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "s3cret" {
			t.Errorf("expected the real key to reach the server, got %q", r.URL.Query().Get("key"))
		}
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	sink := &mockMetadataSink{}
	f := fetcher.NewHttpFetcher(sink, server.Client())
	param := fetcher.NewFetchParam(mustParse(t, server.URL+"/radius?origin=49931&key=s3cret"), "ua", fetcher.ContentJSON).
		WithRedactedParams("key")

	f.Fetch(context.Background(), param)

	if len(sink.fetchEvents) != 1 {
		t.Fatalf("expected 1 fetch event, got %d", len(sink.fetchEvents))
	}
	if strings.Contains(sink.fetchEvents[0].fetchUrl, "s3cret") {
		t.Errorf("fetch event leaked the key: %s", sink.fetchEvents[0].fetchUrl)
	}
	if !strings.Contains(sink.fetchEvents[0].fetchUrl, "origin=49931") {
		t.Errorf("fetch event lost other params: %s", sink.fetchEvents[0].fetchUrl)
	}
	for _, evt := range sink.errorEvents {
		for _, attr := range evt.attrs {
			if strings.Contains(attr.Value, "s3cret") {
				t.Errorf("error event leaked the key in %s", attr.Key)
			}
		}
	}
}
