package fetcher

import (
	"net/url"
)

// HTTP boundary

type ContentKind int

const (
	ContentHTML ContentKind = iota
	ContentJSON
)

func (k ContentKind) String() string {
	if k == ContentJSON {
		return "json"
	}
	return "html"
}

type FetchParam struct {
	fetchUrl       url.URL
	userAgent      string
	kind           ContentKind
	redactedParams []string
}

func NewFetchParam(fetchUrl url.URL, userAgent string, kind ContentKind) FetchParam {
	return FetchParam{
		fetchUrl:  fetchUrl,
		userAgent: userAgent,
		kind:      kind,
	}
}

// WithRedactedParams names query parameters whose values must never
// appear in recorded metadata, such as an API key.
func (p FetchParam) WithRedactedParams(names ...string) FetchParam {
	p.redactedParams = append(append([]string{}, p.redactedParams...), names...)
	return p
}

func (p FetchParam) URL() url.URL {
	return p.fetchUrl
}

// loggableURL returns the fetch URL with redacted parameter values masked.
func (p FetchParam) loggableURL() string {
	if len(p.redactedParams) == 0 || p.fetchUrl.RawQuery == "" {
		return p.fetchUrl.String()
	}
	masked := p.fetchUrl
	query := masked.Query()
	for _, name := range p.redactedParams {
		if query.Has(name) {
			query.Set(name, "REDACTED")
		}
	}
	masked.RawQuery = query.Encode()
	return masked.String()
}

type FetchResult struct {
	body []byte
	meta ResponseMeta
}

func (f *FetchResult) Body() []byte {
	return f.body
}

func (f *FetchResult) Code() int {
	return f.meta.statusCode
}

func (f *FetchResult) ContentType() string {
	return f.meta.contentType
}

func (f *FetchResult) SizeByte() uint64 {
	return f.meta.transferredSizeByte
}

type ResponseMeta struct {
	statusCode          int
	contentType         string
	transferredSizeByte uint64
}
