package metadata

/*
	ErrorCause is a closed, canonical classification used exclusively for
	observability (logging, reporting).

	Rules:
	 - ErrorCause MUST NOT influence control flow.
	 - ErrorCause values MUST have stable, package-agnostic semantics.
	 - Packages MAY map their local errors to ErrorCause,
	   but MUST NOT invent new meanings.

If a failure does not clearly match a defined cause, CauseUnknown MUST be used.
*/
type ErrorCause int

/*
Canonical ErrorCause Table

# CauseUnknown

  - The failure does not map cleanly to any known category.

# CauseNetworkFailure

  - Failure caused by network transport or remote availability
    (timeouts, DNS failures, connection resets, 5xx).

# CausePolicyDisallow

  - The remote side refused the request (401/403/429, rejected API key).

# CauseContentInvalid

  - Content was fetched but could not be processed meaningfully
    (wrong content type, undecodable JSON, missing page structure).

# CauseStorageFailure

  - Failure while persisting the cache store.

# CauseInvariantViolation

  - A caller broke a precondition (e.g. lookup without an origin).
*/
const (
	CauseUnknown ErrorCause = iota
	CauseNetworkFailure
	CausePolicyDisallow
	CauseContentInvalid
	CauseStorageFailure
	CauseInvariantViolation
)

func (c ErrorCause) String() string {
	switch c {
	case CauseNetworkFailure:
		return "network_failure"
	case CausePolicyDisallow:
		return "policy_disallow"
	case CauseContentInvalid:
		return "content_invalid"
	case CauseStorageFailure:
		return "storage_failure"
	case CauseInvariantViolation:
		return "invariant_violation"
	default:
		return "unknown"
	}
}

type ArtifactKind string

const (
	ArtifactCacheStore ArtifactKind = "cache_store"
)

type Attribute struct {
	Key   AttributeKey
	Value string
}

func NewAttr(key AttributeKey, val string) Attribute {
	return Attribute{
		Key:   key,
		Value: val,
	}
}

type AttributeKey string

const (
	AttrURL        AttributeKey = "url"
	AttrIdentity   AttributeKey = "identity"
	AttrHost       AttributeKey = "host"
	AttrHTTPStatus AttributeKey = "http_status"
	AttrWritePath  AttributeKey = "write_path"
	AttrEntries    AttributeKey = "entries"
	AttrSizeByte   AttributeKey = "size_byte"
)
