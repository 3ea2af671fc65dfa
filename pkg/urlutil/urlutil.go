package urlutil

import (
	"fmt"
	"net/url"
	"strings"
)

// Canonicalize applies a deterministic normalization to a site root URL.
//
// The normalization follows these rules:
//   - Scheme and host are lowercased
//   - Path is cleaned (trailing slashes removed, except for root "/")
//   - Fragments are removed
//   - Query parameters are removed
//   - Default ports are omitted (e.g., :80 for http, :443 for https)
//
// Canonicalize(Canonicalize(u)) == Canonicalize(u).
func Canonicalize(sourceUrl url.URL) url.URL {
	canonical := normalizeAuthority(sourceUrl)

	if len(canonical.Path) > 1 {
		canonical.Path = stripTrailingSlash(canonical.Path)
		canonical.RawPath = ""
	}

	canonical.RawQuery = ""
	canonical.ForceQuery = false

	return canonical
}

// Resolve turns an href found on a page into an absolute URL string against base.
// Unlike Canonicalize it keeps path and query verbatim, since both address the
// resource on the remote site; only the fragment is dropped.
func Resolve(base url.URL, href string) (string, error) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", fmt.Errorf("empty href")
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("error parsing href %q: %w", href, err)
	}
	resolved := normalizeAuthority(*base.ResolveReference(ref))
	return resolved.String(), nil
}

func normalizeAuthority(sourceUrl url.URL) url.URL {
	normalized := sourceUrl

	normalized.Scheme = lowerASCII(normalized.Scheme)
	normalized.Host = lowerASCII(normalized.Host)

	if host, port := normalized.Hostname(), normalized.Port(); port != "" {
		if (normalized.Scheme == "http" && port == "80") ||
			(normalized.Scheme == "https" && port == "443") {
			normalized.Host = host
		}
	}

	normalized.Fragment = ""
	normalized.RawFragment = ""
	return normalized
}

// lowerASCII converts ASCII characters to lowercase without allocating.
// This is faster than strings.ToLower for ASCII-only strings.
func lowerASCII(s string) string {
	var needsLower bool
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			needsLower = true
			break
		}
	}
	if !needsLower {
		return s
	}
	b := make([]byte, len(s))
	copy(b, s)
	for i := 0; i < len(b); i++ {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}

// stripTrailingSlash removes trailing slashes from a path.
func stripTrailingSlash(path string) string {
	for len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	return path
}
