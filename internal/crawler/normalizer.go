package crawler

import (
	"net/url"
	"strings"
)

// invalidKeyPrefix marks keys produced from unparsable URLs. Such URLs
// dedup deterministically but are never fetchable.
const invalidKeyPrefix = "invalid:"

// NormalizeURL canonicalizes a raw URL string into the key used for
// dedup. Two URLs a reader would consider "the same page" must map to
// the same key: the scheme and host are lowercased, default ports and
// the fragment are stripped, query parameters are sorted, and an empty
// path becomes "/". The function is pure and total; input that cannot
// be parsed as an absolute http(s) URL yields a sentinel key instead
// of an error.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return invalidKeyPrefix + raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""

	if p := u.Port(); (u.Scheme == "http" && p == "80") || (u.Scheme == "https" && p == "443") {
		u.Host = u.Hostname()
	}

	if u.Path == "" {
		u.Path = "/"
	}

	// url.Values.Encode sorts by key, giving a stable query order.
	if u.RawQuery != "" {
		u.RawQuery = u.Query().Encode()
	}

	return u.String()
}
