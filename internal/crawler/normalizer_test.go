package crawler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", "http://example.com/page", "http://example.com/page"},
		{"empty_path_gets_slash", "http://example.com", "http://example.com/"},
		{"fragment_stripped", "http://example.com/page#section", "http://example.com/page"},
		{"uppercase_host_lowered", "http://EXAMPLE.com/Page", "http://example.com/Page"},
		{"uppercase_scheme_lowered", "HTTP://example.com/", "http://example.com/"},
		{"default_http_port_stripped", "http://example.com:80/page", "http://example.com/page"},
		{"default_https_port_stripped", "https://example.com:443/page", "https://example.com/page"},
		{"custom_port_kept", "http://example.com:8080/page", "http://example.com:8080/page"},
		{"query_sorted", "http://example.com/p?b=2&a=1", "http://example.com/p?a=1&b=2"},
		{"whitespace_trimmed", "  http://example.com/page  ", "http://example.com/page"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeURL(tt.raw))
		})
	}
}

func TestNormalizeURLDeterministic(t *testing.T) {
	urls := []string{
		"http://example.com/page?x=1&y=2#frag",
		"not a url at all",
		"",
		"://missing-scheme",
	}
	for _, u := range urls {
		assert.Equal(t, NormalizeURL(u), NormalizeURL(u), "normalize must be deterministic for %q", u)
	}
}

func TestNormalizeURLEquivalentForms(t *testing.T) {
	// Textually different URLs for the same page share one key.
	groups := [][]string{
		{"http://example.com/page", "http://example.com/page#top", "http://EXAMPLE.COM/page"},
		{"http://example.com", "http://example.com/", "http://example.com:80/"},
		{"https://example.com/p?a=1&b=2", "https://example.com/p?b=2&a=1"},
	}

	for _, group := range groups {
		first := NormalizeURL(group[0])
		for _, u := range group[1:] {
			assert.Equal(t, first, NormalizeURL(u), "%q should normalize like %q", u, group[0])
		}
	}
}

func TestNormalizeURLMalformed(t *testing.T) {
	// Unparsable input yields a sentinel key, never a panic or error.
	key := NormalizeURL("%%%not-a-url")
	assert.True(t, strings.HasPrefix(key, invalidKeyPrefix))

	// Relative references have no host and are treated as invalid too.
	assert.True(t, strings.HasPrefix(NormalizeURL("/relative/path"), invalidKeyPrefix))
}
