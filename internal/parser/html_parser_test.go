package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractLinks(t *testing.T) {
	body := []byte(`<html><body>
		<a href="http://example.com/a">A</a>
		<a href="https://other.example/b">B</a>
		<p>no link here</p>
		<div><a href="http://example.com/nested">nested</a></div>
	</body></html>`)

	e := NewLinkExtractor()
	links := e.ExtractLinks(body, "http://example.com/")

	assert.Equal(t, []string{
		"http://example.com/a",
		"https://other.example/b",
		"http://example.com/nested",
	}, links)
}

func TestExtractLinksSkipsNonAbsolute(t *testing.T) {
	// The crawler does not resolve document-relative links; they are
	// dropped along with fragments and non-http schemes.
	body := []byte(`<html><body>
		<a href="/relative">relative</a>
		<a href="ftp://example.com/file">ftp</a>
		<a href="mailto:someone@example.com">mail</a>
		<a href="javascript:void(0)">js</a>
		<a href="#section">fragment</a>
		<a href="">empty</a>
		<a>no href</a>
		<a href="http://example.com/keep">keep</a>
	</body></html>`)

	e := NewLinkExtractor()
	links := e.ExtractLinks(body, "http://example.com/page")

	assert.Equal(t, []string{"http://example.com/keep"}, links)
}

func TestExtractLinksDeduplicatesWithinPage(t *testing.T) {
	body := []byte(`<html><body>
		<a href="http://example.com/a">first</a>
		<a href="http://example.com/a">second</a>
	</body></html>`)

	e := NewLinkExtractor()
	assert.Equal(t, []string{"http://example.com/a"}, e.ExtractLinks(body, "http://example.com/"))
}

func TestExtractLinksMalformedHTML(t *testing.T) {
	// Best-effort: broken markup yields whatever links are recoverable,
	// never an error.
	body := []byte(`<html><body><a href="http://example.com/a">unclosed <div><a href="http://example.com/b"`)

	e := NewLinkExtractor()
	links := e.ExtractLinks(body, "http://example.com/")
	assert.Contains(t, links, "http://example.com/a")
}

func TestExtractLinksEmptyBody(t *testing.T) {
	e := NewLinkExtractor()
	assert.Empty(t, e.ExtractLinks(nil, "http://example.com/"))
	assert.Empty(t, e.ExtractLinks([]byte("plain text, no markup"), "http://example.com/"))
}
