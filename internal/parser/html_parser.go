// Package parser provides HTML link extraction. Given page bytes and
// the URL they were fetched from, it returns the absolute outbound
// links of the document.
package parser

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// LinkExtractor extracts anchor links from HTML documents. It is
// stateless and safe for concurrent use.
//
// Only absolute http(s) hrefs are kept. Links written relative to
// their containing document are dropped, a known limitation of this
// crawler; the base URL parameter exists for contract symmetry and
// future use.
type LinkExtractor struct {
	allowedSchemes []string
}

// NewLinkExtractor creates an extractor accepting http and https links
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{allowedSchemes: []string{"http", "https"}}
}

// ExtractLinks parses the document and returns the absolute href
// targets of its anchor tags, deduplicated within the page. Extraction
// is best-effort: malformed markup yields fewer or no links, never an
// error.
func (e *LinkExtractor) ExtractLinks(body []byte, baseURL string) []string {
	_ = baseURL

	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		// html.Parse recovers from almost anything; treat the rest as "no links".
		return nil
	}

	var links []string
	seen := make(map[string]struct{})
	e.traverse(doc, seen, &links)
	return links
}

// traverse recursively walks the HTML tree collecting anchors
func (e *LinkExtractor) traverse(n *html.Node, seen map[string]struct{}, links *[]string) {
	if n.Type == html.ElementNode && n.Data == "a" {
		if href := anchorHref(n); href != "" {
			if abs, ok := e.absolute(href); ok {
				if _, dup := seen[abs]; !dup {
					seen[abs] = struct{}{}
					*links = append(*links, abs)
				}
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		e.traverse(c, seen, links)
	}
}

// anchorHref returns the href attribute of an anchor node
func anchorHref(n *html.Node) string {
	for _, attr := range n.Attr {
		if attr.Key == "href" {
			return strings.TrimSpace(attr.Val)
		}
	}
	return ""
}

// absolute reports whether href is already an absolute URL with an
// allowed scheme and a host.
func (e *LinkExtractor) absolute(href string) (string, bool) {
	if href == "" || strings.HasPrefix(href, "#") {
		return "", false
	}

	u, err := url.Parse(href)
	if err != nil || u.Host == "" {
		return "", false
	}

	for _, scheme := range e.allowedSchemes {
		if u.Scheme == scheme {
			return u.String(), true
		}
	}
	return "", false
}
