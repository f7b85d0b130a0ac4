// Package wikiurl canonicalizes Wikipedia article URLs so that every
// spelling of the same article collapses to one cache and storage key.
package wikiurl

import (
	"net/url"
	"strings"

	"wikiquiz/internal/domain"
)

const articleMarker = "/wiki/"

const wikipediaDomain = "wikipedia.org"

// namespacePrefixes are reserved title namespaces that never denote a
// readable article.
var namespacePrefixes = []string{
	"Special:",
	"File:",
	"Category:",
	"Template:",
	"Talk:",
	"User:",
	"Wikipedia:",
	"Help:",
	"Portal:",
}

// Normalize validates a raw URL and returns its canonical form: https
// scheme, lowercased host with the mobile subdomain folded away, no query,
// no fragment, and consistently percent-encoded title. It is idempotent:
// feeding the output back in returns it unchanged.
func Normalize(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", domain.NewInvalidURLError(raw, "url is empty")
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return "", domain.NewInvalidURLError(raw, "url is not parsable")
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return "", domain.NewInvalidURLError(raw, "scheme must be http or https")
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", domain.NewInvalidURLError(raw, "url has no host")
	}
	if host != wikipediaDomain && !strings.HasSuffix(host, "."+wikipediaDomain) {
		return "", domain.NewInvalidURLError(raw, "host is not a wikipedia.org domain")
	}
	host = foldMobileHost(host)

	path := u.EscapedPath()
	if !strings.HasPrefix(path, articleMarker) {
		return "", domain.NewInvalidURLError(raw, "path does not point at a /wiki/ article")
	}

	title := strings.TrimSuffix(path[len(articleMarker):], "/")
	if title == "" {
		return "", domain.NewInvalidURLError(raw, "article title is empty")
	}

	// Decode once and re-encode so that differently-encoded spellings of
	// the same title produce identical output.
	decoded, err := url.PathUnescape(title)
	if err != nil {
		return "", domain.NewInvalidURLError(raw, "article title has malformed percent-encoding")
	}
	decoded = strings.ReplaceAll(decoded, " ", "_")

	for _, prefix := range namespacePrefixes {
		if strings.HasPrefix(decoded, prefix) {
			return "", domain.NewInvalidURLError(raw, "title is in a reserved namespace, not an article")
		}
	}

	return "https://" + host + articleMarker + url.PathEscape(decoded), nil
}

// foldMobileHost maps the mobile mirror onto the desktop host:
// en.m.wikipedia.org becomes en.wikipedia.org.
func foldMobileHost(host string) string {
	if host == "m."+wikipediaDomain {
		return wikipediaDomain
	}
	return strings.Replace(host, ".m."+wikipediaDomain, "."+wikipediaDomain, 1)
}
