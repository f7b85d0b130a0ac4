// Package extractor fetches Wikipedia article pages and parses them into
// the structured form the generation pipeline consumes.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"wikiquiz/internal/config"
	"wikiquiz/internal/domain"
	"wikiquiz/internal/logger"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// TruncationMarker is appended to article content that was cut to fit the
// configured bound.
const TruncationMarker = "[Content truncated for length...]"

const maxEntitiesPerBucket = 5

const maxRedirects = 5

// excludedSections is boilerplate that ends the readable article body.
var excludedSections = map[string]struct{}{
	"See also":        {},
	"References":      {},
	"External links":  {},
	"Notes":           {},
	"Further reading": {},
	"Bibliography":    {},
}

var organizationHrefKeywords = []string{"university", "institute", "company", "organization", "corporation"}

var locationHrefKeywords = []string{"country", "city", "state", "kingdom", "republic"}

// peopleInfoboxLabels are the infobox row headers whose linked values name
// people rather than places or works.
var peopleInfoboxLabels = map[string]struct{}{
	"Born":     {},
	"Died":     {},
	"Spouse":   {},
	"Spouses":  {},
	"Partner":  {},
	"Parents":  {},
	"Children": {},
}

// WikipediaExtractor implements domain.ArticleExtractor against the live
// Wikipedia markup.
type WikipediaExtractor struct {
	client *http.Client
	cfg    config.ExtractorConfig
}

// NewWikipediaExtractor creates an extractor with its own HTTP client. The
// client enforces the configured timeout and caps redirect chains.
func NewWikipediaExtractor(cfg config.ExtractorConfig) domain.ArticleExtractor {
	client := &http.Client{
		Timeout: cfg.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
	return &WikipediaExtractor{client: client, cfg: cfg}
}

// Extract implements domain.ArticleExtractor
func (e *WikipediaExtractor) Extract(ctx context.Context, canonicalURL string) (*domain.Article, error) {
	log := logger.Get()

	body, rawHTML, err := e.fetch(ctx, canonicalURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, domain.NewExtractionParseError(canonicalURL, "page is not parsable HTML")
	}

	title := extractTitle(doc)
	if title == "" {
		return nil, domain.NewExtractionParseError(canonicalURL, "no recognizable article title")
	}

	content := extractContent(doc)
	if strings.TrimSpace(content) == "" {
		return nil, domain.NewExtractionParseError(canonicalURL, "no article paragraphs found")
	}

	article := &domain.Article{
		URL:       canonicalURL,
		Title:     title,
		Summary:   extractSummary(doc),
		Sections:  extractSections(doc),
		Entities:  extractEntities(doc),
		Content:   truncateContent(content, e.cfg.MaxContentChars),
		RawHTML:   rawHTML,
		FetchedAt: time.Now().UTC(),
	}

	log.Info("Extracted article",
		zap.String("url", canonicalURL),
		zap.String("title", article.Title),
		zap.Int("sections", len(article.Sections)),
		zap.Int("content_chars", len(article.Content)),
	)
	return article, nil
}

// fetch downloads the page. Transport errors, including timeouts, surface
// as CodeExtractionTimeout; status codes map onto the extraction taxonomy.
func (e *WikipediaExtractor) fetch(ctx context.Context, url string) (io.ReadCloser, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", domain.NewInternalError("Failed to build article request", err)
	}
	req.Header.Set("User-Agent", e.cfg.UserAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := e.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, "", err
		}
		return nil, "", domain.NewExtractionTimeoutError(url, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		resp.Body.Close()
		return nil, "", domain.NewArticleNotFoundError(url)
	case resp.StatusCode >= 400:
		resp.Body.Close()
		return nil, "", domain.NewExtractionParseError(url, fmt.Sprintf("unexpected response status %d", resp.StatusCode))
	}

	if !e.cfg.KeepRawHTML {
		return resp.Body, "", nil
	}

	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, "", domain.NewExtractionTimeoutError(url, err)
	}
	return io.NopCloser(strings.NewReader(string(raw))), string(raw), nil
}

func extractTitle(doc *goquery.Document) string {
	if title := strings.TrimSpace(doc.Find("h1#firstHeading").First().Text()); title != "" {
		return title
	}
	// Degraded markup still carries the page <title>.
	title := strings.TrimSpace(doc.Find("title").First().Text())
	return strings.TrimSpace(strings.Replace(title, " - Wikipedia", "", 1))
}

// extractSummary joins the first (at most) two substantial lead paragraphs.
func extractSummary(doc *goquery.Document) string {
	var paragraphs []string
	doc.Find("div.mw-parser-output p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if len(text) > 50 {
			paragraphs = append(paragraphs, text)
		}
		return len(paragraphs) < 2
	})
	return strings.Join(paragraphs, "\n\n")
}

func extractSections(doc *goquery.Document) []string {
	sections := []string{}
	doc.Find("div.mw-parser-output h2").Each(func(_ int, s *goquery.Selection) {
		name := headlineText(s)
		if name == "" {
			return
		}
		if _, skip := excludedSections[name]; skip {
			return
		}
		sections = append(sections, name)
	})
	return sections
}

// headlineText pulls the section name out of an h2, preferring the
// .mw-headline span and stripping edit-link artifacts.
func headlineText(h2 *goquery.Selection) string {
	if headline := strings.TrimSpace(h2.Find(".mw-headline").First().Text()); headline != "" {
		return headline
	}
	text := strings.Replace(h2.Text(), "[edit]", "", 1)
	return strings.TrimSpace(text)
}

// extractContent walks paragraphs and section headings in document order
// and stops at the first boilerplate section.
func extractContent(doc *goquery.Document) string {
	var parts []string
	doc.Find("div.mw-parser-output p, div.mw-parser-output h2").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if goquery.NodeName(s) == "h2" {
			_, stop := excludedSections[headlineText(s)]
			return !stop
		}
		if text := strings.TrimSpace(s.Text()); text != "" {
			parts = append(parts, text)
		}
		return true
	})
	return strings.Join(parts, "\n\n")
}

func extractEntities(doc *goquery.Document) domain.EntitySet {
	set := domain.EntitySet{
		People:        []string{},
		Organizations: []string{},
		Locations:     []string{},
	}
	seen := make(map[string]struct{})

	add := func(bucket *[]string, kind, name string) {
		if len(*bucket) >= maxEntitiesPerBucket {
			return
		}
		key := kind + ":" + name
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		*bucket = append(*bucket, name)
	}

	// People come from infobox rows whose header names a relationship.
	doc.Find("table.infobox tr").Each(func(_ int, row *goquery.Selection) {
		label := strings.TrimSpace(row.Find("th").First().Text())
		if _, ok := peopleInfoboxLabels[label]; !ok {
			return
		}
		row.Find("td a[href^='/wiki/']").Each(func(_ int, a *goquery.Selection) {
			if name := anchorText(a); name != "" {
				add(&set.People, "person", name)
			}
		})
	})

	// Organizations and locations come from body links whose target slug
	// carries a telltale keyword.
	doc.Find("div.mw-parser-output a[href^='/wiki/']").Each(func(_ int, a *goquery.Selection) {
		name := anchorText(a)
		if name == "" {
			return
		}
		href, _ := a.Attr("href")
		hrefLower := strings.ToLower(href)
		switch {
		case containsAny(hrefLower, organizationHrefKeywords):
			add(&set.Organizations, "org", name)
		case containsAny(hrefLower, locationHrefKeywords):
			add(&set.Locations, "loc", name)
		}
	})

	return set
}

// anchorText filters out citation markers and fragments too short to be
// names.
func anchorText(a *goquery.Selection) string {
	text := strings.TrimSpace(a.Text())
	if len(text) < 3 || strings.Contains(text, "[") {
		return ""
	}
	return text
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// truncateContent bounds the article body. The cut lands on the last
// paragraph boundary when one exists past 70% of the limit, and the marker
// records that content was dropped.
func truncateContent(content string, maxChars int) string {
	if maxChars <= 0 || len(content) <= maxChars {
		return content
	}

	cut := maxChars
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	truncated := content[:cut]
	if idx := strings.LastIndex(truncated, "\n\n"); idx > (maxChars*7)/10 {
		truncated = truncated[:idx]
	}
	return truncated + "\n\n" + TruncationMarker
}
