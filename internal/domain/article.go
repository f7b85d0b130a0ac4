package domain

import "time"

// EntitySet groups the named entities pulled from an article's links and
// infobox, bucketed by kind. Buckets are best-effort and bounded; any of
// them may be empty.
type EntitySet struct {
	People        []string `json:"people"`
	Organizations []string `json:"organizations"`
	Locations     []string `json:"locations"`
}

// Article is the extracted content of a single Wikipedia article. URL is
// always the canonical form produced by the normalizer, so equivalent inputs
// map to the same Article.
type Article struct {
	URL      string    `json:"url"`
	Title    string    `json:"title"`
	Summary  string    `json:"summary"`
	Sections []string  `json:"sections"`
	Entities EntitySet `json:"entities"`

	// Content is the plain-text article body, truncated to the configured
	// bound before it is handed to the model.
	Content string `json:"content"`

	// RawHTML optionally retains the fetched page for debugging. It never
	// leaves the cache layer and is empty unless keep_raw_html is enabled.
	RawHTML string `json:"raw_html,omitempty"`

	FetchedAt time.Time `json:"fetched_at"`
}
