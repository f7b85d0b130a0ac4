package domain

import "context"

// ArticleExtractor defines the interface for fetching and parsing a
// Wikipedia article into its structured form.
type ArticleExtractor interface {
	// Extract downloads the article at the canonical URL and pulls out the
	// title, summary, section list, entities and bounded body text.
	//
	// Failure modes map onto the extraction error taxonomy: a missing page
	// yields CodeArticleNotFound, network trouble CodeExtractionTimeout,
	// and unrecognizable markup CodeExtractionParse.
	Extract(ctx context.Context, canonicalURL string) (*Article, error)
}
