package firecrawl

import "encoding/json"

// ScrapeResult is a single rendered page as returned by the scrape, crawl and
// search endpoints. Exactly which content fields are populated depends on the
// formats requested in the scrape options.
type ScrapeResult struct {
	Markdown string         `json:"markdown,omitempty"`
	HTML     string         `json:"html,omitempty"`
	RawHTML  string         `json:"rawHtml,omitempty"`
	Links    []string       `json:"links,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// CrawlRequest holds the recognized parameters of a crawl call. Field names
// follow the API client's parameter naming, not the raw wire format.
type CrawlRequest struct {
	MaxDepth           int      `json:"max_depth,omitempty"`
	Limit              int      `json:"limit,omitempty"`
	IncludePaths       []string `json:"include_paths,omitempty"`
	ExcludePaths       []string `json:"exclude_paths,omitempty"`
	AllowExternalLinks *bool    `json:"allow_external_links,omitempty"`
	AllowBackwardLinks *bool    `json:"allow_backward_links,omitempty"`
	IgnoreSitemap      *bool    `json:"ignore_sitemap,omitempty"`

	// ScrapeOptions carries either a ScrapeOptions value or, when the typed
	// options could not be built from the caller's parameters, the raw map.
	ScrapeOptions any `json:"scrape_options,omitempty"`
}

// CrawlResponse is the final state of a finished crawl job.
type CrawlResponse struct {
	Status    string         `json:"status"`
	Total     int            `json:"total,omitempty"`
	Completed int            `json:"completed,omitempty"`
	Data      []ScrapeResult `json:"data"`
}

// MapResponse is the response of the link discovery endpoint.
type MapResponse struct {
	Links []string `json:"links"`
}

type scrapeEnvelope struct {
	Success bool         `json:"success"`
	Data    ScrapeResult `json:"data"`
	Error   string       `json:"error,omitempty"`
}

type crawlStartEnvelope struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	URL     string `json:"url,omitempty"`
	Error   string `json:"error,omitempty"`
}

type crawlStatusEnvelope struct {
	Status    string         `json:"status"`
	Total     int            `json:"total,omitempty"`
	Completed int            `json:"completed,omitempty"`
	Data      []ScrapeResult `json:"data"`
	Error     string         `json:"error,omitempty"`
}

type mapEnvelope struct {
	Success bool     `json:"success"`
	Links   []string `json:"links"`
	Error   string   `json:"error,omitempty"`
}

type extractEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error,omitempty"`
}

type searchEnvelope struct {
	Success bool           `json:"success"`
	Data    []ScrapeResult `json:"data"`
	Error   string         `json:"error,omitempty"`
}
