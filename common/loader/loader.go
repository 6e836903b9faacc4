package loader

import (
	"context"
	"encoding/json"
	"os"

	"github.com/samber/lo"

	"github.com/webharvest/loader-http-service/common/firecrawl"
)

// Environment variables consulted when the config leaves the corresponding
// field empty.
const (
	EnvAPIKey = "FIRECRAWL_API_KEY"
	EnvAPIURL = "FIRECRAWL_API_URL"
)

// Client is the external service boundary: one operation per mode. Its wire
// protocol, authentication and error types are opaque to the loader.
type Client interface {
	Scrape(ctx context.Context, url string, opts *firecrawl.ScrapeOptions) (*firecrawl.ScrapeResult, error)
	Crawl(ctx context.Context, url string, req firecrawl.CrawlRequest) (*firecrawl.CrawlResponse, error)
	MapURL(ctx context.Context, url string, params map[string]any) ([]string, error)
	Extract(ctx context.Context, urls []string, params map[string]any) (json.RawMessage, error)
	Search(ctx context.Context, query string, params map[string]any) ([]firecrawl.ScrapeResult, error)
}

// Config holds the immutable settings of one loader instance.
type Config struct {
	// URL is the target to load. Required.
	URL string
	// APIKey authenticates against the scraping service. Falls back to
	// FIRECRAWL_API_KEY when empty.
	APIKey string
	// APIURL overrides the service endpoint. Falls back to FIRECRAWL_API_URL,
	// then to the public default.
	APIURL string
	// Mode selects the external operation.
	Mode Mode
	// Params are mode-dependent parameters passed to the service.
	Params map[string]any
}

// Document is the loader's uniform output unit.
type Document struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
}

// Result pairs a document with a load error for the streaming variant.
type Result struct {
	Document Document
	Err      error
}

// Loader translates a load request into one call against the scraping
// service and normalizes the mode-dependent response into Documents.
type Loader struct {
	client Client
	cfg    Config
}

// New creates a loader backed by the real service client, resolving the API
// key and URL from the environment when the config leaves them empty. A
// missing key is not validated here; the service reports it on the first
// call.
func New(cfg Config) (*Loader, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv(EnvAPIKey)
	}
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = os.Getenv(EnvAPIURL)
	}

	cfg.APIKey = apiKey
	cfg.APIURL = apiURL

	return NewWithClient(firecrawl.NewClient(apiKey, apiURL), cfg)
}

// NewWithClient creates a loader on top of an existing client.
func NewWithClient(client Client, cfg Config) (*Loader, error) {
	if client == nil {
		return nil, ErrClientRequired
	}
	if !cfg.Mode.Valid() {
		return nil, ErrInvalidMode
	}
	if cfg.URL == "" {
		return nil, ErrURLRequired
	}
	if cfg.Params == nil {
		cfg.Params = map[string]any{}
	}

	return &Loader{
		client: client,
		cfg:    cfg,
	}, nil
}

// Config returns the loader configuration.
func (l *Loader) Config() Config {
	return l.cfg
}

// Load runs the configured operation and returns the normalized documents in
// the order the service produced them. Documents whose content resolves to
// empty are dropped. Service errors abort the whole load and surface
// unchanged.
func (l *Loader) Load(ctx context.Context) ([]Document, error) {
	switch l.cfg.Mode {
	case ModeScrape:
		return l.loadScrape(ctx)
	case ModeCrawl:
		return l.loadCrawl(ctx)
	case ModeMap:
		return l.loadMap(ctx)
	case ModeExtract:
		return l.loadExtract(ctx)
	case ModeSearch:
		return l.loadSearch(ctx)
	default:
		// Mode is validated at construction; re-check so a zero-value Loader
		// cannot dispatch.
		return nil, ErrInvalidMode
	}
}

// LoadAsync runs the same load without blocking the caller. Results arrive on
// the returned channel in load order; a failure is delivered as a single
// Result carrying the error, and the channel is closed when the load ends.
func (l *Loader) LoadAsync(ctx context.Context) <-chan Result {
	out := make(chan Result, 1)

	go func() {
		defer close(out)

		docs, err := l.Load(ctx)
		if err != nil {
			select {
			case out <- Result{Err: err}:
			case <-ctx.Done():
			}
			return
		}

		for _, doc := range docs {
			select {
			case out <- Result{Document: doc}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

func (l *Loader) loadScrape(ctx context.Context) ([]Document, error) {
	var opts *firecrawl.ScrapeOptions
	if raw, ok := scrapeOptionParams(l.cfg.Params); ok {
		// Pages scraped without typed options still render; an unknown key in
		// scrapeOptions is not fatal here.
		if built := firecrawl.ScrapeOptionsFromParams(raw); built.IsOk() {
			v := built.MustGet()
			opts = &v
		}
	}

	page, err := l.client.Scrape(ctx, l.cfg.URL, opts)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return []Document{}, nil
	}
	return normalizePages([]firecrawl.ScrapeResult{*page}), nil
}

func (l *Loader) loadCrawl(ctx context.Context) ([]Document, error) {
	if l.cfg.URL == "" {
		return nil, ErrURLRequired
	}

	resp, err := l.client.Crawl(ctx, l.cfg.URL, buildCrawlRequest(l.cfg.Params))
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return []Document{}, nil
	}
	return normalizePages(resp.Data), nil
}

func (l *Loader) loadMap(ctx context.Context) ([]Document, error) {
	if l.cfg.URL == "" {
		return nil, ErrURLRequired
	}

	links, err := l.client.MapURL(ctx, l.cfg.URL, l.cfg.Params)
	if err != nil {
		return nil, err
	}
	return normalizeTexts(links), nil
}

func (l *Loader) loadExtract(ctx context.Context) ([]Document, error) {
	if l.cfg.URL == "" {
		return nil, ErrURLRequired
	}

	raw, err := l.client.Extract(ctx, []string{l.cfg.URL}, l.cfg.Params)
	if err != nil {
		return nil, err
	}
	return normalizeTexts([]string{string(raw)}), nil
}

func (l *Loader) loadSearch(ctx context.Context) ([]Document, error) {
	query, _ := l.cfg.Params["query"].(string)

	pages, err := l.client.Search(ctx, query, l.cfg.Params)
	if err != nil {
		return nil, err
	}
	return normalizePages(pages), nil
}

// normalizePages converts page results into documents, resolving content as
// the first non-empty of markdown, html and rawHtml, in that order. Pages
// with no content are dropped.
func normalizePages(pages []firecrawl.ScrapeResult) []Document {
	return lo.FilterMap(pages, func(page firecrawl.ScrapeResult, _ int) (Document, bool) {
		content := page.Markdown
		if content == "" {
			content = page.HTML
		}
		if content == "" {
			content = page.RawHTML
		}
		if content == "" {
			return Document{}, false
		}

		metadata := page.Metadata
		if metadata == nil {
			metadata = map[string]any{}
		}
		return Document{Content: content, Metadata: metadata}, true
	})
}

// normalizeTexts treats each item as the document content with empty
// metadata, dropping empty items.
func normalizeTexts(items []string) []Document {
	return lo.FilterMap(items, func(item string, _ int) (Document, bool) {
		if item == "" {
			return Document{}, false
		}
		return Document{Content: item, Metadata: map[string]any{}}, true
	})
}
