package loader

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/webharvest/loader-http-service/common/firecrawl"
)

// mockClient records call arguments and plays back canned responses.
type mockClient struct {
	scrapeResult  *firecrawl.ScrapeResult
	crawlResponse *firecrawl.CrawlResponse
	mapLinks      []string
	extractData   json.RawMessage
	searchResults []firecrawl.ScrapeResult
	err           error

	scrapeURL     string
	scrapeOpts    *firecrawl.ScrapeOptions
	crawlURL      string
	crawlRequest  firecrawl.CrawlRequest
	mapParams     map[string]any
	extractURLs   []string
	extractParams map[string]any
	searchQuery   string
	searchParams  map[string]any
}

func (m *mockClient) Scrape(ctx context.Context, url string, opts *firecrawl.ScrapeOptions) (*firecrawl.ScrapeResult, error) {
	m.scrapeURL = url
	m.scrapeOpts = opts
	return m.scrapeResult, m.err
}

func (m *mockClient) Crawl(ctx context.Context, url string, req firecrawl.CrawlRequest) (*firecrawl.CrawlResponse, error) {
	m.crawlURL = url
	m.crawlRequest = req
	return m.crawlResponse, m.err
}

func (m *mockClient) MapURL(ctx context.Context, url string, params map[string]any) ([]string, error) {
	m.mapParams = params
	return m.mapLinks, m.err
}

func (m *mockClient) Extract(ctx context.Context, urls []string, params map[string]any) (json.RawMessage, error) {
	m.extractURLs = urls
	m.extractParams = params
	return m.extractData, m.err
}

func (m *mockClient) Search(ctx context.Context, query string, params map[string]any) ([]firecrawl.ScrapeResult, error) {
	m.searchQuery = query
	m.searchParams = params
	return m.searchResults, m.err
}

func TestNewWithClient(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		mode    Mode
		wantErr error
	}{
		{"scrape mode", "https://example.com", ModeScrape, nil},
		{"crawl mode", "https://example.com", ModeCrawl, nil},
		{"map mode", "https://example.com", ModeMap, nil},
		{"extract mode", "https://example.com", ModeExtract, nil},
		{"search mode", "https://example.com", ModeSearch, nil},
		{"unknown mode", "https://example.com", Mode("download"), ErrInvalidMode},
		{"empty mode", "https://example.com", Mode(""), ErrInvalidMode},
		{"case sensitive mode", "https://example.com", Mode("Scrape"), ErrInvalidMode},
		{"empty url", "", ModeScrape, ErrURLRequired},
		{"empty url crawl", "", ModeCrawl, ErrURLRequired},
		{"empty url search", "", ModeSearch, ErrURLRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWithClient(&mockClient{}, Config{URL: tt.url, Mode: tt.mode})
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestNewWithClientNilClient(t *testing.T) {
	_, err := NewWithClient(nil, Config{URL: "https://example.com", Mode: ModeScrape})
	if !errors.Is(err, ErrClientRequired) {
		t.Errorf("Expected ErrClientRequired, got %v", err)
	}
}

func TestParseMode(t *testing.T) {
	for _, valid := range []string{"scrape", "crawl", "map", "extract", "search"} {
		if _, err := ParseMode(valid); err != nil {
			t.Errorf("ParseMode(%q) unexpected error: %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "SCRAPE", "render", "crawl "} {
		if _, err := ParseMode(invalid); !errors.Is(err, ErrInvalidMode) {
			t.Errorf("ParseMode(%q) expected ErrInvalidMode, got %v", invalid, err)
		}
	}
}

func TestLoadScrape(t *testing.T) {
	tests := []struct {
		name        string
		result      firecrawl.ScrapeResult
		wantCount   int
		wantContent string
	}{
		{
			"markdown content",
			firecrawl.ScrapeResult{Markdown: "abc"},
			1, "abc",
		},
		{
			"html fallback",
			firecrawl.ScrapeResult{HTML: "<p>hi</p>"},
			1, "<p>hi</p>",
		},
		{
			"raw html fallback",
			firecrawl.ScrapeResult{RawHTML: "<html></html>"},
			1, "<html></html>",
		},
		{
			"markdown wins over html",
			firecrawl.ScrapeResult{Markdown: "md", HTML: "<p>html</p>", RawHTML: "raw"},
			1, "md",
		},
		{
			"no content fields",
			firecrawl.ScrapeResult{Metadata: map[string]any{"title": "t"}},
			0, "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockClient{scrapeResult: &tt.result}
			l, err := NewWithClient(client, Config{URL: "https://example.com", Mode: ModeScrape})
			if err != nil {
				t.Fatal(err)
			}

			docs, err := l.Load(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if len(docs) != tt.wantCount {
				t.Fatalf("Expected %d documents, got %d", tt.wantCount, len(docs))
			}
			if tt.wantCount > 0 && docs[0].Content != tt.wantContent {
				t.Errorf("Expected content %q, got %q", tt.wantContent, docs[0].Content)
			}
			if client.scrapeURL != "https://example.com" {
				t.Errorf("Expected scrape url to be passed through, got %q", client.scrapeURL)
			}
		})
	}
}

func TestLoadScrapeMetadata(t *testing.T) {
	client := &mockClient{scrapeResult: &firecrawl.ScrapeResult{
		Markdown: "abc",
		Metadata: map[string]any{"sourceURL": "https://example.com", "statusCode": 200},
	}}
	l, err := NewWithClient(client, Config{URL: "https://example.com", Mode: ModeScrape})
	if err != nil {
		t.Fatal(err)
	}

	docs, err := l.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 {
		t.Fatalf("Expected 1 document, got %d", len(docs))
	}
	if docs[0].Metadata["sourceURL"] != "https://example.com" {
		t.Errorf("Expected metadata to pass through, got %v", docs[0].Metadata)
	}

	// Absent metadata becomes an empty, non-nil map.
	client.scrapeResult = &firecrawl.ScrapeResult{Markdown: "abc"}
	docs, err = l.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if docs[0].Metadata == nil || len(docs[0].Metadata) != 0 {
		t.Errorf("Expected empty metadata map, got %v", docs[0].Metadata)
	}
}

func TestLoadScrapeOptions(t *testing.T) {
	client := &mockClient{scrapeResult: &firecrawl.ScrapeResult{Markdown: "abc"}}
	l, err := NewWithClient(client, Config{
		URL:  "https://example.com",
		Mode: ModeScrape,
		Params: map[string]any{
			"scrapeOptions": map[string]any{
				"formats": []any{"markdown", "html"},
				"waitFor": float64(250),
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := l.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if client.scrapeOpts == nil {
		t.Fatal("Expected typed scrape options to be passed")
	}
	if len(client.scrapeOpts.Formats) != 2 || client.scrapeOpts.Formats[0] != "markdown" {
		t.Errorf("Expected formats to be translated, got %v", client.scrapeOpts.Formats)
	}
	if client.scrapeOpts.WaitFor != 250 {
		t.Errorf("Expected waitFor 250, got %d", client.scrapeOpts.WaitFor)
	}
}

func TestLoadCrawlSkipsEmptyItems(t *testing.T) {
	client := &mockClient{crawlResponse: &firecrawl.CrawlResponse{
		Status: "completed",
		Data: []firecrawl.ScrapeResult{
			{Markdown: "first"},
			{},
			{Markdown: "third"},
		},
	}}
	l, err := NewWithClient(client, Config{URL: "https://example.com", Mode: ModeCrawl})
	if err != nil {
		t.Fatal(err)
	}

	docs, err := l.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 {
		t.Fatalf("Expected 2 documents, got %d", len(docs))
	}
	if docs[0].Content != "first" || docs[1].Content != "third" {
		t.Errorf("Expected original order, got %q then %q", docs[0].Content, docs[1].Content)
	}
}

func TestCrawlParamTranslation(t *testing.T) {
	client := &mockClient{crawlResponse: &firecrawl.CrawlResponse{Status: "completed"}}
	l, err := NewWithClient(client, Config{
		URL:  "https://example.com",
		Mode: ModeCrawl,
		Params: map[string]any{
			"maxDepth":           2,
			"limit":              float64(10),
			"includePaths":       []any{"/blog/*"},
			"excludePaths":       []string{"/admin/*"},
			"allowExternalLinks": true,
			"allowBackwardLinks": false,
			"ignoreSitemap":      true,
			"unknownKey":         "ignored",
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := l.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	req := client.crawlRequest
	if req.MaxDepth != 2 {
		t.Errorf("Expected max_depth=2, got %d", req.MaxDepth)
	}
	if req.Limit != 10 {
		t.Errorf("Expected limit=10, got %d", req.Limit)
	}
	if len(req.IncludePaths) != 1 || req.IncludePaths[0] != "/blog/*" {
		t.Errorf("Expected include_paths translated, got %v", req.IncludePaths)
	}
	if len(req.ExcludePaths) != 1 || req.ExcludePaths[0] != "/admin/*" {
		t.Errorf("Expected exclude_paths translated, got %v", req.ExcludePaths)
	}
	if req.AllowExternalLinks == nil || !*req.AllowExternalLinks {
		t.Error("Expected allow_external_links=true")
	}
	if req.AllowBackwardLinks == nil || *req.AllowBackwardLinks {
		t.Error("Expected allow_backward_links=false")
	}
	if req.IgnoreSitemap == nil || !*req.IgnoreSitemap {
		t.Error("Expected ignore_sitemap=true")
	}

	// The translated keys are what goes over the wire.
	wire, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"max_depth", "limit", "include_paths", "exclude_paths", "allow_external_links", "ignore_sitemap"} {
		if !strings.Contains(string(wire), key) {
			t.Errorf("Expected wire key %q in %s", key, wire)
		}
	}
	if strings.Contains(string(wire), "unknownKey") {
		t.Errorf("Unrecognized key leaked into crawl request: %s", wire)
	}
}

func TestCrawlScrapeOptionsFallback(t *testing.T) {
	client := &mockClient{crawlResponse: &firecrawl.CrawlResponse{Status: "completed"}}

	// Well-formed options build the typed value.
	l, err := NewWithClient(client, Config{
		URL:  "https://example.com",
		Mode: ModeCrawl,
		Params: map[string]any{
			"scrapeOptions": map[string]any{"formats": []any{"markdown"}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := l.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, ok := client.crawlRequest.ScrapeOptions.(firecrawl.ScrapeOptions); !ok {
		t.Errorf("Expected typed scrape options, got %T", client.crawlRequest.ScrapeOptions)
	}

	// Options the typed constructor rejects are passed through raw.
	raw := map[string]any{"formats": []any{"markdown"}, "notARealOption": true}
	l, err = NewWithClient(client, Config{
		URL:    "https://example.com",
		Mode:   ModeCrawl,
		Params: map[string]any{"scrapeOptions": raw},
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := l.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	got, ok := client.crawlRequest.ScrapeOptions.(map[string]any)
	if !ok {
		t.Fatalf("Expected raw map fallback, got %T", client.crawlRequest.ScrapeOptions)
	}
	if got["notARealOption"] != true {
		t.Errorf("Expected raw options passed through, got %v", got)
	}
}

func TestLoadMap(t *testing.T) {
	client := &mockClient{mapLinks: []string{"a", "b"}}
	l, err := NewWithClient(client, Config{
		URL:    "https://example.com",
		Mode:   ModeMap,
		Params: map[string]any{"search": "docs"},
	})
	if err != nil {
		t.Fatal(err)
	}

	docs, err := l.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 {
		t.Fatalf("Expected 2 documents, got %d", len(docs))
	}
	if docs[0].Content != "a" || docs[1].Content != "b" {
		t.Errorf("Expected contents a, b in order, got %q, %q", docs[0].Content, docs[1].Content)
	}
	for i, doc := range docs {
		if doc.Metadata == nil || len(doc.Metadata) != 0 {
			t.Errorf("Expected empty metadata for document %d, got %v", i, doc.Metadata)
		}
	}
	if client.mapParams["search"] != "docs" {
		t.Errorf("Expected params passed through verbatim, got %v", client.mapParams)
	}
}

func TestLoadExtract(t *testing.T) {
	client := &mockClient{extractData: json.RawMessage(`{"company":"Example"}`)}
	l, err := NewWithClient(client, Config{
		URL:    "https://example.com",
		Mode:   ModeExtract,
		Params: map[string]any{"prompt": "company name"},
	})
	if err != nil {
		t.Fatal(err)
	}

	docs, err := l.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 {
		t.Fatalf("Expected 1 document, got %d", len(docs))
	}
	if docs[0].Content != `{"company":"Example"}` {
		t.Errorf("Expected stringified extraction, got %q", docs[0].Content)
	}
	if len(client.extractURLs) != 1 || client.extractURLs[0] != "https://example.com" {
		t.Errorf("Expected url passed as one-element list, got %v", client.extractURLs)
	}
	if client.extractParams["prompt"] != "company name" {
		t.Errorf("Expected params passed through verbatim, got %v", client.extractParams)
	}
}

func TestLoadSearch(t *testing.T) {
	client := &mockClient{searchResults: []firecrawl.ScrapeResult{{Markdown: "result"}}}
	l, err := NewWithClient(client, Config{
		URL:    "https://example.com",
		Mode:   ModeSearch,
		Params: map[string]any{"query": "x", "limit": 3},
	})
	if err != nil {
		t.Fatal(err)
	}

	docs, err := l.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].Content != "result" {
		t.Fatalf("Expected single search document, got %v", docs)
	}
	if client.searchQuery != "x" {
		t.Errorf("Expected query %q, got %q", "x", client.searchQuery)
	}
	if client.searchParams["limit"] != 3 {
		t.Errorf("Expected full params alongside query, got %v", client.searchParams)
	}
}

func TestUpstreamErrorsPassThrough(t *testing.T) {
	upstream := errors.New("quota exceeded")

	for _, mode := range []Mode{ModeScrape, ModeCrawl, ModeMap, ModeExtract, ModeSearch} {
		t.Run(mode.String(), func(t *testing.T) {
			client := &mockClient{err: upstream}
			l, err := NewWithClient(client, Config{URL: "https://example.com", Mode: mode})
			if err != nil {
				t.Fatal(err)
			}

			_, err = l.Load(context.Background())
			if !errors.Is(err, upstream) {
				t.Errorf("Expected upstream error passed through unchanged, got %v", err)
			}
		})
	}
}

func TestLoadAsyncPreservesOrder(t *testing.T) {
	client := &mockClient{crawlResponse: &firecrawl.CrawlResponse{
		Status: "completed",
		Data: []firecrawl.ScrapeResult{
			{Markdown: "one"},
			{Markdown: "two"},
			{Markdown: "three"},
		},
	}}
	l, err := NewWithClient(client, Config{URL: "https://example.com", Mode: ModeCrawl})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var contents []string
	for result := range l.LoadAsync(ctx) {
		if result.Err != nil {
			t.Fatalf("Unexpected error: %v", result.Err)
		}
		contents = append(contents, result.Document.Content)
	}

	want := []string{"one", "two", "three"}
	if len(contents) != len(want) {
		t.Fatalf("Expected %d documents, got %d", len(want), len(contents))
	}
	for i := range want {
		if contents[i] != want[i] {
			t.Errorf("Expected document %d to be %q, got %q", i, want[i], contents[i])
		}
	}
}

func TestLoadAsyncDeliversError(t *testing.T) {
	upstream := errors.New("unauthorized")
	client := &mockClient{err: upstream}
	l, err := NewWithClient(client, Config{URL: "https://example.com", Mode: ModeScrape})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var results []Result
	for result := range l.LoadAsync(ctx) {
		results = append(results, result)
	}
	if len(results) != 1 {
		t.Fatalf("Expected a single error result, got %d results", len(results))
	}
	if !errors.Is(results[0].Err, upstream) {
		t.Errorf("Expected upstream error, got %v", results[0].Err)
	}
}
