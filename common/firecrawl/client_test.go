package firecrawl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestScrapeRequest(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}
		fmt.Fprint(w, `{"success":true,"data":{"markdown":"# hello","metadata":{"title":"Hello"}}}`)
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)
	result, err := client.Scrape(context.Background(), "https://example.com", &ScrapeOptions{
		Formats: []string{"markdown"},
	})
	if err != nil {
		t.Fatal(err)
	}

	if gotPath != "/v1/scrape" {
		t.Errorf("Expected /v1/scrape, got %s", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Expected bearer auth header, got %q", gotAuth)
	}
	if gotBody["url"] != "https://example.com" {
		t.Errorf("Expected url in body, got %v", gotBody)
	}
	formats, _ := gotBody["formats"].([]any)
	if len(formats) != 1 || formats[0] != "markdown" {
		t.Errorf("Expected formats in body, got %v", gotBody["formats"])
	}
	if result.Markdown != "# hello" {
		t.Errorf("Expected markdown content, got %q", result.Markdown)
	}
	if result.Metadata["title"] != "Hello" {
		t.Errorf("Expected metadata, got %v", result.Metadata)
	}
}

func TestUpstreamErrorMessagePassedThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		fmt.Fprint(w, `{"error":"Payment required: insufficient credits"}`)
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)
	_, err := client.Scrape(context.Background(), "https://example.com", nil)
	if err == nil {
		t.Fatal("Expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusPaymentRequired {
		t.Errorf("Expected status 402, got %d", apiErr.StatusCode)
	}
	if apiErr.Message != "Payment required: insufficient credits" {
		t.Errorf("Expected upstream message verbatim, got %q", apiErr.Message)
	}
	if err.Error() != "Payment required: insufficient credits" {
		t.Errorf("Expected Error() to carry the upstream message, got %q", err.Error())
	}
}

func TestCrawlPollsUntilCompleted(t *testing.T) {
	var polls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/crawl":
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("Failed to decode crawl body: %v", err)
			}
			if body["max_depth"] != float64(2) {
				t.Errorf("Expected max_depth=2 on the wire, got %v", body["max_depth"])
			}
			fmt.Fprint(w, `{"success":true,"id":"job-1"}`)
		case r.Method == http.MethodGet && r.URL.Path == "/v1/crawl/job-1":
			polls++
			if polls < 2 {
				fmt.Fprint(w, `{"status":"scraping","completed":1,"total":2,"data":[]}`)
				return
			}
			fmt.Fprint(w, `{"status":"completed","completed":2,"total":2,"data":[{"markdown":"a"},{"markdown":"b"}]}`)
		default:
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL, WithPollInterval(10*time.Millisecond))
	resp, err := client.Crawl(context.Background(), "https://example.com", CrawlRequest{MaxDepth: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("Expected 2 crawl results, got %d", len(resp.Data))
	}
	if resp.Data[0].Markdown != "a" || resp.Data[1].Markdown != "b" {
		t.Errorf("Expected results in order, got %v", resp.Data)
	}
	if polls < 2 {
		t.Errorf("Expected at least 2 status polls, got %d", polls)
	}
}

func TestCrawlFailedJob(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			fmt.Fprint(w, `{"success":true,"id":"job-2"}`)
			return
		}
		fmt.Fprint(w, `{"status":"failed","error":"target unreachable"}`)
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL, WithPollInterval(10*time.Millisecond))
	_, err := client.Crawl(context.Background(), "https://example.com", CrawlRequest{})
	if err == nil {
		t.Fatal("Expected error for failed crawl job")
	}
	if err.Error() != "target unreachable" {
		t.Errorf("Expected upstream job error, got %q", err.Error())
	}
}

func TestMapURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("Failed to decode map body: %v", err)
		}
		if body["search"] != "docs" {
			t.Errorf("Expected verbatim params, got %v", body)
		}
		fmt.Fprint(w, `{"success":true,"links":["https://example.com/a","https://example.com/b"]}`)
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)
	links, err := client.MapURL(context.Background(), "https://example.com", map[string]any{"search": "docs"})
	if err != nil {
		t.Fatal(err)
	}
	if len(links) != 2 {
		t.Fatalf("Expected 2 links, got %d", len(links))
	}
}

func TestSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("Failed to decode search body: %v", err)
		}
		if body["query"] != "golang" {
			t.Errorf("Expected query in body, got %v", body)
		}
		fmt.Fprint(w, `{"success":true,"data":[{"markdown":"hit","metadata":{"sourceURL":"https://go.dev"}}]}`)
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)
	results, err := client.Search(context.Background(), "golang", map[string]any{"query": "golang"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Markdown != "hit" {
		t.Fatalf("Expected one search result, got %v", results)
	}
}

func TestScrapeOptionsFromParams(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]any
		wantOk bool
	}{
		{"known keys", map[string]any{"formats": []any{"markdown"}, "waitFor": float64(100)}, true},
		{"empty params", map[string]any{}, true},
		{"unknown key", map[string]any{"renderEngine": "v8"}, false},
		{"wrong type", map[string]any{"waitFor": "soon"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ScrapeOptionsFromParams(tt.params)
			if result.IsOk() != tt.wantOk {
				t.Errorf("Expected ok=%v, got error=%v", tt.wantOk, result.Error())
			}
		})
	}
}
