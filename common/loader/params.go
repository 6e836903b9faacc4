package loader

import (
	"github.com/webharvest/loader-http-service/common/firecrawl"
)

// buildCrawlRequest translates the recognized crawl parameter keys into the
// client's typed request. Unrecognized keys are ignored, matching the
// service's own behavior of rejecting unknown crawl parameters.
func buildCrawlRequest(params map[string]any) firecrawl.CrawlRequest {
	var req firecrawl.CrawlRequest

	if depth, ok := intParam(params, "maxDepth"); ok {
		req.MaxDepth = depth
	}
	if limit, ok := intParam(params, "limit"); ok {
		req.Limit = limit
	}
	if paths, ok := stringsParam(params, "includePaths"); ok {
		req.IncludePaths = paths
	}
	if paths, ok := stringsParam(params, "excludePaths"); ok {
		req.ExcludePaths = paths
	}
	if v, ok := boolParam(params, "allowExternalLinks"); ok {
		req.AllowExternalLinks = &v
	}
	if v, ok := boolParam(params, "allowBackwardLinks"); ok {
		req.AllowBackwardLinks = &v
	}
	if v, ok := boolParam(params, "ignoreSitemap"); ok {
		req.IgnoreSitemap = &v
	}

	if raw, ok := scrapeOptionParams(params); ok {
		if built := firecrawl.ScrapeOptionsFromParams(raw); built.IsOk() {
			req.ScrapeOptions = built.MustGet()
		} else {
			// Fallback: hand the raw mapping to the service as-is.
			req.ScrapeOptions = raw
		}
	}

	return req
}

func scrapeOptionParams(params map[string]any) (map[string]any, bool) {
	raw, ok := params["scrapeOptions"].(map[string]any)
	return raw, ok
}

// intParam reads an integer parameter. JSON-decoded params arrive as float64,
// so both numeric representations are accepted.
func intParam(params map[string]any, key string) (int, bool) {
	switch v := params[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func boolParam(params map[string]any, key string) (bool, bool) {
	v, ok := params[key].(bool)
	return v, ok
}

// stringsParam reads a string-slice parameter, accepting both []string and
// the []any produced by JSON decoding.
func stringsParam(params map[string]any, key string) ([]string, bool) {
	switch v := params[key].(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}
