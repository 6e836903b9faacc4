package firecrawl

import (
	"bytes"
	"encoding/json"

	"github.com/samber/mo"
)

// ScrapeOptions controls how a single page is fetched and rendered by the
// scraping service. Keys follow the API's camelCase naming.
type ScrapeOptions struct {
	Formats         []string       `json:"formats,omitempty"`
	OnlyMainContent *bool          `json:"onlyMainContent,omitempty"`
	IncludeTags     []string       `json:"includeTags,omitempty"`
	ExcludeTags     []string       `json:"excludeTags,omitempty"`
	Headers         map[string]any `json:"headers,omitempty"`
	WaitFor         int            `json:"waitFor,omitempty"`
	Timeout         int            `json:"timeout,omitempty"`
	Mobile          bool           `json:"mobile,omitempty"`
}

// ScrapeOptionsFromParams builds a ScrapeOptions value from a raw parameter
// map. Unknown keys make the construction fail, so callers can fall back to
// passing the raw map through instead.
func ScrapeOptionsFromParams(params map[string]any) mo.Result[ScrapeOptions] {
	data, err := json.Marshal(params)
	if err != nil {
		return mo.Err[ScrapeOptions](err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var opts ScrapeOptions
	if err := dec.Decode(&opts); err != nil {
		return mo.Err[ScrapeOptions](err)
	}
	return mo.Ok(opts)
}
