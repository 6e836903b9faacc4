package loader

// Mode selects which external operation a load performs and how its results
// are normalized.
type Mode string

const (
	// ModeScrape fetches a single URL.
	ModeScrape Mode = "scrape"
	// ModeCrawl fetches all accessible sub pages of a URL.
	ModeCrawl Mode = "crawl"
	// ModeMap returns links semantically related to a URL.
	ModeMap Mode = "map"
	// ModeExtract extracts structured data from a URL.
	ModeExtract Mode = "extract"
	// ModeSearch searches for data across the web.
	ModeSearch Mode = "search"
)

// ParseMode validates a mode string against the enumerated set.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeScrape, ModeCrawl, ModeMap, ModeExtract, ModeSearch:
		return m, nil
	default:
		return "", ErrInvalidMode
	}
}

// Valid reports whether the mode is one of the enumerated values.
func (m Mode) Valid() bool {
	_, err := ParseMode(string(m))
	return err == nil
}

func (m Mode) String() string {
	return string(m)
}
