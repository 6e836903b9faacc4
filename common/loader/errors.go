package loader

import (
	"errors"
)

// Common error constants
var (
	// ErrClientRequired is returned when no service client is available at construction
	ErrClientRequired = errors.New("firecrawl client is required")

	// ErrInvalidMode is returned when the mode is outside the enumerated set
	ErrInvalidMode = errors.New("invalid loader mode, allowed: scrape, crawl, map, extract, search")

	// ErrURLRequired is returned when the target URL is empty
	ErrURLRequired = errors.New("url must be provided")
)
