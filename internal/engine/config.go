package engine

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// SearchConfig holds the parameters for one search client instance.
// Validated once at construction, immutable afterwards.
type SearchConfig struct {
	BaseURL    string
	Timeout    time.Duration
	MaxResults int
	Language   string
	SafeSearch int      // 0=off, 1=moderate, 2=strict
	TimeRange  string   // "", day, month, year
	Categories []string // ordered, comma-joined on the wire
	Engines    []string // ordered, comma-joined on the wire
}

// DefaultConfig matches a local SearXNG instance.
func DefaultConfig() SearchConfig {
	return SearchConfig{
		BaseURL:    "http://localhost:8888",
		Timeout:    30 * time.Second,
		MaxResults: 10,
		Language:   "en",
		SafeSearch: 0,
		Categories: []string{"general"},
	}
}

// Validate checks the configuration. Invalid values fail construction,
// they are never silently clamped.
func (c SearchConfig) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.BaseURL, validation.Required, validation.By(httpBaseURL)),
		validation.Field(&c.Timeout, validation.Required, validation.Min(time.Nanosecond)),
		validation.Field(&c.MaxResults, validation.Required, validation.Min(1)),
		validation.Field(&c.SafeSearch, validation.In(0, 1, 2)),
		validation.Field(&c.TimeRange, validation.In("", "day", "month", "year")),
	)
	if err != nil {
		return &ConfigurationError{Reason: err.Error(), Err: err}
	}
	return nil
}

func httpBaseURL(value interface{}) error {
	s, _ := value.(string)
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return errors.New("must start with http:// or https://")
	}
	return nil
}

// Overrides carries caller-supplied per-search parameters. Non-zero fields
// win over the configuration-derived ones; Extra entries win over everything.
type Overrides struct {
	Language   string
	SafeSearch *int
	TimeRange  string
	Categories []string
	Engines    []string
	Extra      map[string]string
}

// buildSearchParams merges configuration-derived parameters with overrides.
// Pure function. Precedence: Extra > Overrides fields > SearchConfig.
func buildSearchParams(cfg SearchConfig, query string, ov *Overrides) url.Values {
	if ov == nil {
		ov = &Overrides{}
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")

	language := cfg.Language
	if ov.Language != "" {
		language = ov.Language
	}
	params.Set("language", language)

	safeSearch := cfg.SafeSearch
	if ov.SafeSearch != nil {
		safeSearch = *ov.SafeSearch
	}
	params.Set("safesearch", strconv.Itoa(safeSearch))

	timeRange := cfg.TimeRange
	if ov.TimeRange != "" {
		timeRange = ov.TimeRange
	}
	if timeRange != "" {
		params.Set("time_range", timeRange)
	}

	categories := cfg.Categories
	if len(ov.Categories) > 0 {
		categories = ov.Categories
	}
	if len(categories) > 0 {
		params.Set("categories", strings.Join(categories, ","))
	}

	engines := cfg.Engines
	if len(ov.Engines) > 0 {
		engines = ov.Engines
	}
	if len(engines) > 0 {
		params.Set("engines", strings.Join(engines, ","))
	}

	for k, v := range ov.Extra {
		params.Set(k, v)
	}
	return params
}
