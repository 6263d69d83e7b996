// Package search implements the Sefaria full-text search engine: payload
// construction, the fallback-on-empty-results policy, snippet derivation,
// book-name resolution, and dictionary-entry extraction.
package search

import (
	"context"
	"fmt"
	"net/url"
	"sort"

	"github.com/sefaria-community/sefaria-mcp/internal/logging"
	"github.com/sefaria-community/sefaria-mcp/internal/sefaria"
)

const (
	// DefaultSize is the result-size limit used when the caller passes none.
	DefaultSize = 10
	// dictionarySize is the fixed result-size limit for dictionary search.
	dictionarySize = 8
	// snippetLength bounds raw-field snippets when no highlight is present.
	snippetLength = 300
	// highlightSeparator joins multiple highlighted fragments of one field.
	highlightSeparator = " [...] "
	// searchEndpoint is the Elasticsearch wrapper the queries are sent to.
	searchEndpoint = "api/search-wrapper/es8"
)

// FilterCorrection is attached to every result served by the unfiltered
// fallback retry.
const FilterCorrection = "Removed filters due to no results"

// snippetFields are the raw source fields tried, in order, when a hit
// carries no highlight.
var snippetFields = []string{"naive_lemmatizer", "exact"}

// Result is one formatted search hit.
type Result struct {
	Ref              string   `json:"ref"`
	Categories       []string `json:"categories"`
	OriginalFilter   []string `json:"original_filter,omitempty"`
	FilterCorrection string   `json:"filter_correction,omitempty"`
	TextSnippet      string   `json:"text_snippet"`
}

// DictionaryEntry is one formatted dictionary hit.
type DictionaryEntry struct {
	Ref         string `json:"ref"`
	Headword    string `json:"headword"`
	LexiconName string `json:"lexicon_name"`
	Text        any    `json:"text"`
}

// Engine executes searches against the upstream API. It holds no state
// across calls; every method is a single request lifecycle.
type Engine struct {
	client *sefaria.Client
	log    logging.Logger
}

// NewEngine creates a search engine on top of client.
func NewEngine(client *sefaria.Client, log logging.Logger) *Engine {
	return &Engine{client: client, log: log}
}

// SearchTexts runs a filtered library search. When the filtered attempt
// yields zero hits and filters were provided, it retries once with filters
// cleared; results from that retry record the correction. An empty result
// list is a valid, non-error outcome.
func (e *Engine) SearchTexts(ctx context.Context, query string, filters []string, size int) ([]Result, error) {
	if size <= 0 {
		size = DefaultSize
	}

	doc, err := e.rawSearch(ctx, query, filters, size)
	if err != nil {
		return nil, err
	}
	hits := extractHits(doc)

	fellBack := false
	if len(hits) == 0 && len(filters) > 0 {
		e.log.Info("no results with filters, retrying search without filters")
		doc, err = e.rawSearch(ctx, query, nil, size)
		if err != nil {
			return nil, err
		}
		hits = extractHits(doc)
		fellBack = true
	}

	results := make([]Result, 0, len(hits))
	for _, raw := range hits {
		hit, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		source, _ := hit["_source"].(map[string]any)

		// categories serializes as [] when absent, never null
		categories := stringSlice(source["categories"])
		if categories == nil {
			categories = []string{}
		}

		r := Result{
			Ref:         stringField(source, "ref"),
			Categories:  categories,
			TextSnippet: snippet(hit, source),
		}
		if fellBack {
			r.OriginalFilter = filters
			r.FilterCorrection = FilterCorrection
		}
		results = append(results, r)
	}

	if len(results) == 0 {
		logging.Debugf(e.log, "no results found for %q", query)
	}
	return results, nil
}

// SearchInBook searches within a single book. The book name is resolved to
// a filter path first; a failed resolution fails the whole operation rather
// than degrading to an unfiltered search, since book-scoped search without a
// valid scope would be a contract violation.
func (e *Engine) SearchInBook(ctx context.Context, query, bookName string, size int) ([]Result, error) {
	path, err := e.PathFilter(ctx, bookName)
	if err != nil {
		return nil, err
	}
	return e.SearchTexts(ctx, query, []string{path}, size)
}

// SearchDictionaries searches the fixed lexicon filter set. It never falls
// back to an unfiltered search: dictionary search must not silently search
// all texts. A hit whose path is absent from the lexicon table fails loudly.
func (e *Engine) SearchDictionaries(ctx context.Context, query string) ([]DictionaryEntry, error) {
	doc, err := e.rawSearch(ctx, query, LexiconFilters(), dictionarySize)
	if err != nil {
		return nil, err
	}

	hits := extractHits(doc)
	entries := make([]DictionaryEntry, 0, len(hits))
	for _, raw := range hits {
		hit, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		source, _ := hit["_source"].(map[string]any)

		path := stringField(source, "path")
		name, known := lexiconDisplayNames[path]
		if !known {
			return nil, fmt.Errorf("%w: %q", ErrUnknownLexicon, path)
		}

		entry := DictionaryEntry{
			Ref:         stringField(source, "ref"),
			LexiconName: name,
			Text:        source["exact"],
		}
		if variants := stringSlice(source["titleVariants"]); len(variants) > 0 {
			entry.Headword = variants[0]
		}
		entries = append(entries, entry)
	}

	logging.Debugf(e.log, "dictionary search results count: %d", len(entries))
	return entries, nil
}

// PathFilter resolves a book name to its search filter path via the
// search-path-filter endpoint. An empty or null response wraps
// sefaria.ErrResolution.
func (e *Engine) PathFilter(ctx context.Context, bookName string) (string, error) {
	path, err := e.client.GetPlainText(ctx, "api/search-path-filter/"+url.PathEscape(bookName))
	if err != nil {
		return "", err
	}
	if path == "" || path == "null" {
		return "", fmt.Errorf("%w: %q", sefaria.ErrResolution, bookName)
	}
	logging.Debugf(e.log, "resolved book %q to filter path %q", bookName, path)
	return path, nil
}

// rawSearch posts one search payload and returns the decoded response.
func (e *Engine) rawSearch(ctx context.Context, query string, filters []string, size int) (any, error) {
	if filters == nil {
		filters = []string{}
	}

	payload := map[string]any{
		"aggs":               []any{},
		"field":              "naive_lemmatizer",
		"filter_fields":      make([]any, len(filters)),
		"filters":            filters,
		"query":              query,
		"size":               size,
		"slop":               10,
		"sort_fields":        []string{"pagesheetrank"},
		"sort_method":        "score",
		"sort_reverse":       false,
		"sort_score_missing": 0.04,
		"source_proj":        true,
		"type":               "text",
	}

	return e.client.PostJSON(ctx, searchEndpoint, payload)
}

// extractHits pulls the hit list out of an Elasticsearch-shaped response.
func extractHits(doc any) []any {
	m, ok := doc.(map[string]any)
	if !ok {
		return nil
	}
	outer, ok := m["hits"].(map[string]any)
	if !ok {
		return nil
	}
	hits, _ := outer["hits"].([]any)
	return hits
}

// snippet derives the display text for a hit: highlighted-match fragments
// joined with an ellipsis separator when present, otherwise the first 300
// characters of the first non-empty candidate source field.
func snippet(hit, source map[string]any) string {
	if highlight, ok := hit["highlight"].(map[string]any); ok {
		// sorted for deterministic field selection
		fields := make([]string, 0, len(highlight))
		for field := range highlight {
			fields = append(fields, field)
		}
		sort.Strings(fields)

		for _, field := range fields {
			fragments := stringSlice(highlight[field])
			if len(fragments) > 0 {
				return joinFragments(fragments)
			}
		}
	}

	for _, field := range snippetFields {
		content, ok := source[field].(string)
		if !ok || content == "" {
			continue
		}
		// rune-wise so Hebrew text is never split mid-character
		if runes := []rune(content); len(runes) > snippetLength {
			return string(runes[:snippetLength]) + "..."
		}
		return content
	}

	return ""
}

func joinFragments(fragments []string) string {
	out := fragments[0]
	for _, f := range fragments[1:] {
		out += highlightSeparator + f
	}
	return out
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func stringSlice(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
