package search

import "errors"

// ErrUnknownLexicon reports a dictionary hit whose path is missing from the
// lexicon table. The search filter set and the table are built from the same
// literal below and must stay in lockstep, so this is a programming error,
// not an upstream condition.
var ErrUnknownLexicon = errors.New("search hit from unknown lexicon path")

// lexiconPaths are the category paths of the searchable reference
// dictionaries, in the order they are sent as search filters.
var lexiconPaths = []string{
	"Reference/Dictionary/Jastrow",
	"Reference/Dictionary/Klein Dictionary",
	"Reference/Dictionary/BDB",
	"Reference/Dictionary/BDB Aramaic",
	"Reference/Encyclopedic Works/Kovetz Yesodot VaChakirot",
}

// lexiconDisplayNames maps each lexicon path to its display name. Read-only
// after init.
var lexiconDisplayNames = map[string]string{
	"Reference/Dictionary/Jastrow":                           "Jastrow Dictionary",
	"Reference/Dictionary/Klein Dictionary":                  "Klein Dictionary",
	"Reference/Dictionary/BDB":                               "BDB Dictionary",
	"Reference/Dictionary/BDB Aramaic":                       "BDB Aramaic Dictionary",
	"Reference/Encyclopedic Works/Kovetz Yesodot VaChakirot": "Kovetz Yesodot VaChakirot",
}

// LexiconFilters returns a copy of the fixed dictionary filter set.
func LexiconFilters() []string {
	out := make([]string, len(lexiconPaths))
	copy(out, lexiconPaths)
	return out
}

// LexiconNames returns the display names of all known lexicons.
func LexiconNames() []string {
	out := make([]string, 0, len(lexiconPaths))
	for _, p := range lexiconPaths {
		out = append(out, lexiconDisplayNames[p])
	}
	return out
}
