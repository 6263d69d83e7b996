// Package optimize reduces upstream Sefaria payloads into compact shapes a
// language-model client can consume without blowing its context window.
//
// Every optimizer is a pure function over loosely-typed JSON
// (map[string]any / []any / scalar). The upstream schema is not
// contractually guaranteed, so each function starts with a shape check and
// passes unexpected input through unchanged rather than erroring: the
// caller tolerates extra or missing fields far better than a hard failure.
// All optimizers are idempotent.
package optimize

import "fmt"

// maxTopicRefs bounds the refs and links arrays on topic documents.
const maxTopicRefs = 10

// maxLinkText bounds the inline text carried on a link record.
const maxLinkText = 500

var textFields = allowlist(
	"ref", "versions", "available_versions", "requestedRef", "spanningRefs",
	"textType", "sectionRef", "he", "text", "primary_title",
)

var topicFields = allowlist(
	"slug", "titles", "description", "categoryDescription", "numSources",
	"primaryTitle", "image", "good_to_promote",
)

var indexFields = allowlist(
	"title", "heTitle", "titleVariants", "schema", "categories",
	"sectionNames", "addressTypes", "length", "lengths", "textDepth",
	"primaryTitle", "compDate", "era", "authors",
)

// Text prunes a v3 texts response down to its essential fields and reduces
// each version entry to the tuple the model actually needs.
func Text(doc any) any {
	m, ok := doc.(map[string]any)
	if !ok {
		return doc
	}

	out := pick(m, textFields)

	if versions, ok := out["versions"].([]any); ok {
		simplified := make([]any, 0, len(versions))
		for _, raw := range versions {
			v, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			// text may be a string or a nested array of verse strings
			simplified = append(simplified, map[string]any{
				"text":               valueOr(v, "text", ""),
				"versionTitle":       stringOr(v, "versionTitle"),
				"languageFamilyName": stringOr(v, "languageFamilyName"),
				"versionSource":      stringOr(v, "versionSource"),
			})
		}
		out["versions"] = simplified
	}

	if available, ok := out["available_versions"].([]any); ok {
		simplified := make([]any, 0, len(available))
		for _, raw := range available {
			v, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			simplified = append(simplified, map[string]any{
				"versionTitle":       stringOr(v, "versionTitle"),
				"languageFamilyName": stringOr(v, "languageFamilyName"),
			})
		}
		out["available_versions"] = simplified
	}

	return out
}

// Links reduces a link list to the fields that identify each connection.
// Inline text longer than 500 characters is truncated with an ellipsis.
func Links(doc any) any {
	list, ok := doc.([]any)
	if !ok {
		return doc
	}

	out := make([]any, 0, len(list))
	for _, raw := range list {
		link, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		reduced := map[string]any{
			"ref":        stringOr(link, "ref"),
			"sourceRef":  stringOr(link, "sourceRef"),
			"anchorText": stringOr(link, "anchorText"),
			"type":       stringOr(link, "type"),
			"category":   stringOr(link, "category"),
		}
		if text, ok := link["text"].(string); ok {
			// rune-wise so Hebrew text is never split mid-character
			if runes := []rune(text); len(runes) > maxLinkText {
				reduced["text"] = string(runes[:maxLinkText]) + "..."
			} else {
				reduced["text"] = text
			}
		}
		out = append(out, reduced)
	}

	return out
}

// Topics keeps topic metadata and hard-truncates the refs and links arrays,
// which can run to thousands of entries. When refs is actually truncated a
// refs_note records the true count; an untouched array gets no note.
func Topics(doc any) any {
	m, ok := doc.(map[string]any)
	if !ok {
		return doc
	}

	out := pick(m, topicFields)

	// an already-reduced document carries its note through unchanged
	if note, ok := m["refs_note"].(string); ok {
		out["refs_note"] = note
	}

	if links, ok := m["links"].([]any); ok {
		out["links"] = head(links, maxTopicRefs)
	}

	if refs, ok := m["refs"].([]any); ok {
		out["refs"] = head(refs, maxTopicRefs)
		if len(refs) > maxTopicRefs {
			out["refs_note"] = fmt.Sprintf("Showing first %d of %d total refs", maxTopicRefs, len(refs))
		}
	}

	return out
}

// Index prunes an index (bibliographic record) response to its essential
// fields.
func Index(doc any) any {
	m, ok := doc.(map[string]any)
	if !ok {
		return doc
	}
	return pick(m, indexFields)
}

// EnglishTranslations projects a versions response into the minimal shape
// returned by the get_english_translations tool: version title and text per
// translation, keyed by the requested reference.
func EnglishTranslations(reference string, doc any) any {
	translations := make([]any, 0)

	if m, ok := doc.(map[string]any); ok {
		if versions, ok := m["versions"].([]any); ok {
			for _, raw := range versions {
				v, ok := raw.(map[string]any)
				if !ok {
					continue
				}
				translations = append(translations, map[string]any{
					"versionTitle": stringOr(v, "versionTitle"),
					"text":         valueOr(v, "text", ""),
				})
			}
		}
	}

	return map[string]any{
		"reference":           reference,
		"englishTranslations": translations,
	}
}

func allowlist(keys ...string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}

// pick copies only allowlisted keys that are actually present; it never
// invents a key the input lacked.
func pick(m map[string]any, allowed map[string]bool) map[string]any {
	out := make(map[string]any, len(allowed))
	for k, v := range m {
		if allowed[k] {
			out[k] = v
		}
	}
	return out
}

func head(list []any, n int) []any {
	if len(list) <= n {
		return list
	}
	return list[:n]
}

func stringOr(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func valueOr(m map[string]any, key string, fallback any) any {
	if v, ok := m[key]; ok {
		return v
	}
	return fallback
}
