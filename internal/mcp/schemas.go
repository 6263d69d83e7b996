package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// getTextTool returns the tool definition for get_text
func getTextTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_text",
		Description: "Retrieve the text content for a specific reference in the Jewish library",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"reference": map[string]interface{}{
					"type":        "string",
					"description": "Text reference (e.g. 'Genesis 1:1', 'Berakhot 2a')",
				},
				"version_language": map[string]interface{}{
					"type":        "string",
					"description": "Which language version to retrieve; omit for all versions",
					"enum":        []string{"source", "english", "both"},
				},
			},
			Required: []string{"reference"},
		},
	}
}

// getEnglishTranslationsTool returns the tool definition for get_english_translations
func getEnglishTranslationsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_english_translations",
		Description: "Retrieve all available English translations for a specific text reference",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"reference": map[string]interface{}{
					"type":        "string",
					"description": "Text reference (e.g. 'Genesis 1:1', 'Berakhot 2a')",
				},
			},
			Required: []string{"reference"},
		},
	}
}

// getIndexTool returns the tool definition for get_index
func getIndexTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_index",
		Description: "Retrieve the bibliographic and structural record (index) for a text or work",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"title": map[string]interface{}{
					"type":        "string",
					"description": "Title of the text or work (e.g. 'Genesis', 'Mishnah Berakhot')",
				},
			},
			Required: []string{"title"},
		},
	}
}

// getLinksTool returns the tool definition for get_links
func getLinksTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_links",
		Description: "Find all cross-references and connections to a specific text passage",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"reference": map[string]interface{}{
					"type":        "string",
					"description": "Text reference (e.g. 'Genesis 1:1', 'Berakhot 2a')",
				},
				"with_text": map[string]interface{}{
					"type":        "string",
					"description": "Include the text content of linked resources ('0' or '1')",
					"enum":        []string{"0", "1"},
					"default":     "0",
				},
			},
			Required: []string{"reference"},
		},
	}
}

// getNameTool returns the tool definition for get_name
func getNameTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_name",
		Description: "Validate and autocomplete text names, book titles, references, and topic slugs",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Partial or complete name to validate/complete",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of suggestions to return (0 = no limit)",
				},
				"type_filter": map[string]interface{}{
					"type":        "string",
					"description": "Filter results by type (e.g. 'ref', 'Collection', 'Topic')",
				},
			},
			Required: []string{"name"},
		},
	}
}

// getShapeTool returns the tool definition for get_shape
func getShapeTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_shape",
		Description: "Retrieve the hierarchical structure of a text, or list texts in a category or corpus",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Text title (e.g. 'Genesis') or category/corpus name (e.g. 'Tanakh', 'Talmud', 'Midrash Rabbah')",
				},
			},
			Required: []string{"name"},
		},
	}
}

// getTopicsTool returns the tool definition for get_topics
func getTopicsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_topics",
		Description: "Retrieve detailed information about a topic in Jewish thought and texts",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"topic_slug": map[string]interface{}{
					"type":        "string",
					"description": "Topic identifier slug (e.g. 'moses', 'sabbath', 'torah')",
				},
				"with_links": map[string]interface{}{
					"type":        "boolean",
					"description": "Include links to related topics",
					"default":     false,
				},
				"with_refs": map[string]interface{}{
					"type":        "boolean",
					"description": "Include text references tagged with this topic",
					"default":     false,
				},
			},
			Required: []string{"topic_slug"},
		},
	}
}

// searchTextsTool returns the tool definition for search_texts
func searchTextsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_texts",
		Description: "Search the entire Jewish library for passages containing specific terms",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search terms",
				},
				"filters": map[string]interface{}{
					"type":        "array",
					"description": "Category paths to limit search scope (e.g. 'Tanakh', 'Talmud/Bavli', 'Tanakh/Torah')",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
				"size": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return",
					"default":     10,
				},
			},
			Required: []string{"query"},
		},
	}
}

// searchInBookTool returns the tool definition for search_in_book
func searchInBookTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_in_book",
		Description: "Search for content within one specific book or text work",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search terms to find within the specified book",
				},
				"book_name": map[string]interface{}{
					"type":        "string",
					"description": "Exact name of the book to search within (e.g. 'Genesis', 'Bereishit Rabbah')",
				},
				"size": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return",
					"default":     10,
				},
			},
			Required: []string{"query", "book_name"},
		},
	}
}

// searchDictionariesTool returns the tool definition for search_dictionaries
func searchDictionariesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_dictionaries",
		Description: "Search within Jewish reference dictionaries for entries matching a term",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Hebrew, Aramaic, or English term to look up",
				},
			},
			Required: []string{"query"},
		},
	}
}

// getSearchPathFilterTool returns the tool definition for get_search_path_filter
func getSearchPathFilterTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_search_path_filter",
		Description: "Convert a book name into a search filter path",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"book_name": map[string]interface{}{
					"type":        "string",
					"description": "Name of the book to convert",
				},
			},
			Required: []string{"book_name"},
		},
	}
}

// getManuscriptInfoTool returns the tool definition for get_manuscript_info
func getManuscriptInfoTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_manuscript_info",
		Description: "Retrieve historical manuscript metadata and image URLs for a text passage",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"reference": map[string]interface{}{
					"type":        "string",
					"description": "Text reference to find manuscripts for",
				},
			},
			Required: []string{"reference"},
		},
	}
}

// getManuscriptTool returns the tool definition for get_manuscript
func getManuscriptTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_manuscript",
		Description: "Download a manuscript image from a given URL and return it as base64 data",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"image_url": map[string]interface{}{
					"type":        "string",
					"description": "URL of the manuscript image to download",
				},
				"manuscript_title": map[string]interface{}{
					"type":        "string",
					"description": "Title or description for the manuscript for display purposes",
				},
			},
			Required: []string{"image_url"},
		},
	}
}

// getSituationalInfoTool returns the tool definition for get_situational_info
func getSituationalInfoTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_situational_info",
		Description: "Provide current Jewish calendar information including Hebrew date, parasha, and holidays",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
