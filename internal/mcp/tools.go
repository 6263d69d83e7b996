package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sefaria-community/sefaria-mcp/internal/logging"
	"github.com/sefaria-community/sefaria-mcp/internal/optimize"
	"github.com/sefaria-community/sefaria-mcp/internal/sefaria"
)

// Every handler converts failures into a text result or a
// {success:false, error} structure. Errors never cross the protocol
// boundary unhandled: the caller is a language model, not code that can
// recover from an exception.

// handleGetText handles the get_text tool invocation
func (s *Server) handleGetText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := argsMap(request)
	if !ok {
		return mcp.NewToolResultError("invalid arguments"), nil
	}

	reference, ok := args["reference"].(string)
	if !ok || reference == "" {
		return mcp.NewToolResultError("reference parameter is required"), nil
	}

	query := url.Values{}
	switch getStringDefault(args, "version_language", "") {
	case "source":
		query.Add("version", "source")
	case "english":
		query.Add("version", "english")
	case "both":
		query.Add("version", "english")
		query.Add("version", "source")
	}

	doc, err := s.client.GetJSON(ctx, "api/v3/texts/"+url.PathEscape(reference), query)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("Error fetching text: %v", err)), nil
	}

	return s.jsonResult("get_text", optimize.Text(doc)), nil
}

// handleGetEnglishTranslations handles the get_english_translations tool invocation
func (s *Server) handleGetEnglishTranslations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := argsMap(request)
	if !ok {
		return mcp.NewToolResultError("invalid arguments"), nil
	}

	reference, ok := args["reference"].(string)
	if !ok || reference == "" {
		return mcp.NewToolResultError("reference parameter is required"), nil
	}

	query := url.Values{}
	query.Set("version", "english|all")

	doc, err := s.client.GetJSON(ctx, "api/v3/texts/"+url.PathEscape(reference), query)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("Error fetching translations: %v", err)), nil
	}

	return s.jsonResult("get_english_translations", optimize.EnglishTranslations(reference, doc)), nil
}

// handleGetIndex handles the get_index tool invocation
func (s *Server) handleGetIndex(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := argsMap(request)
	if !ok {
		return mcp.NewToolResultError("invalid arguments"), nil
	}

	title, ok := args["title"].(string)
	if !ok || title == "" {
		return mcp.NewToolResultError("title parameter is required"), nil
	}

	doc, err := s.client.GetJSON(ctx, "api/v2/raw/index/"+url.PathEscape(title), nil)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("Error during index API request: %v", err)), nil
	}

	return s.jsonResult("get_index", optimize.Index(doc)), nil
}

// handleGetLinks handles the get_links tool invocation
func (s *Server) handleGetLinks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := argsMap(request)
	if !ok {
		return mcp.NewToolResultError("invalid arguments"), nil
	}

	reference, _ := args["reference"].(string)
	if reference == "" {
		return mcp.NewToolResultText("No reference provided"), nil
	}

	query := url.Values{}
	query.Set("with_text", getStringDefault(args, "with_text", "0"))

	doc, err := s.client.GetJSON(ctx, "api/links/"+url.PathEscape(reference), query)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("Error during links API request: %v", err)), nil
	}

	return s.jsonResult("get_links", optimize.Links(doc)), nil
}

// handleGetName handles the get_name tool invocation
func (s *Server) handleGetName(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := argsMap(request)
	if !ok {
		return mcp.NewToolResultError("invalid arguments"), nil
	}

	name, ok := args["name"].(string)
	if !ok || name == "" {
		return mcp.NewToolResultError("name parameter is required"), nil
	}

	query := url.Values{}
	if limit, ok := intArg(args, "limit"); ok {
		query.Set("limit", fmt.Sprintf("%d", limit))
	}
	if typeFilter := getStringDefault(args, "type_filter", ""); typeFilter != "" {
		query.Set("type", typeFilter)
	}

	doc, err := s.client.GetJSON(ctx, "api/name/"+url.PathEscape(name), query)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("Error during name API request: %v", err)), nil
	}

	return s.jsonResult("get_name", doc), nil
}

// handleGetShape handles the get_shape tool invocation
func (s *Server) handleGetShape(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := argsMap(request)
	if !ok {
		return mcp.NewToolResultError("invalid arguments"), nil
	}

	name, ok := args["name"].(string)
	if !ok || name == "" {
		return mcp.NewToolResultError("name parameter is required"), nil
	}

	doc, err := s.client.GetJSON(ctx, "api/shape/"+url.PathEscape(name), nil)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("Error during shape API request: %v", err)), nil
	}

	return s.jsonResult("get_shape", doc), nil
}

// handleGetTopics handles the get_topics tool invocation
func (s *Server) handleGetTopics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := argsMap(request)
	if !ok {
		return mcp.NewToolResultError("invalid arguments"), nil
	}

	slug, _ := args["topic_slug"].(string)
	if slug == "" {
		return mcp.NewToolResultText("No topic slug provided"), nil
	}

	query := url.Values{}
	if getBoolDefault(args, "with_links", false) {
		query.Set("with_links", "1")
	}
	if getBoolDefault(args, "with_refs", false) {
		query.Set("with_refs", "1")
	}

	doc, err := s.client.GetJSON(ctx, "api/v2/topics/"+url.PathEscape(slug), query)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("Error during topics API request: %v", err)), nil
	}

	return s.jsonResult("get_topics", optimize.Topics(doc)), nil
}

// handleSearchTexts handles the search_texts tool invocation
func (s *Server) handleSearchTexts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := argsMap(request)
	if !ok {
		return mcp.NewToolResultError("invalid arguments"), nil
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return mcp.NewToolResultError("query parameter is required"), nil
	}

	filters := stringListArg(args, "filters")
	size := getIntDefault(args, "size", 10)

	results, err := s.engine.SearchTexts(ctx, query, filters, size)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("Error during search: %v", err)), nil
	}

	return s.jsonResult("search_texts", results), nil
}

// handleSearchInBook handles the search_in_book tool invocation
func (s *Server) handleSearchInBook(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := argsMap(request)
	if !ok {
		return mcp.NewToolResultError("invalid arguments"), nil
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return mcp.NewToolResultError("query parameter is required"), nil
	}

	bookName, ok := args["book_name"].(string)
	if !ok || bookName == "" {
		return mcp.NewToolResultError("book_name parameter is required"), nil
	}

	size := getIntDefault(args, "size", 10)

	results, err := s.engine.SearchInBook(ctx, query, bookName, size)
	if errors.Is(err, sefaria.ErrResolution) {
		return mcp.NewToolResultText(fmt.Sprintf("Could not find valid filter path for book '%s'", bookName)), nil
	}
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("Error during book search: %v", err)), nil
	}

	return s.jsonResult("search_in_book", results), nil
}

// handleSearchDictionaries handles the search_dictionaries tool invocation
func (s *Server) handleSearchDictionaries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := argsMap(request)
	if !ok {
		return mcp.NewToolResultError("invalid arguments"), nil
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return mcp.NewToolResultError("query parameter is required"), nil
	}

	entries, err := s.engine.SearchDictionaries(ctx, query)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("Error during dictionary search: %v", err)), nil
	}

	return s.jsonResult("search_dictionaries", entries), nil
}

// handleGetSearchPathFilter handles the get_search_path_filter tool invocation
func (s *Server) handleGetSearchPathFilter(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := argsMap(request)
	if !ok {
		return mcp.NewToolResultError("invalid arguments"), nil
	}

	bookName, ok := args["book_name"].(string)
	if !ok || bookName == "" {
		return mcp.NewToolResultError("book_name parameter is required"), nil
	}

	path, err := s.engine.PathFilter(ctx, bookName)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("Error during search path filter API request: %v", err)), nil
	}

	return mcp.NewToolResultText(path), nil
}

// handleGetManuscriptInfo handles the get_manuscript_info tool invocation
func (s *Server) handleGetManuscriptInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := argsMap(request)
	if !ok {
		return mcp.NewToolResultError("invalid arguments"), nil
	}

	reference, ok := args["reference"].(string)
	if !ok || reference == "" {
		return mcp.NewToolResultError("reference parameter is required"), nil
	}

	doc, err := s.client.GetJSON(ctx, "api/manuscripts/"+url.PathEscape(reference), nil)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("Error during manuscripts API request: %v", err)), nil
	}

	if emptyDocument(doc) {
		return mcp.NewToolResultText(fmt.Sprintf("No manuscripts found for reference '%s'", reference)), nil
	}

	return s.jsonResult("get_manuscript_info", doc), nil
}

// handleGetManuscript handles the get_manuscript tool invocation
func (s *Server) handleGetManuscript(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := argsMap(request)
	if !ok {
		return mcp.NewToolResultError("invalid arguments"), nil
	}

	imageURL, ok := args["image_url"].(string)
	if !ok || imageURL == "" {
		return mcp.NewToolResultError("image_url parameter is required"), nil
	}

	title := getStringDefault(args, "manuscript_title", "")

	result := s.fetcher.Fetch(ctx, imageURL, title)
	return s.jsonResult("get_manuscript", result.Payload()), nil
}

// handleGetSituationalInfo handles the get_situational_info tool invocation
func (s *Server) handleGetSituationalInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	info, err := s.client.SituationalInfo(ctx, time.Now())
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("Error retrieving situational information: %v", err)), nil
	}

	logging.Debugf(s.log, "[get_situational_info] response size: %d bytes", len(info))
	return mcp.NewToolResultText(info), nil
}

// Helper functions

// jsonResult serializes doc as indented JSON and wraps it in a text result.
func (s *Server) jsonResult(tool string, doc any) *mcp.CallToolResult {
	text := formatJSON(doc)
	logging.Debugf(s.log, "[%s] response size: %d bytes", tool, len(text))
	return mcp.NewToolResultText(text)
}

// formatJSON renders a document as indented JSON without escaping
// non-ASCII characters, keeping Hebrew readable.
func formatJSON(doc any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Sprintf("%v", doc)
	}
	return strings.TrimRight(buf.String(), "\n")
}

// argsMap extracts the arguments object from a tool request
func argsMap(request mcp.CallToolRequest) (map[string]interface{}, bool) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	return args, ok
}

// emptyDocument reports whether an upstream JSON document carries no data
func emptyDocument(doc any) bool {
	switch v := doc.(type) {
	case nil:
		return true
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	case string:
		return v == ""
	default:
		return false
	}
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := intArg(args, key); ok {
		return val
	}
	return defaultValue
}

// intArg extracts an integer parameter; JSON numbers arrive as float64
func intArg(args map[string]interface{}, key string) (int, bool) {
	if val, ok := args[key].(float64); ok {
		return int(val), true
	}
	if val, ok := args[key].(int); ok {
		return val, true
	}
	return 0, false
}

// stringListArg extracts a parameter that may be a single string or an
// array of strings, normalizing to a slice
func stringListArg(args map[string]interface{}, key string) []string {
	switch v := args[key].(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
