// Package mcp implements the Model Context Protocol (MCP) server exposing
// the Sefaria library API as tools.
//
// The server speaks JSON-RPC 2.0 over stdio and registers fourteen tools:
//
//	get_text                 retrieve a text by reference, optionally per language version
//	get_english_translations list all English translations of a reference
//	get_index                bibliographic record for a work
//	get_links                cross-references for a passage
//	get_name                 name/reference autocomplete
//	get_shape                structure of a text or category
//	get_topics               topic metadata, optionally with links/refs
//	search_texts             library-wide search with category filters
//	search_in_book           search scoped to one book
//	search_dictionaries      search the reference dictionaries
//	get_search_path_filter   resolve a book name to a search filter path
//	get_manuscript_info      manuscript metadata and image URLs for a passage
//	get_manuscript           download a manuscript image (base64, size-bounded)
//	get_situational_info     Hebrew date and calendar context
//
// Handlers return plain text results: JSON documents already reduced for
// model consumption by internal/optimize, or human-readable error strings.
// No handler lets an error escape to the protocol layer; a failed upstream
// call becomes a described failure in the tool output so the calling model
// can react to it.
//
// Stdout is reserved for protocol traffic. All logging goes through the
// logging facade, which writes to stderr.
package mcp
