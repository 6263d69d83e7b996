package sefaria

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hebcal/hebcal-go/hdate"

	"github.com/sefaria-community/sefaria-mcp/internal/logging"
)

// SituationalInfo returns Jewish-calendar context for the current moment:
// the Hebrew date plus Sefaria's calendar data (parasha, daily learning,
// holidays). The result is an indented JSON string. A failed calendar fetch
// degrades to an error object that still carries the Hebrew date.
//
// The Hebrew date may be off by a day when server time and the user's
// timezone differ.
func (c *Client) SituationalInfo(ctx context.Context, now time.Time) (string, error) {
	hd := hdate.FromGregorian(now.Year(), now.Month(), now.Day())

	doc, err := c.GetJSON(ctx, "api/calendars", nil)
	if err != nil {
		logging.Errorf(c.log, "calendar fetch failed: %v", err)
		return encodeIndent(map[string]any{
			"error":       "Could not retrieve calendar data from Sefaria",
			"Hebrew Date": hd.String(),
		})
	}

	if m, ok := doc.(map[string]any); ok {
		m["Hebrew Date"] = hd.String()
		doc = m
	}

	return encodeIndent(doc)
}

// ParashaData extracts the weekly Torah portion from the calendars API,
// returning its reference and English display name.
func (c *Client) ParashaData(ctx context.Context) (ref, name string, err error) {
	doc, err := c.GetJSON(ctx, "api/calendars", nil)
	if err != nil {
		return "", "", err
	}

	m, ok := doc.(map[string]any)
	if !ok {
		return "", "", &ParseError{Err: fmt.Errorf("calendar response is not an object")}
	}

	items, _ := m["calendar_items"].([]any)
	for _, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		title, _ := item["title"].(map[string]any)
		if en, _ := title["en"].(string); en != "Parashat Hashavua" {
			continue
		}
		ref, _ = item["ref"].(string)
		display, _ := item["displayValue"].(map[string]any)
		name, _ = display["en"].(string)
		return ref, name, nil
	}

	return "", "", fmt.Errorf("no parasha entry in calendar data")
}

// encodeIndent renders a document as indented JSON without escaping
// non-ASCII text, keeping Hebrew readable in tool output.
func encodeIndent(doc any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
