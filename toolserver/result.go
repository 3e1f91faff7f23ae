package toolserver

import (
	"encoding/json"
	"strings"

	mcpclient "github.com/metoro-io/mcp-golang"
)

// ResultKind discriminates the payload carried by a Result.
type ResultKind int

const (
	// KindEmpty marks a call that returned no content.
	KindEmpty ResultKind = iota
	// KindText marks plain text content.
	KindText
	// KindJSON marks text content that parsed as a JSON document.
	KindJSON
)

// Result is the normalized outcome of a tool call. The kind is resolved once
// at the transport boundary so downstream consumers never re-sniff payloads.
type Result struct {
	kind ResultKind
	text string
	raw  json.RawMessage
}

// TextResult wraps plain text.
func TextResult(text string) *Result {
	return &Result{kind: KindText, text: text}
}

// JSONResult wraps a JSON document together with its original text form.
func JSONResult(text string, raw json.RawMessage) *Result {
	return &Result{kind: KindJSON, text: text, raw: raw}
}

// EmptyResult marks a call that produced no content.
func EmptyResult() *Result {
	return &Result{kind: KindEmpty}
}

// Kind returns the payload discriminator.
func (r *Result) Kind() ResultKind {
	return r.kind
}

// IsEmpty reports whether the call produced no content.
func (r *Result) IsEmpty() bool {
	return r.kind == KindEmpty
}

// JSON returns the raw document when the result is KindJSON.
func (r *Result) JSON() (json.RawMessage, bool) {
	if r.kind != KindJSON {
		return nil, false
	}
	return r.raw, true
}

// Text returns the canonical string form of the result. Empty results render
// a fixed placeholder so prompts never interpolate a blank payload.
func (r *Result) Text() string {
	if r.kind == KindEmpty {
		return "(no content)"
	}
	return r.text
}

// newResult folds an MCP tool response into a Result. The first text block is
// the canonical payload; a payload that parses as a JSON object or array is
// tagged KindJSON.
func newResult(resp *mcpclient.ToolResponse) *Result {
	if resp == nil || len(resp.Content) == 0 {
		return EmptyResult()
	}

	var text string
	for _, c := range resp.Content {
		if c != nil && c.TextContent != nil && c.TextContent.Text != "" {
			text = c.TextContent.Text
			break
		}
	}
	if text == "" {
		return EmptyResult()
	}

	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		var doc json.RawMessage
		if err := json.Unmarshal([]byte(trimmed), &doc); err == nil {
			return JSONResult(text, doc)
		}
	}
	return TextResult(text)
}
