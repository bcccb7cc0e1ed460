package server

// ContentTypeText is the only content block type the built-in tools emit.
const ContentTypeText = "text"

// Content is a single block of tool output.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// TextContent creates a text content block. The text is kept verbatim.
func TextContent(text string) Content {
	return Content{Type: ContentTypeText, Text: text}
}

// Result is the payload of a successful tools/call response.
type Result struct {
	Content           []Content `json:"content"`
	StructuredContent any       `json:"structuredContent,omitempty"`
	IsError           bool      `json:"isError,omitempty"`
}

// TextResult creates a result holding a single text block.
func TextResult(text string) *Result {
	return &Result{Content: []Content{TextContent(text)}}
}

// StructuredResult creates a result with a text block and a machine-readable
// value carried in structuredContent.
func StructuredResult(text string, value any) *Result {
	return &Result{
		Content:           []Content{TextContent(text)},
		StructuredContent: value,
	}
}

// ErrorResult creates a result that reports a tool failure to the client.
func ErrorResult(msg string) *Result {
	return &Result{
		Content: []Content{TextContent(msg)},
		IsError: true,
	}
}
