package proxy

// ResourceType selects how a target is fetched and packaged.
type ResourceType string

const (
	// TypeDocument is a top-level page load, rewritten when HTML.
	TypeDocument ResourceType = "document"
	// TypeResource is a subresource load, returned as a base64 envelope.
	TypeResource ResourceType = "resource"
)

// Request is the inbound proxy request body.
type Request struct {
	URL       string       `json:"url"`
	Type      ResourceType `json:"type,omitempty"`
	SessionID string       `json:"sessionId,omitempty"`
}

// Response is the successful proxy response body. Documents carry rewritten
// HTML (or raw text for non-HTML documents); resources carry base64 content
// with its type and decoded length.
type Response struct {
	Content       string `json:"content"`
	Status        int    `json:"status"`
	ContentType   string `json:"contentType,omitempty"`
	ContentLength int    `json:"contentLength,omitempty"`
	IsBase64      bool   `json:"isBase64,omitempty"`
}
