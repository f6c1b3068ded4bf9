package relay

import (
	"bytes"
	"encoding/json"
)

// Request is the body accepted on POST /api/gemini and forwarded upstream.
// Model and Options are opaque JSON values passed through untouched, and
// omitted from the forwarded body when the caller did not send them.
type Request struct {
	Prompt  string          `json:"prompt"`
	Model   json.RawMessage `json:"model,omitempty"`
	Options json.RawMessage `json:"options,omitempty"`
}

// BodyKind tags how an upstream body is relayed.
type BodyKind int

const (
	KindText BodyKind = iota
	KindJSON
)

func (k BodyKind) String() string {
	if k == KindJSON {
		return "json"
	}
	return "text"
}

// Body is an upstream response body: either a JSON value or raw text.
type Body struct {
	Kind BodyKind
	Raw  []byte
}

// ClassifyBody decides the variant by checking whether raw is one valid JSON
// value. An empty body is text.
func ClassifyBody(raw []byte) Body {
	if json.Valid(raw) {
		return Body{Kind: KindJSON, Raw: raw}
	}
	return Body{Kind: KindText, Raw: raw}
}

// ContentType is the header the body is relayed with.
func (b Body) ContentType() string {
	if b.Kind == KindJSON {
		return "application/json"
	}
	return "text/plain; charset=utf-8"
}

// Bytes returns what is written to the caller. JSON is re-encoded compactly;
// text is returned untouched.
func (b Body) Bytes() []byte {
	if b.Kind != KindJSON {
		return b.Raw
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, b.Raw); err != nil {
		return b.Raw
	}
	return buf.Bytes()
}

// Response is the upstream status and classified body.
type Response struct {
	StatusCode int
	Body       Body
}
