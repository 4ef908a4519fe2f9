package research

import (
	"context"
	"errors"
	"strings"
)

const (
	UsageMessage       = "ShopScout: No query provided.\n\nUsage: shopscout 'Sony WH-1000XM5 headphones'"
	MissingKeyMessage  = "Error: ANTHROPIC_API_KEY not set"
	RateLimitedMessage = "ShopScout is temporarily rate-limited by the research service. Please try again in a few minutes."
	ErrorPrefix        = "ShopScout error: "
	NoResultsMessage   = "(No results returned)"
)

// ErrRateLimited is wrapped by a Messager when the remote service asked the
// caller to slow down.
var ErrRateLimited = errors.New("rate limited")

var ErrMissingAPIKey = errors.New("ANTHROPIC_API_KEY not set")
var ErrEmptyQuery = errors.New("empty query")

type Kind string

const (
	KindOK          Kind = "ok"
	KindConfig      Kind = "config"
	KindInput       Kind = "input"
	KindRateLimited Kind = "rate-limited"
	KindError       Kind = "error"
)

type Result struct {
	Kind   Kind
	Report string
	// Attempts is the number of calls made to the remote service.
	Attempts int
	Err      error
}

// String returns the text shown to the user for the result.
func (r Result) String() string {
	switch r.Kind {
	case KindOK:
		return r.Report
	case KindConfig:
		return MissingKeyMessage
	case KindInput:
		return UsageMessage
	case KindRateLimited:
		return RateLimitedMessage
	}
	if r.Err == nil {
		return ErrorPrefix + "unknown error"
	}
	return ErrorPrefix + r.Err.Error()
}

type Tool struct {
	Type     string
	Name     string
	MaxUses  int64
	Location Location
}

type Request struct {
	Model     string
	MaxTokens int64
	System    string
	Tools     []Tool
	Prompt    string
}

type Block struct {
	Type string
	Text string
}

type Response struct {
	Content []Block
}

// Messager sends a single request to the remote model.
type Messager interface {
	Message(ctx context.Context, req Request) (Response, error)
}

// ExtractReport joins the text blocks of the response and drops anything
// before the header marker.
func ExtractReport(resp Response, marker string) string {
	var parts []string
	for _, b := range resp.Content {
		if b.Type != "text" || b.Text == "" {
			continue
		}
		parts = append(parts, b.Text)
	}
	text := strings.Join(parts, "\n")
	if marker != "" {
		if idx := strings.Index(text, marker); idx >= 0 {
			return strings.TrimSpace(text[idx:])
		}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return NoResultsMessage
	}
	return text
}
