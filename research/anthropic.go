package research

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Anthropic implements Messager with the Anthropic Messages API.
type Anthropic struct {
	client anthropic.Client
}

// NewAnthropic creates a Messager for the Anthropic API. The SDK's own
// retries are disabled, the Runner decides when to try again.
func NewAnthropic(apiKey string, opts ...option.RequestOption) *Anthropic {
	opts = append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)
	return &Anthropic{
		client: anthropic.NewClient(opts...),
	}
}

type webSearchLocation struct {
	Type     string `json:"type"`
	Country  string `json:"country,omitempty"`
	City     string `json:"city,omitempty"`
	Region   string `json:"region,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

type webSearchTool struct {
	Type         string             `json:"type"`
	Name         string             `json:"name"`
	MaxUses      int64              `json:"max_uses,omitempty"`
	UserLocation *webSearchLocation `json:"user_location,omitempty"`
}

func newWebSearchTools(tools []Tool) []webSearchTool {
	op := make([]webSearchTool, len(tools))
	for i, t := range tools {
		op[i] = webSearchTool{
			Type:    t.Type,
			Name:    t.Name,
			MaxUses: t.MaxUses,
		}
		if t.Location != (Location{}) {
			op[i].UserLocation = &webSearchLocation{
				Type:     "approximate",
				Country:  t.Location.Country,
				City:     t.Location.City,
				Region:   t.Location.Region,
				Timezone: t.Location.Timezone,
			}
		}
	}
	return op
}

func (a *Anthropic) Message(ctx context.Context, req Request) (resp Response, err error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: req.MaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: req.System},
		}
	}

	// Server tools are written into the body directly so that new tool
	// versions can be used through configuration alone.
	var opts []option.RequestOption
	if len(req.Tools) > 0 {
		opts = append(opts, option.WithJSONSet("tools", newWebSearchTools(req.Tools)))
	}

	msg, err := a.client.Messages.New(ctx, params, opts...)
	if err != nil {
		if isRateLimitError(err) {
			return resp, fmt.Errorf("anthropic: %w: %w", ErrRateLimited, err)
		}
		return resp, fmt.Errorf("anthropic: %w", err)
	}
	for _, block := range msg.Content {
		resp.Content = append(resp.Content, Block{
			Type: block.Type,
			Text: block.Text,
		})
	}
	return resp, nil
}

func isRateLimitError(err error) bool {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests
	}
	return false
}
