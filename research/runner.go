package research

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const webSearchToolName = "web_search"

func New(log *slog.Logger, cfg Config, apiKey string, messager Messager) *Runner {
	return &Runner{
		log:      log,
		cfg:      cfg,
		apiKey:   apiKey,
		messager: messager,
		Sleep:    sleep,
	}
}

type Runner struct {
	log      *slog.Logger
	cfg      Config
	apiKey   string
	messager Messager
	// Sleep waits between rate limited attempts.
	Sleep func(ctx context.Context, d time.Duration) error
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Research runs a single product query. It never returns a Go error: every
// failure is reported through the Kind of the Result.
func (r *Runner) Research(ctx context.Context, query string) (result Result) {
	if r.apiKey == "" {
		return Result{Kind: KindConfig, Err: ErrMissingAPIKey}
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return Result{Kind: KindInput, Err: ErrEmptyQuery}
	}

	req, err := r.request(query)
	if err != nil {
		return Result{Kind: KindError, Err: err}
	}

	log := r.log.With(slog.String("query", query), slog.String("model", r.cfg.Model))
	for attempt := 1; attempt <= r.cfg.Attempts; attempt++ {
		result.Attempts = attempt
		log.Debug("sending research request", slog.Int("attempt", attempt))
		resp, err := r.messager.Message(ctx, req)
		if err == nil {
			result.Kind = KindOK
			result.Report = ExtractReport(resp, r.cfg.HeaderMarker)
			log.Info("research complete", slog.Int("attempt", attempt), slog.Int("blocks", len(resp.Content)))
			return result
		}
		if !errors.Is(err, ErrRateLimited) {
			log.Error("research request failed", slog.Int("attempt", attempt), slog.Any("error", err))
			result.Kind = KindError
			result.Err = err
			return result
		}
		if attempt == r.cfg.Attempts {
			break
		}
		log.Warn("rate limited, backing off", slog.Int("attempt", attempt), slog.Duration("backoff", r.cfg.Backoff))
		if err = r.Sleep(ctx, r.cfg.Backoff); err != nil {
			result.Kind = KindError
			result.Err = fmt.Errorf("backoff interrupted: %w", err)
			return result
		}
	}
	log.Warn("rate limit retries exhausted", slog.Int("attempts", result.Attempts))
	result.Kind = KindRateLimited
	result.Err = ErrRateLimited
	return result
}

func (r *Runner) request(query string) (req Request, err error) {
	prompt, err := RenderUserPrompt(r.cfg.UserPromptTemplate, query)
	if err != nil {
		return req, err
	}
	return Request{
		Model:     r.cfg.Model,
		MaxTokens: r.cfg.MaxTokens,
		System:    r.cfg.SystemPrompt,
		Tools: []Tool{
			{
				Type:     r.cfg.ToolType,
				Name:     webSearchToolName,
				MaxUses:  r.cfg.MaxSearches,
				Location: r.cfg.Location,
			},
		},
		Prompt: prompt,
	}, nil
}
