package research

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/go-cmp/cmp"
)

const messageJSON = `{
  "id": "msg_01",
  "type": "message",
  "role": "assistant",
  "model": "claude-sonnet-4-6",
  "content": [
    {"type": "text", "text": "Sure, here you go:"},
    {"type": "server_tool_use", "id": "srvtoolu_01", "name": "web_search", "input": {"query": "usb cable price uk"}},
    {"type": "web_search_tool_result", "tool_use_id": "srvtoolu_01", "content": []},
    {"type": "text", "text": "SHOPSCOUT RESULTS\n=================\nQuery: USB cable"}
  ],
  "stop_reason": "end_turn",
  "stop_sequence": null,
  "usage": {"input_tokens": 10, "output_tokens": 20}
}`

const rateLimitJSON = `{"type": "error", "error": {"type": "rate_limit_error", "message": "Number of requests has exceeded your rate limit."}}`

const badRequestJSON = `{"type": "error", "error": {"type": "invalid_request_error", "message": "max_tokens: field required"}}`

func newTestServer(t *testing.T, handler func(w http.ResponseWriter, body map[string]any)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/v1/messages") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("X-Api-Key") != "test-key" {
			t.Errorf("unexpected API key %q", r.Header.Get("X-Api-Key"))
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		handler(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAnthropicMessage(t *testing.T) {
	var body map[string]any
	srv := newTestServer(t, func(w http.ResponseWriter, b map[string]any) {
		body = b
		io.WriteString(w, messageJSON)
	})

	a := NewAnthropic("test-key", option.WithBaseURL(srv.URL))
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := New(log, DefaultConfig(), "test-key", a)

	result := r.Research(context.Background(), "USB cable")
	if result.Kind != KindOK {
		t.Fatalf("expected ok, got %q: %v", result.Kind, result.Err)
	}
	expected := "SHOPSCOUT RESULTS\n=================\nQuery: USB cable"
	if result.Report != expected {
		t.Errorf("expected %q, got %q", expected, result.Report)
	}

	t.Run("the web search tool is sent", func(t *testing.T) {
		expectedTools := []any{
			map[string]any{
				"type":     "web_search_20260209",
				"name":     "web_search",
				"max_uses": float64(DefaultMaxSearches),
				"user_location": map[string]any{
					"type":     "approximate",
					"country":  "GB",
					"city":     "London",
					"timezone": "Europe/London",
				},
			},
		}
		if diff := cmp.Diff(expectedTools, body["tools"]); diff != "" {
			t.Error(diff)
		}
	})
	t.Run("the model and prompts are sent", func(t *testing.T) {
		if body["model"] != DefaultModel {
			t.Errorf("unexpected model %v", body["model"])
		}
		if body["max_tokens"] != float64(DefaultMaxTokens) {
			t.Errorf("unexpected max tokens %v", body["max_tokens"])
		}
		messages, _ := json.Marshal(body["messages"])
		if !strings.Contains(string(messages), "Research and compare prices for: USB cable") {
			t.Errorf("user prompt not found in %s", messages)
		}
		system, _ := json.Marshal(body["system"])
		if !strings.Contains(string(system), "You are ShopScout") {
			t.Errorf("system prompt not found in %s", system)
		}
	})
}

func TestAnthropicRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := newTestServer(t, func(w http.ResponseWriter, _ map[string]any) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			io.WriteString(w, rateLimitJSON)
			return
		}
		io.WriteString(w, messageJSON)
	})

	a := NewAnthropic("test-key", option.WithBaseURL(srv.URL))
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := New(log, DefaultConfig(), "test-key", a)
	sr := &sleepRecorder{}
	r.Sleep = sr.Sleep

	result := r.Research(context.Background(), "USB cable")
	if result.Kind != KindOK {
		t.Fatalf("expected ok, got %q: %v", result.Kind, result.Err)
	}
	if !strings.HasPrefix(result.Report, "SHOPSCOUT RESULTS") {
		t.Errorf("unexpected report %q", result.Report)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 calls, got %d", calls.Load())
	}
	if len(sr.durations) != 2 {
		t.Errorf("expected 2 sleeps, got %d", len(sr.durations))
	}
}

func TestAnthropicErrors(t *testing.T) {
	t.Run("429 is a rate limit", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, _ map[string]any) {
			w.WriteHeader(http.StatusTooManyRequests)
			io.WriteString(w, rateLimitJSON)
		})
		a := NewAnthropic("test-key", option.WithBaseURL(srv.URL))
		_, err := a.Message(context.Background(), Request{Model: DefaultModel, MaxTokens: 10, Prompt: "hi"})
		if !errors.Is(err, ErrRateLimited) {
			t.Errorf("expected a rate limit error, got %v", err)
		}
	})
	t.Run("400 is not a rate limit", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, _ map[string]any) {
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, badRequestJSON)
		})
		a := NewAnthropic("test-key", option.WithBaseURL(srv.URL))
		_, err := a.Message(context.Background(), Request{Model: DefaultModel, MaxTokens: 10, Prompt: "hi"})
		if err == nil {
			t.Fatal("expected an error")
		}
		if errors.Is(err, ErrRateLimited) {
			t.Errorf("did not expect a rate limit error, got %v", err)
		}
	})
	t.Run("errors are reported with the error prefix", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, _ map[string]any) {
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, badRequestJSON)
		})
		a := NewAnthropic("test-key", option.WithBaseURL(srv.URL))
		log := slog.New(slog.NewTextHandler(io.Discard, nil))
		result := New(log, DefaultConfig(), "test-key", a).Research(context.Background(), "USB cable")
		if result.Kind != KindError {
			t.Fatalf("expected error kind, got %q", result.Kind)
		}
		if !strings.HasPrefix(result.String(), ErrorPrefix) {
			t.Errorf("expected prefix %q, got %q", ErrorPrefix, result.String())
		}
		if result.Attempts != 1 {
			t.Errorf("expected 1 attempt, got %d", result.Attempts)
		}
	})
}
