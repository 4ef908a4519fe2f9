package post

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/a-h/respond"
	"github.com/a-h/shopscout/auth"
	"github.com/a-h/shopscout/models"
	"github.com/a-h/shopscout/research"
)

type Researcher interface {
	Research(ctx context.Context, query string) research.Result
}

func New(log *slog.Logger, researcher Researcher) Handler {
	return Handler{
		log:        log,
		researcher: researcher,
	}
}

type Handler struct {
	log        *slog.Logger
	researcher Researcher
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUser(r)
	if !ok {
		http.Error(w, "authentication not provided", http.StatusUnauthorized)
		return
	}

	var req models.ResearchPostRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		h.log.Error("failed to decode body", slog.Any("error", err))
		respond.WithError(w, "failed to decode body", http.StatusBadRequest)
		return
	}

	// If this is a test API key, don't use the LLM.
	if user == auth.TestUserNoLLM {
		respond.WithJSON(w, models.ResearchPostResponse{
			Kind:   string(research.KindOK),
			Report: TestReport,
		}, http.StatusOK)
		return
	}

	h.log.Info("researching product", slog.String("user", user), slog.String("query", req.Query))
	result := h.researcher.Research(r.Context(), req.Query)
	if result.Err != nil {
		h.log.Warn("research did not complete", slog.String("user", user), slog.String("kind", string(result.Kind)), slog.Any("error", result.Err))
	}

	// The report explains every failure, so it's sent with a 200 like the CLI
	// prints it with a zero exit code.
	respond.WithJSON(w, models.ResearchPostResponse{
		Kind:     string(result.Kind),
		Report:   result.String(),
		Attempts: result.Attempts,
	}, http.StatusOK)
}

const TestReport = `SHOPSCOUT RESULTS
=================
Query: test

OVERVIEW
--------
I'm a test report. If you can see me, then your integration is working!`
