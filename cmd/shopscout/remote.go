package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/a-h/shopscout/client"
	"github.com/a-h/shopscout/models"
	"github.com/a-h/shopscout/research"
)

type RemoteCommand struct {
	Query        []string `arg:"" optional:"" help:"The product to research."`
	ServerURL    string   `help:"The URL of the ShopScout server." env:"SHOPSCOUT_SERVER_URL" default:"http://localhost:9020"`
	ServerAPIKey string   `help:"The API key for the ShopScout server." env:"SHOPSCOUT_SERVER_API_KEY" default:""`
	LogLevel     string   `help:"The log level to use." env:"LOG_LEVEL" default:"warn"`
}

func (c RemoteCommand) Run(ctx context.Context) (err error) {
	query := strings.TrimSpace(strings.Join(c.Query, " "))
	if query == "" {
		_, err = fmt.Fprintln(stdout, research.UsageMessage)
		return err
	}
	log := getLogger(c.LogLevel)

	sc := client.New(c.ServerURL, c.ServerAPIKey)
	resp, err := sc.ResearchPost(ctx, models.ResearchPostRequest{
		Query: query,
	})
	if err != nil {
		return fmt.Errorf("failed to research product: %w", err)
	}
	log.Debug("research complete", slog.String("kind", resp.Kind), slog.Int("attempts", resp.Attempts))
	_, err = fmt.Fprintln(stdout, resp.Report)
	return err
}
