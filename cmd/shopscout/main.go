package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
)

type CLI struct {
	Research ResearchCommand `cmd:"research" default:"withargs" help:"Research and compare UK retailer prices for a product."`
	Serve    ServeCommand    `cmd:"serve" help:"Start the ShopScout HTTP server."`
	Remote   RemoteCommand   `cmd:"remote" help:"Research a product using a ShopScout server."`
	Chat     ChatCommand     `cmd:"chat" help:"Research products interactively."`
	Version  VersionCommand  `cmd:"version" help:"Print the version of ShopScout."`
}

// stdout receives reports. Logs go to stderr.
var stdout io.Writer = os.Stdout

func main() {
	if _, err := loadDotEnv(".env", "../.env"); err != nil {
		getLogger("error").Error("failed to load .env file", slog.Any("error", err))
	}
	var cli CLI
	ctx := context.Background()
	kctx := kong.Parse(&cli,
		kong.Name("shopscout"),
		kong.Description("Compare UK retailer prices for a product using Claude with web search."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)))
	if err := kctx.Run(); err != nil {
		log := getLogger("error")
		log.Error("error", slog.Any("error", err))
		os.Exit(1)
	}
}

func getLogger(level string) *slog.Logger {
	ll := slog.LevelInfo
	switch level {
	case "debug":
		ll = slog.LevelDebug
	case "info":
		ll = slog.LevelInfo
	case "warn":
		ll = slog.LevelWarn
	case "error":
		ll = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: ll,
	}))
}
