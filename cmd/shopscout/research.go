package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/a-h/shopscout/research"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type RunnerFlags struct {
	APIKey  string `help:"The Anthropic API key." env:"ANTHROPIC_API_KEY" default:""`
	BaseURL string `help:"Override the Anthropic API base URL, e.g. for a proxy." env:"ANTHROPIC_BASE_URL" default:""`
	Profile string `help:"A YAML profile that sets the model, prompts, search and retry settings." env:"SHOPSCOUT_PROFILE" default:""`
	Model   string `help:"Override the model from the profile." env:"SHOPSCOUT_MODEL" default:""`
}

func (f RunnerFlags) Config() (cfg research.Config, err error) {
	cfg = research.DefaultConfig()
	if f.Profile != "" {
		if cfg, err = research.LoadProfile(f.Profile); err != nil {
			return cfg, err
		}
	}
	if f.Model != "" {
		cfg.Model = f.Model
	}
	return cfg, nil
}

func (f RunnerFlags) NewRunner(log *slog.Logger) (*research.Runner, error) {
	cfg, err := f.Config()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	var opts []option.RequestOption
	if f.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(f.BaseURL))
	}
	return research.New(log, cfg, f.APIKey, research.NewAnthropic(f.APIKey, opts...)), nil
}

type ResearchCommand struct {
	Query    []string    `arg:"" optional:"" help:"The product to research, e.g. 'Sony WH-1000XM5 headphones'."`
	Runner   RunnerFlags `embed:""`
	LogLevel string      `help:"The log level to use." env:"LOG_LEVEL" default:"warn"`
}

func (c ResearchCommand) Run(ctx context.Context) (err error) {
	query := strings.TrimSpace(strings.Join(c.Query, " "))
	if query == "" {
		_, err = fmt.Fprintln(stdout, research.UsageMessage)
		return err
	}

	log := getLogger(c.LogLevel)
	runner, err := c.Runner.NewRunner(log)
	if err != nil {
		return err
	}
	return printResult(stdout, runner.Research(ctx, query))
}

// printResult writes the result text. Research failures are part of the
// output, not errors, so the process still exits with a zero code.
func printResult(w io.Writer, result research.Result) (err error) {
	_, err = fmt.Fprintln(w, result.String())
	return err
}
