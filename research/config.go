package research

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultModel        = "claude-sonnet-4-6"
	DefaultMaxTokens    = 4096
	DefaultToolType     = "web_search_20260209"
	DefaultMaxSearches  = 5
	DefaultAttempts     = 3
	DefaultBackoff      = 30 * time.Second
	DefaultHeaderMarker = "SHOPSCOUT RESULTS"
)

// Location is the approximate user location passed to the web search tool.
type Location struct {
	Country  string `yaml:"country"`
	City     string `yaml:"city"`
	Region   string `yaml:"region"`
	Timezone string `yaml:"timezone"`
}

type Config struct {
	Model              string        `yaml:"model"`
	MaxTokens          int64         `yaml:"max_tokens"`
	SystemPrompt       string        `yaml:"system_prompt"`
	UserPromptTemplate string        `yaml:"user_prompt_template"`
	ToolType           string        `yaml:"tool_type"`
	MaxSearches        int64         `yaml:"max_searches"`
	Location           Location      `yaml:"location"`
	Attempts           int           `yaml:"attempts"`
	Backoff            time.Duration `yaml:"backoff"`
	HeaderMarker       string        `yaml:"header_marker"`
}

func DefaultConfig() Config {
	return Config{
		Model:              DefaultModel,
		MaxTokens:          DefaultMaxTokens,
		SystemPrompt:       SystemPrompt,
		UserPromptTemplate: UserPromptTemplate,
		ToolType:           DefaultToolType,
		MaxSearches:        DefaultMaxSearches,
		Location: Location{
			Country:  "GB",
			City:     "London",
			Timezone: "Europe/London",
		},
		Attempts:     DefaultAttempts,
		Backoff:      DefaultBackoff,
		HeaderMarker: DefaultHeaderMarker,
	}
}

func (c Config) Validate() (err error) {
	var errs []error
	if c.Model == "" {
		errs = append(errs, errors.New("model is required"))
	}
	if c.MaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens))
	}
	if c.SystemPrompt == "" {
		errs = append(errs, errors.New("system prompt is required"))
	}
	if c.UserPromptTemplate == "" {
		errs = append(errs, errors.New("user prompt template is required"))
	}
	if c.ToolType == "" {
		errs = append(errs, errors.New("tool type is required"))
	}
	if c.MaxSearches <= 0 {
		errs = append(errs, fmt.Errorf("max searches must be positive, got %d", c.MaxSearches))
	}
	if c.Attempts <= 0 {
		errs = append(errs, fmt.Errorf("attempts must be positive, got %d", c.Attempts))
	}
	if c.Backoff < 0 {
		errs = append(errs, fmt.Errorf("backoff must not be negative, got %v", c.Backoff))
	}
	return errors.Join(errs...)
}

// profile is the YAML form of a Config. Fields left out of the file keep
// their default values.
type profile struct {
	Config           `yaml:",inline"`
	SystemPromptFile string `yaml:"system_prompt_file"`
}

// LoadProfile reads a YAML profile and overlays it onto DefaultConfig.
// A system_prompt_file is resolved relative to the profile.
func LoadProfile(name string) (cfg Config, err error) {
	f, err := os.Open(name)
	if err != nil {
		return cfg, fmt.Errorf("research: failed to open profile: %w", err)
	}
	defer f.Close()

	p := profile{Config: DefaultConfig()}
	if err = yaml.NewDecoder(f).Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("research: failed to decode profile %q: %w", name, err)
	}
	if p.SystemPromptFile != "" {
		promptFile := p.SystemPromptFile
		if !filepath.IsAbs(promptFile) {
			promptFile = filepath.Join(filepath.Dir(name), promptFile)
		}
		prompt, err := os.ReadFile(promptFile)
		if err != nil {
			return cfg, fmt.Errorf("research: failed to read system prompt file: %w", err)
		}
		p.Config.SystemPrompt = string(prompt)
	}
	if err = p.Config.Validate(); err != nil {
		return cfg, fmt.Errorf("research: invalid profile %q: %w", name, err)
	}
	return p.Config, nil
}
