package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/a-h/shopscout/auth"
	researchpost "github.com/a-h/shopscout/handlers/research/post"
	"github.com/rs/cors"
)

type ServeCommand struct {
	Runner      RunnerFlags `embed:""`
	ListenAddr  string      `help:"The address to listen on." env:"LISTEN_ADDR" default:"localhost:9020"`
	TLSCertFile string      `help:"The TLS certificate file." env:"TLS_CERT_FILE" default:""`
	TLSKeyFile  string      `help:"The TLS key file." env:"TLS_KEY_FILE" default:""`
	APIKeysFile string      `help:"The JSON or YAML file containing a map of API keys to usernames." env:"API_KEYS_FILE" default:"apikeys.json"`
	LogLevel    string      `help:"The log level to use." env:"LOG_LEVEL" default:"info"`
}

func (c ServeCommand) Run(ctx context.Context) (err error) {
	log := getLogger(c.LogLevel)

	log.Info("creating research runner")
	runner, err := c.Runner.NewRunner(log)
	if err != nil {
		return err
	}
	if c.Runner.APIKey == "" {
		log.Warn("ANTHROPIC_API_KEY is not set, research requests will return a configuration error")
	}

	mux := http.NewServeMux()

	rph := researchpost.New(log, runner)
	mux.Handle("POST /research", rph)

	apiKeyToUserName, err := auth.LoadFromFile(c.APIKeysFile)
	if err != nil {
		return fmt.Errorf("failed to load API keys: %w", err)
	}
	authenticatedMux := auth.New(apiKeyToUserName, mux)
	withCORSAuthenticatedMux := cors.AllowAll().Handler(authenticatedMux)

	log.Info("Listening", slog.String("addr", c.ListenAddr))
	s := &http.Server{
		Addr:    c.ListenAddr,
		Handler: withCORSAuthenticatedMux,
	}
	if c.TLSCertFile != "" && c.TLSKeyFile != "" {
		log.Info("Enabling TLS mode")
		var cert tls.Certificate
		cert, err = tls.LoadX509KeyPair(c.TLSCertFile, c.TLSKeyFile)
		if err != nil {
			return fmt.Errorf("failed to load cert: %w", err)
		}
		s.TLSConfig = &tls.Config{
			MinVersion:   tls.VersionTLS12,
			Certificates: []tls.Certificate{cert},
		}
		return s.ListenAndServeTLS(c.TLSCertFile, c.TLSKeyFile)
	}
	return s.ListenAndServe()
}
