package main

import (
	"io"

	"github.com/sirupsen/logrus"

	"quotecollector/internal/collector"
	"quotecollector/internal/config"
	"quotecollector/internal/csvstore"
	"quotecollector/internal/httpx"
	"quotecollector/internal/logging"
	"quotecollector/internal/provider"
	"quotecollector/internal/provider/alphavantage"
	"quotecollector/internal/provider/ratelimit"
)

type app struct {
	cfg       config.Config
	log       *logrus.Logger
	collector *collector.Collector
}

// newApp validates cfg and wires fetcher, pacing, store and collector.
func newApp(cfg config.Config, logOut io.Writer) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.LogLevel, logOut)
	if err != nil {
		return nil, err
	}

	httpClient := httpx.New(cfg.RequestTimeout())
	httpClient.Headers = map[string]string{"Accept": "application/json"}

	var p provider.Provider = alphavantage.NewClient(
		cfg.AlphaVantage.APIKey,
		alphavantage.WithBaseURL(cfg.AlphaVantage.BaseURL),
		alphavantage.WithHTTPClient(httpClient),
		alphavantage.WithLogger(log),
	)
	p = ratelimit.Wrap(p, cfg.AlphaVantage.MaxRequestsPerMinute, cfg.AlphaVantage.Burst, cfg.MinRequestInterval())

	store := csvstore.New(cfg.OutputFile, log)

	log.WithFields(logrus.Fields{
		"provider": p.Name(),
		"symbols":  len(cfg.Symbols),
		"output":   store.Path(),
	}).Debug("collector configured")

	return &app{
		cfg:       cfg,
		log:       log,
		collector: collector.New(p, store, cfg.Symbols, log),
	}, nil
}
