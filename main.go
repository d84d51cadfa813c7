package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/earthback/visualizer/pkg/api"
	"github.com/earthback/visualizer/pkg/domain"
	"github.com/earthback/visualizer/pkg/llm"
	"github.com/earthback/visualizer/pkg/llm/replicate"
	"github.com/earthback/visualizer/pkg/logger"
	"github.com/earthback/visualizer/pkg/metrics"
	"github.com/earthback/visualizer/pkg/services"
	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type Config struct {
	ReplicateAPIToken string        `env:"REPLICATE_API_TOKEN"`
	ReplicateBaseURL  string        `env:"REPLICATE_BASE_URL" envDefault:"https://api.replicate.com/v1"`
	ReplicateModel    string        `env:"REPLICATE_MODEL" envDefault:"black-forest-labs/flux-schnell"`
	ReplicateProxyURL string        `env:"REPLICATE_PROXY_URL"`
	CreateTimeout     time.Duration `env:"CREATE_TIMEOUT" envDefault:"55s"`
	PollTimeout       time.Duration `env:"POLL_TIMEOUT" envDefault:"10s"`
	PollInterval      time.Duration `env:"POLL_INTERVAL" envDefault:"1500ms"`
	PollMaxAttempts   int           `env:"POLL_MAX_ATTEMPTS" envDefault:"20"`
	HTTPAddr          string        `env:"HTTP_ADDR" envDefault:":8080"`
	AdminAddr         string        `env:"ADMIN_ADDR" envDefault:":9090"`
	ExposePrompt      bool          `env:"EXPOSE_PROMPT" envDefault:"false"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
}

func loadConfig() (Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing env config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// validate checks the polling budget independently of the token, so a
// deployment without a token still fails fast on bad values.
func (c Config) validate() error {
	var result *multierror.Error

	if c.PollMaxAttempts <= 0 {
		result = multierror.Append(result, fmt.Errorf("POLL_MAX_ATTEMPTS must be positive, got %d", c.PollMaxAttempts))
	}
	for name, d := range map[string]time.Duration{
		"CREATE_TIMEOUT": c.CreateTimeout,
		"POLL_TIMEOUT":   c.PollTimeout,
		"POLL_INTERVAL":  c.PollInterval,
	} {
		if d <= 0 {
			result = multierror.Append(result, fmt.Errorf("%s must be positive, got %s", name, d))
		}
	}

	return result.ErrorOrNil()
}

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, logger.DefaultOptions)))

	if err := runMain(); err != nil {
		slog.Error("shutting down due to error", logger.Err(err))
		os.Exit(1)
	}
	slog.Info("shutdown complete")
}

func runMain() error {
	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	svcGroup, err := setupServices()
	if err != nil {
		return err
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		select {
		case s := <-sigCh:
			slog.Info("shutting down due to signal", "signal", s.String())
			cancelFn()
		case <-ctx.Done():
		}
	}()

	return svcGroup.Start(ctx)
}

func setupServices() (services.Group, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, &logger.Options{Level: level})))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	generator, err := newImageGenerator(cfg, m)
	if err != nil {
		return nil, err
	}

	var svcGroup services.Group

	router := api.NewRouter(generator, api.RouterOptions{
		ExposePrompt: cfg.ExposePrompt,
		Observer:     m,
	})

	// Polling can keep a request open well past a minute.
	shutdownTimeout := cfg.CreateTimeout + time.Duration(cfg.PollMaxAttempts)*(cfg.PollInterval+cfg.PollTimeout)

	svc, err := services.NewHTTPServer("vision-proxy", cfg.HTTPAddr, router, shutdownTimeout)
	if err != nil {
		return nil, fmt.Errorf("creating vision server: %w", err)
	}
	svcGroup = append(svcGroup, svc)

	if cfg.AdminAddr != "" {
		adminSvc, err := services.NewHTTPServer("admin", cfg.AdminAddr, metrics.NewAdminHandler(reg), 0)
		if err != nil {
			return nil, fmt.Errorf("creating admin server: %w", err)
		}
		svcGroup = append(svcGroup, adminSvc)
	}

	return svcGroup, nil
}

// newImageGenerator returns a nil generator when no token is configured, so
// the proxy still starts and answers with a configuration error.
func newImageGenerator(cfg Config, m *metrics.Metrics) (llm.ImageGenerator, error) {
	hc, err := replicate.NewHTTPClient(cfg.ReplicateProxyURL)
	if err != nil {
		return nil, fmt.Errorf("creating http client: %w", err)
	}

	client, err := replicate.NewClient(cfg.ReplicateAPIToken,
		replicate.WithHTTPClient(hc),
		replicate.WithBaseURL(cfg.ReplicateBaseURL),
		replicate.WithModel(cfg.ReplicateModel),
		replicate.WithCreateTimeout(cfg.CreateTimeout),
		replicate.WithPollTimeout(cfg.PollTimeout),
		replicate.WithPollInterval(cfg.PollInterval),
		replicate.WithMaxPollAttempts(cfg.PollMaxAttempts),
		replicate.WithObserver(m),
	)
	if errors.Is(err, domain.ErrMissingToken) {
		slog.Warn("REPLICATE_API_TOKEN is not set, vision requests will fail")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("creating replicate client: %w", err)
	}

	return client, nil
}
