// Package app wires the engine components from the configuration and serves
// them over HTTP.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cryptonique0/cecd/api/assets"
	apidispatch "github.com/cryptonique0/cecd/api/dispatch"
	"github.com/cryptonique0/cecd/api/httputil"
	"github.com/cryptonique0/cecd/api/insights"
	"github.com/cryptonique0/cecd/config"
	"github.com/cryptonique0/cecd/core/assetstore"
	"github.com/cryptonique0/cecd/core/dispatch"
	"github.com/cryptonique0/cecd/core/dispatch/logging"
	"github.com/cryptonique0/cecd/core/environment"
	"github.com/cryptonique0/cecd/core/logistics"
	coremetrics "github.com/cryptonique0/cecd/core/metrics"
	"github.com/cryptonique0/cecd/core/model"
	coremon "github.com/cryptonique0/cecd/core/monitoring"
	coremqtt "github.com/cryptonique0/cecd/core/mqtt"
	"github.com/cryptonique0/cecd/core/playbook"
	"github.com/cryptonique0/cecd/core/readiness"
	"github.com/cryptonique0/cecd/core/routing"
	"github.com/cryptonique0/cecd/core/trust"
	"github.com/cryptonique0/cecd/infra/logger"
	"github.com/cryptonique0/cecd/infra/metrics"
	"github.com/cryptonique0/cecd/infra/monitoring"
	"github.com/cryptonique0/cecd/infra/mqtt"
	"github.com/cryptonique0/cecd/internal/eventbus"
)

// Service holds every engine component built from one configuration.
type Service struct {
	Planner    *routing.Planner
	Matcher    *dispatch.Matcher
	Playbooks  *playbook.Generator
	Forecaster *logistics.Forecaster
	Readiness  *readiness.Scorer
	Trust      *trust.Calculator
	Assets     *assetstore.MemoryStore

	cfg       *config.Config
	bus       *eventbus.Bus
	store     logging.LogStore
	sink      coremetrics.MetricsSink
	publisher coremqtt.Publisher
	client    *mqtt.PahoClient
	log       logger.Logger
	newLogger func(component string) logger.Logger
	now       func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithLogger sends the logs of the service and of every component to l.
func WithLogger(l logger.Logger) Option {
	if l == nil {
		return func(*Service) {}
	}
	return WithLoggerFactory(func(string) logger.Logger { return l })
}

// WithLoggerFactory builds the logger of each component with f.
func WithLoggerFactory(f func(component string) logger.Logger) Option {
	return func(s *Service) {
		if f != nil {
			s.newLogger = f
		}
	}
}

// WithClock sets the time source of the matcher, playbooks and trust decay.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithPublisher replaces the MQTT publisher. No broker connection is made.
func WithPublisher(p coremqtt.Publisher) Option { return func(s *Service) { s.publisher = p } }

// New creates a Service from the configuration. A nil configuration uses
// config.Default.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Service{cfg: cfg, newLogger: logger.New, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	s.log = s.newLogger("service")

	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(mon)

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	provider, err := environment.New(cfg.Dispatch.Environment)
	if err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	profiles, err := cfg.Playbook.Profiles()
	if err != nil {
		return nil, err
	}
	store, err := logging.Open(cfg.Logging.Options())
	if err != nil {
		return nil, fmt.Errorf("decision log: %w", err)
	}
	s.sink = sink
	s.store = store

	if s.publisher == nil {
		s.publisher = coremqtt.NopPublisher{}
		if cfg.MQTTEnabled() {
			client, err := mqtt.NewPahoClient(cfg.MQTT)
			if err != nil {
				_ = store.Close()
				return nil, fmt.Errorf("mqtt client: %w", err)
			}
			s.client = client
			s.publisher = client
		}
	}

	s.bus = eventbus.New()
	s.Assets = assetstore.NewMemoryStore(s.bus)
	s.Planner = routing.NewPlanner(provider, cfg.Dispatch.SpeedKmh)
	s.Matcher = dispatch.NewMatcher(s.Planner,
		dispatch.WithLogger(s.newLogger("matcher")),
		dispatch.WithMetrics(sink),
		dispatch.WithEventBus(s.bus),
		dispatch.WithLogStore(store),
		dispatch.WithPublisher(s.publisher),
		dispatch.WithMaxSuggestions(cfg.Dispatch.MaxSuggestions),
		dispatch.WithClock(s.now),
	)
	s.Playbooks = playbook.NewGenerator(playbook.WithProfiles(profiles), playbook.WithClock(s.now))
	s.Forecaster = logistics.NewForecaster(s.Playbooks, s.Assets,
		logistics.WithConfig(cfg.Logistics),
		logistics.WithLogger(s.newLogger("logistics")),
		logistics.WithMetrics(sink),
		logistics.WithEventBus(s.bus),
		logistics.WithPublisher(s.publisher),
	)
	s.Readiness = readiness.NewScorer(s.Playbooks,
		readiness.WithConfig(cfg.Readiness),
		readiness.WithLogger(s.newLogger("readiness")),
		readiness.WithMetrics(sink),
		readiness.WithEventBus(s.bus),
	)
	s.Trust = trust.NewCalculator(
		trust.WithClock(s.now),
		trust.WithLogger(s.newLogger("trust")),
		trust.WithMetrics(sink),
	)
	return s, nil
}

// Logger returns the service logger.
func (s *Service) Logger() logger.Logger { return s.log }

// LoadAssets seeds the asset registry and returns the rejected records.
func (s *Service) LoadAssets(items []model.Asset) []error {
	errs := s.Assets.Load(items)
	for _, err := range errs {
		s.log.Warnf("skip asset: %v", err)
	}
	return errs
}

// Handler returns the HTTP API. Every route requires the configured bearer
// token, if any.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	wrap := func(h http.Handler) http.Handler { return httputil.RequireBearer(s.cfg.HTTP.AuthToken, h) }

	mux.Handle("/api/dispatch/suggestions", wrap(apidispatch.NewSuggestionsHandler(s.Matcher)))
	mux.Handle("/api/dispatch/route", wrap(apidispatch.NewRouteHandler(s.Matcher)))
	mux.Handle("/api/dispatch/logs", wrap(apidispatch.NewLogHandler(s.store)))
	assets.Register(mux, s.Assets, wrap)
	insights.Handlers{
		Playbooks: s.Playbooks,
		Logistics: s.Forecaster,
		Readiness: s.Readiness,
		Trust:     s.Trust,
	}.Register(mux, wrap)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return mux
}

// Run serves the API and the metrics endpoint until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	metrics.StartEventCollector(ctx, s.bus, s.sink)
	s.watchEvents(ctx)

	if addr := s.cfg.HTTP.MetricsAddress; addr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	addr := s.cfg.HTTP.Address
	if addr == "" {
		s.log.Infof("http api disabled")
		<-ctx.Done()
		return nil
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(s.cfg.HTTP.ReadTimeoutSeconds) * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("http shutdown: %v", err)
		}
	}()
	s.log.Infof("http api listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close releases the decision log, the broker session, the bus and any
// closable metrics sink.
func (s *Service) Close() error {
	s.bus.Close()
	if s.client != nil {
		s.client.Disconnect()
	}
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	coremon.Flush(2 * time.Second)
	return s.store.Close()
}
