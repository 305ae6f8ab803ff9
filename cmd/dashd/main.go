// Command dashd serves the simulated stock dashboard: an HTML page, a
// WebSocket stream of snapshots, a REST API and Prometheus metrics.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/ndrandal/stock-dashboard/internal/api"
	"github.com/ndrandal/stock-dashboard/internal/config"
	"github.com/ndrandal/stock-dashboard/internal/dashboard"
	"github.com/ndrandal/stock-dashboard/internal/engine"
	"github.com/ndrandal/stock-dashboard/internal/metrics"
	"github.com/ndrandal/stock-dashboard/internal/publish"
	"github.com/ndrandal/stock-dashboard/internal/session"
	"github.com/ndrandal/stock-dashboard/internal/view"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if err := config.SetupLogging(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatal().Err(err).Msg("logging setup failed")
	}
	log.Info().Msg("stock dashboard starting")

	// Context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// PRNG
	rng := engine.NewRNG(cfg.Seed)
	log.Info().Int64("seed", rng.Seed()).Msg("PRNG seeded")

	// Dashboard + refresh timer
	dash, err := dashboard.New(rng, cfg.DefaultSymbol)
	if err != nil {
		log.Fatal().Err(err).Msg("dashboard init failed")
	}
	sched := dashboard.NewScheduler(dash, cfg.TickInterval)

	// Metrics (opt-out)
	var rec session.Recorder
	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
		rec = m
		sched.OnTick(m.Observe)
		dash.OnSelect(m.SymbolChanged)
	}

	// Session manager
	mgr := session.NewManager(dash, cfg.SendBufferSize, rec)
	sched.OnTick(mgr.BroadcastSnapshot)

	// NATS publisher (opt-in: only active when NATSURL is set)
	if cfg.NATSURL != "" {
		pcfg := publish.DefaultConfig(cfg.NATSURL)
		pcfg.SubjectPrefix = cfg.NATSSubjectPrefix
		pub := publish.New(pcfg)
		if err := pub.Connect(); err != nil {
			log.Error().Err(err).Msg("nats publisher disabled")
		} else {
			defer pub.Disconnect()
			sched.OnTick(pub.OnTick)
			dash.OnSelect(pub.OnSelect)
		}
	}

	go sched.Run(ctx)

	// HTTP/WebSocket server
	r := mux.NewRouter()
	r.HandleFunc("/", view.Handler(dash, "/ws")).Methods(http.MethodGet)
	r.HandleFunc("/ws", session.Handler(mgr))
	if m != nil {
		r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	}

	// REST API
	api.NewServer(dash, mgr).Register(r)

	addr := cfg.ListenAddr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info().
		Str("addr", addr).
		Str("symbol", dash.Symbol()).
		Dur("interval", sched.Interval()).
		Msg("dashboard listening")
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server error")
	}

	log.Info().Uint64("ticks", dash.Ticks()).Msg("stock dashboard stopped")
}
