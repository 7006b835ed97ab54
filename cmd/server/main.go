package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ballothandler "univote/internal/ballot/handler"
	ballotservice "univote/internal/ballot/service"
	ballotstore "univote/internal/ballot/store"
	electionhandler "univote/internal/election/handler"
	electionservice "univote/internal/election/service"
	electionstore "univote/internal/election/store"
	internalhttp "univote/internal/http"
	"univote/internal/platform/auth"
	"univote/internal/platform/config"
	"univote/internal/platform/events"
	"univote/internal/platform/httpserver"
	"univote/internal/platform/logger"
	"univote/internal/platform/metrics"
	"univote/internal/platform/postgres"
	platformredis "univote/internal/platform/redis"
	"univote/internal/tally"
	voterstore "univote/internal/voter/store"
)

// main wires the stores, services and transport, then runs the server until
// interrupted. Business logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		elections ballotservice.ElectionStore
		profiles  ballotservice.ProfileStore
		ledger    ballotservice.Ledger

		electionStore electionservice.Store
		tallyElecs    tally.ElectionStore
		tallyLedger   tally.Ledger
	)
	if cfg.PostgresDSN != "" {
		db, err := postgres.Open(cfg.PostgresDSN)
		if err != nil {
			log.Error("postgres connection failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := postgres.CreateSchema(db); err != nil {
			log.Error("schema creation failed", "error", err)
			os.Exit(1)
		}
		pgElections := electionstore.NewPostgres(db)
		pgLedger := ballotstore.NewPostgres(db)
		elections, electionStore, tallyElecs = pgElections, pgElections, pgElections
		ledger, tallyLedger = pgLedger, pgLedger
		profiles = voterstore.NewPostgres(db)
		log.Info("using postgres stores")
	} else {
		memElections := electionstore.NewInMemoryStore()
		memLedger := ballotstore.NewInMemoryStore()
		elections, electionStore, tallyElecs = memElections, memElections, memElections
		ledger, tallyLedger = memLedger, memLedger
		profiles = voterstore.NewInMemoryStore()
		log.Warn("no postgres DSN configured, using in-memory stores")
	}

	var tallyCache tally.Cache
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		tallyCache = tally.NewRedisCache(redisClient, cfg.TallyCacheTTL)
		log.Info("tally cache enabled")
	}

	var publisher ballotservice.EventPublisher
	kafkaPublisher, err := events.NewKafkaPublisher(ctx, cfg.Kafka, log)
	if err != nil {
		log.Error("kafka connection failed", "error", err)
		os.Exit(1)
	}
	if kafkaPublisher != nil {
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Info("ballot events enabled", "topic", cfg.Kafka.Topic)
	}

	electionSvc := electionservice.New(electionStore, m, log)
	tallySvc := tally.New(tallyElecs, tallyLedger, tallyCache, m, log)

	var invalidator ballotservice.TallyInvalidator
	if tallyCache != nil {
		invalidator = tallyCache
	}
	ballotSvc := ballotservice.New(elections, profiles, ledger, publisher, invalidator, m, log)

	electionSvc.StartStatusSync(ctx, cfg.StatusSyncInterval)

	electionH := electionhandler.New(electionSvc, log)
	ballotH := ballothandler.New(ballotSvc, log)
	tallyH := tally.NewHandler(tallySvc, log)

	router := internalhttp.NewRouter(internalhttp.Config{
		Logger:     log,
		Metrics:    m,
		Validator:  auth.NewJWTValidator(cfg.JWTSigningKey),
		AdminToken: cfg.AdminToken,
		Public:     []internalhttp.Registrar{electionH, tallyH},
		Authed:     []internalhttp.Registrar{ballotH},
		Admin:      []internalhttp.AdminRegistrar{electionH, ballotH},
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting univote", "addr", cfg.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
