package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"zimmetd/internal/api"
	"zimmetd/internal/config"
	gormdb "zimmetd/internal/db"
	"zimmetd/internal/otel"
	"zimmetd/internal/version"
	"zimmetd/internal/zimmet"
	"zimmetd/pkg/bus"
	"zimmetd/pkg/db"
	gos3 "zimmetd/pkg/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	cleanup, err := otel.Init(ctx, version.Name, version.Version, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("init otel")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := cleanup(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown otel")
		}
	}()

	pool, err := db.Open(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("open pool")
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	orm, err := gormdb.Connect(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	defer func() {
		if err := gormdb.Close(orm); err != nil {
			log.Error().Err(err).Msg("close database")
		}
	}()

	if err := zimmet.Seed(ctx, orm); err != nil {
		log.Fatal().Err(err).Msg("seed database")
	}

	var eventBus *bus.Bus
	if cfg.NATSURL != "" {
		eventBus, err = bus.New(cfg.NATSURL)
		if err != nil {
			log.Fatal().Err(err).Msg("connect nats")
		}
		defer eventBus.Close()
	}

	var s3Client *gos3.Client
	if cfg.S3Endpoint != "" {
		s3Client, err = gos3.NewClientFromEnv()
		if err != nil {
			log.Fatal().Err(err).Msg("init s3")
		}
	}

	app, err := api.New(&api.Store{
		DB:  pool,
		ORM: orm,
		Bus: eventBus,
		S3:  s3Client,
	}, api.Config{
		FormBucket:     cfg.FormBucket,
		PresignTTL:     cfg.PresignTTL,
		RequestTimeout: cfg.RequestTimeout,
	}, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("init api")
	}

	handler, err := app.Routes(cfg.AllowedOrigins)
	if err != nil {
		log.Fatal().Err(err).Msg("build router")
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("starting zimmetd")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown server")
	}
}
