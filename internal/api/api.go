package api

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"zimmetd/internal/audit"
	"zimmetd/internal/zimmet"
	"zimmetd/pkg/bus"
	"zimmetd/pkg/render"
	gos3 "zimmetd/pkg/s3"
)

// Store holds external dependencies required by the API layer. The pgx pool
// backs read-side reporting; gorm backs the transactional write path. Bus and
// S3 are optional.
type Store struct {
	DB  *pgxpool.Pool
	ORM *gorm.DB
	Bus *bus.Bus
	S3  *gos3.Client
}

// Config controls runtime behaviour for the API handlers.
type Config struct {
	FormBucket     string
	PresignTTL     time.Duration
	RequestTimeout time.Duration
}

// API wires the consistency engine, registry, directory, and read-side
// components behind HTTP handlers.
type API struct {
	store     *Store
	config    Config
	logger    zerolog.Logger
	engine    *zimmet.Engine
	registry  *zimmet.Registry
	directory *zimmet.Directory
	receipts  *zimmet.Receipts
	recorder  *audit.Recorder
}

// New initialises the API layer with sane defaults applied to the provided
// configuration.
func New(store *Store, cfg Config, logger zerolog.Logger) (*API, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if store.ORM == nil {
		return nil, errors.New("store ORM is required")
	}

	if cfg.PresignTTL <= 0 {
		cfg.PresignTTL = 15 * time.Minute
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}

	renderer, err := render.New()
	if err != nil {
		return nil, err
	}

	recorder := audit.NewRecorder(store.ORM, store.Bus, logger)

	engine, err := zimmet.NewEngine(store.ORM, recorder, logger)
	if err != nil {
		return nil, err
	}
	registry, err := zimmet.NewRegistry(store.ORM)
	if err != nil {
		return nil, err
	}
	directory, err := zimmet.NewDirectory(store.ORM)
	if err != nil {
		return nil, err
	}
	receipts, err := zimmet.NewReceipts(store.ORM, renderer)
	if err != nil {
		return nil, err
	}

	return &API{
		store:     store,
		config:    cfg,
		logger:    logger,
		engine:    engine,
		registry:  registry,
		directory: directory,
		receipts:  receipts,
		recorder:  recorder,
	}, nil
}
