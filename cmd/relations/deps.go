package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/arxiv/relations-core/internal/application/handlers"
	"github.com/arxiv/relations-core/internal/domain/entities"
	"github.com/arxiv/relations-core/internal/domain/ports"
	"github.com/arxiv/relations-core/internal/domain/services"
	"github.com/arxiv/relations-core/internal/infrastructure/assertionstore/sqlite"
	rediscache "github.com/arxiv/relations-core/internal/infrastructure/cache/redis"
	"github.com/arxiv/relations-core/internal/infrastructure/config"
	"github.com/arxiv/relations-core/internal/infrastructure/notifier"
	natsnotifier "github.com/arxiv/relations-core/internal/infrastructure/notifier/nats"
	"github.com/arxiv/relations-core/internal/infrastructure/verifier"
)

// Deps holds high-level dependencies for commands. Only handlers are
// exposed; services and the store stay internal.
type Deps struct {
	Config          *config.Config
	RelationHandler *handlers.RelationHandler
	StatusHandler   *handlers.StatusHandler
}

// withDeps loads config and builds dependencies, then calls the provided
// function. Cleanup is handled automatically.
func withDeps(ctx context.Context, fn func(*Deps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := sqlite.NewRepository(cfg.SQLite)
	if err != nil {
		return fmt.Errorf("creating assertion store: %w", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring ledger schema: %w", err)
	}

	registry := services.NewVerifierRegistry()
	if !cfg.Verify.Disabled {
		doi := verifier.NewDOI(cfg.Verify)
		url := verifier.NewURL(cfg.Verify)
		registry.Register(entities.ResourceDataset, doi)
		registry.Register(entities.ResourcePublishedVersion, doi)
		registry.Register(entities.ResourceCodeRepository, url)
		registry.Register(entities.ResourceMultimedia, url)
	}

	var notify ports.Notifier
	if cfg.NATS.URL != "" {
		notify, err = natsnotifier.NewPublisher(ctx, cfg.NATS)
		if err != nil {
			return fmt.Errorf("creating event publisher: %w", err)
		}
	} else {
		notify = notifier.NewLog()
	}
	defer notify.Close()

	var cache ports.ViewCache
	if cfg.Redis.Addr != "" {
		c := rediscache.NewCache(cfg.Redis)
		defer c.Close()
		cache = c
	}

	ledger := services.NewLedgerService(store, registry)

	deps := &Deps{
		Config:          cfg,
		RelationHandler: handlers.NewRelationHandler(ledger, notify, cache),
		StatusHandler:   handlers.NewStatusHandler(store),
	}

	return fn(deps)
}

// withRelationHandler provides access to the RelationHandler.
func withRelationHandler(ctx context.Context, fn func(*handlers.RelationHandler) error) error {
	return withDeps(ctx, func(d *Deps) error {
		return fn(d.RelationHandler)
	})
}

// resolveCreator builds the submitter identity from flags or environment.
// Submissions record who asserted what; the ledger only consumes an identity
// established upstream.
func resolveCreator() (entities.Creator, error) {
	client := globalClient
	if client == "" {
		client = os.Getenv("RELATIONS_CLIENT_ID")
	}
	user := globalUser
	if user == "" {
		user = os.Getenv("RELATIONS_USER_ID")
	}
	if client == "" || user == "" {
		return entities.Creator{}, errors.New("submitter identity required (use --client/--user or RELATIONS_CLIENT_ID/RELATIONS_USER_ID)")
	}
	return entities.Creator{ClientID: client, UserID: user}, nil
}
