package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	collectionmanager "bazaar/contexts/collection-governance/collection-manager"
	governanceworkers "bazaar/contexts/collection-governance/collection-manager/application/workers"
	settlementengine "bazaar/contexts/exchange-core/settlement-engine"
	"bazaar/contexts/exchange-core/settlement-engine/adapters/memory"
	postgresadapter "bazaar/contexts/exchange-core/settlement-engine/adapters/postgres"
	settlementworkers "bazaar/contexts/exchange-core/settlement-engine/application/workers"
	"bazaar/contexts/exchange-core/settlement-engine/domain/entities"
	"bazaar/internal/platform/config"
	"bazaar/internal/platform/db"
	"bazaar/internal/platform/httpserver"
	"bazaar/internal/platform/messaging"
	"bazaar/internal/shared/events"

	"github.com/ethereum/go-ethereum/common"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server       *httpserver.Server
	postgres     *db.Postgres
	bus          *messaging.Bus
	govRelay     governanceworkers.OutboxRelay
	pollInterval time.Duration
	logger       *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	bus          *messaging.Bus
	outboxRelay  settlementworkers.OutboxRelay
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	identities, err := parseIdentities(cfg)
	if err != nil {
		return nil, err
	}

	feeConfig := entities.FeeConfig{
		FeesCollector:              identities.feesCollector,
		FeesCollectorCutPerMillion: cfg.FeesCollectorCutPerMillion,
		RoyaltiesCutPerMillion:     cfg.RoyaltiesCutPerMillion,
		PublicationFeeInWei:        identities.publicationFee,
	}
	if err := feeConfig.Validate(); err != nil {
		return nil, fmt.Errorf("fee config from environment: %w", err)
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	repo := postgresadapter.NewRepository(pg.DB, logger)
	if err := repo.SeedFeeConfig(context.Background(), feeConfig); err != nil {
		return nil, err
	}

	// The order ledger and fee state are durable; payment, registry, and
	// royalty surfaces are the in-process chain simulation.
	settlement := settlementengine.NewModule(settlementengine.Dependencies{
		Orders:        repo,
		Fees:          repo,
		Payments:      memory.NewToken(identities.engine),
		Registries:    memory.NewDirectory(),
		Royalties:     memory.NewRoyaltyTable(),
		Clock:         postgresadapter.SystemClock{},
		IDGenerator:   postgresadapter.UUIDGenerator{},
		EngineAddress: identities.engine,
		Owner:         identities.owner,
		Admin:         identities.admin,
		MinOrderTTL:   cfg.MinOrderTTL,
		Logger:        logger,
	})

	governance := collectionmanager.NewInMemoryModule(collectionmanager.InMemoryConfig{
		Owner:                    identities.owner,
		ManagerAddress:           identities.manager,
		ForwarderAddress:         identities.forwarder,
		FactoryAddress:           identities.factory,
		EnableCommitteeAllowlist: cfg.EnableCommitteeAllowlist,
	}, logger)

	bus := messaging.NewBus(logger)
	server := httpserver.New(settlement, governance, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		bus:      bus,
		// Governance state is process local, so its outbox drains here
		// rather than in the worker process.
		govRelay: governanceworkers.OutboxRelay{
			Outbox:    governance.Store,
			Publisher: bus,
			Clock:     governance.Store,
			Topic:     "governance.events",
			BatchSize: 100,
			Logger:    logger,
		},
		pollInterval: 2 * time.Second,
		logger:       logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	bus := messaging.NewBus(logger)
	repo := postgresadapter.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		bus:      bus,
		outboxRelay: settlementworkers.OutboxRelay{
			Outbox:    repo,
			Publisher: bus,
			Clock:     postgresadapter.SystemClock{},
			Topic:     "settlement.events",
			BatchSize: 100,
			Logger:    logger,
		},
		pollInterval: 2 * time.Second,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(ctx context.Context) error {
	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)

	go func() {
		ticker := time.NewTicker(a.pollInterval)
		defer ticker.Stop()
		for {
			if err := a.govRelay.RunOnce(ctx); err != nil {
				a.logger.Error("governance outbox relay failed",
					"event", "bootstrap_governance_relay_failed",
					"module", "internal/app/bootstrap",
					"layer", "platform",
					"error", err.Error(),
				)
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if err := w.bus.Subscribe(ctx, "settlement.events", "settlement-audit-cg", w.auditEvent); err != nil {
		return err
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if err := w.outboxRelay.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) auditEvent(_ context.Context, event events.Envelope) error {
	w.logger.Info("settlement event observed",
		"event", "bootstrap_event_observed",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"event_id", event.EventID,
		"event_type", event.EventType,
		"partition_key", event.PartitionKey,
	)
	return nil
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

type identitySet struct {
	engine         common.Address
	owner          common.Address
	admin          common.Address
	feesCollector  common.Address
	manager        common.Address
	forwarder      common.Address
	factory        common.Address
	publicationFee *big.Int
}

func parseIdentities(cfg config.Config) (identitySet, error) {
	var (
		set identitySet
		err error
	)
	if set.engine, err = parseAddress("ENGINE_ADDRESS", cfg.EngineAddress); err != nil {
		return identitySet{}, err
	}
	if set.owner, err = parseAddress("OWNER_ADDRESS", cfg.OwnerAddress); err != nil {
		return identitySet{}, err
	}
	if set.admin, err = parseAddress("ADMIN_ADDRESS", cfg.AdminAddress); err != nil {
		return identitySet{}, err
	}
	if set.feesCollector, err = parseAddress("FEES_COLLECTOR_ADDRESS", cfg.FeesCollectorAddress); err != nil {
		return identitySet{}, err
	}
	if set.manager, err = parseAddress("MANAGER_ADDRESS", cfg.ManagerAddress); err != nil {
		return identitySet{}, err
	}
	if set.forwarder, err = parseAddress("FORWARDER_ADDRESS", cfg.ForwarderAddress); err != nil {
		return identitySet{}, err
	}
	if set.factory, err = parseAddress("FACTORY_ADDRESS", cfg.FactoryAddress); err != nil {
		return identitySet{}, err
	}

	if value := strings.TrimSpace(cfg.PublicationFeeInWei); value != "" {
		fee, ok := new(big.Int).SetString(value, 10)
		if !ok || fee.Sign() < 0 {
			return identitySet{}, fmt.Errorf("PUBLICATION_FEE_IN_WEI must be a non-negative decimal, got %q", value)
		}
		set.publicationFee = fee
	}
	return set, nil
}

func parseAddress(name, value string) (common.Address, error) {
	trimmed := strings.TrimSpace(value)
	if !common.IsHexAddress(trimmed) {
		return common.Address{}, fmt.Errorf("%s must be a 0x hex address, got %q", name, value)
	}
	return common.HexToAddress(trimmed), nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
