package commands

import (
	"context"
	"log/slog"
	"math/big"
	"time"

	application "bazaar/contexts/exchange-core/settlement-engine/application"
	"bazaar/contexts/exchange-core/settlement-engine/domain/entities"
	domainerrors "bazaar/contexts/exchange-core/settlement-engine/domain/errors"
	"bazaar/contexts/exchange-core/settlement-engine/ports"

	"github.com/ethereum/go-ethereum/common"
)

const (
	feesCollectorSetEventType      = "fees.collector_set"
	collectorCutChangedEventType   = "fees.collector_cut_changed"
	royaltiesCutChangedEventType   = "fees.royalties_cut_changed"
	publicationFeeChangedEventType = "fees.publication_fee_changed"
)

// UpdateFeesUseCase carries the owner-gated fee configuration setters. Every
// setter re-validates the cut-sum invariant before persisting.
type UpdateFeesUseCase struct {
	Fees        ports.FeeConfigRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Owner       common.Address
	Logger      *slog.Logger
}

func (u UpdateFeesUseCase) SetFeesCollector(ctx context.Context, caller common.Address, collector common.Address) (entities.FeeConfig, error) {
	if collector == (common.Address{}) {
		return entities.FeeConfig{}, domainerrors.ErrInvalidInput
	}
	return u.mutate(ctx, caller, feesCollectorSetEventType, func(config *entities.FeeConfig) {
		config.FeesCollector = collector
	})
}

func (u UpdateFeesUseCase) SetFeesCollectorCut(ctx context.Context, caller common.Address, cutPerMillion uint64) (entities.FeeConfig, error) {
	return u.mutate(ctx, caller, collectorCutChangedEventType, func(config *entities.FeeConfig) {
		config.FeesCollectorCutPerMillion = cutPerMillion
	})
}

func (u UpdateFeesUseCase) SetRoyaltiesCut(ctx context.Context, caller common.Address, cutPerMillion uint64) (entities.FeeConfig, error) {
	return u.mutate(ctx, caller, royaltiesCutChangedEventType, func(config *entities.FeeConfig) {
		config.RoyaltiesCutPerMillion = cutPerMillion
	})
}

func (u UpdateFeesUseCase) SetPublicationFee(ctx context.Context, caller common.Address, feeInWei *big.Int) (entities.FeeConfig, error) {
	if feeInWei == nil || feeInWei.Sign() < 0 {
		return entities.FeeConfig{}, domainerrors.ErrInvalidInput
	}
	return u.mutate(ctx, caller, publicationFeeChangedEventType, func(config *entities.FeeConfig) {
		config.PublicationFeeInWei = new(big.Int).Set(feeInWei)
	})
}

func (u UpdateFeesUseCase) mutate(
	ctx context.Context,
	caller common.Address,
	eventType string,
	apply func(*entities.FeeConfig),
) (entities.FeeConfig, error) {
	logger := application.ResolveLogger(u.Logger)
	if caller != u.Owner {
		return entities.FeeConfig{}, domainerrors.ErrUnauthorized
	}

	config, err := u.Fees.GetFeeConfig(ctx)
	if err != nil {
		return entities.FeeConfig{}, err
	}
	apply(&config)
	if err := config.Validate(); err != nil {
		return entities.FeeConfig{}, err
	}

	eventID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.FeeConfig{}, err
	}
	envelope, err := buildEnvelope(eventID, eventType, u.now(), config.FeesCollector.Hex(), map[string]any{
		"fees_collector":                 config.FeesCollector.Hex(),
		"fees_collector_cut_per_million": config.FeesCollectorCutPerMillion,
		"royalties_cut_per_million":      config.RoyaltiesCutPerMillion,
		"publication_fee_in_wei":         config.PublicationFee().String(),
	})
	if err != nil {
		return entities.FeeConfig{}, err
	}

	if err := u.Fees.UpdateFeeConfigWithOutbox(ctx, config, envelope); err != nil {
		logger.Error("fee config update failed",
			"event", "update_fees_write_failed",
			"module", "exchange-core/settlement-engine",
			"layer", "application",
			"change", eventType,
			"error", err.Error(),
		)
		return entities.FeeConfig{}, err
	}

	logger.Info("fee config updated",
		"event", "fee_config_updated",
		"module", "exchange-core/settlement-engine",
		"layer", "application",
		"change", eventType,
		"fees_collector", config.FeesCollector.Hex(),
		"fees_collector_cut_per_million", config.FeesCollectorCutPerMillion,
		"royalties_cut_per_million", config.RoyaltiesCutPerMillion,
	)
	return config, nil
}

func (u UpdateFeesUseCase) now() time.Time {
	if u.Clock == nil {
		return time.Now().UTC()
	}
	return u.Clock.Now().UTC()
}
