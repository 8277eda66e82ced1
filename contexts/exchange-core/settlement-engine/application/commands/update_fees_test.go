package commands_test

import (
	"context"
	"errors"
	"math"
	"math/big"
	"testing"

	domainerrors "bazaar/contexts/exchange-core/settlement-engine/domain/errors"
)

func TestUpdateFeesOwnerOnly(t *testing.T) {
	world := newEngineWorld(defaultFeeConfig())

	_, err := world.updateFeesUseCase().SetFeesCollectorCut(context.Background(), buyerAddress, 30_000)
	if !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	config, err := world.updateFeesUseCase().SetFeesCollectorCut(context.Background(), ownerAddress, 30_000)
	if err != nil {
		t.Fatalf("owner update should succeed: %v", err)
	}
	if config.FeesCollectorCutPerMillion != 30_000 {
		t.Fatalf("expected cut 30000, got %d", config.FeesCollectorCutPerMillion)
	}
}

func TestUpdateFeesRejectsCutSumAtBase(t *testing.T) {
	world := newEngineWorld(defaultFeeConfig())

	// 900000 + the configured 100000 royalties hits the full million.
	_, err := world.updateFeesUseCase().SetFeesCollectorCut(context.Background(), ownerAddress, 900_000)
	if !errors.Is(err, domainerrors.ErrInvalidFeeConfig) {
		t.Fatalf("expected invalid fee config, got %v", err)
	}

	config, err := world.store.GetFeeConfig(context.Background())
	if err != nil {
		t.Fatalf("read should succeed: %v", err)
	}
	if config.FeesCollectorCutPerMillion != 25_000 {
		t.Fatalf("rejected update must not stick, got %d", config.FeesCollectorCutPerMillion)
	}
}

func TestUpdateFeesRejectsCutAboveBase(t *testing.T) {
	world := newEngineWorld(defaultFeeConfig())

	// A giant rate would wrap the uint64 sum back under the base; the rate
	// must be rejected on its own before any summing.
	_, err := world.updateFeesUseCase().SetFeesCollectorCut(context.Background(), ownerAddress, math.MaxUint64)
	if !errors.Is(err, domainerrors.ErrInvalidFeeConfig) {
		t.Fatalf("expected invalid fee config, got %v", err)
	}

	_, err = world.updateFeesUseCase().SetRoyaltiesCut(context.Background(), ownerAddress, math.MaxUint64-50_000)
	if !errors.Is(err, domainerrors.ErrInvalidFeeConfig) {
		t.Fatalf("expected invalid fee config, got %v", err)
	}

	config, err := world.store.GetFeeConfig(context.Background())
	if err != nil {
		t.Fatalf("read should succeed: %v", err)
	}
	if config.FeesCollectorCutPerMillion != 25_000 || config.RoyaltiesCutPerMillion != 100_000 {
		t.Fatalf("rejected update must not stick, got %d/%d",
			config.FeesCollectorCutPerMillion, config.RoyaltiesCutPerMillion)
	}
}

func TestUpdateFeesRejectsZeroCollector(t *testing.T) {
	world := newEngineWorld(defaultFeeConfig())

	_, err := world.updateFeesUseCase().SetFeesCollector(context.Background(), ownerAddress, [20]byte{})
	if !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestUpdateFeesPublicationFee(t *testing.T) {
	world := newEngineWorld(defaultFeeConfig())

	config, err := world.updateFeesUseCase().SetPublicationFee(context.Background(), ownerAddress, big.NewInt(75))
	if err != nil {
		t.Fatalf("update should succeed: %v", err)
	}
	if config.PublicationFee().Cmp(big.NewInt(75)) != 0 {
		t.Fatalf("expected publication fee 75, got %s", config.PublicationFee())
	}

	events := world.store.OutboxEvents()
	if events[len(events)-1].EventType != "fees.publication_fee_changed" {
		t.Fatalf("expected fees.publication_fee_changed, got %s", events[len(events)-1].EventType)
	}
}
