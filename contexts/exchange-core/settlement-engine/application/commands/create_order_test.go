package commands_test

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	assetadapter "bazaar/contexts/exchange-core/asset-adapter"
	"bazaar/contexts/exchange-core/settlement-engine/application/commands"
	"bazaar/contexts/exchange-core/settlement-engine/domain/entities"
	domainerrors "bazaar/contexts/exchange-core/settlement-engine/domain/errors"
	"bazaar/contexts/exchange-core/settlement-engine/ports"
)

func TestCreateOrderExclusiveListing(t *testing.T) {
	world := newEngineWorld(defaultFeeConfig())
	itemID := big.NewInt(7)
	world.mintExclusive(itemID)

	result, err := world.createOrderUseCase().Execute(context.Background(), commands.CreateOrderCommand{
		Seller:        sellerAddress,
		AssetContract: itemsAddress,
		AssetID:       itemID,
		PricePerUnit:  big.NewInt(1_000),
		ExpiresAt:     validExpiry(),
		Quantity:      1,
	})
	if err != nil {
		t.Fatalf("listing should succeed: %v", err)
	}
	if result.Order.Kind != entities.AssetKindExclusive {
		t.Fatalf("expected exclusive kind, got %s", result.Order.Kind)
	}

	stored, err := world.store.GetOrder(context.Background(), result.Order.ID)
	if err != nil {
		t.Fatalf("order should be in the ledger: %v", err)
	}
	if stored.Quantity != 1 {
		t.Fatalf("expected quantity 1, got %d", stored.Quantity)
	}

	events := world.store.OutboxEvents()
	if len(events) != 1 || events[0].EventType != "order.created" {
		t.Fatalf("expected one order.created event, got %+v", events)
	}
}

func TestCreateOrderRejectsExpiryInsideMinimumWindow(t *testing.T) {
	world := newEngineWorld(defaultFeeConfig())
	itemID := big.NewInt(7)
	world.mintExclusive(itemID)

	_, err := world.createOrderUseCase().Execute(context.Background(), commands.CreateOrderCommand{
		Seller:        sellerAddress,
		AssetContract: itemsAddress,
		AssetID:       itemID,
		PricePerUnit:  big.NewInt(1_000),
		ExpiresAt:     time.Now().UTC().Add(30 * time.Second),
		Quantity:      1,
	})
	if !errors.Is(err, domainerrors.ErrInvalidExpiry) {
		t.Fatalf("expected invalid expiry, got %v", err)
	}
}

func TestCreateOrderRejectsNonOwner(t *testing.T) {
	world := newEngineWorld(defaultFeeConfig())
	itemID := big.NewInt(7)
	world.items.Mint(itemID, buyerAddress)

	_, err := world.createOrderUseCase().Execute(context.Background(), commands.CreateOrderCommand{
		Seller:        sellerAddress,
		AssetContract: itemsAddress,
		AssetID:       itemID,
		PricePerUnit:  big.NewInt(1_000),
		ExpiresAt:     validExpiry(),
		Quantity:      1,
	})
	if !errors.Is(err, domainerrors.ErrNotAssetOwner) {
		t.Fatalf("expected not-asset-owner, got %v", err)
	}
}

func TestCreateOrderRejectsMissingApproval(t *testing.T) {
	world := newEngineWorld(defaultFeeConfig())
	itemID := big.NewInt(7)
	world.items.Mint(itemID, sellerAddress)

	_, err := world.createOrderUseCase().Execute(context.Background(), commands.CreateOrderCommand{
		Seller:        sellerAddress,
		AssetContract: itemsAddress,
		AssetID:       itemID,
		PricePerUnit:  big.NewInt(1_000),
		ExpiresAt:     validExpiry(),
		Quantity:      1,
	})
	if !errors.Is(err, domainerrors.ErrNotApproved) {
		t.Fatalf("expected not-approved, got %v", err)
	}
}

func TestCreateOrderRejectsUnknownRegistry(t *testing.T) {
	world := newEngineWorld(defaultFeeConfig())

	_, err := world.createOrderUseCase().Execute(context.Background(), commands.CreateOrderCommand{
		Seller:        sellerAddress,
		AssetContract: buyerAddress,
		AssetID:       big.NewInt(7),
		PricePerUnit:  big.NewInt(1_000),
		ExpiresAt:     validExpiry(),
		Quantity:      1,
	})
	if !errors.Is(err, assetadapter.ErrUnsupportedAsset) {
		t.Fatalf("expected unsupported asset, got %v", err)
	}
}

func TestCreateOrderRejectsExclusiveQuantityAboveOne(t *testing.T) {
	world := newEngineWorld(defaultFeeConfig())
	itemID := big.NewInt(7)
	world.mintExclusive(itemID)

	_, err := world.createOrderUseCase().Execute(context.Background(), commands.CreateOrderCommand{
		Seller:        sellerAddress,
		AssetContract: itemsAddress,
		AssetID:       itemID,
		PricePerUnit:  big.NewInt(1_000),
		ExpiresAt:     validExpiry(),
		Quantity:      3,
	})
	if !errors.Is(err, domainerrors.ErrInvalidQuantity) {
		t.Fatalf("expected invalid quantity, got %v", err)
	}
}

func TestCreateOrderRejectsDuplicateListing(t *testing.T) {
	world := newEngineWorld(defaultFeeConfig())
	itemID := big.NewInt(7)
	world.mintStock(itemID, 10)

	useCase := world.createOrderUseCase()
	cmd := commands.CreateOrderCommand{
		Seller:        sellerAddress,
		AssetContract: stockAddress,
		AssetID:       itemID,
		PricePerUnit:  big.NewInt(1_000),
		ExpiresAt:     validExpiry(),
		Quantity:      5,
	}
	if _, err := useCase.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("first listing should succeed: %v", err)
	}

	cmd.PricePerUnit = big.NewInt(2_000)
	cmd.Quantity = 3
	_, err := useCase.Execute(context.Background(), cmd)
	if !errors.Is(err, domainerrors.ErrOrderAlreadyExists) {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}
}

func TestCreateOrderChargesPublicationFee(t *testing.T) {
	config := defaultFeeConfig()
	config.PublicationFeeInWei = big.NewInt(50)
	world := newEngineWorld(config)
	itemID := big.NewInt(7)
	world.mintExclusive(itemID)
	world.token.Mint(sellerAddress, big.NewInt(50))
	world.token.Approve(sellerAddress, engineAddress, big.NewInt(50))

	if _, err := world.createOrderUseCase().Execute(context.Background(), commands.CreateOrderCommand{
		Seller:        sellerAddress,
		AssetContract: itemsAddress,
		AssetID:       itemID,
		PricePerUnit:  big.NewInt(1_000),
		ExpiresAt:     validExpiry(),
		Quantity:      1,
	}); err != nil {
		t.Fatalf("listing should succeed: %v", err)
	}

	collected, _ := world.token.BalanceOf(context.Background(), collectorAddress)
	if collected.Cmp(big.NewInt(50)) != 0 {
		t.Fatalf("expected collector balance 50, got %s", collected)
	}
}

func TestCreateOrderCompensatesWhenPublicationFeeFails(t *testing.T) {
	config := defaultFeeConfig()
	config.PublicationFeeInWei = big.NewInt(50)
	world := newEngineWorld(config)
	itemID := big.NewInt(7)
	world.mintExclusive(itemID)
	// No token balance: the fee transfer is rejected.

	_, err := world.createOrderUseCase().Execute(context.Background(), commands.CreateOrderCommand{
		Seller:        sellerAddress,
		AssetContract: itemsAddress,
		AssetID:       itemID,
		PricePerUnit:  big.NewInt(1_000),
		ExpiresAt:     validExpiry(),
		Quantity:      1,
	})
	if !errors.Is(err, domainerrors.ErrExternalTransferFailed) {
		t.Fatalf("expected external transfer failure, got %v", err)
	}
	orders, _, listErr := world.store.ListOrders(context.Background(), ports.OrderListFilter{})
	if listErr != nil {
		t.Fatalf("list should succeed: %v", listErr)
	}
	if len(orders) != 0 {
		t.Fatalf("order should have been discarded, ledger has %d orders", len(orders))
	}

	// The creation event must be discarded with the order, or the relay
	// would announce an order that never existed.
	pending, pendingErr := world.store.ListPendingOutbox(context.Background(), 10)
	if pendingErr != nil {
		t.Fatalf("pending list should succeed: %v", pendingErr)
	}
	if len(pending) != 0 {
		t.Fatalf("compensated create must leave no pending events, got %d", len(pending))
	}
}
