package commands_test

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"bazaar/contexts/exchange-core/settlement-engine/application/commands"
	"bazaar/contexts/exchange-core/settlement-engine/domain/entities"
	domainerrors "bazaar/contexts/exchange-core/settlement-engine/domain/errors"
	"bazaar/contexts/exchange-core/settlement-engine/ports"

	"github.com/ethereum/go-ethereum/crypto"
)

func listStock(t *testing.T, world *engineWorld, itemID *big.Int, quantity uint64, pricePerUnit int64) entities.Order {
	t.Helper()
	world.mintStock(itemID, quantity)
	result, err := world.createOrderUseCase().Execute(context.Background(), commands.CreateOrderCommand{
		Seller:        sellerAddress,
		AssetContract: stockAddress,
		AssetID:       itemID,
		PricePerUnit:  big.NewInt(pricePerUnit),
		ExpiresAt:     validExpiry(),
		Quantity:      quantity,
	})
	if err != nil {
		t.Fatalf("listing should succeed: %v", err)
	}
	return result.Order
}

func listExclusive(t *testing.T, world *engineWorld, itemID *big.Int, price int64) entities.Order {
	t.Helper()
	world.mintExclusive(itemID)
	result, err := world.createOrderUseCase().Execute(context.Background(), commands.CreateOrderCommand{
		Seller:        sellerAddress,
		AssetContract: itemsAddress,
		AssetID:       itemID,
		PricePerUnit:  big.NewInt(price),
		ExpiresAt:     validExpiry(),
		Quantity:      1,
	})
	if err != nil {
		t.Fatalf("listing should succeed: %v", err)
	}
	return result.Order
}

func TestExecuteOrderPartialThenFullFill(t *testing.T) {
	world := newEngineWorld(defaultFeeConfig())
	itemID := big.NewInt(9)
	order := listStock(t, world, itemID, 5, 100)
	world.fundBuyer(big.NewInt(10_000))
	world.royalties.SetReceiver(stockAddress, itemID, creatorAddress)

	useCase := world.executeOrderUseCase()

	first, err := useCase.Execute(context.Background(), commands.ExecuteOrderCommand{
		Buyer:    buyerAddress,
		OrderID:  order.ID,
		Quantity: 2,
	})
	if err != nil {
		t.Fatalf("partial fill should succeed: %v", err)
	}
	if first.RemainingQuantity != 3 {
		t.Fatalf("expected remaining 3, got %d", first.RemainingQuantity)
	}
	// 200 total: 2.5% collector = 5, 10% royalty = 20, seller gets 175.
	if first.CollectorShare.Cmp(big.NewInt(5)) != 0 ||
		first.RoyaltyShare.Cmp(big.NewInt(20)) != 0 ||
		first.SellerProceeds.Cmp(big.NewInt(175)) != 0 {
		t.Fatalf("unexpected split: collector=%s royalty=%s seller=%s",
			first.CollectorShare, first.RoyaltyShare, first.SellerProceeds)
	}
	if first.RoyaltyReceiver != creatorAddress {
		t.Fatalf("expected royalty receiver %s, got %s", creatorAddress, first.RoyaltyReceiver)
	}

	second, err := useCase.Execute(context.Background(), commands.ExecuteOrderCommand{
		Buyer:    buyerAddress,
		OrderID:  order.ID,
		Quantity: 3,
	})
	if err != nil {
		t.Fatalf("exhausting fill should succeed: %v", err)
	}
	if second.RemainingQuantity != 0 {
		t.Fatalf("expected remaining 0, got %d", second.RemainingQuantity)
	}

	if _, err := world.store.GetOrder(context.Background(), order.ID); !errors.Is(err, domainerrors.ErrOrderNotFound) {
		t.Fatalf("exhausted order should be gone, got %v", err)
	}

	held, _ := world.stock.BalanceOf(context.Background(), buyerAddress, itemID)
	if held != 5 {
		t.Fatalf("expected buyer to hold 5 units, got %d", held)
	}
	sellerBalance, _ := world.token.BalanceOf(context.Background(), sellerAddress)
	if sellerBalance.Cmp(big.NewInt(438)) != 0 {
		t.Fatalf("expected seller proceeds 438, got %s", sellerBalance)
	}
	creatorBalance, _ := world.token.BalanceOf(context.Background(), creatorAddress)
	if creatorBalance.Cmp(big.NewInt(50)) != 0 {
		t.Fatalf("expected creator royalties 50, got %s", creatorBalance)
	}
}

func TestExecuteOrderRejectsOverFill(t *testing.T) {
	world := newEngineWorld(defaultFeeConfig())
	itemID := big.NewInt(9)
	order := listStock(t, world, itemID, 5, 100)
	world.fundBuyer(big.NewInt(10_000))

	_, err := world.executeOrderUseCase().Execute(context.Background(), commands.ExecuteOrderCommand{
		Buyer:    buyerAddress,
		OrderID:  order.ID,
		Quantity: 6,
	})
	if !errors.Is(err, domainerrors.ErrInsufficientQuantity) {
		t.Fatalf("expected insufficient quantity, got %v", err)
	}
}

func TestExecuteOrderRejectsExpired(t *testing.T) {
	world := newEngineWorld(defaultFeeConfig())
	itemID := big.NewInt(9)
	world.mintExclusive(itemID)

	// Insert directly so the expiry can sit in the past.
	now := time.Now().UTC()
	order := entities.Order{
		ID:            entities.ComputeOrderID(sellerAddress, now, itemsAddress, itemID, big.NewInt(100), 1),
		Seller:        sellerAddress,
		AssetContract: itemsAddress,
		AssetID:       itemID,
		PricePerUnit:  big.NewInt(100),
		ExpiresAt:     now.Add(-time.Minute),
		Quantity:      1,
		Kind:          entities.AssetKindExclusive,
		CreatedAt:     now.Add(-time.Hour),
		UpdatedAt:     now.Add(-time.Hour),
	}
	if err := world.store.CreateOrderWithOutbox(context.Background(), order, ports.EventEnvelope{EventID: "stl-seed"}); err != nil {
		t.Fatalf("seed insert failed: %v", err)
	}
	world.fundBuyer(big.NewInt(10_000))

	_, err := world.executeOrderUseCase().Execute(context.Background(), commands.ExecuteOrderCommand{
		Buyer:    buyerAddress,
		OrderID:  order.ID,
		Quantity: 1,
	})
	if !errors.Is(err, domainerrors.ErrOrderExpired) {
		t.Fatalf("expected order expired, got %v", err)
	}
}

func TestExecuteOrderRejectsSelfTrade(t *testing.T) {
	world := newEngineWorld(defaultFeeConfig())
	order := listExclusive(t, world, big.NewInt(9), 100)

	_, err := world.executeOrderUseCase().Execute(context.Background(), commands.ExecuteOrderCommand{
		Buyer:    sellerAddress,
		OrderID:  order.ID,
		Quantity: 1,
	})
	if !errors.Is(err, domainerrors.ErrSelfTrade) {
		t.Fatalf("expected self trade rejection, got %v", err)
	}
}

func TestExecuteOrderRejectsSellerNoLongerOwner(t *testing.T) {
	world := newEngineWorld(defaultFeeConfig())
	itemID := big.NewInt(9)
	order := listExclusive(t, world, itemID, 100)
	world.fundBuyer(big.NewInt(10_000))

	// Seller moves the item away after listing.
	world.items.Mint(itemID, creatorAddress)

	_, err := world.executeOrderUseCase().Execute(context.Background(), commands.ExecuteOrderCommand{
		Buyer:    buyerAddress,
		OrderID:  order.ID,
		Quantity: 1,
	})
	if !errors.Is(err, domainerrors.ErrSellerNoLongerOwner) {
		t.Fatalf("expected seller-no-longer-owner, got %v", err)
	}
}

func TestExecuteOrderFingerprintGuard(t *testing.T) {
	world := newEngineWorld(defaultFeeConfig())
	itemID := big.NewInt(9)
	fingerprint := crypto.Keccak256Hash([]byte("estate composition v1"))
	world.estates.Mint(itemID, sellerAddress)
	world.estates.SetApprovalForAll(sellerAddress, engineAddress, true)
	world.estates.SetFingerprint(itemID, fingerprint)

	result, err := world.createOrderUseCase().Execute(context.Background(), commands.CreateOrderCommand{
		Seller:        sellerAddress,
		AssetContract: estateAddress,
		AssetID:       itemID,
		PricePerUnit:  big.NewInt(100),
		ExpiresAt:     validExpiry(),
		Quantity:      1,
	})
	if err != nil {
		t.Fatalf("listing should succeed: %v", err)
	}
	world.fundBuyer(big.NewInt(10_000))

	useCase := world.executeOrderUseCase()

	// The plain path carries a zero fingerprint and must be rejected.
	_, err = useCase.Execute(context.Background(), commands.ExecuteOrderCommand{
		Buyer:    buyerAddress,
		OrderID:  result.Order.ID,
		Quantity: 1,
	})
	if !errors.Is(err, domainerrors.ErrFingerprintMismatch) {
		t.Fatalf("expected fingerprint mismatch, got %v", err)
	}

	if _, err := useCase.Execute(context.Background(), commands.ExecuteOrderCommand{
		Buyer:       buyerAddress,
		OrderID:     result.Order.ID,
		Quantity:    1,
		Fingerprint: fingerprint,
	}); err != nil {
		t.Fatalf("matching fingerprint should settle: %v", err)
	}

	owner, _ := world.estates.OwnerOf(context.Background(), itemID)
	if owner != buyerAddress {
		t.Fatalf("expected buyer to own the item, got %s", owner)
	}
}

func TestExecuteOrderRoyaltyLookupFailureRedirectsToCollector(t *testing.T) {
	world := newEngineWorld(defaultFeeConfig())
	itemID := big.NewInt(9)
	order := listStock(t, world, itemID, 1, 1_000_000)
	world.fundBuyer(big.NewInt(1_000_000))
	world.royalties.Fail = errors.New("royalty registry unreachable")

	result, err := world.executeOrderUseCase().Execute(context.Background(), commands.ExecuteOrderCommand{
		Buyer:    buyerAddress,
		OrderID:  order.ID,
		Quantity: 1,
	})
	if err != nil {
		t.Fatalf("fill should succeed despite lookup failure: %v", err)
	}
	if result.RoyaltyShare.Sign() != 0 {
		t.Fatalf("expected royalty share folded away, got %s", result.RoyaltyShare)
	}
	// Collector takes 2.5% plus the orphaned 10%.
	if result.CollectorShare.Cmp(big.NewInt(125_000)) != 0 {
		t.Fatalf("expected collector share 125000, got %s", result.CollectorShare)
	}
}

func TestExecuteOrderRollsBackOnRejectedPayment(t *testing.T) {
	world := newEngineWorld(defaultFeeConfig())
	itemID := big.NewInt(9)
	order := listStock(t, world, itemID, 5, 100)
	// Balance exists but the engine has no allowance, so the first payment
	// leg is rejected after the ledger reservation.
	world.token.Mint(buyerAddress, big.NewInt(10_000))

	_, err := world.executeOrderUseCase().Execute(context.Background(), commands.ExecuteOrderCommand{
		Buyer:    buyerAddress,
		OrderID:  order.ID,
		Quantity: 2,
	})
	if !errors.Is(err, domainerrors.ErrExternalTransferFailed) {
		t.Fatalf("expected external transfer failure, got %v", err)
	}

	restored, err := world.store.GetOrder(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("order should have been restored: %v", err)
	}
	if restored.Quantity != 5 {
		t.Fatalf("expected restored quantity 5, got %d", restored.Quantity)
	}
}

func TestExecuteOrderReentrantFillObservesReservedLedger(t *testing.T) {
	world := newEngineWorld(defaultFeeConfig())
	itemID := big.NewInt(9)
	order := listExclusive(t, world, itemID, 100)
	world.fundBuyer(big.NewInt(10_000))

	useCase := world.executeOrderUseCase()

	var reentrantErr error
	reentered := false
	world.token.Hook = func(ctx context.Context) error {
		if reentered {
			return nil
		}
		reentered = true
		// A malicious token re-enters the engine mid-payment. The ledger was
		// already mutated, so the inner fill must not find the order.
		_, reentrantErr = useCase.Execute(ctx, commands.ExecuteOrderCommand{
			Buyer:    buyerAddress,
			OrderID:  order.ID,
			Quantity: 1,
		})
		return nil
	}

	if _, err := useCase.Execute(context.Background(), commands.ExecuteOrderCommand{
		Buyer:    buyerAddress,
		OrderID:  order.ID,
		Quantity: 1,
	}); err != nil {
		t.Fatalf("outer fill should succeed: %v", err)
	}
	if !reentered {
		t.Fatalf("hook never ran")
	}
	if !errors.Is(reentrantErr, domainerrors.ErrOrderNotFound) {
		t.Fatalf("expected re-entrant fill to miss the order, got %v", reentrantErr)
	}

	owner, _ := world.items.OwnerOf(context.Background(), itemID)
	if owner != buyerAddress {
		t.Fatalf("expected buyer to own the item, got %s", owner)
	}
}

func TestExecuteOrderEmitsSuccessfulEvent(t *testing.T) {
	world := newEngineWorld(defaultFeeConfig())
	itemID := big.NewInt(9)
	order := listExclusive(t, world, itemID, 100)
	world.fundBuyer(big.NewInt(10_000))

	if _, err := world.executeOrderUseCase().Execute(context.Background(), commands.ExecuteOrderCommand{
		Buyer:    buyerAddress,
		OrderID:  order.ID,
		Quantity: 1,
	}); err != nil {
		t.Fatalf("fill should succeed: %v", err)
	}

	events := world.store.OutboxEvents()
	last := events[len(events)-1]
	if last.EventType != "order.successful" {
		t.Fatalf("expected order.successful, got %s", last.EventType)
	}
	if last.PartitionKey != order.ID.Hex() {
		t.Fatalf("expected partition key %s, got %s", order.ID.Hex(), last.PartitionKey)
	}
}

func TestExecuteOrderSucceedsWhenFillEventWriteFails(t *testing.T) {
	world := newEngineWorld(defaultFeeConfig())
	itemID := big.NewInt(31)
	order := listExclusive(t, world, itemID, 100)
	world.fundBuyer(big.NewInt(10_000))
	world.store.FailCommitFill = true

	result, err := world.executeOrderUseCase().Execute(context.Background(), commands.ExecuteOrderCommand{
		Buyer:    buyerAddress,
		OrderID:  order.ID,
		Quantity: 1,
	})
	// Settlement already moved payment and item; the lost event must not
	// surface as a failed fill.
	if err != nil {
		t.Fatalf("settled fill should succeed despite the event write failure: %v", err)
	}
	if result.FilledQuantity != 1 || result.RemainingQuantity != 0 {
		t.Fatalf("expected full fill, got filled=%d remaining=%d",
			result.FilledQuantity, result.RemainingQuantity)
	}

	owner, _ := world.items.OwnerOf(context.Background(), itemID)
	if owner != buyerAddress {
		t.Fatalf("expected buyer to own the item, got %s", owner)
	}
	if _, err := world.store.GetOrder(context.Background(), order.ID); !errors.Is(err, domainerrors.ErrOrderNotFound) {
		t.Fatalf("expected order removed from ledger, got %v", err)
	}

	for _, event := range world.store.OutboxEvents() {
		if event.EventType == "order.successful" {
			t.Fatalf("fill event must not have been recorded")
		}
	}
}
