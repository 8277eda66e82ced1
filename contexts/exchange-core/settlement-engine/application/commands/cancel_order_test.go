package commands_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"bazaar/contexts/exchange-core/settlement-engine/application/commands"
	domainerrors "bazaar/contexts/exchange-core/settlement-engine/domain/errors"
)

func TestCancelOrderBySeller(t *testing.T) {
	world := newEngineWorld(defaultFeeConfig())
	order := listExclusive(t, world, big.NewInt(3), 100)

	if _, err := world.cancelOrderUseCase().Execute(context.Background(), commands.CancelOrderCommand{
		Caller:  sellerAddress,
		OrderID: order.ID,
	}); err != nil {
		t.Fatalf("seller cancel should succeed: %v", err)
	}

	if _, err := world.store.GetOrder(context.Background(), order.ID); !errors.Is(err, domainerrors.ErrOrderNotFound) {
		t.Fatalf("cancelled order should be gone, got %v", err)
	}

	events := world.store.OutboxEvents()
	last := events[len(events)-1]
	if last.EventType != "order.cancelled" {
		t.Fatalf("expected order.cancelled, got %s", last.EventType)
	}
}

func TestCancelOrderByAdmin(t *testing.T) {
	world := newEngineWorld(defaultFeeConfig())
	order := listExclusive(t, world, big.NewInt(3), 100)

	if _, err := world.cancelOrderUseCase().Execute(context.Background(), commands.CancelOrderCommand{
		Caller:  adminAddress,
		OrderID: order.ID,
	}); err != nil {
		t.Fatalf("admin cancel should succeed: %v", err)
	}
}

func TestCancelOrderRejectsStranger(t *testing.T) {
	world := newEngineWorld(defaultFeeConfig())
	order := listExclusive(t, world, big.NewInt(3), 100)

	_, err := world.cancelOrderUseCase().Execute(context.Background(), commands.CancelOrderCommand{
		Caller:  buyerAddress,
		OrderID: order.ID,
	})
	if !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, err := world.store.GetOrder(context.Background(), order.ID); err != nil {
		t.Fatalf("order should still be listed: %v", err)
	}
}

func TestCancelOrderUnknownID(t *testing.T) {
	world := newEngineWorld(defaultFeeConfig())

	_, err := world.cancelOrderUseCase().Execute(context.Background(), commands.CancelOrderCommand{
		Caller:  sellerAddress,
		OrderID: [32]byte{0xde, 0xad},
	})
	if !errors.Is(err, domainerrors.ErrOrderNotFound) {
		t.Fatalf("expected order not found, got %v", err)
	}
}
