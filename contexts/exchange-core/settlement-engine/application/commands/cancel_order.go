package commands

import (
	"context"
	"log/slog"
	"time"

	application "bazaar/contexts/exchange-core/settlement-engine/application"
	"bazaar/contexts/exchange-core/settlement-engine/domain/entities"
	domainerrors "bazaar/contexts/exchange-core/settlement-engine/domain/errors"
	"bazaar/contexts/exchange-core/settlement-engine/ports"

	"github.com/ethereum/go-ethereum/common"
)

const orderCancelledEventType = "order.cancelled"

type CancelOrderCommand struct {
	Caller  common.Address
	OrderID common.Hash
}

type CancelOrderResult struct {
	Order entities.Order
}

type CancelOrderUseCase struct {
	Orders      ports.OrderRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Admin       common.Address
	Logger      *slog.Logger
}

// Execute removes an active order. Only the order's seller or the engine
// administrator may cancel.
func (u CancelOrderUseCase) Execute(ctx context.Context, cmd CancelOrderCommand) (CancelOrderResult, error) {
	logger := application.ResolveLogger(u.Logger)

	order, err := u.Orders.GetOrder(ctx, cmd.OrderID)
	if err != nil {
		return CancelOrderResult{}, err
	}
	if cmd.Caller != order.Seller && cmd.Caller != u.Admin {
		return CancelOrderResult{}, domainerrors.ErrUnauthorized
	}

	now := u.now()
	eventID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return CancelOrderResult{}, err
	}
	envelope, err := buildEnvelope(eventID, orderCancelledEventType, now, order.ID.Hex(), map[string]any{
		"order_id":       order.ID.Hex(),
		"seller":         order.Seller.Hex(),
		"asset_contract": order.AssetContract.Hex(),
		"asset_id":       order.AssetID.String(),
		"cancelled_by":   cmd.Caller.Hex(),
	})
	if err != nil {
		return CancelOrderResult{}, err
	}

	if err := u.Orders.RemoveOrderWithOutbox(ctx, order.ID, envelope); err != nil {
		logger.Error("order removal failed",
			"event", "cancel_order_write_failed",
			"module", "exchange-core/settlement-engine",
			"layer", "application",
			"order_id", order.ID.Hex(),
			"error", err.Error(),
		)
		return CancelOrderResult{}, err
	}

	logger.Info("order cancelled",
		"event", "order_cancelled",
		"module", "exchange-core/settlement-engine",
		"layer", "application",
		"order_id", order.ID.Hex(),
		"seller", order.Seller.Hex(),
		"cancelled_by", cmd.Caller.Hex(),
	)

	return CancelOrderResult{Order: order}, nil
}

func (u CancelOrderUseCase) now() time.Time {
	if u.Clock == nil {
		return time.Now().UTC()
	}
	return u.Clock.Now().UTC()
}
