package commands

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	assetadapter "bazaar/contexts/exchange-core/asset-adapter"
	application "bazaar/contexts/exchange-core/settlement-engine/application"
	"bazaar/contexts/exchange-core/settlement-engine/domain/entities"
	domainerrors "bazaar/contexts/exchange-core/settlement-engine/domain/errors"
	"bazaar/contexts/exchange-core/settlement-engine/ports"

	"github.com/ethereum/go-ethereum/common"
)

const orderCreatedEventType = "order.created"

type CreateOrderCommand struct {
	Seller        common.Address
	AssetContract common.Address
	AssetID       *big.Int
	PricePerUnit  *big.Int
	ExpiresAt     time.Time
	Quantity      uint64
}

type CreateOrderResult struct {
	Order entities.Order
}

type CreateOrderUseCase struct {
	Orders        ports.OrderRepository
	Fees          ports.FeeConfigRepository
	Payments      ports.PaymentToken
	Registries    ports.RegistryDirectory
	Clock         ports.Clock
	IDGenerator   ports.IDGenerator
	EngineAddress common.Address
	MinOrderTTL   time.Duration
	Logger        *slog.Logger
}

// Execute validates the listing, inserts the order, and charges the flat
// publication fee. The insert happens first; a rejected fee transfer
// compensates by discarding the just-created order so the operation has no
// partial effect.
func (u CreateOrderUseCase) Execute(ctx context.Context, cmd CreateOrderCommand) (CreateOrderResult, error) {
	logger := application.ResolveLogger(u.Logger)

	if cmd.AssetID == nil {
		return CreateOrderResult{}, domainerrors.ErrInvalidInput
	}
	if cmd.PricePerUnit == nil || cmd.PricePerUnit.Sign() <= 0 {
		return CreateOrderResult{}, domainerrors.ErrInvalidPrice
	}
	if cmd.Quantity < 1 {
		return CreateOrderResult{}, domainerrors.ErrInvalidQuantity
	}

	now := u.now()
	if cmd.ExpiresAt.Before(now.Add(u.minOrderTTL())) {
		return CreateOrderResult{}, domainerrors.ErrInvalidExpiry
	}

	asset, err := u.resolveAsset(ctx, cmd.AssetContract)
	if err != nil {
		return CreateOrderResult{}, err
	}
	if asset.Kind() == assetadapter.KindExclusive && cmd.Quantity != 1 {
		return CreateOrderResult{}, domainerrors.ErrInvalidQuantity
	}

	held, err := asset.HeldQuantity(ctx, cmd.Seller, cmd.AssetID)
	if err != nil {
		return CreateOrderResult{}, fmt.Errorf("seller holding check: %w", err)
	}
	if held < cmd.Quantity {
		if asset.Kind() == assetadapter.KindExclusive {
			return CreateOrderResult{}, domainerrors.ErrNotAssetOwner
		}
		return CreateOrderResult{}, domainerrors.ErrInsufficientBalance
	}

	approved, err := asset.IsTransferApproved(ctx, cmd.Seller, u.EngineAddress, cmd.AssetID)
	if err != nil {
		return CreateOrderResult{}, fmt.Errorf("approval check: %w", err)
	}
	if !approved {
		return CreateOrderResult{}, domainerrors.ErrNotApproved
	}

	order := entities.Order{
		ID:            entities.ComputeOrderID(cmd.Seller, now, cmd.AssetContract, cmd.AssetID, cmd.PricePerUnit, cmd.Quantity),
		Seller:        cmd.Seller,
		AssetContract: cmd.AssetContract,
		AssetID:       new(big.Int).Set(cmd.AssetID),
		PricePerUnit:  new(big.Int).Set(cmd.PricePerUnit),
		ExpiresAt:     cmd.ExpiresAt.UTC(),
		Quantity:      cmd.Quantity,
		Kind:          entities.AssetKind(asset.Kind()),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	eventID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return CreateOrderResult{}, err
	}
	envelope, err := buildEnvelope(eventID, orderCreatedEventType, now, order.ID.Hex(), map[string]any{
		"order_id":       order.ID.Hex(),
		"seller":         order.Seller.Hex(),
		"asset_contract": order.AssetContract.Hex(),
		"asset_id":       order.AssetID.String(),
		"price_per_unit": order.PricePerUnit.String(),
		"expires_at":     order.ExpiresAt.UTC().Format(time.RFC3339),
		"quantity":       order.Quantity,
		"asset_kind":     string(order.Kind),
	})
	if err != nil {
		return CreateOrderResult{}, err
	}

	if err := u.Orders.CreateOrderWithOutbox(ctx, order, envelope); err != nil {
		logger.Error("order insert failed",
			"event", "create_order_write_failed",
			"module", "exchange-core/settlement-engine",
			"layer", "application",
			"order_id", order.ID.Hex(),
			"seller", order.Seller.Hex(),
			"error", err.Error(),
		)
		return CreateOrderResult{}, err
	}

	if err := u.chargePublicationFee(ctx, cmd.Seller); err != nil {
		// Undo the insert, creation event included, so the failed
		// operation leaves no trace.
		if discardErr := u.Orders.DiscardOrder(ctx, order.ID, envelope.EventID); discardErr != nil {
			logger.Error("publication fee compensation failed",
				"event", "create_order_compensation_failed",
				"module", "exchange-core/settlement-engine",
				"layer", "application",
				"order_id", order.ID.Hex(),
				"error", discardErr.Error(),
			)
		}
		return CreateOrderResult{}, err
	}

	logger.Info("order created",
		"event", "order_created",
		"module", "exchange-core/settlement-engine",
		"layer", "application",
		"order_id", order.ID.Hex(),
		"seller", order.Seller.Hex(),
		"asset_contract", order.AssetContract.Hex(),
		"asset_id", order.AssetID.String(),
		"quantity", order.Quantity,
		"asset_kind", string(order.Kind),
	)

	return CreateOrderResult{Order: order}, nil
}

func (u CreateOrderUseCase) resolveAsset(ctx context.Context, address common.Address) (assetadapter.Asset, error) {
	registry, deployed, err := u.Registries.Resolve(ctx, address)
	if err != nil {
		return assetadapter.Asset{}, fmt.Errorf("registry resolve: %w", err)
	}
	if !deployed {
		return assetadapter.Asset{}, assetadapter.ErrUnsupportedAsset
	}
	return assetadapter.Classify(registry)
}

func (u CreateOrderUseCase) chargePublicationFee(ctx context.Context, seller common.Address) error {
	config, err := u.Fees.GetFeeConfig(ctx)
	if err != nil {
		return err
	}
	fee := config.PublicationFee()
	if fee.Sign() <= 0 {
		return nil
	}
	if err := u.Payments.TransferFrom(ctx, seller, config.FeesCollector, fee); err != nil {
		return fmt.Errorf("%w: publication fee: %s", domainerrors.ErrExternalTransferFailed, err)
	}
	return nil
}

func (u CreateOrderUseCase) minOrderTTL() time.Duration {
	if u.MinOrderTTL <= 0 {
		return time.Minute
	}
	return u.MinOrderTTL
}

func (u CreateOrderUseCase) now() time.Time {
	if u.Clock == nil {
		return time.Now().UTC()
	}
	return u.Clock.Now().UTC()
}
