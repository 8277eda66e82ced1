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
	"bazaar/contexts/exchange-core/settlement-engine/domain/services"
	"bazaar/contexts/exchange-core/settlement-engine/ports"

	"github.com/ethereum/go-ethereum/common"
)

const orderSuccessfulEventType = "order.successful"

type ExecuteOrderCommand struct {
	Buyer    common.Address
	OrderID  common.Hash
	Quantity uint64
	// Fingerprint is the buyer's claim about the item's current state. The
	// plain execute path leaves it zero; registries that expose fingerprint
	// verification will reject a zero fingerprint when state has a non-zero
	// digest, which is exactly the drift guard the capability exists for.
	Fingerprint common.Hash
}

type ExecuteOrderResult struct {
	Order             entities.Order
	FilledQuantity    uint64
	RemainingQuantity uint64
	OrderPrice        *big.Int
	CollectorShare    *big.Int
	RoyaltyShare      *big.Int
	RoyaltyReceiver   common.Address
	SellerProceeds    *big.Int
}

type ExecuteOrderUseCase struct {
	Orders        ports.OrderRepository
	Fees          ports.FeeConfigRepository
	Payments      ports.PaymentToken
	Registries    ports.RegistryDirectory
	Royalties     ports.RoyaltyLookup
	Clock         ports.Clock
	IDGenerator   ports.IDGenerator
	EngineAddress common.Address
	Logger        *slog.Logger
}

// Execute fills an order. The ledger is decremented BEFORE any external
// transfer is issued: a malicious payment token or registry that re-enters
// the engine mid-settlement observes the order already reduced or removed.
// Any rejected transfer rolls the reservation back so the whole operation
// has no partial effect.
func (u ExecuteOrderUseCase) Execute(ctx context.Context, cmd ExecuteOrderCommand) (ExecuteOrderResult, error) {
	logger := application.ResolveLogger(u.Logger)

	if cmd.Quantity < 1 {
		return ExecuteOrderResult{}, domainerrors.ErrInvalidQuantity
	}

	order, err := u.Orders.GetOrder(ctx, cmd.OrderID)
	if err != nil {
		return ExecuteOrderResult{}, err
	}

	now := u.now()
	if order.IsExpired(now) {
		return ExecuteOrderResult{}, domainerrors.ErrOrderExpired
	}
	if cmd.Buyer == order.Seller {
		return ExecuteOrderResult{}, domainerrors.ErrSelfTrade
	}
	if cmd.Quantity > order.Quantity {
		return ExecuteOrderResult{}, domainerrors.ErrInsufficientQuantity
	}

	asset, err := u.resolveAsset(ctx, order.AssetContract)
	if err != nil {
		return ExecuteOrderResult{}, err
	}

	if verifier, ok := asset.Fingerprint(); ok {
		match, err := verifier.VerifyFingerprint(ctx, order.AssetID, cmd.Fingerprint)
		if err != nil {
			return ExecuteOrderResult{}, fmt.Errorf("fingerprint verification: %w", err)
		}
		if !match {
			return ExecuteOrderResult{}, domainerrors.ErrFingerprintMismatch
		}
	}

	// Ownership can change between listing and fill.
	held, err := asset.HeldQuantity(ctx, order.Seller, order.AssetID)
	if err != nil {
		return ExecuteOrderResult{}, fmt.Errorf("seller holding check: %w", err)
	}
	if held < cmd.Quantity {
		if asset.Kind() == assetadapter.KindExclusive {
			return ExecuteOrderResult{}, domainerrors.ErrSellerNoLongerOwner
		}
		return ExecuteOrderResult{}, domainerrors.ErrSellerInsufficientBalance
	}

	orderPrice := order.TotalPrice(cmd.Quantity)
	config, err := u.Fees.GetFeeConfig(ctx)
	if err != nil {
		return ExecuteOrderResult{}, err
	}
	split := services.SplitProceeds(config, orderPrice, u.royaltyReceiver(ctx, order, logger))

	// Ledger mutation precedes the external transfers. This is the one real
	// lock in the engine.
	reservation, err := u.Orders.ReserveOrderQuantity(ctx, order.ID, cmd.Quantity, now)
	if err != nil {
		return ExecuteOrderResult{}, err
	}

	if err := u.settle(ctx, cmd.Buyer, order, asset, cmd.Quantity, config, split); err != nil {
		if restoreErr := u.Orders.RestoreOrder(ctx, reservation); restoreErr != nil {
			logger.Error("order restore failed after rejected settlement",
				"event", "execute_order_restore_failed",
				"module", "exchange-core/settlement-engine",
				"layer", "application",
				"order_id", order.ID.Hex(),
				"error", restoreErr.Error(),
			)
		}
		return ExecuteOrderResult{}, err
	}

	remaining := order.Quantity - cmd.Quantity
	if err := u.recordFill(ctx, order, cmd, now, remaining, orderPrice, split, reservation); err != nil {
		// Payment and asset transfers are final at this point: the fill
		// stands, only its event is lost. Report it, do not fail the fill.
		logger.Error("fill event write failed after settlement",
			"event", "execute_order_commit_failed",
			"module", "exchange-core/settlement-engine",
			"layer", "application",
			"order_id", order.ID.Hex(),
			"error", err.Error(),
		)
	}

	logger.Info("order filled",
		"event", "order_successful",
		"module", "exchange-core/settlement-engine",
		"layer", "application",
		"order_id", order.ID.Hex(),
		"buyer", cmd.Buyer.Hex(),
		"seller", order.Seller.Hex(),
		"filled_quantity", cmd.Quantity,
		"remaining", remaining,
		"order_price", orderPrice.String(),
	)

	return ExecuteOrderResult{
		Order:             order,
		FilledQuantity:    cmd.Quantity,
		RemainingQuantity: remaining,
		OrderPrice:        orderPrice,
		CollectorShare:    split.CollectorShare,
		RoyaltyShare:      split.RoyaltyShare,
		RoyaltyReceiver:   split.RoyaltyReceiver,
		SellerProceeds:    split.SellerProceeds,
	}, nil
}

// recordFill writes the order.successful event. It runs after settlement, so
// its error never unwinds the fill.
func (u ExecuteOrderUseCase) recordFill(
	ctx context.Context,
	order entities.Order,
	cmd ExecuteOrderCommand,
	now time.Time,
	remaining uint64,
	orderPrice *big.Int,
	split services.FeeSplit,
	reservation ports.OrderReservation,
) error {
	eventID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return err
	}
	envelope, err := buildEnvelope(eventID, orderSuccessfulEventType, now, order.ID.Hex(), map[string]any{
		"order_id":         order.ID.Hex(),
		"buyer":            cmd.Buyer.Hex(),
		"seller":           order.Seller.Hex(),
		"asset_contract":   order.AssetContract.Hex(),
		"asset_id":         order.AssetID.String(),
		"filled_quantity":  cmd.Quantity,
		"remaining":        remaining,
		"order_price":      orderPrice.String(),
		"collector_share":  split.CollectorShare.String(),
		"royalty_share":    split.RoyaltyShare.String(),
		"royalty_receiver": split.RoyaltyReceiver.Hex(),
		"seller_proceeds":  split.SellerProceeds.String(),
	})
	if err != nil {
		return err
	}
	return u.Orders.CommitFill(ctx, reservation, envelope)
}

// settle runs the external leg: payment transfers first, asset transfer
// last. Whatever fails here is reported back so the caller can roll the
// ledger mutation back as a unit.
func (u ExecuteOrderUseCase) settle(
	ctx context.Context,
	buyer common.Address,
	order entities.Order,
	asset assetadapter.Asset,
	quantity uint64,
	config entities.FeeConfig,
	split services.FeeSplit,
) error {
	if split.RoyaltyShare.Sign() > 0 {
		if err := u.Payments.TransferFrom(ctx, buyer, split.RoyaltyReceiver, split.RoyaltyShare); err != nil {
			return fmt.Errorf("%w: royalty payment: %s", domainerrors.ErrExternalTransferFailed, err)
		}
	}
	if split.CollectorShare.Sign() > 0 {
		if err := u.Payments.TransferFrom(ctx, buyer, config.FeesCollector, split.CollectorShare); err != nil {
			return fmt.Errorf("%w: collector payment: %s", domainerrors.ErrExternalTransferFailed, err)
		}
	}
	if split.SellerProceeds.Sign() > 0 {
		if err := u.Payments.TransferFrom(ctx, buyer, order.Seller, split.SellerProceeds); err != nil {
			return fmt.Errorf("%w: seller payment: %s", domainerrors.ErrExternalTransferFailed, err)
		}
	}
	if err := asset.Transfer(ctx, order.Seller, buyer, order.AssetID, quantity); err != nil {
		return fmt.Errorf("%w: asset transfer: %s", domainerrors.ErrExternalTransferFailed, err)
	}
	return nil
}

func (u ExecuteOrderUseCase) royaltyReceiver(ctx context.Context, order entities.Order, logger *slog.Logger) common.Address {
	if u.Royalties == nil {
		return common.Address{}
	}
	receiver, err := u.Royalties.ReceiverOf(ctx, order.AssetContract, order.AssetID)
	if err != nil {
		// Deliberate policy, not recovery: an unavailable royalty lookup
		// redirects the royalty share to the fees collector.
		logger.Warn("royalty lookup failed, share goes to fees collector",
			"event", "execute_order_royalty_lookup_failed",
			"module", "exchange-core/settlement-engine",
			"layer", "application",
			"order_id", order.ID.Hex(),
			"error", err.Error(),
		)
		return common.Address{}
	}
	return receiver
}

func (u ExecuteOrderUseCase) resolveAsset(ctx context.Context, address common.Address) (assetadapter.Asset, error) {
	registry, deployed, err := u.Registries.Resolve(ctx, address)
	if err != nil {
		return assetadapter.Asset{}, fmt.Errorf("registry resolve: %w", err)
	}
	if !deployed {
		return assetadapter.Asset{}, assetadapter.ErrUnsupportedAsset
	}
	return assetadapter.Classify(registry)
}

func (u ExecuteOrderUseCase) now() time.Time {
	if u.Clock == nil {
		return time.Now().UTC()
	}
	return u.Clock.Now().UTC()
}
