package ports

import (
	"context"
	"math/big"
	"time"

	assetadapter "bazaar/contexts/exchange-core/asset-adapter"
	"bazaar/contexts/exchange-core/settlement-engine/domain/entities"
	"bazaar/internal/shared/events"
	"bazaar/internal/shared/outbox"

	"github.com/ethereum/go-ethereum/common"
)

// OrderListFilter narrows and paginates ledger queries.
type OrderListFilter struct {
	AssetContract common.Address
	Seller        common.Address
	Cursor        string
	Limit         int
}

// OrderReservation is the restore snapshot returned by ReserveOrderQuantity.
// It carries the order state BEFORE the decrement so a failed settlement can
// roll the ledger back as a unit.
type OrderReservation struct {
	Order     entities.Order
	Filled    uint64
	Exhausted bool
	FilledAt  time.Time
}

// OrderRepository is the order ledger. Presence of an order means active;
// removal happens on cancellation or on quantity reaching zero.
type OrderRepository interface {
	// CreateOrderWithOutbox inserts the order and its creation event in one
	// write boundary. A colliding order id or an existing active order for
	// the same (registry, item, seller) key is rejected.
	CreateOrderWithOutbox(ctx context.Context, order entities.Order, envelope events.Envelope) error
	GetOrder(ctx context.Context, orderID common.Hash) (entities.Order, error)
	ListOrders(ctx context.Context, filter OrderListFilter) ([]entities.Order, string, error)
	// RemoveOrderWithOutbox deletes the order and records its cancellation
	// event in one write boundary.
	RemoveOrderWithOutbox(ctx context.Context, orderID common.Hash, envelope events.Envelope) error
	// DiscardOrder compensates a creation whose publication fee transfer was
	// rejected: it deletes the order AND the still-pending creation event named
	// by outboxID, so the failed operation leaves nothing behind.
	DiscardOrder(ctx context.Context, orderID common.Hash, outboxID string) error
	// ReserveOrderQuantity atomically decrements the order (deleting it when
	// quantity reaches zero) and returns a restore snapshot. The ledger
	// mutation it performs MUST precede any external transfer so a re-entrant
	// fill of the same order observes the decremented state.
	ReserveOrderQuantity(ctx context.Context, orderID common.Hash, quantity uint64, now time.Time) (OrderReservation, error)
	// RestoreOrder undoes a reservation after a failed settlement.
	RestoreOrder(ctx context.Context, reservation OrderReservation) error
	// CommitFill records the fill event for a completed settlement. A failure
	// here happens AFTER payment and asset transfers are final: the fill
	// stands and only its event is lost, so callers must not report the
	// order as unfilled.
	CommitFill(ctx context.Context, reservation OrderReservation, envelope events.Envelope) error
}

// FeeConfigRepository holds the process-wide fee configuration singleton.
type FeeConfigRepository interface {
	GetFeeConfig(ctx context.Context) (entities.FeeConfig, error)
	UpdateFeeConfigWithOutbox(ctx context.Context, config entities.FeeConfig, envelope events.Envelope) error
}

// PaymentToken is the external balance/allowance ledger used to settle
// prices and fees. The engine never escrows funds; it only instructs
// transfers it was pre-authorized to make.
type PaymentToken interface {
	BalanceOf(ctx context.Context, account common.Address) (*big.Int, error)
	Allowance(ctx context.Context, owner common.Address, spender common.Address) (*big.Int, error)
	TransferFrom(ctx context.Context, from common.Address, to common.Address, amount *big.Int) error
}

// RegistryDirectory resolves a registry identity to its deployed handle.
// The second return is false when no code exists at the address.
type RegistryDirectory interface {
	Resolve(ctx context.Context, address common.Address) (assetadapter.Registry, bool, error)
}

// RoyaltyLookup resolves the royalty receiver for an item. Failures and zero
// receivers are absorbed by the fee distributor's redirect-to-collector
// policy, never surfaced to the buyer.
type RoyaltyLookup interface {
	ReceiverOf(ctx context.Context, registry common.Address, itemID *big.Int) (common.Address, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type EventEnvelope = events.Envelope

type OutboxMessage = outbox.Message

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event events.Envelope) error
}
