package ports

import (
	"context"
	"time"

	authorizationforwarder "bazaar/contexts/collection-governance/authorization-forwarder"
	"bazaar/contexts/collection-governance/collection-manager/domain/entities"
	"bazaar/internal/shared/events"
	"bazaar/internal/shared/outbox"

	"github.com/ethereum/go-ethereum/common"
)

// Forwarder is the blind relay the manager routes every mutation through.
type Forwarder interface {
	ForwardCall(ctx context.Context, caller common.Address, target common.Address, callData []byte) (bool, []byte, error)
}

// ContractDirectory resolves a contract identity to its deployed handle.
type ContractDirectory = authorizationforwarder.Directory

// TagReader is the optional capability a genuine collection exposes. It is
// discovered by type assertion on the resolved contract; absence means the
// target is not a collection.
type TagReader interface {
	IdentityTag(ctx context.Context) (common.Hash, error)
}

// AllowlistRepository holds the committee allow-list of permitted method
// selectors together with the event outbox.
type AllowlistRepository interface {
	SetAllowedOperationWithOutbox(ctx context.Context, operation entities.AllowedOperation, envelope events.Envelope) error
	IsOperationAllowed(ctx context.Context, selector entities.Selector) (bool, error)
	ListAllowedOperations(ctx context.Context) ([]entities.AllowedOperation, error)
	AppendOutbox(ctx context.Context, envelope events.Envelope) error
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
