package commands

import (
	"context"
	"log/slog"
	"time"

	application "bazaar/contexts/collection-governance/collection-manager/application"
	"bazaar/contexts/collection-governance/collection-manager/domain/entities"
	domainerrors "bazaar/contexts/collection-governance/collection-manager/domain/errors"
	"bazaar/contexts/collection-governance/collection-manager/ports"

	"github.com/ethereum/go-ethereum/common"
)

const operationAllowedEventType = "collection.operation_allowed"

type SetAllowedOperationCommand struct {
	Caller   common.Address
	Selector entities.Selector
	Allowed  bool
}

type SetAllowedOperationUseCase struct {
	Repo        ports.AllowlistRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Owner       common.Address
	Logger      *slog.Logger
}

// Execute mutates the committee allow-list of relayable method selectors.
func (u SetAllowedOperationUseCase) Execute(ctx context.Context, cmd SetAllowedOperationCommand) (entities.AllowedOperation, error) {
	logger := application.ResolveLogger(u.Logger)

	if cmd.Caller != u.Owner {
		return entities.AllowedOperation{}, domainerrors.ErrUnauthorized
	}

	now := u.now()
	operation := entities.AllowedOperation{
		Selector:  cmd.Selector,
		Allowed:   cmd.Allowed,
		UpdatedAt: now,
	}

	eventID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.AllowedOperation{}, err
	}
	envelope, err := buildEnvelope(eventID, operationAllowedEventType, now, cmd.Selector.Hex(), map[string]any{
		"selector": cmd.Selector.Hex(),
		"allowed":  cmd.Allowed,
	})
	if err != nil {
		return entities.AllowedOperation{}, err
	}
	if err := u.Repo.SetAllowedOperationWithOutbox(ctx, operation, envelope); err != nil {
		return entities.AllowedOperation{}, err
	}

	logger.Info("operation allow-list updated",
		"event", "operation_allowlist_updated",
		"module", "collection-governance/collection-manager",
		"layer", "application",
		"selector", cmd.Selector.Hex(),
		"allowed", cmd.Allowed,
	)
	return operation, nil
}

func (u SetAllowedOperationUseCase) now() time.Time {
	if u.Clock == nil {
		return time.Now().UTC()
	}
	return u.Clock.Now().UTC()
}
