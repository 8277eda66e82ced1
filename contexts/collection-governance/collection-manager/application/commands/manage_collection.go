package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	application "bazaar/contexts/collection-governance/collection-manager/application"
	"bazaar/contexts/collection-governance/collection-manager/domain/entities"
	domainerrors "bazaar/contexts/collection-governance/collection-manager/domain/errors"
	"bazaar/contexts/collection-governance/collection-manager/ports"

	"github.com/ethereum/go-ethereum/common"
)

const collectionManagedEventType = "collection.managed"

type ManageCollectionCommand struct {
	Caller     common.Address
	Forwarder  common.Address
	Collection common.Address
	CallData   []byte
}

type ManageCollectionResult struct {
	ReturnData []byte
}

type ManageCollectionUseCase struct {
	Contracts      ports.ContractDirectory
	Repo           ports.AllowlistRepository
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	Owner          common.Address
	ManagerAddress common.Address
	// EnableCommitteeAllowlist gates relayed selectors on the explicit
	// allow-list. The later governance variant leaves it off and relies on
	// the identity-tag probe plus owner gating alone.
	EnableCommitteeAllowlist bool
	Logger                   *slog.Logger
}

// Execute relays administrative call data to a collection. The relay itself
// is blind, so the read-only identity-tag probe performed here is the only
// defense against administering a non-collection contract. The probe must
// pass BEFORE the forwarder is invoked.
func (u ManageCollectionUseCase) Execute(ctx context.Context, cmd ManageCollectionCommand) (ManageCollectionResult, error) {
	logger := application.ResolveLogger(u.Logger)

	if cmd.Caller != u.Owner {
		return ManageCollectionResult{}, domainerrors.ErrUnauthorized
	}
	if cmd.Forwarder == u.ManagerAddress {
		return ManageCollectionResult{}, domainerrors.ErrSelfForward
	}
	selector, ok := entities.SelectorFromCallData(cmd.CallData)
	if !ok {
		return ManageCollectionResult{}, domainerrors.ErrInvalidInput
	}

	if err := u.probeIdentityTag(ctx, cmd.Collection); err != nil {
		return ManageCollectionResult{}, err
	}

	if u.EnableCommitteeAllowlist {
		allowed, err := u.Repo.IsOperationAllowed(ctx, selector)
		if err != nil {
			return ManageCollectionResult{}, err
		}
		if !allowed {
			return ManageCollectionResult{}, domainerrors.ErrOperationNotAllowed
		}
	}

	relay, err := u.resolveForwarder(ctx, cmd.Forwarder)
	if err != nil {
		return ManageCollectionResult{}, err
	}
	success, ret, err := relay.ForwardCall(ctx, u.ManagerAddress, cmd.Collection, cmd.CallData)
	if err != nil {
		return ManageCollectionResult{}, fmt.Errorf("collection relay: %w", err)
	}
	if !success {
		return ManageCollectionResult{}, domainerrors.ErrForwardFailed
	}

	now := u.now()
	eventID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return ManageCollectionResult{}, err
	}
	envelope, err := buildEnvelope(eventID, collectionManagedEventType, now, cmd.Collection.Hex(), map[string]any{
		"collection": cmd.Collection.Hex(),
		"selector":   selector.Hex(),
	})
	if err != nil {
		return ManageCollectionResult{}, err
	}
	if err := u.Repo.AppendOutbox(ctx, envelope); err != nil {
		return ManageCollectionResult{}, err
	}

	logger.Info("collection managed",
		"event", "collection_managed",
		"module", "collection-governance/collection-manager",
		"layer", "application",
		"collection", cmd.Collection.Hex(),
		"selector", selector.Hex(),
	)
	return ManageCollectionResult{ReturnData: ret}, nil
}

// probeIdentityTag confirms the target answers the fixed collection identity
// tag. Anything else, including a missing contract or a failing query, means
// the target is not a collection.
func (u ManageCollectionUseCase) probeIdentityTag(ctx context.Context, collection common.Address) error {
	contract, deployed, err := u.Contracts.Resolve(ctx, collection)
	if err != nil {
		return fmt.Errorf("collection resolve: %w", err)
	}
	if !deployed {
		return domainerrors.ErrInvalidCollection
	}
	reader, ok := contract.(ports.TagReader)
	if !ok {
		return domainerrors.ErrInvalidCollection
	}
	tag, err := reader.IdentityTag(ctx)
	if err != nil || tag != entities.CollectionIdentityTag {
		return domainerrors.ErrInvalidCollection
	}
	return nil
}

func (u ManageCollectionUseCase) resolveForwarder(ctx context.Context, address common.Address) (ports.Forwarder, error) {
	contract, deployed, err := u.Contracts.Resolve(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("forwarder resolve: %w", err)
	}
	if !deployed {
		return nil, domainerrors.ErrInvalidInput
	}
	relay, ok := contract.(ports.Forwarder)
	if !ok {
		return nil, domainerrors.ErrInvalidInput
	}
	return relay, nil
}

func (u ManageCollectionUseCase) now() time.Time {
	if u.Clock == nil {
		return time.Now().UTC()
	}
	return u.Clock.Now().UTC()
}
