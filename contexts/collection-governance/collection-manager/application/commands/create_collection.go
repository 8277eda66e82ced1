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

const collectionCreatedEventType = "collection.created"

type CreateCollectionCommand struct {
	Caller    common.Address
	Forwarder common.Address
	Factory   common.Address
	Salt      common.Hash
	Name      string
	Symbol    string
	BaseURI   string
}

type CreateCollectionResult struct {
	// Deployed is the new registry identity reported back by the factory,
	// zero when the factory returned nothing parseable.
	Deployed common.Address
}

type CreateCollectionUseCase struct {
	Contracts      ports.ContractDirectory
	Repo           ports.AllowlistRepository
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	Owner          common.Address
	ManagerAddress common.Address
	Logger         *slog.Logger
}

// Execute builds the initialization payload for a new collection registry and
// relays it to the factory through the forwarder. The payload stays a
// structured command inside the manager; it becomes opaque call data only at
// the forwarder boundary.
func (u CreateCollectionUseCase) Execute(ctx context.Context, cmd CreateCollectionCommand) (CreateCollectionResult, error) {
	logger := application.ResolveLogger(u.Logger)

	if cmd.Caller != u.Owner {
		return CreateCollectionResult{}, domainerrors.ErrUnauthorized
	}
	// A relay pointed back at the manager would loop forever.
	if cmd.Forwarder == u.ManagerAddress {
		return CreateCollectionResult{}, domainerrors.ErrSelfForward
	}

	init := entities.CollectionInit{
		Salt:    cmd.Salt,
		Name:    cmd.Name,
		Symbol:  cmd.Symbol,
		BaseURI: cmd.BaseURI,
		Creator: u.ManagerAddress.Hex(),
	}
	if err := init.Validate(); err != nil {
		return CreateCollectionResult{}, err
	}

	relay, err := u.resolveForwarder(ctx, cmd.Forwarder)
	if err != nil {
		return CreateCollectionResult{}, err
	}
	callData, err := init.EncodeCallData()
	if err != nil {
		return CreateCollectionResult{}, err
	}

	success, ret, err := relay.ForwardCall(ctx, u.ManagerAddress, cmd.Factory, callData)
	if err != nil {
		return CreateCollectionResult{}, fmt.Errorf("factory relay: %w", err)
	}
	if !success {
		return CreateCollectionResult{}, domainerrors.ErrForwardFailed
	}

	result := CreateCollectionResult{}
	if len(ret) == common.AddressLength {
		result.Deployed = common.BytesToAddress(ret)
	}

	now := u.now()
	eventID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return CreateCollectionResult{}, err
	}
	envelope, err := buildEnvelope(eventID, collectionCreatedEventType, now, cmd.Factory.Hex(), map[string]any{
		"factory":  cmd.Factory.Hex(),
		"deployed": result.Deployed.Hex(),
		"salt":     cmd.Salt.Hex(),
		"name":     cmd.Name,
		"symbol":   cmd.Symbol,
		"base_uri": cmd.BaseURI,
	})
	if err != nil {
		return CreateCollectionResult{}, err
	}
	if err := u.Repo.AppendOutbox(ctx, envelope); err != nil {
		return CreateCollectionResult{}, err
	}

	logger.Info("collection created",
		"event", "collection_created",
		"module", "collection-governance/collection-manager",
		"layer", "application",
		"factory", cmd.Factory.Hex(),
		"deployed", result.Deployed.Hex(),
		"name", cmd.Name,
		"symbol", cmd.Symbol,
	)
	return result, nil
}

func (u CreateCollectionUseCase) now() time.Time {
	if u.Clock == nil {
		return time.Now().UTC()
	}
	return u.Clock.Now().UTC()
}

func (u CreateCollectionUseCase) resolveForwarder(ctx context.Context, address common.Address) (ports.Forwarder, error) {
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
