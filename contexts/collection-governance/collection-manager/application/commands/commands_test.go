package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	authorizationforwarder "bazaar/contexts/collection-governance/authorization-forwarder"
	"bazaar/contexts/collection-governance/collection-manager/adapters/memory"
	"bazaar/contexts/collection-governance/collection-manager/application/commands"
	"bazaar/contexts/collection-governance/collection-manager/domain/entities"
	domainerrors "bazaar/contexts/collection-governance/collection-manager/domain/errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	governanceOwner  = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	strangerAddress  = common.HexToAddress("0x0000000000000000000000000000000000000666")
	managerAddress   = common.HexToAddress("0x00000000000000000000000000000000000000b1")
	forwarderAddress = common.HexToAddress("0x00000000000000000000000000000000000000f1")
	factoryAddress   = common.HexToAddress("0x0000000000000000000000000000000000000301")
)

type governanceWorld struct {
	store     *memory.Store
	world     *memory.World
	factory   *memory.Factory
	forwarder *authorizationforwarder.Forwarder
}

func newGovernanceWorld() *governanceWorld {
	world := memory.NewWorld()
	factory := memory.NewFactory(factoryAddress, world)
	forwarder := authorizationforwarder.New(forwarderAddress, managerAddress, world, nil)
	world.Deploy(factory)
	world.Deploy(forwarder)
	return &governanceWorld{
		store:     memory.NewStore(nil),
		world:     world,
		factory:   factory,
		forwarder: forwarder,
	}
}

func (w *governanceWorld) createCollectionUseCase() commands.CreateCollectionUseCase {
	return commands.CreateCollectionUseCase{
		Contracts:      w.world,
		Repo:           w.store,
		Clock:          w.store,
		IDGenerator:    w.store,
		Owner:          governanceOwner,
		ManagerAddress: managerAddress,
	}
}

func (w *governanceWorld) manageCollectionUseCase(committee bool) commands.ManageCollectionUseCase {
	return commands.ManageCollectionUseCase{
		Contracts:                w.world,
		Repo:                     w.store,
		Clock:                    w.store,
		IDGenerator:              w.store,
		Owner:                    governanceOwner,
		ManagerAddress:           managerAddress,
		EnableCommitteeAllowlist: committee,
	}
}

func (w *governanceWorld) setAllowedOperationUseCase() commands.SetAllowedOperationUseCase {
	return commands.SetAllowedOperationUseCase{
		Repo:        w.store,
		Clock:       w.store,
		IDGenerator: w.store,
		Owner:       governanceOwner,
	}
}

func (w *governanceWorld) deployCollection(t *testing.T) *memory.Collection {
	t.Helper()
	result, err := w.createCollectionUseCase().Execute(context.Background(), commands.CreateCollectionCommand{
		Caller:    governanceOwner,
		Forwarder: forwarderAddress,
		Factory:   factoryAddress,
		Salt:      crypto.Keccak256Hash([]byte("salt-1")),
		Name:      "Wearables Season One",
		Symbol:    "WRBL1",
		BaseURI:   "https://assets.example/wearables/",
	})
	if err != nil {
		t.Fatalf("deploy should succeed: %v", err)
	}
	contract, ok, err := w.world.Resolve(context.Background(), result.Deployed)
	if err != nil || !ok {
		t.Fatalf("deployed collection should resolve: ok=%v err=%v", ok, err)
	}
	collection, ok := contract.(*memory.Collection)
	if !ok {
		t.Fatalf("expected a collection at %s", result.Deployed)
	}
	return collection
}

func TestCreateCollectionDeploysThroughFactory(t *testing.T) {
	world := newGovernanceWorld()
	collection := world.deployCollection(t)

	if collection.Init().Name != "Wearables Season One" {
		t.Fatalf("init payload lost: %+v", collection.Init())
	}
	tag, _ := collection.IdentityTag(context.Background())
	if tag != entities.CollectionIdentityTag {
		t.Fatalf("deployed collection must answer the identity tag")
	}

	events := world.store.OutboxEvents()
	if len(events) != 1 || events[0].EventType != "collection.created" {
		t.Fatalf("expected one collection.created event, got %+v", events)
	}
}

func TestCreateCollectionRejectsSelfForward(t *testing.T) {
	world := newGovernanceWorld()

	_, err := world.createCollectionUseCase().Execute(context.Background(), commands.CreateCollectionCommand{
		Caller:    governanceOwner,
		Forwarder: managerAddress,
		Factory:   factoryAddress,
		Salt:      crypto.Keccak256Hash([]byte("salt-1")),
		Name:      "Loop",
		Symbol:    "LOOP",
	})
	if !errors.Is(err, domainerrors.ErrSelfForward) {
		t.Fatalf("expected self-forward rejection, got %v", err)
	}
}

func TestCreateCollectionRejectsNonOwner(t *testing.T) {
	world := newGovernanceWorld()

	_, err := world.createCollectionUseCase().Execute(context.Background(), commands.CreateCollectionCommand{
		Caller:    strangerAddress,
		Forwarder: forwarderAddress,
		Factory:   factoryAddress,
		Salt:      crypto.Keccak256Hash([]byte("salt-1")),
		Name:      "Nope",
		Symbol:    "NOPE",
	})
	if !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestCreateCollectionReportsFactoryFailure(t *testing.T) {
	world := newGovernanceWorld()
	world.factory.Fail = true

	_, err := world.createCollectionUseCase().Execute(context.Background(), commands.CreateCollectionCommand{
		Caller:    governanceOwner,
		Forwarder: forwarderAddress,
		Factory:   factoryAddress,
		Salt:      crypto.Keccak256Hash([]byte("salt-1")),
		Name:      "Broken",
		Symbol:    "BRK",
	})
	if !errors.Is(err, domainerrors.ErrForwardFailed) {
		t.Fatalf("expected forward failure, got %v", err)
	}
}

func TestManageCollectionRelaysAdministrativeCall(t *testing.T) {
	world := newGovernanceWorld()
	collection := world.deployCollection(t)

	selector := entities.SelectorOf("setEditable(bool)")
	callData := append(selector[:], 0x01)
	if _, err := world.manageCollectionUseCase(false).Execute(context.Background(), commands.ManageCollectionCommand{
		Caller:     governanceOwner,
		Forwarder:  forwarderAddress,
		Collection: collection.Address(),
		CallData:   callData,
	}); err != nil {
		t.Fatalf("manage should succeed: %v", err)
	}

	calls := collection.Calls()
	if len(calls) != 1 || !bytes.Equal(calls[0], callData) {
		t.Fatalf("collection saw %x", calls)
	}

	events := world.store.OutboxEvents()
	if events[len(events)-1].EventType != "collection.managed" {
		t.Fatalf("expected collection.managed, got %s", events[len(events)-1].EventType)
	}
}

func TestManageCollectionRejectsNonCollectionTarget(t *testing.T) {
	world := newGovernanceWorld()
	collection := world.deployCollection(t)
	collection.Tag = crypto.Keccak256Hash([]byte("impostor"))

	selector := entities.SelectorOf("setEditable(bool)")
	_, err := world.manageCollectionUseCase(false).Execute(context.Background(), commands.ManageCollectionCommand{
		Caller:     governanceOwner,
		Forwarder:  forwarderAddress,
		Collection: collection.Address(),
		CallData:   append(selector[:], 0x01),
	})
	if !errors.Is(err, domainerrors.ErrInvalidCollection) {
		t.Fatalf("expected invalid collection, got %v", err)
	}
	// Probe failed, so the forwarder was never invoked against the target.
	if len(collection.Calls()) != 0 {
		t.Fatalf("target must not be reached: %x", collection.Calls())
	}
}

func TestManageCollectionRejectsUnknownTarget(t *testing.T) {
	world := newGovernanceWorld()

	selector := entities.SelectorOf("setEditable(bool)")
	_, err := world.manageCollectionUseCase(false).Execute(context.Background(), commands.ManageCollectionCommand{
		Caller:     governanceOwner,
		Forwarder:  forwarderAddress,
		Collection: common.HexToAddress("0x0000000000000000000000000000000000000999"),
		CallData:   append(selector[:], 0x01),
	})
	if !errors.Is(err, domainerrors.ErrInvalidCollection) {
		t.Fatalf("expected invalid collection, got %v", err)
	}
}

func TestManageCollectionCommitteeAllowlist(t *testing.T) {
	world := newGovernanceWorld()
	collection := world.deployCollection(t)

	selector := entities.SelectorOf("setEditable(bool)")
	callData := append(selector[:], 0x01)
	useCase := world.manageCollectionUseCase(true)

	_, err := useCase.Execute(context.Background(), commands.ManageCollectionCommand{
		Caller:     governanceOwner,
		Forwarder:  forwarderAddress,
		Collection: collection.Address(),
		CallData:   callData,
	})
	if !errors.Is(err, domainerrors.ErrOperationNotAllowed) {
		t.Fatalf("expected operation not allowed, got %v", err)
	}

	if _, err := world.setAllowedOperationUseCase().Execute(context.Background(), commands.SetAllowedOperationCommand{
		Caller:   governanceOwner,
		Selector: selector,
		Allowed:  true,
	}); err != nil {
		t.Fatalf("allow-list update should succeed: %v", err)
	}

	if _, err := useCase.Execute(context.Background(), commands.ManageCollectionCommand{
		Caller:     governanceOwner,
		Forwarder:  forwarderAddress,
		Collection: collection.Address(),
		CallData:   callData,
	}); err != nil {
		t.Fatalf("allowed selector should relay: %v", err)
	}
}

func TestSetAllowedOperationOwnerOnly(t *testing.T) {
	world := newGovernanceWorld()

	_, err := world.setAllowedOperationUseCase().Execute(context.Background(), commands.SetAllowedOperationCommand{
		Caller:   strangerAddress,
		Selector: entities.SelectorOf("setEditable(bool)"),
		Allowed:  true,
	})
	if !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
