package memory

import (
	"context"
	"encoding/json"
	"sync"

	authorizationforwarder "bazaar/contexts/collection-governance/authorization-forwarder"
	"bazaar/contexts/collection-governance/collection-manager/domain/entities"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// World is the in-memory contract universe the governance tests run against.
// An address with no entry behaves like an identity with no code.
type World struct {
	mu        sync.RWMutex
	contracts map[common.Address]authorizationforwarder.Contract
}

func NewWorld() *World {
	return &World{contracts: make(map[common.Address]authorizationforwarder.Contract)}
}

func (w *World) Deploy(contract authorizationforwarder.Contract) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.contracts[contract.Address()] = contract
}

func (w *World) Resolve(_ context.Context, address common.Address) (authorizationforwarder.Contract, bool, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	contract, ok := w.contracts[address]
	return contract, ok, nil
}

// Factory deploys collection doubles when it receives a createCollection
// payload. Deployed collections are registered back into the world so later
// manage calls can probe them.
type Factory struct {
	mu      sync.Mutex
	address common.Address
	world   *World
	created []common.Address

	// Fail makes every relayed call report failure without error.
	Fail bool
}

func NewFactory(address common.Address, world *World) *Factory {
	return &Factory{address: address, world: world}
}

func (f *Factory) Address() common.Address {
	return f.address
}

func (f *Factory) Created() []common.Address {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]common.Address(nil), f.created...)
}

func (f *Factory) Call(_ context.Context, callData []byte) (bool, []byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Fail {
		return false, nil, nil
	}
	selector, ok := entities.SelectorFromCallData(callData)
	if !ok || selector != entities.CreateCollectionSelector {
		return false, nil, nil
	}
	var init entities.CollectionInit
	if err := json.Unmarshal(callData[4:], &init); err != nil {
		return false, nil, nil
	}

	// Deterministic deployment address derived from factory and salt.
	address := common.BytesToAddress(crypto.Keccak256(f.address.Bytes(), init.Salt.Bytes())[12:])
	collection := NewCollection(address, init)
	f.world.Deploy(collection)
	f.created = append(f.created, address)
	return true, address.Bytes(), nil
}

// Collection is a governed registry double. It answers the identity tag and
// records every administrative payload relayed to it.
type Collection struct {
	mu      sync.Mutex
	address common.Address
	init    entities.CollectionInit
	calls   [][]byte

	// Tag answers the identity probe. Overwrite it to imitate a contract
	// that is not a genuine collection.
	Tag common.Hash
	// Fail makes relayed administrative calls report failure.
	Fail bool
}

func NewCollection(address common.Address, init entities.CollectionInit) *Collection {
	return &Collection{
		address: address,
		init:    init,
		Tag:     entities.CollectionIdentityTag,
	}
}

func (c *Collection) Address() common.Address {
	return c.address
}

func (c *Collection) IdentityTag(_ context.Context) (common.Hash, error) {
	return c.Tag, nil
}

func (c *Collection) Init() entities.CollectionInit {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.init
}

func (c *Collection) Calls() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte(nil), c.calls...)
}

func (c *Collection) Call(_ context.Context, callData []byte) (bool, []byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Fail {
		return false, nil, nil
	}
	c.calls = append(c.calls, append([]byte(nil), callData...))
	return true, nil, nil
}
