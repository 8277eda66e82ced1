package memory

import (
	"context"
	"math/big"
	"sync"

	assetadapter "bazaar/contexts/exchange-core/asset-adapter"

	"github.com/ethereum/go-ethereum/common"
)

// Directory maps registry addresses to deployed handles. An address with no
// entry behaves like an identity with no code behind it.
type Directory struct {
	mu         sync.RWMutex
	registries map[common.Address]assetadapter.Registry
}

func NewDirectory() *Directory {
	return &Directory{registries: make(map[common.Address]assetadapter.Registry)}
}

func (d *Directory) Deploy(registry assetadapter.Registry) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.registries[registry.Address()] = registry
}

func (d *Directory) Resolve(_ context.Context, address common.Address) (assetadapter.Registry, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	registry, ok := d.registries[address]
	return registry, ok, nil
}

// RoyaltyTable is the in-memory royalty-lookup double.
type RoyaltyTable struct {
	mu        sync.RWMutex
	receivers map[string]common.Address

	// Fail forces lookups to error, exercising the redirect-to-collector
	// policy in tests.
	Fail error
}

func NewRoyaltyTable() *RoyaltyTable {
	return &RoyaltyTable{receivers: make(map[string]common.Address)}
}

func (t *RoyaltyTable) SetReceiver(registry common.Address, itemID *big.Int, receiver common.Address) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.receivers[registry.Hex()+"|"+itemID.String()] = receiver
}

func (t *RoyaltyTable) ReceiverOf(_ context.Context, registry common.Address, itemID *big.Int) (common.Address, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.Fail != nil {
		return common.Address{}, t.Fail
	}
	return t.receivers[registry.Hex()+"|"+itemID.String()], nil
}
