package memory

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// TransferHook runs inside a registry transfer, after validation and before
// the ownership mutation commits. Tests install hooks to simulate malicious
// registries that re-enter the settlement engine mid-transfer.
type TransferHook func(ctx context.Context) error

var (
	errUnknownItem      = errors.New("item does not exist")
	errNotItemOwner     = errors.New("from account does not own the item")
	errInsufficientHeld = errors.New("from account holds fewer units than requested")
)

// ItemRegistry is an in-memory exclusive-ownership registry used by tests and
// the local runtime. It is not production persistence.
type ItemRegistry struct {
	mu        sync.RWMutex
	address   common.Address
	owners    map[string]common.Address
	approved  map[string]common.Address
	operators map[common.Address]map[common.Address]bool

	Hook TransferHook
}

func NewItemRegistry(address common.Address) *ItemRegistry {
	return &ItemRegistry{
		address:   address,
		owners:    make(map[string]common.Address),
		approved:  make(map[string]common.Address),
		operators: make(map[common.Address]map[common.Address]bool),
	}
}

func (r *ItemRegistry) Address() common.Address {
	return r.address
}

func (r *ItemRegistry) Mint(itemID *big.Int, owner common.Address) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.owners[itemID.String()] = owner
}

func (r *ItemRegistry) SetApprovalForAll(owner common.Address, operator common.Address, approved bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.operators[owner] == nil {
		r.operators[owner] = make(map[common.Address]bool)
	}
	r.operators[owner][operator] = approved
}

func (r *ItemRegistry) Approve(itemID *big.Int, operator common.Address) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.approved[itemID.String()] = operator
}

func (r *ItemRegistry) OwnerOf(_ context.Context, itemID *big.Int) (common.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	owner, ok := r.owners[itemID.String()]
	if !ok {
		return common.Address{}, errUnknownItem
	}
	return owner, nil
}

func (r *ItemRegistry) GetApproved(_ context.Context, itemID *big.Int) (common.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.approved[itemID.String()], nil
}

func (r *ItemRegistry) IsApprovedForAll(_ context.Context, owner common.Address, operator common.Address) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.operators[owner][operator], nil
}

func (r *ItemRegistry) TransferFrom(ctx context.Context, from common.Address, to common.Address, itemID *big.Int) error {
	r.mu.Lock()
	owner, ok := r.owners[itemID.String()]
	if !ok {
		r.mu.Unlock()
		return errUnknownItem
	}
	if owner != from {
		r.mu.Unlock()
		return errNotItemOwner
	}
	hook := r.Hook
	r.mu.Unlock()

	// The hook runs unlocked so a re-entrant call can reach the engine the
	// same way a receiver callback would on chain.
	if hook != nil {
		if err := hook(ctx); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.owners[itemID.String()] = to
	delete(r.approved, itemID.String())
	return nil
}

// StockRegistry is an in-memory balance-based registry double.
type StockRegistry struct {
	mu        sync.RWMutex
	address   common.Address
	balances  map[string]map[common.Address]uint64
	operators map[common.Address]map[common.Address]bool

	Hook TransferHook
}

func NewStockRegistry(address common.Address) *StockRegistry {
	return &StockRegistry{
		address:   address,
		balances:  make(map[string]map[common.Address]uint64),
		operators: make(map[common.Address]map[common.Address]bool),
	}
}

func (r *StockRegistry) Address() common.Address {
	return r.address
}

func (r *StockRegistry) Mint(itemID *big.Int, account common.Address, quantity uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := itemID.String()
	if r.balances[key] == nil {
		r.balances[key] = make(map[common.Address]uint64)
	}
	r.balances[key][account] += quantity
}

func (r *StockRegistry) SetApprovalForAll(owner common.Address, operator common.Address, approved bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.operators[owner] == nil {
		r.operators[owner] = make(map[common.Address]bool)
	}
	r.operators[owner][operator] = approved
}

func (r *StockRegistry) BalanceOf(_ context.Context, account common.Address, itemID *big.Int) (uint64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.balances[itemID.String()][account], nil
}

func (r *StockRegistry) IsApprovedForAll(_ context.Context, owner common.Address, operator common.Address) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.operators[owner][operator], nil
}

func (r *StockRegistry) SafeTransferFrom(ctx context.Context, from common.Address, to common.Address, itemID *big.Int, quantity uint64) error {
	r.mu.Lock()
	key := itemID.String()
	if r.balances[key][from] < quantity {
		r.mu.Unlock()
		return errInsufficientHeld
	}
	hook := r.Hook
	r.mu.Unlock()

	if hook != nil {
		if err := hook(ctx); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.balances[key][from] < quantity {
		return errInsufficientHeld
	}
	if r.balances[key] == nil {
		r.balances[key] = make(map[common.Address]uint64)
	}
	r.balances[key][from] -= quantity
	r.balances[key][to] += quantity
	return nil
}

// ComposableRegistry is an exclusive-ownership registry whose item state can
// drift after listing, so it additionally exposes fingerprint verification.
type ComposableRegistry struct {
	*ItemRegistry

	mu           sync.RWMutex
	fingerprints map[string]common.Hash
}

func NewComposableRegistry(address common.Address) *ComposableRegistry {
	return &ComposableRegistry{
		ItemRegistry: NewItemRegistry(address),
		fingerprints: make(map[string]common.Hash),
	}
}

// SetFingerprint records the current composed state of the item.
func (r *ComposableRegistry) SetFingerprint(itemID *big.Int, fingerprint common.Hash) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fingerprints[itemID.String()] = fingerprint
}

func (r *ComposableRegistry) VerifyFingerprint(_ context.Context, itemID *big.Int, fingerprint common.Hash) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fingerprints[itemID.String()] == fingerprint, nil
}
