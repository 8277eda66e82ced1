package memory

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

var (
	errInsufficientFunds     = errors.New("insufficient token balance")
	errInsufficientAllowance = errors.New("insufficient token allowance")
)

// TransferHook runs inside a token transfer, before balances move. Tests
// install it to simulate a malicious payment token re-entering the engine.
type TransferHook func(ctx context.Context) error

// Token is the in-memory payment ledger double.
type Token struct {
	mu         sync.RWMutex
	balances   map[common.Address]*big.Int
	allowances map[common.Address]map[common.Address]*big.Int

	// Spender is the account allowances are checked against; the settlement
	// engine's own address in every deployment.
	Spender common.Address
	Hook    TransferHook
}

func NewToken(spender common.Address) *Token {
	return &Token{
		balances:   make(map[common.Address]*big.Int),
		allowances: make(map[common.Address]map[common.Address]*big.Int),
		Spender:    spender,
	}
}

func (t *Token) Mint(account common.Address, amount *big.Int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.balances[account] == nil {
		t.balances[account] = new(big.Int)
	}
	t.balances[account].Add(t.balances[account], amount)
}

func (t *Token) Approve(owner common.Address, spender common.Address, amount *big.Int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.allowances[owner] == nil {
		t.allowances[owner] = make(map[common.Address]*big.Int)
	}
	t.allowances[owner][spender] = new(big.Int).Set(amount)
}

func (t *Token) BalanceOf(_ context.Context, account common.Address) (*big.Int, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	balance := t.balances[account]
	if balance == nil {
		return new(big.Int), nil
	}
	return new(big.Int).Set(balance), nil
}

func (t *Token) Allowance(_ context.Context, owner common.Address, spender common.Address) (*big.Int, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	allowance := t.allowances[owner][spender]
	if allowance == nil {
		return new(big.Int), nil
	}
	return new(big.Int).Set(allowance), nil
}

// TransferFrom moves amount from -> to on behalf of the configured spender,
// consuming allowance. The hook, when set, runs before any balance moves so
// a re-entrant call observes pre-transfer token state but post-reservation
// ledger state.
func (t *Token) TransferFrom(ctx context.Context, from common.Address, to common.Address, amount *big.Int) error {
	if t.Hook != nil {
		if err := t.Hook(ctx); err != nil {
			return err
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	balance := t.balances[from]
	if balance == nil || balance.Cmp(amount) < 0 {
		return errInsufficientFunds
	}
	allowance := t.allowances[from][t.Spender]
	if allowance == nil || allowance.Cmp(amount) < 0 {
		return errInsufficientAllowance
	}

	balance.Sub(balance, amount)
	allowance.Sub(allowance, amount)
	if t.balances[to] == nil {
		t.balances[to] = new(big.Int)
	}
	t.balances[to].Add(t.balances[to], amount)
	return nil
}
