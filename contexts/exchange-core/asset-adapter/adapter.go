package assetadapter

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Kind labels the ownership model a registry implements.
type Kind string

const (
	KindExclusive Kind = "exclusive"
	KindBalance   Kind = "balance"
)

var (
	ErrUnsupportedAsset  = errors.New("registry implements neither ownership model")
	ErrTransferRejected  = errors.New("registry rejected the transfer")
	ErrExclusiveQuantity = errors.New("exclusive assets transfer exactly one unit")
)

// Asset is the uniform view over one classified registry.
type Asset struct {
	kind        Kind
	exclusive   ExclusiveRegistry
	balance     BalanceRegistry
	fingerprint FingerprintVerifier
	address     common.Address
}

// Classify probes the registry's declared capabilities and wraps it in the
// model-appropriate Asset. A registry implementing both models is treated as
// exclusive-ownership; one implementing neither is unsupported.
func Classify(registry Registry) (Asset, error) {
	if registry == nil {
		return Asset{}, ErrUnsupportedAsset
	}
	asset := Asset{address: registry.Address()}
	if verifier, ok := registry.(FingerprintVerifier); ok {
		asset.fingerprint = verifier
	}
	if exclusive, ok := registry.(ExclusiveRegistry); ok {
		asset.kind = KindExclusive
		asset.exclusive = exclusive
		return asset, nil
	}
	if balance, ok := registry.(BalanceRegistry); ok {
		asset.kind = KindBalance
		asset.balance = balance
		return asset, nil
	}
	return Asset{}, ErrUnsupportedAsset
}

func (a Asset) Kind() Kind {
	return a.kind
}

func (a Asset) Address() common.Address {
	return a.address
}

// Fingerprint returns the optional state-verification capability.
func (a Asset) Fingerprint() (FingerprintVerifier, bool) {
	return a.fingerprint, a.fingerprint != nil
}

// HeldQuantity reports how many units of the item the account currently
// controls: one or zero for exclusive assets, the recorded balance otherwise.
func (a Asset) HeldQuantity(ctx context.Context, account common.Address, itemID *big.Int) (uint64, error) {
	switch a.kind {
	case KindExclusive:
		owner, err := a.exclusive.OwnerOf(ctx, itemID)
		if err != nil {
			return 0, fmt.Errorf("owner lookup: %w", err)
		}
		if owner == account {
			return 1, nil
		}
		return 0, nil
	case KindBalance:
		balance, err := a.balance.BalanceOf(ctx, account, itemID)
		if err != nil {
			return 0, fmt.Errorf("balance lookup: %w", err)
		}
		return balance, nil
	default:
		return 0, ErrUnsupportedAsset
	}
}

// IsTransferApproved reports whether the operator may move the owner's items:
// blanket approval for either model, or per-item approval for exclusive
// assets.
func (a Asset) IsTransferApproved(ctx context.Context, owner common.Address, operator common.Address, itemID *big.Int) (bool, error) {
	switch a.kind {
	case KindExclusive:
		approved, err := a.exclusive.IsApprovedForAll(ctx, owner, operator)
		if err != nil {
			return false, fmt.Errorf("approval lookup: %w", err)
		}
		if approved {
			return true, nil
		}
		perItem, err := a.exclusive.GetApproved(ctx, itemID)
		if err != nil {
			return false, fmt.Errorf("per-item approval lookup: %w", err)
		}
		return perItem == operator, nil
	case KindBalance:
		approved, err := a.balance.IsApprovedForAll(ctx, owner, operator)
		if err != nil {
			return false, fmt.Errorf("approval lookup: %w", err)
		}
		return approved, nil
	default:
		return false, ErrUnsupportedAsset
	}
}

// Transfer performs the model-appropriate transfer of quantity units.
func (a Asset) Transfer(ctx context.Context, from common.Address, to common.Address, itemID *big.Int, quantity uint64) error {
	switch a.kind {
	case KindExclusive:
		if quantity != 1 {
			return ErrExclusiveQuantity
		}
		if err := a.exclusive.TransferFrom(ctx, from, to, itemID); err != nil {
			return fmt.Errorf("%w: %s", ErrTransferRejected, err)
		}
		return nil
	case KindBalance:
		if err := a.balance.SafeTransferFrom(ctx, from, to, itemID, quantity); err != nil {
			return fmt.Errorf("%w: %s", ErrTransferRejected, err)
		}
		return nil
	default:
		return ErrUnsupportedAsset
	}
}
