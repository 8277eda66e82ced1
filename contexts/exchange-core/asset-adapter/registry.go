package assetadapter

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Registry is the minimal surface every deployed item registry exposes.
// Concrete registries additionally implement ExclusiveRegistry or
// BalanceRegistry; Classify decides which.
type Registry interface {
	Address() common.Address
}

// ExclusiveRegistry is the single-owner ownership model: every item has
// exactly one recorded owner and an implicit quantity of one.
type ExclusiveRegistry interface {
	Registry
	OwnerOf(ctx context.Context, itemID *big.Int) (common.Address, error)
	GetApproved(ctx context.Context, itemID *big.Int) (common.Address, error)
	IsApprovedForAll(ctx context.Context, owner common.Address, operator common.Address) (bool, error)
	TransferFrom(ctx context.Context, from common.Address, to common.Address, itemID *big.Int) error
}

// BalanceRegistry is the balance-based ownership model: multiple accounts
// hold independent quantities of the same item.
type BalanceRegistry interface {
	Registry
	BalanceOf(ctx context.Context, account common.Address, itemID *big.Int) (uint64, error)
	IsApprovedForAll(ctx context.Context, owner common.Address, operator common.Address) (bool, error)
	SafeTransferFrom(ctx context.Context, from common.Address, to common.Address, itemID *big.Int, quantity uint64) error
}

// FingerprintVerifier is an optional registry capability. Registries whose
// item state can drift between listing and fill (composable items) implement
// it so fills can demand proof that the listed state is still current.
type FingerprintVerifier interface {
	VerifyFingerprint(ctx context.Context, itemID *big.Int, fingerprint common.Hash) (bool, error)
}
