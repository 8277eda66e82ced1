package entities

import (
	"encoding/binary"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// AssetKind mirrors the ownership model the asset adapter detected at
// listing time. It is denormalized onto the order so fills do not depend on
// re-classification agreeing with the original probe.
type AssetKind string

const (
	AssetKindExclusive AssetKind = "exclusive"
	AssetKindBalance   AssetKind = "balance"
)

// Order is a seller's standing offer: a quantity of one item at a fixed
// per-unit price until an expiry. Presence in the ledger is the sole source
// of truth for "active"; there is no status flag.
type Order struct {
	ID            common.Hash
	Seller        common.Address
	AssetContract common.Address
	AssetID       *big.Int
	PricePerUnit  *big.Int
	ExpiresAt     time.Time
	Quantity      uint64
	Kind          AssetKind
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ComputeOrderID derives the deterministic order id from creation-time
// inputs. Identical inputs collide by design so replayed creations are
// rejected instead of silently duplicated.
func ComputeOrderID(
	seller common.Address,
	createdAt time.Time,
	assetContract common.Address,
	assetID *big.Int,
	pricePerUnit *big.Int,
	quantity uint64,
) common.Hash {
	var createdAtBytes [8]byte
	binary.BigEndian.PutUint64(createdAtBytes[:], uint64(createdAt.UTC().Unix()))
	var quantityBytes [8]byte
	binary.BigEndian.PutUint64(quantityBytes[:], quantity)

	return crypto.Keccak256Hash(
		seller.Bytes(),
		createdAtBytes[:],
		assetContract.Bytes(),
		common.BigToHash(assetID).Bytes(),
		common.BigToHash(pricePerUnit).Bytes(),
		quantityBytes[:],
	)
}

func (o Order) IsExpired(now time.Time) bool {
	return now.UTC().After(o.ExpiresAt.UTC())
}

// TotalPrice is price per unit times the filled quantity.
func (o Order) TotalPrice(quantity uint64) *big.Int {
	return new(big.Int).Mul(o.PricePerUnit, new(big.Int).SetUint64(quantity))
}
