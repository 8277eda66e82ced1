package entities

import (
	"math/big"

	domainerrors "bazaar/contexts/exchange-core/settlement-engine/domain/errors"

	"github.com/ethereum/go-ethereum/common"
)

// CutBase is the denominator of all cut rates: rates are parts per million.
const CutBase uint64 = 1_000_000

// FeeConfig is the deployment-wide fee state. Mutated only through validated
// owner-gated setters; the sum invariant is re-checked on every change.
type FeeConfig struct {
	FeesCollector              common.Address
	FeesCollectorCutPerMillion uint64
	RoyaltiesCutPerMillion     uint64
	PublicationFeeInWei        *big.Int
}

// Validate enforces that the combined cut rates stay strictly below 100%.
// Each rate is bounded alone first so the sum cannot wrap uint64.
func (c FeeConfig) Validate() error {
	if c.FeesCollectorCutPerMillion >= CutBase || c.RoyaltiesCutPerMillion >= CutBase {
		return domainerrors.ErrInvalidFeeConfig
	}
	if c.FeesCollectorCutPerMillion+c.RoyaltiesCutPerMillion >= CutBase {
		return domainerrors.ErrInvalidFeeConfig
	}
	return nil
}

// PublicationFee returns the flat listing fee, never nil.
func (c FeeConfig) PublicationFee() *big.Int {
	if c.PublicationFeeInWei == nil {
		return new(big.Int)
	}
	return c.PublicationFeeInWei
}
