package services

import (
	"math/big"

	"bazaar/contexts/exchange-core/settlement-engine/domain/entities"

	"github.com/ethereum/go-ethereum/common"
)

// FeeSplit is the exact three-way division of a gross sale amount. Shares
// always sum to the gross amount; floor rounding is absorbed into the
// seller's proceeds.
type FeeSplit struct {
	CollectorShare  *big.Int
	RoyaltyShare    *big.Int
	RoyaltyReceiver common.Address
	SellerProceeds  *big.Int
}

// SplitProceeds computes collector and royalty shares from the configured
// cut-per-million rates. Rounding is floor (truncation) on each share — the
// result differs from rounded division by up to one unit per share and that
// difference goes to the seller. A zero royalty receiver redirects the
// royalty share to the fees collector instead of losing it.
func SplitProceeds(config entities.FeeConfig, amount *big.Int, royaltyReceiver common.Address) FeeSplit {
	base := new(big.Int).SetUint64(entities.CutBase)

	collector := new(big.Int).Mul(amount, new(big.Int).SetUint64(config.FeesCollectorCutPerMillion))
	collector.Quo(collector, base)

	royalty := new(big.Int)
	if config.RoyaltiesCutPerMillion > 0 {
		royalty.Mul(amount, new(big.Int).SetUint64(config.RoyaltiesCutPerMillion))
		royalty.Quo(royalty, base)
	}

	receiver := royaltyReceiver
	if receiver == (common.Address{}) && royalty.Sign() > 0 {
		collector.Add(collector, royalty)
		royalty = new(big.Int)
	}

	proceeds := new(big.Int).Sub(amount, collector)
	proceeds.Sub(proceeds, royalty)

	return FeeSplit{
		CollectorShare:  collector,
		RoyaltyShare:    royalty,
		RoyaltyReceiver: receiver,
		SellerProceeds:  proceeds,
	}
}
