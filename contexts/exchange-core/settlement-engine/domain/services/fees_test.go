package services_test

import (
	"math/big"
	"testing"

	"bazaar/contexts/exchange-core/settlement-engine/domain/entities"
	"bazaar/contexts/exchange-core/settlement-engine/domain/services"

	"github.com/ethereum/go-ethereum/common"
)

func TestSplitProceedsConservation(t *testing.T) {
	config := entities.FeeConfig{
		FeesCollector:              common.HexToAddress("0xfee"),
		FeesCollectorCutPerMillion: 25_000,  // 2.5%
		RoyaltiesCutPerMillion:     100_000, // 10%
	}
	receiver := common.HexToAddress("0xr01")

	// Amounts chosen so the per-million division truncates.
	for _, amount := range []int64{1, 3, 7, 99, 1_000, 999_999, 1_000_001, 123_456_789} {
		gross := big.NewInt(amount)
		split := services.SplitProceeds(config, gross, receiver)

		total := new(big.Int).Add(split.CollectorShare, split.RoyaltyShare)
		total.Add(total, split.SellerProceeds)
		if total.Cmp(gross) != 0 {
			t.Fatalf("amount %d: shares sum to %s, want %s", amount, total, gross)
		}
		if split.RoyaltyReceiver != receiver {
			t.Fatalf("amount %d: royalty receiver changed to %s", amount, split.RoyaltyReceiver)
		}
	}
}

func TestSplitProceedsFloorRounding(t *testing.T) {
	config := entities.FeeConfig{
		FeesCollectorCutPerMillion: 25_000,
		RoyaltiesCutPerMillion:     100_000,
	}

	// 99 * 25_000 / 1_000_000 = 2.475 -> 2, and 99 * 100_000 / 1_000_000 =
	// 9.9 -> 9. The truncated remainder stays with the seller.
	split := services.SplitProceeds(config, big.NewInt(99), common.HexToAddress("0xr01"))
	if split.CollectorShare.Int64() != 2 {
		t.Fatalf("collector share = %s, want 2", split.CollectorShare)
	}
	if split.RoyaltyShare.Int64() != 9 {
		t.Fatalf("royalty share = %s, want 9", split.RoyaltyShare)
	}
	if split.SellerProceeds.Int64() != 88 {
		t.Fatalf("seller proceeds = %s, want 88", split.SellerProceeds)
	}
}

func TestSplitProceedsRedirectsOrphanRoyalties(t *testing.T) {
	config := entities.FeeConfig{
		FeesCollectorCutPerMillion: 25_000,
		RoyaltiesCutPerMillion:     100_000,
	}

	split := services.SplitProceeds(config, big.NewInt(1_000_000), common.Address{})
	if split.RoyaltyShare.Sign() != 0 {
		t.Fatalf("royalty share should be folded away, got %s", split.RoyaltyShare)
	}
	// 25_000 collector cut plus the redirected 100_000 royalty cut.
	if split.CollectorShare.Int64() != 125_000 {
		t.Fatalf("collector share = %s, want 125000", split.CollectorShare)
	}
	if split.SellerProceeds.Int64() != 875_000 {
		t.Fatalf("seller proceeds = %s, want 875000", split.SellerProceeds)
	}
}

func TestFeeConfigSumInvariant(t *testing.T) {
	config := entities.FeeConfig{
		FeesCollectorCutPerMillion: 900_000,
		RoyaltiesCutPerMillion:     100_000,
	}
	if err := config.Validate(); err == nil {
		t.Fatal("cuts summing to exactly one million must be rejected")
	}

	config.RoyaltiesCutPerMillion = 99_999
	if err := config.Validate(); err != nil {
		t.Fatalf("cuts below one million should validate: %v", err)
	}
}
