package assetadapter_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	assetadapter "bazaar/contexts/exchange-core/asset-adapter"
	"bazaar/contexts/exchange-core/asset-adapter/memory"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

type bareRegistry struct{ address common.Address }

func (r bareRegistry) Address() common.Address { return r.address }

func TestClassifyRejectsUnknownModel(t *testing.T) {
	_, err := assetadapter.Classify(bareRegistry{address: common.HexToAddress("0x01")})
	if !errors.Is(err, assetadapter.ErrUnsupportedAsset) {
		t.Fatalf("expected unsupported asset, got %v", err)
	}

	_, err = assetadapter.Classify(nil)
	if !errors.Is(err, assetadapter.ErrUnsupportedAsset) {
		t.Fatalf("expected unsupported asset for nil registry, got %v", err)
	}
}

func TestClassifyExclusiveRegistry(t *testing.T) {
	registry := memory.NewItemRegistry(common.HexToAddress("0x10"))
	owner := common.HexToAddress("0xaa")
	operator := common.HexToAddress("0xbb")
	itemID := big.NewInt(7)
	registry.Mint(itemID, owner)

	asset, err := assetadapter.Classify(registry)
	if err != nil {
		t.Fatalf("classify exclusive registry: %v", err)
	}
	if asset.Kind() != assetadapter.KindExclusive {
		t.Fatalf("expected exclusive kind, got %s", asset.Kind())
	}
	if _, ok := asset.Fingerprint(); ok {
		t.Fatal("plain item registry must not expose fingerprint capability")
	}

	held, err := asset.HeldQuantity(context.Background(), owner, itemID)
	if err != nil || held != 1 {
		t.Fatalf("owner should hold 1 unit, got %d (%v)", held, err)
	}
	held, err = asset.HeldQuantity(context.Background(), operator, itemID)
	if err != nil || held != 0 {
		t.Fatalf("non-owner should hold 0 units, got %d (%v)", held, err)
	}

	approved, err := asset.IsTransferApproved(context.Background(), owner, operator, itemID)
	if err != nil || approved {
		t.Fatalf("operator should not be approved yet, got %v (%v)", approved, err)
	}
	registry.Approve(itemID, operator)
	approved, err = asset.IsTransferApproved(context.Background(), owner, operator, itemID)
	if err != nil || !approved {
		t.Fatalf("per-item approval should grant transfer rights, got %v (%v)", approved, err)
	}
}

func TestExclusiveTransferQuantityMustBeOne(t *testing.T) {
	registry := memory.NewItemRegistry(common.HexToAddress("0x10"))
	owner := common.HexToAddress("0xaa")
	buyer := common.HexToAddress("0xcc")
	itemID := big.NewInt(3)
	registry.Mint(itemID, owner)

	asset, err := assetadapter.Classify(registry)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}

	if err := asset.Transfer(context.Background(), owner, buyer, itemID, 2); !errors.Is(err, assetadapter.ErrExclusiveQuantity) {
		t.Fatalf("expected exclusive quantity error, got %v", err)
	}
	if err := asset.Transfer(context.Background(), owner, buyer, itemID, 1); err != nil {
		t.Fatalf("single-unit transfer should succeed: %v", err)
	}

	held, err := asset.HeldQuantity(context.Background(), buyer, itemID)
	if err != nil || held != 1 {
		t.Fatalf("buyer should own the item after transfer, got %d (%v)", held, err)
	}
}

func TestClassifyBalanceRegistry(t *testing.T) {
	registry := memory.NewStockRegistry(common.HexToAddress("0x20"))
	seller := common.HexToAddress("0xaa")
	buyer := common.HexToAddress("0xcc")
	itemID := big.NewInt(99)
	registry.Mint(itemID, seller, 5)

	asset, err := assetadapter.Classify(registry)
	if err != nil {
		t.Fatalf("classify balance registry: %v", err)
	}
	if asset.Kind() != assetadapter.KindBalance {
		t.Fatalf("expected balance kind, got %s", asset.Kind())
	}

	if err := asset.Transfer(context.Background(), seller, buyer, itemID, 2); err != nil {
		t.Fatalf("partial transfer should succeed: %v", err)
	}
	held, err := asset.HeldQuantity(context.Background(), seller, itemID)
	if err != nil || held != 3 {
		t.Fatalf("seller balance should be 3, got %d (%v)", held, err)
	}
	held, err = asset.HeldQuantity(context.Background(), buyer, itemID)
	if err != nil || held != 2 {
		t.Fatalf("buyer balance should be 2, got %d (%v)", held, err)
	}

	if err := asset.Transfer(context.Background(), seller, buyer, itemID, 4); !errors.Is(err, assetadapter.ErrTransferRejected) {
		t.Fatalf("overdrawn transfer should be rejected, got %v", err)
	}
}

func TestComposableRegistryExposesFingerprint(t *testing.T) {
	registry := memory.NewComposableRegistry(common.HexToAddress("0x30"))
	itemID := big.NewInt(1)
	registry.Mint(itemID, common.HexToAddress("0xaa"))
	state := crypto.Keccak256Hash([]byte("estate with 4 parcels"))
	registry.SetFingerprint(itemID, state)

	asset, err := assetadapter.Classify(registry)
	if err != nil {
		t.Fatalf("classify composable registry: %v", err)
	}
	verifier, ok := asset.Fingerprint()
	if !ok {
		t.Fatal("composable registry should expose fingerprint capability")
	}

	match, err := verifier.VerifyFingerprint(context.Background(), itemID, state)
	if err != nil || !match {
		t.Fatalf("current fingerprint should verify, got %v (%v)", match, err)
	}
	match, err = verifier.VerifyFingerprint(context.Background(), itemID, common.Hash{})
	if err != nil || match {
		t.Fatalf("stale fingerprint should not verify, got %v (%v)", match, err)
	}
}
