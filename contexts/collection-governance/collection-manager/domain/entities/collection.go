package entities

import (
	"encoding/json"
	"strings"
	"time"

	domainerrors "bazaar/contexts/collection-governance/collection-manager/domain/errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// CollectionIdentityTag is the fixed constant a genuine collection registry
// exposes through its read-only tag query. It is the Keccak-256 digest of the
// collection initialization signature, so only registries deployed from the
// canonical implementation can answer it.
var CollectionIdentityTag = crypto.Keccak256Hash([]byte("initialize(string,string,string,address,string)"))

// Selector identifies a relay-target method by the first four bytes of the
// Keccak-256 digest of its signature.
type Selector [4]byte

func SelectorOf(signature string) Selector {
	var selector Selector
	copy(selector[:], crypto.Keccak256([]byte(signature))[:4])
	return selector
}

func (s Selector) Hex() string {
	return common.Bytes2Hex(s[:])
}

// SelectorFromCallData extracts the method selector from opaque call data.
func SelectorFromCallData(callData []byte) (Selector, bool) {
	if len(callData) < 4 {
		return Selector{}, false
	}
	var selector Selector
	copy(selector[:], callData[:4])
	return selector, true
}

// CollectionInit is the tagged command a createCollection relay carries. It
// stays structured inside the manager and is serialized to selector-prefixed
// call data only at the forwarder boundary.
type CollectionInit struct {
	Salt    common.Hash `json:"salt"`
	Name    string      `json:"name"`
	Symbol  string      `json:"symbol"`
	BaseURI string      `json:"base_uri"`
	Creator string      `json:"creator"`
}

// CreateCollectionSelector prefixes the init payload relayed to the factory.
var CreateCollectionSelector = SelectorOf("createCollection(bytes32,bytes)")

func (c CollectionInit) Validate() error {
	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Symbol) == "" {
		return domainerrors.ErrInvalidInput
	}
	return nil
}

// EncodeCallData serializes the init command into the opaque payload the
// forwarder relays. The selector comes first so targets can dispatch on it.
func (c CollectionInit) EncodeCallData() ([]byte, error) {
	body, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return append(CreateCollectionSelector[:], body...), nil
}

// AllowedOperation is one committee allow-list entry.
type AllowedOperation struct {
	Selector  Selector
	Allowed   bool
	UpdatedAt time.Time
}
