// Package authorizationforwarder implements the blind relay of the
// collection-governance context. The forwarder executes pre-authorized call
// data against a target it does not own; every policy decision lives in its
// single authorized caller.
package authorizationforwarder

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
)

// ErrUnauthorizedCaller rejects relay requests from anyone but the single
// configured caller.
var ErrUnauthorizedCaller = errors.New("caller is not authorized to use the forwarder")

// Contract is any deployed identity resolvable through a Directory.
type Contract interface {
	Address() common.Address
}

// Callable is a contract that accepts opaque call data. The boolean reports
// whether the relayed call itself succeeded; err is reserved for transport
// failures.
type Callable interface {
	Call(ctx context.Context, callData []byte) (bool, []byte, error)
}

// Directory resolves a contract identity to its deployed handle. The second
// return is false when no code exists at the address.
type Directory interface {
	Resolve(ctx context.Context, address common.Address) (Contract, bool, error)
}

// Forwarder relays opaque call data on behalf of its one authorized caller.
// It performs no interpretation of the payload.
type Forwarder struct {
	address          common.Address
	authorizedCaller common.Address
	contracts        Directory
	logger           *slog.Logger
}

func New(address common.Address, authorizedCaller common.Address, contracts Directory, logger *slog.Logger) *Forwarder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Forwarder{
		address:          address,
		authorizedCaller: authorizedCaller,
		contracts:        contracts,
		logger:           logger,
	}
}

func (f *Forwarder) Address() common.Address {
	return f.address
}

// ForwardCall executes callData against target verbatim. A failed relayed
// call returns (false, raw) without error so the caller decides escalation.
// An unresolvable or non-callable target is reported the same way.
func (f *Forwarder) ForwardCall(ctx context.Context, caller common.Address, target common.Address, callData []byte) (bool, []byte, error) {
	if caller != f.authorizedCaller {
		f.logger.Warn("relay rejected",
			"event", "forward_call_unauthorized",
			"module", "collection-governance/authorization-forwarder",
			"layer", "domain",
			"caller", caller.Hex(),
			"target", target.Hex(),
		)
		return false, nil, ErrUnauthorizedCaller
	}

	contract, deployed, err := f.contracts.Resolve(ctx, target)
	if err != nil {
		return false, nil, err
	}
	if !deployed {
		return false, nil, nil
	}
	callable, ok := contract.(Callable)
	if !ok {
		return false, nil, nil
	}

	success, ret, err := callable.Call(ctx, callData)
	if err != nil {
		return false, nil, err
	}
	f.logger.Debug("call relayed",
		"event", "forward_call_relayed",
		"module", "collection-governance/authorization-forwarder",
		"layer", "domain",
		"target", target.Hex(),
		"success", success,
	)
	return success, ret, nil
}
