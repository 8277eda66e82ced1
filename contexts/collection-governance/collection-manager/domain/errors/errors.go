package errors

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized rejects callers lacking the owner (or committee) role.
	ErrUnauthorized = errors.New("caller is not authorized")
	// ErrSelfForward rejects a relay pointed back at the manager itself.
	ErrSelfForward = errors.New("forwarder must not be the manager itself")
	// ErrInvalidCollection rejects a manage target that does not expose the
	// collection identity tag.
	ErrInvalidCollection = errors.New("target is not a verified collection")
	// ErrOperationNotAllowed rejects a selector absent from the committee
	// allow-list.
	ErrOperationNotAllowed = errors.New("operation is not on the allow-list")
	// ErrForwardFailed reports a relay that executed but did not succeed.
	ErrForwardFailed = errors.New("forwarded call failed")
)
