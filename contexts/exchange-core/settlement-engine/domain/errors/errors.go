package errors

import "errors"

var (
	// Input validation.
	ErrInvalidPrice    = errors.New("price per unit must be positive")
	ErrInvalidExpiry   = errors.New("expiry is earlier than the minimum listing window")
	ErrInvalidQuantity = errors.New("quantity is invalid for the asset kind")
	ErrInvalidInput    = errors.New("settlement input is invalid")

	// Creation preconditions.
	ErrNotAssetOwner       = errors.New("seller does not own the asset")
	ErrInsufficientBalance = errors.New("seller holds fewer units than listed")
	ErrNotApproved         = errors.New("settlement engine is not an approved transfer agent")
	ErrOrderAlreadyExists  = errors.New("an active order already exists for this key")

	// Fill-time state conflicts.
	ErrOrderNotFound             = errors.New("order not found")
	ErrOrderExpired              = errors.New("order is past its expiry")
	ErrSelfTrade                 = errors.New("buyer and seller are the same account")
	ErrInsufficientQuantity      = errors.New("requested quantity exceeds remaining order quantity")
	ErrSellerNoLongerOwner       = errors.New("seller no longer owns the asset")
	ErrSellerInsufficientBalance = errors.New("seller no longer holds the listed quantity")
	ErrFingerprintMismatch       = errors.New("asset fingerprint does not match current state")

	// Authorization and configuration.
	ErrUnauthorized     = errors.New("caller lacks the required role")
	ErrInvalidFeeConfig = errors.New("fee cuts must sum to less than one million per million")

	// External collaborators.
	ErrExternalTransferFailed = errors.New("payment or asset transfer was rejected")
)
