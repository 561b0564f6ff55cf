package wallet

import "errors"

// Service errors
var (
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrInvalidAddress         = errors.New("withdrawal address is required")
	ErrBelowMinimum           = errors.New("amount below the operation minimum")
	ErrInsufficientFunds      = errors.New("insufficient USD balance")
	ErrInsufficientPoints     = errors.New("insufficient points balance")
	ErrRecipientNotFound      = errors.New("recipient username not found")
	ErrSelfTransfer           = errors.New("cannot transfer funds to yourself")
	ErrUnsupportedCoin        = errors.New("unsupported coin")
	ErrConcurrentModification = errors.New("balance changed concurrently, please try again")
	ErrOperationFailed        = errors.New("wallet operation failed")
)
