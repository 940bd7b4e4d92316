package ledger

import "errors"

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidKind       = errors.New("invalid transaction kind")
	ErrAccountNotFound   = errors.New("account not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrSameAccount       = errors.New("source and destination accounts must differ")
)
