package service

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrInvalidInput       = errors.New("invalid input")
	ErrAlreadyPaid        = errors.New("job already paid")
	ErrInsufficientFunds  = errors.New("balance is not enough")
	ErrDepositCapExceeded = errors.New("amount is too high")
	ErrTransactionFailed  = errors.New("transaction failed")
)
