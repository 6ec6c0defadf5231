package transfer

import "errors"

// Transfer errors. All of them are returned wrapped in ErrTransferFailed.
var (
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrMintNotFound       = errors.New("mint not found")
	ErrDecimalsMismatch   = errors.New("decimals do not match mint")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrBalanceOverflow    = errors.New("recipient balance overflow")
	ErrMissingParticipant = errors.New("sender, recipient and mint are required")
)
