package transfer

import "errors"

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrSameWallet        = errors.New("source and destination wallets are the same")
	ErrWalletInactive    = errors.New("wallet is not active")
	ErrCurrencyMismatch  = errors.New("wallet currencies do not match")
)
