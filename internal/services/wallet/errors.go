package wallet

import "errors"

var (
	ErrPINNotSet    = errors.New("wallet PIN has not been set")
	ErrPINMismatch  = errors.New("incorrect wallet PIN")
	ErrWalletExists = errors.New("user already has a wallet in this currency")
)
