package repositories

import "errors"

// Not-found errors deliberately do not distinguish "does not exist" from
// "owned by someone else"; handlers surface both the same way.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrLinkNotFound        = errors.New("payment link not found")
	ErrRequestNotFound     = errors.New("payment request not found")
	ErrSplitNotFound       = errors.New("bill split not found")
	ErrParticipantNotFound = errors.New("bill split participant not found")
	ErrRecurringNotFound   = errors.New("recurring payment not found")
	ErrBudgetNotFound      = errors.New("budget not found")
	ErrMerchantNotFound    = errors.New("merchant not found")
)
