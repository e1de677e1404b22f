package notification

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TransferReceived formats the credit notification for a recipient.
func TransferReceived(amount decimal.Decimal, currency, description string) (subject, body string) {
	subject = "You received a payment"
	body = fmt.Sprintf("You received %s %s.", amount.StringFixed(2), currency)
	if description != "" {
		body += fmt.Sprintf("\nNote: %s", description)
	}
	return subject, body
}

// PaymentRequested formats the notification for a new payment request.
func PaymentRequested(requester string, amount decimal.Decimal, description string) (subject, body string) {
	subject = "Payment request"
	body = fmt.Sprintf("%s requested %s from you.", requester, amount.StringFixed(2))
	if description != "" {
		body += fmt.Sprintf("\nNote: %s", description)
	}
	return subject, body
}

// BillSplitInvite formats the notification sent to each participant of
// a new bill split.
func BillSplitInvite(creator, title string, share decimal.Decimal) (subject, body string) {
	subject = "You were added to a bill split"
	body = fmt.Sprintf("%s added you to %q. Your share is %s.",
		creator, title, share.StringFixed(2))
	return subject, body
}

// RecurringExecuted formats the confirmation for an executed recurring
// payment.
func RecurringExecuted(amount decimal.Decimal, description string) (subject, body string) {
	subject = "Recurring payment sent"
	body = fmt.Sprintf("Your recurring payment of %s was executed.", amount.StringFixed(2))
	if description != "" {
		body += fmt.Sprintf("\nNote: %s", description)
	}
	return subject, body
}
