// Package repositories provides the data access layer. All reads used to
// decide a balance mutation go through a transaction-scoped Store obtained
// from ExecuteInTransaction, so decisions and writes share one durability
// scope.
package repositories

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"rosepay/internal/models"
)

// Wallets is the wallet slice of the ledger store.
type Wallets interface {
	CreateWallet(w *models.Wallet) error
	GetWallet(id uint) (*models.Wallet, error)
	// GetWalletOwned returns ErrWalletNotFound when the wallet does not
	// exist or belongs to another user.
	GetWalletOwned(id, userID uint) (*models.Wallet, error)
	// GetWalletForUpdate locks the wallet row for the enclosing
	// transaction. Callers locking two wallets must lock the lower id
	// first.
	GetWalletForUpdate(id uint) (*models.Wallet, error)
	// GetPrimaryWallet returns the user's oldest wallet.
	GetPrimaryWallet(userID uint) (*models.Wallet, error)
	ListWallets(userID uint) ([]models.Wallet, error)
	SaveWallet(w *models.Wallet) error
}

// Transactions is the append-only transaction log.
type Transactions interface {
	CreateTransaction(t *models.Transaction) error
	GetTransaction(id, userID uint) (*models.Transaction, error)
	GetTransactionByGatewayPaymentID(paymentID string) (*models.Transaction, error)
	// ListTransactions returns the user's transactions newest first.
	// walletID 0 means all wallets.
	ListTransactions(userID, walletID uint, limit, offset int) ([]models.Transaction, error)
	// CompletedAmountSince sums completed transaction amounts for the
	// (user, wallet) pair created at or after since.
	CompletedAmountSince(userID, walletID uint, since time.Time) (decimal.Decimal, error)
	// SpentAmountBetween sums completed transactions of the given types
	// in [start, end). A nil walletID spans all the user's wallets.
	SpentAmountBetween(userID uint, walletID *uint, types []string, start, end time.Time) (decimal.Decimal, error)
	// CountCompletedInbound counts completed transactions credited to
	// the wallet.
	CountCompletedInbound(walletID uint) (int64, error)
	SumAmountByType(userID uint, txType string, since time.Time) (decimal.Decimal, error)
}

type PaymentLinks interface {
	CreatePaymentLink(l *models.PaymentLink) error
	GetPaymentLinkByLinkID(linkID string) (*models.PaymentLink, error)
	GetPaymentLinkForUpdate(linkID string) (*models.PaymentLink, error)
	ListPaymentLinks(userID uint) ([]models.PaymentLink, error)
	SavePaymentLink(l *models.PaymentLink) error
}

type PaymentRequests interface {
	CreatePaymentRequest(r *models.PaymentRequest) error
	GetPaymentRequestForUpdate(id uint) (*models.PaymentRequest, error)
	ListPaymentRequestsReceived(userID uint) ([]models.PaymentRequest, error)
	ListPaymentRequestsSent(userID uint) ([]models.PaymentRequest, error)
	SavePaymentRequest(r *models.PaymentRequest) error
}

type BillSplits interface {
	CreateBillSplit(s *models.BillSplit) error
	GetBillSplit(id uint) (*models.BillSplit, error)
	GetBillSplitForUpdate(id uint) (*models.BillSplit, error)
	GetParticipantForUpdate(splitID, participantID uint) (*models.BillSplitParticipant, error)
	CountUnsettledParticipants(splitID uint) (int64, error)
	ListBillSplits(userID uint) ([]models.BillSplit, error)
	SaveBillSplit(s *models.BillSplit) error
	SaveParticipant(p *models.BillSplitParticipant) error
}

type RecurringPayments interface {
	CreateRecurringPayment(r *models.RecurringPayment) error
	GetRecurringForUpdate(id uint) (*models.RecurringPayment, error)
	GetRecurringOwned(id, userID uint) (*models.RecurringPayment, error)
	ListRecurringPayments(userID uint, activeOnly bool) ([]models.RecurringPayment, error)
	// ListDueRecurringPayments returns active schedules across all
	// users whose next payment date is at or before now.
	ListDueRecurringPayments(now time.Time) ([]models.RecurringPayment, error)
	SaveRecurringPayment(r *models.RecurringPayment) error
}

type Budgets interface {
	CreateBudget(b *models.Budget) error
	GetBudget(id, userID uint) (*models.Budget, error)
	ListBudgets(userID uint, activeOnly bool) ([]models.Budget, error)
	SaveBudget(b *models.Budget) error
}

type Merchants interface {
	CreateMerchant(m *models.Merchant) error
	GetMerchantByUserID(userID uint) (*models.Merchant, error)
	GetMerchantByMerchantID(merchantID string) (*models.Merchant, error)
	// AddMerchantRevenue bumps the denormalized revenue counter in place.
	AddMerchantRevenue(id uint, amount decimal.Decimal) error
}

type Users interface {
	CreateUser(u *models.User) error
	GetUserByID(id uint) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	SaveUser(u *models.User) error
}

// Store is the full data access surface. ExecuteInTransaction hands the
// callback a Store scoped to one database transaction; every read and
// write through it is atomic with the rest of the unit of work.
type Store interface {
	Wallets
	Transactions
	PaymentLinks
	PaymentRequests
	BillSplits
	RecurringPayments
	Budgets
	Merchants
	Users
	ExecuteInTransaction(fn func(Store) error) error
}

type store struct {
	db *gorm.DB
}

// NewStore wraps a gorm connection in the Store interface.
func NewStore(db *gorm.DB) Store {
	if db == nil {
		panic("db is required")
	}
	return &store{db: db}
}

func (s *store) ExecuteInTransaction(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&store{db: tx})
	})
}

// forUpdate applies a row lock where the dialect supports it. The sqlite
// driver used in tests has no FOR UPDATE; its single-writer lock stands in.
func (s *store) forUpdate() *gorm.DB {
	if s.db.Dialector.Name() == "postgres" {
		return s.db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return s.db
}
