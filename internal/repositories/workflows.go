package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"rosepay/internal/models"
)

// Payment links

func (s *store) CreatePaymentLink(l *models.PaymentLink) error {
	if err := s.db.Create(l).Error; err != nil {
		return fmt.Errorf("failed to create payment link: %w", err)
	}
	return nil
}

func (s *store) GetPaymentLinkByLinkID(linkID string) (*models.PaymentLink, error) {
	var link models.PaymentLink
	if err := s.db.Where("link_id = ?", linkID).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to get payment link: %w", err)
	}
	return &link, nil
}

func (s *store) GetPaymentLinkForUpdate(linkID string) (*models.PaymentLink, error) {
	var link models.PaymentLink
	if err := s.forUpdate().Where("link_id = ?", linkID).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to lock payment link: %w", err)
	}
	return &link, nil
}

func (s *store) ListPaymentLinks(userID uint) ([]models.PaymentLink, error) {
	var links []models.PaymentLink
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&links).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payment links: %w", err)
	}
	return links, nil
}

func (s *store) SavePaymentLink(l *models.PaymentLink) error {
	if err := s.db.Save(l).Error; err != nil {
		return fmt.Errorf("failed to save payment link: %w", err)
	}
	return nil
}

// Payment requests

func (s *store) CreatePaymentRequest(r *models.PaymentRequest) error {
	if err := s.db.Create(r).Error; err != nil {
		return fmt.Errorf("failed to create payment request: %w", err)
	}
	return nil
}

func (s *store) GetPaymentRequestForUpdate(id uint) (*models.PaymentRequest, error) {
	var req models.PaymentRequest
	if err := s.forUpdate().First(&req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to lock payment request: %w", err)
	}
	return &req, nil
}

func (s *store) ListPaymentRequestsReceived(userID uint) ([]models.PaymentRequest, error) {
	var reqs []models.PaymentRequest
	err := s.db.Where("recipient_id = ? AND status = ?", userID, models.TransactionStatusPending).
		Order("created_at DESC").Find(&reqs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payment requests: %w", err)
	}
	return reqs, nil
}

func (s *store) ListPaymentRequestsSent(userID uint) ([]models.PaymentRequest, error) {
	var reqs []models.PaymentRequest
	err := s.db.Where("requester_id = ?", userID).Order("created_at DESC").Find(&reqs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payment requests: %w", err)
	}
	return reqs, nil
}

func (s *store) SavePaymentRequest(r *models.PaymentRequest) error {
	if err := s.db.Save(r).Error; err != nil {
		return fmt.Errorf("failed to save payment request: %w", err)
	}
	return nil
}

// Bill splits

func (s *store) CreateBillSplit(split *models.BillSplit) error {
	if err := s.db.Create(split).Error; err != nil {
		return fmt.Errorf("failed to create bill split: %w", err)
	}
	return nil
}

func (s *store) GetBillSplit(id uint) (*models.BillSplit, error) {
	var split models.BillSplit
	err := s.db.Preload("Participants").First(&split, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSplitNotFound
		}
		return nil, fmt.Errorf("failed to get bill split: %w", err)
	}
	return &split, nil
}

func (s *store) GetBillSplitForUpdate(id uint) (*models.BillSplit, error) {
	var split models.BillSplit
	if err := s.forUpdate().First(&split, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSplitNotFound
		}
		return nil, fmt.Errorf("failed to lock bill split: %w", err)
	}
	return &split, nil
}

func (s *store) GetParticipantForUpdate(splitID, participantID uint) (*models.BillSplitParticipant, error) {
	var p models.BillSplitParticipant
	err := s.forUpdate().Where("id = ? AND bill_split_id = ?", participantID, splitID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to lock participant: %w", err)
	}
	return &p, nil
}

func (s *store) CountUnsettledParticipants(splitID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.BillSplitParticipant{}).
		Where("bill_split_id = ? AND settled = ?", splitID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unsettled participants: %w", err)
	}
	return count, nil
}

func (s *store) ListBillSplits(userID uint) ([]models.BillSplit, error) {
	// Splits the user created plus splits they participate in.
	var ids []uint
	err := s.db.Model(&models.BillSplitParticipant{}).
		Where("user_id = ?", userID).
		Pluck("bill_split_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list participations: %w", err)
	}

	var splits []models.BillSplit
	q := s.db.Preload("Participants").Where("creator_id = ?", userID)
	if len(ids) > 0 {
		q = q.Or("id IN ?", ids)
	}
	if err := q.Order("created_at DESC").Find(&splits).Error; err != nil {
		return nil, fmt.Errorf("failed to list bill splits: %w", err)
	}
	return splits, nil
}

func (s *store) SaveBillSplit(split *models.BillSplit) error {
	if err := s.db.Omit("Participants").Save(split).Error; err != nil {
		return fmt.Errorf("failed to save bill split: %w", err)
	}
	return nil
}

func (s *store) SaveParticipant(p *models.BillSplitParticipant) error {
	if err := s.db.Save(p).Error; err != nil {
		return fmt.Errorf("failed to save participant: %w", err)
	}
	return nil
}

// Recurring payments

func (s *store) CreateRecurringPayment(r *models.RecurringPayment) error {
	if err := s.db.Create(r).Error; err != nil {
		return fmt.Errorf("failed to create recurring payment: %w", err)
	}
	return nil
}

func (s *store) GetRecurringForUpdate(id uint) (*models.RecurringPayment, error) {
	var rec models.RecurringPayment
	if err := s.forUpdate().First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecurringNotFound
		}
		return nil, fmt.Errorf("failed to lock recurring payment: %w", err)
	}
	return &rec, nil
}

func (s *store) GetRecurringOwned(id, userID uint) (*models.RecurringPayment, error) {
	var rec models.RecurringPayment
	err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecurringNotFound
		}
		return nil, fmt.Errorf("failed to get recurring payment: %w", err)
	}
	return &rec, nil
}

func (s *store) ListRecurringPayments(userID uint, activeOnly bool) ([]models.RecurringPayment, error) {
	q := s.db.Where("user_id = ?", userID)
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var recs []models.RecurringPayment
	if err := q.Order("next_payment_date ASC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to list recurring payments: %w", err)
	}
	return recs, nil
}

func (s *store) ListDueRecurringPayments(now time.Time) ([]models.RecurringPayment, error) {
	var recs []models.RecurringPayment
	err := s.db.Where("active = ? AND next_payment_date <= ?", true, now).
		Order("next_payment_date ASC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list due recurring payments: %w", err)
	}
	return recs, nil
}

func (s *store) SaveRecurringPayment(r *models.RecurringPayment) error {
	if err := s.db.Save(r).Error; err != nil {
		return fmt.Errorf("failed to save recurring payment: %w", err)
	}
	return nil
}

// Budgets

func (s *store) CreateBudget(b *models.Budget) error {
	if err := s.db.Create(b).Error; err != nil {
		return fmt.Errorf("failed to create budget: %w", err)
	}
	return nil
}

func (s *store) GetBudget(id, userID uint) (*models.Budget, error) {
	var b models.Budget
	err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	return &b, nil
}

func (s *store) ListBudgets(userID uint, activeOnly bool) ([]models.Budget, error) {
	q := s.db.Where("user_id = ?", userID)
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var budgets []models.Budget
	if err := q.Order("created_at ASC").Find(&budgets).Error; err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	return budgets, nil
}

func (s *store) SaveBudget(b *models.Budget) error {
	if err := s.db.Save(b).Error; err != nil {
		return fmt.Errorf("failed to save budget: %w", err)
	}
	return nil
}

// Merchants

func (s *store) CreateMerchant(m *models.Merchant) error {
	if err := s.db.Create(m).Error; err != nil {
		return fmt.Errorf("failed to create merchant: %w", err)
	}
	return nil
}

func (s *store) GetMerchantByUserID(userID uint) (*models.Merchant, error) {
	var m models.Merchant
	if err := s.db.Where("user_id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMerchantNotFound
		}
		return nil, fmt.Errorf("failed to get merchant: %w", err)
	}
	return &m, nil
}

func (s *store) GetMerchantByMerchantID(merchantID string) (*models.Merchant, error) {
	var m models.Merchant
	err := s.db.Where("merchant_id = ? AND active = ?", merchantID, true).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMerchantNotFound
		}
		return nil, fmt.Errorf("failed to get merchant: %w", err)
	}
	return &m, nil
}

func (s *store) AddMerchantRevenue(id uint, amount decimal.Decimal) error {
	res := s.db.Model(&models.Merchant{}).Where("id = ?", id).
		UpdateColumn("total_revenue", gorm.Expr("total_revenue + ?", amount))
	if res.Error != nil {
		return fmt.Errorf("failed to add merchant revenue: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrMerchantNotFound
	}
	return nil
}

// Users

func (s *store) CreateUser(u *models.User) error {
	if err := s.db.Create(u).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *store) GetUserByID(id uint) (*models.User, error) {
	var u models.User
	if err := s.db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (s *store) GetUserByEmail(email string) (*models.User, error) {
	var u models.User
	if err := s.db.Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (s *store) SaveUser(u *models.User) error {
	if err := s.db.Save(u).Error; err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}
