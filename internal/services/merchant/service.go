// Package merchant manages merchant profiles. Revenue accrues through
// the transfer engine after each committed payment; this service only
// registers profiles and reads them back.
package merchant

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"rosepay/internal/models"
	"rosepay/internal/repositories"
)

var (
	ErrAlreadyRegistered = errors.New("user is already registered as a merchant")
	ErrBusinessNameEmpty = errors.New("business name is required")
)

// Stats summarizes a merchant's activity.
type Stats struct {
	Merchant      models.Merchant `json:"merchant"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	PaymentsCount int64           `json:"payments_count"`
}

type Service interface {
	Register(userID uint, businessName, businessType string) (*models.Merchant, error)
	GetProfile(userID uint) (*models.Merchant, error)
	// Lookup resolves a public merchant id, for payers addressing a
	// merchant by code.
	Lookup(merchantID string) (*models.Merchant, error)
	GetStats(userID uint) (*Stats, error)
}

type service struct {
	store repositories.Store
	log   *zap.SugaredLogger
}

func NewService(store repositories.Store, log *zap.SugaredLogger) Service {
	if store == nil {
		panic("store is required")
	}
	if log == nil {
		panic("logger is required")
	}
	return &service{store: store, log: log}
}

func (s *service) Register(userID uint, businessName, businessType string) (*models.Merchant, error) {
	if strings.TrimSpace(businessName) == "" {
		return nil, ErrBusinessNameEmpty
	}
	if _, err := s.store.GetMerchantByUserID(userID); err == nil {
		return nil, ErrAlreadyRegistered
	} else if !errors.Is(err, repositories.ErrMerchantNotFound) {
		return nil, err
	}
	m := &models.Merchant{
		UserID:       userID,
		BusinessName: businessName,
		BusinessType: businessType,
		MerchantID:   newMerchantID(),
		Active:       true,
		TotalRevenue: decimal.Zero,
	}
	if err := s.store.CreateMerchant(m); err != nil {
		return nil, err
	}
	return m, nil
}

// newMerchantID derives a 16-character public code from a fresh UUID.
func newMerchantID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:16])
}

func (s *service) GetProfile(userID uint) (*models.Merchant, error) {
	return s.store.GetMerchantByUserID(userID)
}

func (s *service) Lookup(merchantID string) (*models.Merchant, error) {
	return s.store.GetMerchantByMerchantID(merchantID)
}

func (s *service) GetStats(userID uint) (*Stats, error) {
	m, err := s.store.GetMerchantByUserID(userID)
	if err != nil {
		return nil, err
	}
	wallet, err := s.store.GetPrimaryWallet(userID)
	if err != nil {
		return nil, err
	}
	count, err := s.store.CountCompletedInbound(wallet.ID)
	if err != nil {
		return nil, err
	}
	return &Stats{
		Merchant:      *m,
		TotalRevenue:  m.TotalRevenue,
		PaymentsCount: count,
	}, nil
}
