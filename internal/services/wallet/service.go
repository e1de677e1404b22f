// Package wallet manages wallet lifecycle and the read path. Reads go
// through the cache; every balance mutation lives in the transfer
// engine, which invalidates cached entries after commit.
package wallet

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"rosepay/internal/models"
	"rosepay/internal/repositories"
	"rosepay/internal/validation"
)

type Service interface {
	CreateWallet(userID uint, currency string) (*models.Wallet, error)
	// GetWallet returns the wallet only to its owner. Missing and
	// foreign wallets are both reported as not found.
	GetWallet(ctx context.Context, id, userID uint) (*models.Wallet, error)
	ListWallets(userID uint) ([]models.Wallet, error)
	SetPIN(ctx context.Context, id, userID uint, pin string) error
	VerifyPIN(ctx context.Context, id, userID uint, pin string) error
	SetStatus(ctx context.Context, id, userID uint, status string) error
}

type service struct {
	store repositories.Store
	cache repositories.WalletCache
	log   *zap.SugaredLogger
}

func NewService(store repositories.Store, cache repositories.WalletCache, log *zap.SugaredLogger) Service {
	if store == nil {
		panic("store is required")
	}
	if cache == nil {
		panic("cache is required")
	}
	if log == nil {
		panic("logger is required")
	}
	return &service{store: store, cache: cache, log: log}
}

func (s *service) CreateWallet(userID uint, currency string) (*models.Wallet, error) {
	if currency == "" {
		currency = "USD"
	}
	if err := validation.Currency(currency); err != nil {
		return nil, err
	}
	existing, err := s.store.ListWallets(userID)
	if err != nil {
		return nil, err
	}
	for _, w := range existing {
		if w.Currency == currency {
			return nil, ErrWalletExists
		}
	}
	w := &models.Wallet{
		UserID:   userID,
		Balance:  decimal.Zero,
		Currency: currency,
		Status:   models.WalletStatusActive,
	}
	if err := s.store.CreateWallet(w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *service) GetWallet(ctx context.Context, id, userID uint) (*models.Wallet, error) {
	if w, err := s.cache.GetWallet(ctx, id); err == nil {
		if w.UserID != userID {
			return nil, repositories.ErrWalletNotFound
		}
		return w, nil
	}
	w, err := s.store.GetWalletOwned(id, userID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetWallet(ctx, w); err != nil {
		s.log.Debugw("wallet cache set failed", "wallet_id", id, "error", err)
	}
	return w, nil
}

func (s *service) ListWallets(userID uint) ([]models.Wallet, error) {
	return s.store.ListWallets(userID)
}

func (s *service) SetPIN(ctx context.Context, id, userID uint, pin string) error {
	if err := validation.PIN(pin); err != nil {
		return err
	}
	w, err := s.store.GetWalletOwned(id, userID)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	w.PINHash = string(hash)
	if err := s.store.SaveWallet(w); err != nil {
		return err
	}
	return s.invalidate(ctx, id)
}

func (s *service) VerifyPIN(ctx context.Context, id, userID uint, pin string) error {
	w, err := s.store.GetWalletOwned(id, userID)
	if err != nil {
		return err
	}
	if w.PINHash == "" {
		return ErrPINNotSet
	}
	if err := bcrypt.CompareHashAndPassword([]byte(w.PINHash), []byte(pin)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPINMismatch
		}
		return err
	}
	return nil
}

func (s *service) SetStatus(ctx context.Context, id, userID uint, status string) error {
	if status != models.WalletStatusActive && status != models.WalletStatusDisabled {
		return errors.New("invalid wallet status")
	}
	w, err := s.store.GetWalletOwned(id, userID)
	if err != nil {
		return err
	}
	w.Status = status
	if err := s.store.SaveWallet(w); err != nil {
		return err
	}
	return s.invalidate(ctx, id)
}

func (s *service) invalidate(ctx context.Context, id uint) error {
	if err := s.cache.InvalidateWallet(ctx, id); err != nil {
		s.log.Debugw("wallet cache invalidation failed", "wallet_id", id, "error", err)
	}
	return nil
}
