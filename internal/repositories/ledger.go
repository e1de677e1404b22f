package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"rosepay/internal/models"
)

func (s *store) CreateWallet(w *models.Wallet) error {
	if err := s.db.Create(w).Error; err != nil {
		return fmt.Errorf("failed to create wallet: %w", err)
	}
	return nil
}

func (s *store) GetWallet(id uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := s.db.First(&wallet, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

func (s *store) GetWalletOwned(id, userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&wallet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

func (s *store) GetWalletForUpdate(id uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := s.forUpdate().First(&wallet, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to lock wallet: %w", err)
	}
	return &wallet, nil
}

func (s *store) GetPrimaryWallet(userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	err := s.db.Where("user_id = ?", userID).Order("id ASC").First(&wallet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get primary wallet: %w", err)
	}
	return &wallet, nil
}

func (s *store) ListWallets(userID uint) ([]models.Wallet, error) {
	var wallets []models.Wallet
	if err := s.db.Where("user_id = ?", userID).Order("id ASC").Find(&wallets).Error; err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	return wallets, nil
}

func (s *store) SaveWallet(w *models.Wallet) error {
	if err := s.db.Save(w).Error; err != nil {
		return fmt.Errorf("failed to save wallet: %w", err)
	}
	return nil
}

func (s *store) CreateTransaction(t *models.Transaction) error {
	return s.db.Create(t).Error
}

func (s *store) GetTransaction(id, userID uint) (*models.Transaction, error) {
	var txn models.Transaction
	err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&txn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &txn, nil
}

func (s *store) GetTransactionByGatewayPaymentID(paymentID string) (*models.Transaction, error) {
	var txn models.Transaction
	err := s.db.Where("gateway_payment_id = ?", paymentID).First(&txn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &txn, nil
}

func (s *store) ListTransactions(userID, walletID uint, limit, offset int) ([]models.Transaction, error) {
	q := s.db.Where("user_id = ?", userID)
	if walletID != 0 {
		q = q.Where("wallet_id = ? OR recipient_wallet_id = ?", walletID, walletID)
	}
	var txns []models.Transaction
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&txns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txns, nil
}

func (s *store) CompletedAmountSince(userID, walletID uint, since time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.db.Model(&models.Transaction{}).
		Where("user_id = ? AND wallet_id = ? AND status = ? AND created_at >= ?",
			userID, walletID, models.TransactionStatusCompleted, since).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum transactions: %w", err)
	}
	return total, nil
}

func (s *store) SpentAmountBetween(userID uint, walletID *uint, types []string, start, end time.Time) (decimal.Decimal, error) {
	q := s.db.Model(&models.Transaction{}).
		Where("user_id = ? AND status = ? AND created_at >= ? AND created_at < ?",
			userID, models.TransactionStatusCompleted, start, end).
		Where("type IN ?", types)
	if walletID != nil {
		q = q.Where("wallet_id = ?", *walletID)
	}
	var total decimal.Decimal
	if err := q.Select("COALESCE(SUM(amount), 0)").Scan(&total).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum spending: %w", err)
	}
	return total, nil
}

func (s *store) CountCompletedInbound(walletID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Transaction{}).
		Where("recipient_wallet_id = ? AND status = ?", walletID, models.TransactionStatusCompleted).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count inbound transactions: %w", err)
	}
	return count, nil
}

func (s *store) SumAmountByType(userID uint, txType string, since time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.db.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ? AND status = ? AND created_at >= ?",
			userID, txType, models.TransactionStatusCompleted, since).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum by type: %w", err)
	}
	return total, nil
}
