// Package auth handles registration and login. Registering a user also
// opens their primary wallet in the same database transaction.
package auth

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"rosepay/internal/config"
	"rosepay/internal/models"
	"rosepay/internal/repositories"
	"rosepay/internal/utils"
	"rosepay/internal/validation"
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserDisabled       = errors.New("user account is disabled")
)

const tokenTTL = 24 * time.Hour

// AuthResult carries the signed token and the authenticated user.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type Service interface {
	Register(email, password, fullName string) (*AuthResult, error)
	Login(email, password string) (*AuthResult, error)
	GetUser(id uint) (*models.User, error)
}

type service struct {
	store  repositories.Store
	secret string
	log    *zap.SugaredLogger
}

func NewService(store repositories.Store, log *zap.SugaredLogger) Service {
	if store == nil {
		panic("store is required")
	}
	if log == nil {
		panic("logger is required")
	}
	return &service{
		store:  store,
		secret: config.GetEnv("JWT_SECRET", ""),
		log:    log,
	}
}

func (s *service) Register(email, password, fullName string) (*AuthResult, error) {
	if err := validation.Email(email); err != nil {
		return nil, err
	}
	if err := validation.Password(password); err != nil {
		return nil, err
	}
	if _, err := s.store.GetUserByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		FullName: fullName,
		Status:   "active",
	}
	err = s.store.ExecuteInTransaction(func(st repositories.Store) error {
		if err := st.CreateUser(user); err != nil {
			return err
		}
		return st.CreateWallet(&models.Wallet{
			UserID:   user.ID,
			Balance:  decimal.Zero,
			Currency: "USD",
			Status:   models.WalletStatusActive,
		})
	})
	if err != nil {
		return nil, err
	}
	s.log.Infow("user registered", "user_id", user.ID)
	return s.issueToken(user)
}

func (s *service) Login(email, password string) (*AuthResult, error) {
	user, err := s.store.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.Status != "active" {
		return nil, ErrUserDisabled
	}
	user.LastLoginAt = time.Now()
	if err := s.store.SaveUser(user); err != nil {
		s.log.Warnw("last login update failed", "user_id", user.ID, "error", err)
	}
	return s.issueToken(user)
}

func (s *service) GetUser(id uint) (*models.User, error) {
	return s.store.GetUserByID(id)
}

func (s *service) issueToken(user *models.User) (*AuthResult, error) {
	token, err := utils.GenerateToken(&models.UserClaims{
		UserID: user.ID,
		Email:  user.Email,
	}, s.secret, tokenTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}
