// Package service holds the wallet access rules: payload validation,
// owner filtering and response shaping on top of a wallet store.
package service

import (
	"context"                         // Request scoped calls
	"strconv"                         // Cache keys
	"time"                            // Cache TTL
	"wallet_registry/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging library
)

// CreatedMessage is returned in the envelope of a successful create
const CreatedMessage = "Wallet saved successfully."

// Store is the persistence the service needs
type Store interface {
	Create(ctx context.Context, w *domain.Wallet) error
	Get(ctx context.Context, id uint) (*domain.Wallet, error)
	List(ctx context.Context, filter domain.WalletFilter) ([]domain.Wallet, error)
	Update(ctx context.Context, id uint, in domain.WalletInput) (*domain.Wallet, error)
	Delete(ctx context.Context, id uint) error
}

// Cache is an optional read-through cache for single wallets
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// WalletService implements the wallet resource operations
type WalletService struct {
	store     Store
	cache     Cache // nil disables caching
	cacheTTL  time.Duration
	validator *Validator
}

// Option configures a WalletService
type Option func(*WalletService)

// WithCache enables read-through caching of single wallets
func WithCache(cache Cache, ttl time.Duration) Option {
	return func(s *WalletService) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

// NewWalletService returns a service backed by store
func NewWalletService(store Store, opts ...Option) *WalletService {
	s := &WalletService{
		store:     store,
		cacheTTL:  60 * time.Second,
		validator: NewValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates and stores a new wallet. The response is an envelope,
// never the created record.
func (s *WalletService) Create(ctx context.Context, in domain.WalletInput) (domain.Envelope, error) {
	if err := s.validator.Check(&in, ModeCreate); err != nil {
		return domain.Envelope{}, err
	}
	var w domain.Wallet
	in.Apply(&w)
	if err := s.store.Create(ctx, &w); err != nil {
		return domain.Envelope{}, err
	}
	logrus.WithFields(logrus.Fields{
		"wallet_id": w.ID,                            // Assigned wallet ID
		"user_id":   w.UserID,                        // Owning user
		"type":      "create_wallet",                 // Operation type
		"timestamp": time.Now().Format(time.RFC3339), // Current timestamp
	}).Info("Wallet created")
	return domain.Envelope{Status: "success", Message: CreatedMessage}, nil
}

// Get returns a single wallet
func (s *WalletService) Get(ctx context.Context, id uint) (*domain.Wallet, error) {
	key := cacheKey(id)
	if s.cache != nil {
		var cached domain.Wallet
		found, err := s.cache.Get(ctx, key, &cached)
		if err == nil && found {
			return &cached, nil
		}
		if err != nil {
			logrus.WithFields(logrus.Fields{"wallet_id": id, "error": err.Error()}).Warn("Wallet cache read failed")
		}
	}
	w, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, w, s.cacheTTL); err != nil {
			logrus.WithFields(logrus.Fields{"wallet_id": id, "error": err.Error()}).Warn("Wallet cache write failed")
		}
	}
	return w, nil
}

// List returns every wallet, or only those of filter.UserID, in insertion order
func (s *WalletService) List(ctx context.Context, filter domain.WalletFilter) ([]domain.Wallet, error) {
	wallets, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if wallets == nil {
		wallets = []domain.Wallet{}
	}
	return wallets, nil
}

// Replace overwrites every mutable field of a wallet
func (s *WalletService) Replace(ctx context.Context, id uint, in domain.WalletInput) (*domain.Wallet, error) {
	return s.update(ctx, id, in, ModeFull)
}

// Patch overwrites only the supplied fields of a wallet
func (s *WalletService) Patch(ctx context.Context, id uint, in domain.WalletInput) (*domain.Wallet, error) {
	return s.update(ctx, id, in, ModePartial)
}

func (s *WalletService) update(ctx context.Context, id uint, in domain.WalletInput, mode Mode) (*domain.Wallet, error) {
	if err := s.validator.Check(&in, mode); err != nil {
		return nil, err
	}
	w, err := s.store.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	logrus.WithFields(logrus.Fields{
		"wallet_id": id,
		"user_id":   w.UserID,
		"type":      "update_wallet",
		"partial":   mode == ModePartial,
		"timestamp": time.Now().Format(time.RFC3339),
	}).Info("Wallet updated")
	return w, nil
}

// Delete removes a wallet
func (s *WalletService) Delete(ctx context.Context, id uint) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	logrus.WithFields(logrus.Fields{
		"wallet_id": id,
		"type":      "delete_wallet",
		"timestamp": time.Now().Format(time.RFC3339),
	}).Info("Wallet deleted")
	return nil
}

func (s *WalletService) invalidate(ctx context.Context, id uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cacheKey(id)); err != nil {
		logrus.WithFields(logrus.Fields{"wallet_id": id, "error": err.Error()}).Warn("Wallet cache invalidation failed")
	}
}

func cacheKey(id uint) string {
	return "wallet:id:" + strconv.FormatUint(uint64(id), 10)
}
