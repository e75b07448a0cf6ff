package db

import (
	"context"                         // Request scoped database calls
	"errors"                          // Error inspection
	"fmt"                             // Error wrapping
	"wallet_registry/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// WalletStore persists wallets through GORM
type WalletStore struct {
	db *gorm.DB
}

// NewWalletStore returns a store backed by db
func NewWalletStore(db *gorm.DB) *WalletStore {
	return &WalletStore{db: db}
}

// Create inserts w and fills in its assigned id
func (s *WalletStore) Create(ctx context.Context, w *domain.Wallet) error {
	w.ID = 0 // Ids are always assigned by the database
	if err := s.db.WithContext(ctx).Create(w).Error; err != nil {
		return fmt.Errorf("create wallet: %w", err)
	}
	return nil
}

// Get loads a single wallet by id
func (s *WalletStore) Get(ctx context.Context, id uint) (*domain.Wallet, error) {
	return first(s.db.WithContext(ctx), id)
}

// List returns wallets in insertion order, optionally filtered by owner
func (s *WalletStore) List(ctx context.Context, filter domain.WalletFilter) ([]domain.Wallet, error) {
	query := s.db.WithContext(ctx).Model(&domain.Wallet{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID) // Filter by owning user
	}
	wallets := make([]domain.Wallet, 0)
	if err := query.Order("id asc").Find(&wallets).Error; err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	return wallets, nil
}

// Update writes the supplied fields of in to the wallet and returns the stored result
func (s *WalletStore) Update(ctx context.Context, id uint, in domain.WalletInput) (*domain.Wallet, error) {
	var updated *domain.Wallet
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := first(tx, id)
		if err != nil {
			return err // Return error to rollback
		}
		if cols := in.Columns(); len(cols) > 0 {
			if err := tx.Model(current).Updates(cols).Error; err != nil {
				return fmt.Errorf("update wallet %d: %w", id, err)
			}
		}
		updated, err = first(tx, id) // Read back what was committed
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the wallet with the given id
func (s *WalletStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&domain.Wallet{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete wallet %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrWalletNotFound
	}
	return nil
}

// Ping checks that the database answers
func (s *WalletStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func first(tx *gorm.DB, id uint) (*domain.Wallet, error) {
	var w domain.Wallet
	if err := tx.First(&w, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, fmt.Errorf("get wallet %d: %w", id, err)
	}
	return &w, nil
}
