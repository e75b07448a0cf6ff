package domain

import "errors" // Sentinel errors

// ErrWalletNotFound is returned when no wallet exists for the requested id
var ErrWalletNotFound = errors.New("wallet not found")

// Wallet Model
type Wallet struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`      // Primary key, assigned by the store
	UserID     int64  `gorm:"not null;default:0;index" json:"user_id"` // Owning user, no referential check
	Address    string `gorm:"size:42;not null" json:"address"`         // Wallet address
	PrivateKey string `gorm:"size:64;not null" json:"private_key"`     // Opaque private key
	PublicKey  string `gorm:"size:64;not null" json:"public_key"`      // Opaque public key
}

// TableName overrides the table name used by GORM
func (Wallet) TableName() string {
	return "wallet"
}

// WalletFilter narrows a wallet listing
type WalletFilter struct {
	UserID *int64 // Match wallets owned by this user; nil lists every wallet
}

// Envelope is the status/message body returned instead of a resource
type Envelope struct {
	Status  string `json:"status"`  // Operation status
	Message string `json:"message"` // Human readable result
}
