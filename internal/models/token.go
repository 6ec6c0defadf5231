package models

import "time"

// Transfer statuses
const (
	TransferStatusCompleted = "completed"
)

// Mint describes a fungible asset and its decimal precision.
type Mint struct {
	ID        uint   `gorm:"primarykey"`
	Address   Pubkey `gorm:"type:varchar(44);uniqueIndex;not null"`
	Decimals  uint8  `gorm:"not null"`
	Supply    uint64 `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TokenAccount is the associated balance account of an owner for one mint.
type TokenAccount struct {
	ID        uint   `gorm:"primarykey"`
	Owner     Pubkey `gorm:"type:varchar(44);not null;uniqueIndex:idx_owner_mint"`
	Mint      Pubkey `gorm:"type:varchar(44);not null;uniqueIndex:idx_owner_mint"`
	Amount    uint64 `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TransferRecord is the ledger entry written for every completed transfer.
type TransferRecord struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	Reference string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"reference"`
	Sender    Pubkey    `gorm:"type:varchar(44);not null;index" json:"sender"`
	Recipient Pubkey    `gorm:"type:varchar(44);not null;index" json:"recipient"`
	Mint      Pubkey    `gorm:"type:varchar(44);not null" json:"mint"`
	Amount    uint64    `gorm:"not null" json:"amount"`
	Decimals  uint8     `gorm:"not null" json:"decimals"`
	Status    string    `gorm:"not null;default:'completed'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
