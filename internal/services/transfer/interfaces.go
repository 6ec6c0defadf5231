package transfer

import (
	"context"

	"introspect/internal/models"
)

// Ledger is the token storage a transfer runs against. It is expected to be
// bound to the caller's database transaction.
type Ledger interface {
	GetMint(ctx context.Context, address models.Pubkey) (*models.Mint, error)
	GetOrCreateTokenAccount(ctx context.Context, owner, mint models.Pubkey) (*models.TokenAccount, error)
	UpdateTokenAccount(ctx context.Context, account *models.TokenAccount) error
	CreateTransferRecord(ctx context.Context, record *models.TransferRecord) error
}

// Request describes a checked transfer of Amount base units of Mint.
type Request struct {
	Sender    models.Pubkey
	Recipient models.Pubkey
	Mint      models.Pubkey
	Amount    uint64
	Decimals  uint8
}

// Service moves token balances between associated accounts.
type Service interface {
	Transfer(ctx context.Context, ledger Ledger, req Request) (*models.TransferRecord, error)
}
