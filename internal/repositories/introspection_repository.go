package repositories

import (
	"context"
	"errors"

	"introspect/internal/models"
)

var (
	ErrMintNotFound   = errors.New("mint not found")
	ErrRecordNotFound = errors.New("record not found")
)

// IntrospectionRepository persists introspection records and the token
// ledger they are produced alongside.
type IntrospectionRepository interface {
	// Introspection records, one row of each kind per caller
	SaveRecords(ctx context.Context, records *models.Records) error
	GetRecords(ctx context.Context, caller models.Pubkey) (*models.Records, error)

	// Token ledger
	GetMint(ctx context.Context, address models.Pubkey) (*models.Mint, error)
	CreateMint(ctx context.Context, mint *models.Mint) error
	GetOrCreateTokenAccount(ctx context.Context, owner, mint models.Pubkey) (*models.TokenAccount, error)
	UpdateTokenAccount(ctx context.Context, account *models.TokenAccount) error
	CreateTransferRecord(ctx context.Context, record *models.TransferRecord) error

	// ExecuteInTransaction runs fn against a repository bound to one
	// database transaction. Any error returned by fn rolls back every write.
	ExecuteInTransaction(ctx context.Context, fn func(IntrospectionRepository) error) error
}
