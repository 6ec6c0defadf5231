package analysis

import (
	"context"

	"introspect/internal/introspection"
	"introspect/internal/models"
)

// RecordCache serves published records to readers.
type RecordCache interface {
	CacheRecords(ctx context.Context, records *models.Records) error
	GetRecords(ctx context.Context, caller models.Pubkey) (*models.Records, error)
	InvalidateRecords(ctx context.Context, caller models.Pubkey) error
}

// Request is one transfer-and-introspect call made as Caller.
type Request struct {
	Caller    models.Pubkey
	Recipient models.Pubkey
	Mint      models.Pubkey
	Amount    uint64
	Decimals  uint8
	Bundle    introspection.Source
}

// Outcome is what a successful Process call committed.
type Outcome struct {
	Records  *models.Records        `json:"records"`
	Transfer *models.TransferRecord `json:"transfer"`
}

// Service runs the transfer and the introspection pass as one unit of work.
type Service interface {
	// Process validates the bundle, transfers, inspects and overwrites the
	// caller's records. Any failure leaves no trace.
	Process(ctx context.Context, req Request) (*Outcome, error)

	// Preview inspects the bundle without transferring or writing.
	Preview(ctx context.Context, caller models.Pubkey, bundle introspection.Source) (*models.Records, error)

	// Records returns the caller's last committed records.
	Records(ctx context.Context, caller models.Pubkey) (*models.Records, error)
}
