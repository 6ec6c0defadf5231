package transfer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"

	apperrors "introspect/internal/errors"
	"introspect/internal/models"
	"introspect/internal/repositories"

	"github.com/google/uuid"
)

// service implements the transfer Service interface.
type service struct {
	newReference func() string
}

// NewService creates a new transfer service instance.
func NewService() Service {
	return &service{
		newReference: func() string { return uuid.NewString() },
	}
}

// Transfer debits the sender's associated account and credits the
// recipient's, creating either account when missing.
func (s *service) Transfer(ctx context.Context, ledger Ledger, req Request) (*models.TransferRecord, error) {
	if err := validateRequest(req); err != nil {
		return nil, failed(err)
	}

	mint, err := ledger.GetMint(ctx, req.Mint)
	if err != nil {
		if errors.Is(err, repositories.ErrMintNotFound) {
			return nil, failed(fmt.Errorf("%w: %s", ErrMintNotFound, req.Mint))
		}
		return nil, failed(err)
	}
	if mint.Decimals != req.Decimals {
		return nil, failed(fmt.Errorf("%w: got %d, mint has %d", ErrDecimalsMismatch, req.Decimals, mint.Decimals))
	}

	from, to, err := lockAccounts(ctx, ledger, req.Sender, req.Recipient, req.Mint)
	if err != nil {
		return nil, failed(err)
	}

	if from.Amount < req.Amount {
		return nil, failed(fmt.Errorf("%w: balance %d, amount %d", ErrInsufficientFunds, from.Amount, req.Amount))
	}

	// Sending to oneself only checks the balance.
	if from.ID != to.ID {
		if to.Amount > math.MaxUint64-req.Amount {
			return nil, failed(ErrBalanceOverflow)
		}
		from.Amount -= req.Amount
		to.Amount += req.Amount
		if err := ledger.UpdateTokenAccount(ctx, from); err != nil {
			return nil, failed(err)
		}
		if err := ledger.UpdateTokenAccount(ctx, to); err != nil {
			return nil, failed(err)
		}
	}

	record := &models.TransferRecord{
		Reference: s.newReference(),
		Sender:    req.Sender,
		Recipient: req.Recipient,
		Mint:      req.Mint,
		Amount:    req.Amount,
		Decimals:  req.Decimals,
		Status:    models.TransferStatusCompleted,
	}
	if err := ledger.CreateTransferRecord(ctx, record); err != nil {
		return nil, failed(err)
	}
	return record, nil
}

// lockAccounts locks both accounts in ascending owner order, so opposing
// transfers between the same pair cannot deadlock.
func lockAccounts(ctx context.Context, ledger Ledger, sender, recipient, mint models.Pubkey) (from, to *models.TokenAccount, err error) {
	first, second := sender, recipient
	swapped := bytes.Compare(first[:], second[:]) > 0
	if swapped {
		first, second = second, first
	}

	a, err := ledger.GetOrCreateTokenAccount(ctx, first, mint)
	if err != nil {
		return nil, nil, err
	}
	b, err := ledger.GetOrCreateTokenAccount(ctx, second, mint)
	if err != nil {
		return nil, nil, err
	}

	if swapped {
		return b, a, nil
	}
	return a, b, nil
}

func validateRequest(req Request) error {
	if req.Amount == 0 {
		return ErrInvalidAmount
	}
	if req.Sender.IsZero() || req.Recipient.IsZero() || req.Mint.IsZero() {
		return ErrMissingParticipant
	}
	return nil
}

func failed(err error) error {
	return fmt.Errorf("%w: %w", apperrors.ErrTransferFailed, err)
}
