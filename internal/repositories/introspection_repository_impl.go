package repositories

import (
	"context"
	"errors"
	"fmt"

	"introspect/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type introspectionRepository struct {
	db *gorm.DB
}

func NewIntrospectionRepository(db *gorm.DB) IntrospectionRepository {
	return &introspectionRepository{
		db: db,
	}
}

// SaveRecords creates or fully overwrites the caller's three records.
func (r *introspectionRepository) SaveRecords(ctx context.Context, records *models.Records) error {
	db := r.db.WithContext(ctx)
	upsert := clause.OnConflict{
		Columns:   []clause.Column{{Name: "caller"}},
		UpdateAll: true,
	}

	if err := db.Clauses(upsert).Create(&records.Summary).Error; err != nil {
		return fmt.Errorf("failed to save operation summary: %w", err)
	}
	if err := db.Clauses(upsert).Create(&records.Analysis).Error; err != nil {
		return fmt.Errorf("failed to save security analysis: %w", err)
	}
	if err := db.Clauses(upsert).Create(&records.Result).Error; err != nil {
		return fmt.Errorf("failed to save introspection result: %w", err)
	}
	return nil
}

func (r *introspectionRepository) GetRecords(ctx context.Context, caller models.Pubkey) (*models.Records, error) {
	var records models.Records
	db := r.db.WithContext(ctx)

	if err := db.Where("caller = ?", caller).First(&records.Summary).Error; err != nil {
		return nil, notFound(err, "operation summary")
	}
	if err := db.Where("caller = ?", caller).First(&records.Analysis).Error; err != nil {
		return nil, notFound(err, "security analysis")
	}
	if err := db.Where("caller = ?", caller).First(&records.Result).Error; err != nil {
		return nil, notFound(err, "introspection result")
	}
	return &records, nil
}

func (r *introspectionRepository) GetMint(ctx context.Context, address models.Pubkey) (*models.Mint, error) {
	var mint models.Mint
	if err := r.db.WithContext(ctx).Where("address = ?", address).First(&mint).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMintNotFound
		}
		return nil, fmt.Errorf("failed to get mint: %w", err)
	}
	return &mint, nil
}

func (r *introspectionRepository) CreateMint(ctx context.Context, mint *models.Mint) error {
	if err := r.db.WithContext(ctx).Create(mint).Error; err != nil {
		return fmt.Errorf("failed to create mint: %w", err)
	}
	return nil
}

// GetOrCreateTokenAccount returns the owner's account for mint, locked for
// update, creating an empty one when none exists.
func (r *introspectionRepository) GetOrCreateTokenAccount(ctx context.Context, owner, mint models.Pubkey) (*models.TokenAccount, error) {
	var account models.TokenAccount
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("owner = ? AND mint = ?", owner, mint).
		First(&account).Error
	if err == nil {
		return &account, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get token account: %w", err)
	}

	account = models.TokenAccount{Owner: owner, Mint: mint}
	if err := r.db.WithContext(ctx).Create(&account).Error; err != nil {
		return nil, fmt.Errorf("failed to create token account: %w", err)
	}
	return &account, nil
}

func (r *introspectionRepository) UpdateTokenAccount(ctx context.Context, account *models.TokenAccount) error {
	result := r.db.WithContext(ctx).Model(account).Update("amount", account.Amount)
	if result.Error != nil {
		return fmt.Errorf("failed to update token account: %w", result.Error)
	}
	return nil
}

func (r *introspectionRepository) CreateTransferRecord(ctx context.Context, record *models.TransferRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create transfer record: %w", err)
	}
	return nil
}

func (r *introspectionRepository) ExecuteInTransaction(ctx context.Context, fn func(IntrospectionRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &introspectionRepository{db: tx}
		return fn(txRepo)
	})
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRecordNotFound
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}
