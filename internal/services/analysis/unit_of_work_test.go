package analysis

import (
	"context"
	"regexp"
	"testing"
	"time"

	apperrors "introspect/internal/errors"
	"introspect/internal/introspection"
	"introspect/internal/repositories"
	"introspect/internal/services/transfer"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// flakySource serves a bundle but fails every Operation call after the
// first okCalls.
type flakySource struct {
	*introspection.StaticBundle
	okCalls int
	calls   int
}

func (f *flakySource) Operation(i uint32) (introspection.OperationDescriptor, error) {
	f.calls++
	if f.calls > f.okCalls {
		return introspection.OperationDescriptor{}, apperrors.ErrSourceUnavailable
	}
	return f.StaticBundle.Operation(i)
}

func newSQLService(t *testing.T) (Service, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	svc := NewService(
		repositories.NewIntrospectionRepository(db),
		introspection.NewEngine(self, introspection.DefaultPrograms()),
		transfer.NewService(),
		nil, nil, nil,
	)
	return svc, mock
}

func expectTransfer(mock sqlmock.Sqlmock) {
	now := time.Now()
	accountCols := []string{"id", "owner", "mint", "amount", "created_at", "updated_at"}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "mints" WHERE address = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "address", "decimals", "supply", "created_at", "updated_at"}).
			AddRow(1, mintKey.String(), 6, 1000, now, now))
	mock.ExpectQuery(`SELECT \* FROM "token_accounts" WHERE .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(accountCols).AddRow(1, caller.String(), mintKey.String(), 100, now, now))
	mock.ExpectQuery(`SELECT \* FROM "token_accounts" WHERE .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(accountCols).AddRow(2, recipient.String(), mintKey.String(), 0, now, now))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "token_accounts" SET "amount"=$1`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "token_accounts" SET "amount"=$1`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "transfer_records"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
}

func TestUnitOfWork_CommitsTransferAndRecords(t *testing.T) {
	svc, mock := newSQLService(t)

	mock.ExpectBegin()
	expectTransfer(mock)
	for _, table := range []string{"operation_summaries", "security_analyses", "introspection_results"} {
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "`+table+`"`) + `.*ON CONFLICT \("caller"\) DO UPDATE`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	}
	mock.ExpectCommit()

	out, err := svc.Process(context.Background(), newRequest(riskyBundle(), 2))
	require.NoError(t, err)
	assert.Equal(t, uint64(25), out.Transfer.Amount)
	assert.Equal(t, uint8(5), out.Records.Analysis.SuspiciousScore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitOfWork_SourceFailureRollsBackTransfer(t *testing.T) {
	svc, mock := newSQLService(t)

	mock.ExpectBegin()
	expectTransfer(mock)
	mock.ExpectRollback()

	ops := []introspection.OperationDescriptor{{ProgramID: self}}
	req := newRequest(ops, 0)
	req.Bundle = &flakySource{StaticBundle: introspection.NewStaticBundle(ops, 0), okCalls: 1}

	_, err := svc.Process(context.Background(), req)
	assert.ErrorIs(t, err, apperrors.ErrSourceUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitOfWork_MisroutedNeverTransfers(t *testing.T) {
	svc, mock := newSQLService(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	ops := []introspection.OperationDescriptor{{ProgramID: key(77)}}
	_, err := svc.Process(context.Background(), newRequest(ops, 0))
	assert.ErrorIs(t, err, apperrors.ErrMisroutedInvocation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitOfWork_InsufficientFundsRollsBack(t *testing.T) {
	svc, mock := newSQLService(t)
	now := time.Now()
	accountCols := []string{"id", "owner", "mint", "amount", "created_at", "updated_at"}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "mints" WHERE address = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "address", "decimals", "supply", "created_at", "updated_at"}).
			AddRow(1, mintKey.String(), 6, 1000, now, now))
	mock.ExpectQuery(`SELECT \* FROM "token_accounts" WHERE .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(accountCols).AddRow(1, caller.String(), mintKey.String(), 10, now, now))
	mock.ExpectQuery(`SELECT \* FROM "token_accounts" WHERE .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(accountCols).AddRow(2, recipient.String(), mintKey.String(), 0, now, now))
	mock.ExpectRollback()

	_, err := svc.Process(context.Background(), newRequest(riskyBundle(), 2))
	assert.ErrorIs(t, err, apperrors.ErrTransferFailed)
	assert.ErrorIs(t, err, transfer.ErrInsufficientFunds)
	assert.NoError(t, mock.ExpectationsWereMet())
}
