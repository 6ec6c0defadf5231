package introspection

import (
	"math"
	"math/rand"
	"testing"

	apperrors "introspect/internal/errors"
	"introspect/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_SingleOperation(t *testing.T) {
	src := NewStaticBundle([]OperationDescriptor{
		{ProgramID: key(5), Accounts: accounts(3, func(int) AccountRef { return AccountRef{} }), Data: []byte{1, 2}},
	}, 0)

	agg, err := Aggregate(DefaultPrograms(), src, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, agg.TotalOperations)
	assert.Equal(t, 1, agg.UniquePrograms)
	assert.Equal(t, 0, agg.RepeatedPrograms)
	assert.Equal(t, 1, agg.CustomCount)
	assert.Equal(t, uint64(2), agg.TotalDataBytes)
	assert.Equal(t, 3, agg.LastAccounts)
}

func TestAggregate_StopsAtTriggeringIndex(t *testing.T) {
	p := DefaultPrograms()
	src := NewStaticBundle([]OperationDescriptor{
		{ProgramID: p.ComputeBudget, Data: make([]byte, 10)},
		{ProgramID: key(5), Data: make([]byte, 20)},
		{ProgramID: p.Token, Data: make([]byte, 400)},
	}, 1)

	agg, err := Aggregate(p, src, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, agg.TotalOperations)
	assert.Equal(t, 1, agg.ComputeBudgetCount)
	assert.Equal(t, 1, agg.CustomCount)
	assert.Equal(t, 0, agg.TokenCount)
	assert.False(t, agg.TokenOperations)
	assert.False(t, agg.LargeData)
	assert.Equal(t, uint64(30), agg.TotalDataBytes)
}

func TestAggregate_LastAccountsIsNotASum(t *testing.T) {
	src := NewStaticBundle([]OperationDescriptor{
		{ProgramID: key(1), Accounts: accounts(9, func(int) AccountRef { return AccountRef{} })},
		{ProgramID: key(2), Accounts: accounts(4, func(int) AccountRef { return AccountRef{} })},
		{ProgramID: key(3), Accounts: accounts(2, func(int) AccountRef { return AccountRef{} })},
	}, 2)

	agg, err := Aggregate(DefaultPrograms(), src, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, agg.LastAccounts)
	assert.Equal(t, uint16(2), agg.SecurityAnalysis().TotalAccountsLast)
	assert.Equal(t, uint16(2), agg.Result().TotalAccountsTouched)
}

func TestAggregate_SourceError(t *testing.T) {
	src := NewStaticBundle([]OperationDescriptor{{ProgramID: key(1)}}, 0)

	_, err := Aggregate(DefaultPrograms(), src, 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrIndexOutOfRange)
}

func TestAggregate_SaturatesCounters(t *testing.T) {
	ops := make([]OperationDescriptor, 300)
	for i := range ops {
		ops[i] = OperationDescriptor{ProgramID: key(8), Data: make([]byte, 300)}
	}
	src := NewStaticBundle(ops, 299)

	agg, err := Aggregate(DefaultPrograms(), src, 299)
	require.NoError(t, err)

	res := agg.Result()
	assert.Equal(t, uint8(math.MaxUint8), res.TotalOperations)
	assert.Equal(t, uint8(math.MaxUint8), res.CustomCount)
	assert.Equal(t, uint32(90_000), res.TotalDataBytes)
	assert.Equal(t, uint8(math.MaxUint8), res.TransactionComplexity)

	sec := agg.SecurityAnalysis()
	assert.Equal(t, uint8(math.MaxUint8), sec.RepeatedPrograms)
	assert.Equal(t, uint8(1), sec.UniquePrograms)
	assert.Equal(t, uint8(math.MaxUint8), sec.SuspiciousScore)
}

func randomBundle(r *rand.Rand, p Programs) []OperationDescriptor {
	pool := []models.Pubkey{p.System, p.Token, p.ComputeBudget, key(1), key(2), key(3)}
	ops := make([]OperationDescriptor, 1+r.Intn(40))
	for i := range ops {
		ops[i] = OperationDescriptor{
			ProgramID: pool[r.Intn(len(pool))],
			Accounts: accounts(r.Intn(6), func(int) AccountRef {
				return AccountRef{Pubkey: key(byte(r.Intn(5))), IsSigner: r.Intn(4) == 0, IsWritable: r.Intn(3) == 0}
			}),
			Data: make([]byte, r.Intn(260)),
		}
	}
	return ops
}

func TestAggregate_Properties(t *testing.T) {
	p := DefaultPrograms()
	r := rand.New(rand.NewSource(1))

	for n := 0; n < 200; n++ {
		ops := randomBundle(r, p)
		trig := uint32(r.Intn(len(ops)))
		agg, err := Aggregate(p, NewStaticBundle(ops, trig), trig)
		require.NoError(t, err)

		prefix := ops[:trig+1]
		distinct := map[models.Pubkey]struct{}{}
		repeats := 0
		var bytes uint64
		for _, op := range prefix {
			if _, ok := distinct[op.ProgramID]; ok {
				repeats++
			}
			distinct[op.ProgramID] = struct{}{}
			bytes += uint64(len(op.Data))
		}

		assert.Equal(t, len(distinct), agg.UniquePrograms)
		assert.Equal(t, repeats, agg.RepeatedPrograms)
		assert.Equal(t, len(prefix), agg.TotalOperations)
		assert.Equal(t, agg.TotalOperations,
			agg.SystemCount+agg.TokenCount+agg.ComputeBudgetCount+agg.CustomCount)
		assert.Equal(t, bytes, agg.TotalDataBytes)
		assert.Equal(t, len(prefix[len(prefix)-1].Accounts), agg.LastAccounts)
	}
}
