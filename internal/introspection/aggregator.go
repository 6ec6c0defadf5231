package introspection

import (
	"fmt"

	"introspect/internal/models"
)

// Aggregates are the running totals over the scanned prefix of a bundle.
type Aggregates struct {
	TotalOperations  int
	UniquePrograms   int
	RepeatedPrograms int

	SystemCalls       bool
	TokenOperations   bool
	ElevatedPrivilege bool
	LargeData         bool

	SystemCount        int
	TokenCount         int
	ComputeBudgetCount int
	CustomCount        int

	TotalDataBytes uint64

	// LastAccounts is the account count of the last scanned operation.
	// It is reassigned on every step, not summed.
	LastAccounts int
}

// Aggregate folds the classifier over operations [0, triggering] of src.
func Aggregate(programs Programs, src Source, triggering uint32) (Aggregates, error) {
	var agg Aggregates
	seen := make(map[models.Pubkey]struct{}, int(triggering)+1)

	for i := uint32(0); ; i++ {
		op, err := src.Operation(i)
		if err != nil {
			return Aggregates{}, fmt.Errorf("load operation %d: %w", i, err)
		}
		agg.add(programs.Classify(op), op, seen)
		if i == triggering {
			break
		}
	}

	agg.UniquePrograms = len(seen)
	return agg, nil
}

func (a *Aggregates) add(c Classification, op OperationDescriptor, seen map[models.Pubkey]struct{}) {
	a.TotalOperations++

	if _, ok := seen[op.ProgramID]; ok {
		a.RepeatedPrograms++
	} else {
		seen[op.ProgramID] = struct{}{}
	}

	a.SystemCalls = a.SystemCalls || c.SystemCall
	a.TokenOperations = a.TokenOperations || c.TokenOperation
	a.ElevatedPrivilege = a.ElevatedPrivilege || c.ElevatedPrivilege
	a.LargeData = a.LargeData || c.LargeData

	switch c.Category {
	case CategorySystem:
		a.SystemCount++
	case CategoryToken:
		a.TokenCount++
	case CategoryComputeBudget:
		a.ComputeBudgetCount++
	default:
		a.CustomCount++
	}

	a.TotalDataBytes += uint64(len(op.Data))
	a.LastAccounts = len(op.Accounts)
}

// SecurityAnalysis builds the security record from the aggregates.
func (a Aggregates) SecurityAnalysis() models.SecurityAnalysis {
	return models.SecurityAnalysis{
		SuspiciousScore:             SuspicionScore(a),
		HasSystemCalls:              a.SystemCalls,
		HasTokenOperations:          a.TokenOperations,
		HasElevatedPrivilegeAccount: a.ElevatedPrivilege,
		HasLargeData:                a.LargeData,
		RepeatedPrograms:            saturateU8(uint64(a.RepeatedPrograms)),
		TotalAccountsLast:           saturateU16(uint64(a.LastAccounts)),
		UniquePrograms:              saturateU8(uint64(a.UniquePrograms)),
	}
}

// Result builds the introspection record from the aggregates.
func (a Aggregates) Result() models.IntrospectionResult {
	return models.IntrospectionResult{
		TotalOperations:       saturateU8(uint64(a.TotalOperations)),
		ComputeBudgetCount:    saturateU8(uint64(a.ComputeBudgetCount)),
		TokenCount:            saturateU8(uint64(a.TokenCount)),
		SystemCount:           saturateU8(uint64(a.SystemCount)),
		CustomCount:           saturateU8(uint64(a.CustomCount)),
		TotalAccountsTouched:  saturateU16(uint64(a.LastAccounts)),
		TotalDataBytes:        saturateU32(a.TotalDataBytes),
		TransactionComplexity: ComplexityScore(a),
	}
}
