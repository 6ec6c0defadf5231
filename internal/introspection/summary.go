package introspection

import "introspect/internal/models"

// BuildSummary snapshots the triggering operation. Only the first
// MaxSummaryAccounts account ids are kept; the flags look at every account.
func BuildSummary(op OperationDescriptor) models.OperationSummary {
	n := min(len(op.Accounts), models.MaxSummaryAccounts)
	accounts := make(models.PubkeyList, n)
	for i := 0; i < n; i++ {
		accounts[i] = op.Accounts[i].Pubkey
	}

	return models.OperationSummary{
		ProgramID:          op.ProgramID,
		Accounts:           accounts,
		AccountsCount:      saturateU8(uint64(len(op.Accounts))),
		DataLength:         uint64(len(op.Data)),
		IsSignerRequired:   hasSigner(op.Accounts),
		IsWritableRequired: hasWritable(op.Accounts),
	}
}
