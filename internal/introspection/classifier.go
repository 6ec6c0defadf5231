package introspection

import "introspect/internal/models"

// Well-known program identifiers.
const (
	SystemProgramID        = "11111111111111111111111111111111"
	TokenProgramID         = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	ComputeBudgetProgramID = "ComputeBudget111111111111111111111111111111"
)

// LargeDataThreshold is the payload size above which an operation counts as large.
const LargeDataThreshold = 200

var defaultPrograms = Programs{
	System:        models.MustPubkeyFromBase58(SystemProgramID),
	Token:         models.MustPubkeyFromBase58(TokenProgramID),
	ComputeBudget: models.MustPubkeyFromBase58(ComputeBudgetProgramID),
}

// Category is the mutually exclusive kind of an operation.
type Category int

const (
	CategoryCustom Category = iota
	CategorySystem
	CategoryToken
	CategoryComputeBudget
)

func (c Category) String() string {
	switch c {
	case CategorySystem:
		return "system"
	case CategoryToken:
		return "token"
	case CategoryComputeBudget:
		return "compute_budget"
	default:
		return "custom"
	}
}

// Programs holds the identifiers the classifier compares against.
type Programs struct {
	System        models.Pubkey
	Token         models.Pubkey
	ComputeBudget models.Pubkey
}

// DefaultPrograms returns the well-known identifiers.
func DefaultPrograms() Programs {
	return defaultPrograms
}

// Classification is the classifier output for one operation.
type Classification struct {
	Category          Category
	SystemCall        bool
	TokenOperation    bool
	ElevatedPrivilege bool
	LargeData         bool
}

// Classify maps one operation to its category and feature flags.
func (p Programs) Classify(op OperationDescriptor) Classification {
	c := Classification{
		SystemCall:        op.ProgramID == p.System,
		TokenOperation:    op.ProgramID == p.Token,
		ElevatedPrivilege: hasElevatedAccount(op.Accounts),
		LargeData:         len(op.Data) > LargeDataThreshold,
	}

	switch op.ProgramID {
	case p.System:
		c.Category = CategorySystem
	case p.Token:
		c.Category = CategoryToken
	case p.ComputeBudget:
		c.Category = CategoryComputeBudget
	default:
		c.Category = CategoryCustom
	}
	return c
}

// hasElevatedAccount reports whether any account is both signer and writable.
func hasElevatedAccount(accounts []AccountRef) bool {
	for _, a := range accounts {
		if a.IsSigner && a.IsWritable {
			return true
		}
	}
	return false
}

func hasSigner(accounts []AccountRef) bool {
	for _, a := range accounts {
		if a.IsSigner {
			return true
		}
	}
	return false
}

func hasWritable(accounts []AccountRef) bool {
	for _, a := range accounts {
		if a.IsWritable {
			return true
		}
	}
	return false
}
