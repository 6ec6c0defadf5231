package models

import "time"

// MaxSummaryAccounts bounds the account ids kept in an OperationSummary.
const MaxSummaryAccounts = 10

// OperationSummary is a bounded snapshot of the operation that triggered
// an introspection pass. One row per caller, overwritten on every call.
type OperationSummary struct {
	ID                 uint       `gorm:"primarykey" json:"-"`
	Caller             Pubkey     `gorm:"type:varchar(44);uniqueIndex;not null" json:"caller"`
	ProgramID          Pubkey     `gorm:"type:varchar(44);not null" json:"program_id"`
	Accounts           PubkeyList `gorm:"type:text[]" json:"accounts"`
	AccountsCount      uint8      `gorm:"not null;default:0" json:"accounts_count"`
	DataLength         uint64     `gorm:"not null;default:0" json:"data_length"`
	IsSignerRequired   bool       `gorm:"not null;default:false" json:"is_signer_required"`
	IsWritableRequired bool       `gorm:"not null;default:false" json:"is_writable_required"`
	CreatedAt          time.Time  `json:"-"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// SecurityAnalysis holds the risk flags and suspicion score of the scanned prefix.
type SecurityAnalysis struct {
	ID                          uint      `gorm:"primarykey" json:"-"`
	Caller                      Pubkey    `gorm:"type:varchar(44);uniqueIndex;not null" json:"caller"`
	SuspiciousScore             uint8     `gorm:"not null;default:0" json:"suspicious_score"`
	HasSystemCalls              bool      `gorm:"not null;default:false" json:"has_system_calls"`
	HasTokenOperations          bool      `gorm:"not null;default:false" json:"has_token_operations"`
	HasElevatedPrivilegeAccount bool      `gorm:"not null;default:false" json:"has_elevated_privilege_account"`
	HasLargeData                bool      `gorm:"not null;default:false" json:"has_large_data"`
	RepeatedPrograms            uint8     `gorm:"not null;default:0" json:"repeated_programs"`
	TotalAccountsLast           uint16    `gorm:"not null;default:0" json:"total_accounts_last"`
	UniquePrograms              uint8     `gorm:"not null;default:0" json:"unique_programs"`
	CreatedAt                   time.Time `json:"-"`
	UpdatedAt                   time.Time `json:"updated_at"`
}

// IntrospectionResult holds per-category counts and the complexity score.
type IntrospectionResult struct {
	ID                    uint      `gorm:"primarykey" json:"-"`
	Caller                Pubkey    `gorm:"type:varchar(44);uniqueIndex;not null" json:"caller"`
	TotalOperations       uint8     `gorm:"not null;default:0" json:"total_operations"`
	ComputeBudgetCount    uint8     `gorm:"not null;default:0" json:"compute_budget_count"`
	TokenCount            uint8     `gorm:"not null;default:0" json:"token_count"`
	SystemCount           uint8     `gorm:"not null;default:0" json:"system_count"`
	CustomCount           uint8     `gorm:"not null;default:0" json:"custom_count"`
	TotalAccountsTouched  uint16    `gorm:"not null;default:0" json:"total_accounts_touched"`
	TotalDataBytes        uint32    `gorm:"not null;default:0" json:"total_data_bytes"`
	TransactionComplexity uint8     `gorm:"not null;default:0" json:"transaction_complexity"`
	CreatedAt             time.Time `json:"-"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// Records groups the three outputs written for one caller.
type Records struct {
	Summary  OperationSummary    `json:"summary"`
	Analysis SecurityAnalysis    `json:"security_analysis"`
	Result   IntrospectionResult `json:"result"`
}

// SetCaller keys all three records to the given identity.
func (r *Records) SetCaller(caller Pubkey) {
	r.Summary.Caller = caller
	r.Analysis.Caller = caller
	r.Result.Caller = caller
}

func (OperationSummary) TableName() string    { return "operation_summaries" }
func (SecurityAnalysis) TableName() string    { return "security_analyses" }
func (IntrospectionResult) TableName() string { return "introspection_results" }
