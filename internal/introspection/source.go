package introspection

import (
	"fmt"

	apperrors "introspect/internal/errors"
	"introspect/internal/models"
)

// AccountRef is one account referenced by an operation.
type AccountRef struct {
	Pubkey     models.Pubkey `json:"pubkey"`
	IsSigner   bool          `json:"is_signer"`
	IsWritable bool          `json:"is_writable"`
}

// OperationDescriptor describes one operation of a bundle.
type OperationDescriptor struct {
	ProgramID models.Pubkey `json:"program_id"`
	Accounts  []AccountRef  `json:"accounts"`
	Data      []byte        `json:"data"`
}

// Source gives random access to the operations of the current bundle.
type Source interface {
	Len() (uint32, error)
	TriggeringIndex() (uint32, error)
	Operation(index uint32) (OperationDescriptor, error)
}

// StaticBundle is an immutable, fully materialized Source.
type StaticBundle struct {
	operations []OperationDescriptor
	triggering uint32
}

// NewStaticBundle copies ops so later changes by the caller are not observed.
func NewStaticBundle(ops []OperationDescriptor, triggering uint32) *StaticBundle {
	cp := make([]OperationDescriptor, len(ops))
	copy(cp, ops)
	return &StaticBundle{operations: cp, triggering: triggering}
}

func (b *StaticBundle) Len() (uint32, error) {
	if b == nil {
		return 0, apperrors.ErrSourceUnavailable
	}
	return uint32(len(b.operations)), nil
}

func (b *StaticBundle) TriggeringIndex() (uint32, error) {
	if b == nil {
		return 0, apperrors.ErrSourceUnavailable
	}
	return b.triggering, nil
}

func (b *StaticBundle) Operation(index uint32) (OperationDescriptor, error) {
	if b == nil {
		return OperationDescriptor{}, apperrors.ErrSourceUnavailable
	}
	if int(index) >= len(b.operations) {
		return OperationDescriptor{}, fmt.Errorf("%w: index %d, bundle length %d",
			apperrors.ErrIndexOutOfRange, index, len(b.operations))
	}
	return b.operations[index], nil
}
