package introspection

import (
	"fmt"

	apperrors "introspect/internal/errors"
	"introspect/internal/models"
)

// Report is the full output of one introspection pass.
type Report struct {
	TriggeringIndex uint32
	Aggregates      Aggregates
	Summary         models.OperationSummary
	Analysis        models.SecurityAnalysis
	Result          models.IntrospectionResult
}

// Records returns the three output records keyed to caller.
func (r *Report) Records(caller models.Pubkey) *models.Records {
	records := &models.Records{
		Summary:  r.Summary,
		Analysis: r.Analysis,
		Result:   r.Result,
	}
	records.Summary.Accounts = append(models.PubkeyList(nil), r.Summary.Accounts...)
	records.SetCaller(caller)
	return records
}

// Engine inspects bundles on behalf of one program identity.
type Engine struct {
	self     models.Pubkey
	programs Programs
}

// NewEngine creates an engine for the program identified by self.
func NewEngine(self models.Pubkey, programs Programs) *Engine {
	return &Engine{self: self, programs: programs}
}

// Validate loads the triggering operation and checks that it targets this
// engine. Source errors are returned unchanged.
func (e *Engine) Validate(src Source) (uint32, OperationDescriptor, error) {
	if src == nil {
		return 0, OperationDescriptor{}, apperrors.ErrSourceUnavailable
	}
	n, err := src.Len()
	if err != nil {
		return 0, OperationDescriptor{}, err
	}
	idx, err := src.TriggeringIndex()
	if err != nil {
		return 0, OperationDescriptor{}, err
	}
	if idx >= n {
		return 0, OperationDescriptor{}, fmt.Errorf("%w: triggering index %d, bundle length %d",
			apperrors.ErrIndexOutOfRange, idx, n)
	}

	op, err := src.Operation(idx)
	if err != nil {
		return 0, OperationDescriptor{}, err
	}
	if op.ProgramID != e.self {
		return 0, OperationDescriptor{}, fmt.Errorf("%w: got %s, want %s",
			apperrors.ErrMisroutedInvocation, op.ProgramID, e.self)
	}
	return idx, op, nil
}

// Inspect validates src and runs the summary, aggregation and scoring passes.
func (e *Engine) Inspect(src Source) (*Report, error) {
	idx, trigger, err := e.Validate(src)
	if err != nil {
		return nil, err
	}

	agg, err := Aggregate(e.programs, src, idx)
	if err != nil {
		return nil, err
	}

	return &Report{
		TriggeringIndex: idx,
		Aggregates:      agg,
		Summary:         BuildSummary(trigger),
		Analysis:        agg.SecurityAnalysis(),
		Result:          agg.Result(),
	}, nil
}
