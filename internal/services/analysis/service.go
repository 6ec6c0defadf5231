package analysis

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	apperrors "introspect/internal/errors"
	"introspect/internal/events"
	"introspect/internal/introspection"
	"introspect/internal/models"
	"introspect/internal/repositories"
	"introspect/internal/repositories/cache"
	"introspect/internal/services/transfer"
)

type service struct {
	repo      repositories.IntrospectionRepository
	engine    *introspection.Engine
	transfers transfer.Service
	cache     RecordCache
	publisher events.Publisher
	metrics   MetricsCollector
}

// NewService creates the introspection service. cache may be nil; a nil
// publisher or metrics collector falls back to a no-op.
func NewService(
	repo repositories.IntrospectionRepository,
	engine *introspection.Engine,
	transfers transfer.Service,
	recordCache RecordCache,
	publisher events.Publisher,
	metrics MetricsCollector,
) Service {
	if repo == nil {
		panic("repo is required")
	}
	if engine == nil {
		panic("engine is required")
	}
	if transfers == nil {
		panic("transfer service is required")
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}

	return &service{
		repo:      repo,
		engine:    engine,
		transfers: transfers,
		cache:     recordCache,
		publisher: publisher,
		metrics:   metrics,
	}
}

func (s *service) Process(ctx context.Context, req Request) (*Outcome, error) {
	start := time.Now()
	defer func() { s.metrics.RecordDuration("process", time.Since(start)) }()

	if err := validateRequest(req); err != nil {
		s.metrics.RecordInvocation("process", OutcomeInvalid)
		return nil, err
	}

	var out Outcome
	err := s.repo.ExecuteInTransaction(ctx, func(tx repositories.IntrospectionRepository) error {
		if _, _, err := s.engine.Validate(req.Bundle); err != nil {
			return err
		}

		record, err := s.transfers.Transfer(ctx, tx, transfer.Request{
			Sender:    req.Caller,
			Recipient: req.Recipient,
			Mint:      req.Mint,
			Amount:    req.Amount,
			Decimals:  req.Decimals,
		})
		if err != nil {
			return err
		}

		report, err := s.engine.Inspect(req.Bundle)
		if err != nil {
			return err
		}

		records := report.Records(req.Caller)
		if err := tx.SaveRecords(ctx, records); err != nil {
			return err
		}

		out = Outcome{Records: records, Transfer: record}
		return nil
	})
	if err != nil {
		s.metrics.RecordInvocation("process", outcomeOf(err))
		return nil, err
	}

	s.metrics.RecordInvocation("process", OutcomeSuccess)
	log.Printf("Introspection committed for %s: summary=%+v analysis=%+v result=%+v",
		req.Caller, out.Records.Summary, out.Records.Analysis, out.Records.Result)
	s.metrics.RecordScores(out.Records.Analysis.SuspiciousScore, out.Records.Result.TransactionComplexity)
	s.publish(ctx, &out)
	return &out, nil
}

func (s *service) Preview(ctx context.Context, caller models.Pubkey, bundle introspection.Source) (*models.Records, error) {
	start := time.Now()
	defer func() { s.metrics.RecordDuration("preview", time.Since(start)) }()

	report, err := s.engine.Inspect(bundle)
	if err != nil {
		s.metrics.RecordInvocation("preview", outcomeOf(err))
		return nil, err
	}
	s.metrics.RecordInvocation("preview", OutcomeSuccess)
	return report.Records(caller), nil
}

func (s *service) Records(ctx context.Context, caller models.Pubkey) (*models.Records, error) {
	if s.cache != nil {
		records, err := s.cache.GetRecords(ctx, caller)
		if err == nil {
			return records, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("record cache read failed for %s: %v", caller, err)
		}
	}

	records, err := s.repo.GetRecords(ctx, caller)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, apperrors.ErrRecordNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.CacheRecords(ctx, records); err != nil {
			log.Printf("record cache refill failed for %s: %v", caller, err)
		}
	}
	return records, nil
}

// publish runs after commit. Failures are logged and never undo the call.
func (s *service) publish(ctx context.Context, out *Outcome) {
	caller := out.Records.Summary.Caller

	// A failed write must not leave the previous call's records readable.
	if s.cache != nil {
		if err := s.cache.CacheRecords(ctx, out.Records); err != nil {
			log.Printf("failed to cache records for %s: %v", caller, err)
			if err := s.cache.InvalidateRecords(ctx, caller); err != nil {
				log.Printf("failed to invalidate cached records for %s: %v", caller, err)
			}
		}
	}

	if err := s.publisher.Publish(ctx, events.TypeIntrospectionCompleted, caller.String(), out); err != nil {
		log.Printf("failed to publish introspection event for %s: %v", caller, err)
	}
}

func validateRequest(req Request) error {
	if req.Caller.IsZero() {
		return fmt.Errorf("%w: caller is required", apperrors.ErrInvalidRequest)
	}
	if req.Bundle == nil {
		return fmt.Errorf("%w: bundle is required", apperrors.ErrInvalidRequest)
	}
	return nil
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrMisroutedInvocation):
		return OutcomeMisrouted
	case errors.Is(err, apperrors.ErrIndexOutOfRange), errors.Is(err, apperrors.ErrSourceUnavailable):
		return OutcomeSourceError
	case errors.Is(err, apperrors.ErrTransferFailed):
		return OutcomeTransferFailed
	case errors.Is(err, apperrors.ErrInvalidRequest):
		return OutcomeInvalid
	default:
		return OutcomeStorageError
	}
}
