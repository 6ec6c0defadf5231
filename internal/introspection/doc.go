/*
Package introspection inspects the operations bundled in one atomic
transaction.

Given a Source describing the bundle, the Engine:

  - checks that the triggering operation targets the engine's own program
  - builds an OperationSummary of the triggering operation
  - folds every operation from index 0 up to the triggering index into
    Aggregates (category counts, distinct programs, risk flags, byte totals)
  - derives a suspicion score and a complexity score from the aggregates

Usage:

	engine := introspection.NewEngine(self, introspection.DefaultPrograms())
	report, err := engine.Inspect(bundle)
	if errors.Is(err, apperrors.ErrMisroutedInvocation) {
	    // the bundle was not routed to this program
	}

Narrowing:

Output records use 8, 16 and 32 bit fields. Counters are kept as int while
scanning and clamped to the field maximum when the records are built; they
never wrap.

The engine is pure. Inspecting the same bundle twice yields identical records.
*/
package introspection
