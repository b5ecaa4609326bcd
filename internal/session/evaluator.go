package session

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/rshade/cloudconso/internal/report"
)

// Evaluator derives reports from snapshots. The last report is cached by
// snapshot revision, so evaluating an unchanged snapshot does no work.
// Evaluator is safe for concurrent use.
type Evaluator struct {
	builder *report.Builder
	logger  zerolog.Logger

	mu           sync.Mutex
	lastRevision string
	last         *report.Report
}

// NewEvaluator creates an evaluator backed by builder.
func NewEvaluator(builder *report.Builder, logger zerolog.Logger) *Evaluator {
	return &Evaluator{
		builder: builder,
		logger:  logger.With().Str("component", "session").Logger(),
	}
}

// Evaluate returns the report for s. Every call returns its own copy, so
// callers may modify the result without affecting the cache.
func (e *Evaluator) Evaluate(s Snapshot) (*report.Report, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.last != nil && e.lastRevision == s.Revision() {
		e.logger.Debug().Str("revision", s.Revision()).Msg("report cache hit")
		return e.last.Clone(), nil
	}

	r, err := e.builder.Build(s.Input())
	if err != nil {
		return nil, err
	}

	e.logger.Debug().
		Str("revision", s.Revision()).
		Str("provider", string(s.Provider())).
		Str("region", s.Region()).
		Float64("total_electric_wh", r.Totals.Electric).
		Float64("total_co2_g", r.Totals.CO2).
		Msg("report computed")

	e.lastRevision = s.Revision()
	e.last = r
	return r.Clone(), nil
}
