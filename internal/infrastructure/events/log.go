package events

import (
	"context"
	"log/slog"

	"github.com/mealguard-dev/mealguard/internal/application/dto"
	"github.com/mealguard-dev/mealguard/internal/application/ports"
)

var _ ports.EventPublisher = (*LogPublisher)(nil)

// LogPublisher writes events to a structured logger. It is used when no
// broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a publisher that logs at debug level.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

// PublishEvaluation logs the event.
func (p *LogPublisher) PublishEvaluation(ctx context.Context, event dto.EvaluationEvent) error {
	p.logger.DebugContext(ctx, "evaluation event",
		"evaluation_id", event.EvaluationID,
		"resident_id", event.ResidentID,
		"verdict", event.Verdict,
		"ruleset_version", event.RuleSetVersion,
		"finding_kinds", event.FindingKinds,
	)
	return nil
}

// Close is a no-op.
func (p *LogPublisher) Close() error { return nil }
