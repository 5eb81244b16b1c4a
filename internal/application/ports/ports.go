// Package ports defines interfaces for infrastructure dependencies.
// These are the "ports" in hexagonal architecture - abstractions that
// the application layer depends on but doesn't implement.
package ports

//go:generate mockgen -destination=mocks/mock_ports.go -package=mocks . RuleSetSource,RuleSetParser,ResultCache,EventPublisher,Metrics

import (
	"context"
	"io"
	"time"

	"github.com/mealguard-dev/mealguard/internal/application/dto"
	"github.com/mealguard-dev/mealguard/internal/domain/evaluation"
	"github.com/mealguard-dev/mealguard/internal/domain/rules"
)

// RuleSetSource fetches raw rule set documents.
type RuleSetSource interface {
	// Fetch returns the current document bytes.
	Fetch(ctx context.Context) ([]byte, error)
	// Describe names the source for logs and rule set info.
	Describe() string
}

// WatchableRuleSetSource can notify when the document may have changed.
// Watch blocks until ctx is cancelled, invoking onChange for each change.
type WatchableRuleSetSource interface {
	RuleSetSource
	Watch(ctx context.Context, onChange func()) error
}

// RuleSetParser turns a document into a compiled snapshot.
type RuleSetParser interface {
	Parse(data []byte, source string) (*rules.Snapshot, error)
}

// ResultCache stores evaluation results by input digest.
type ResultCache interface {
	// Get returns the cached result; ok is false on a miss.
	Get(ctx context.Context, key string) (result *evaluation.Result, ok bool, err error)
	Set(ctx context.Context, key string, result *evaluation.Result) error
}

// EventPublisher emits evaluation events to downstream consumers.
type EventPublisher interface {
	PublishEvaluation(ctx context.Context, event dto.EvaluationEvent) error
	Close() error
}

// Metrics records service-level measurements.
type Metrics interface {
	ObserveEvaluation(verdict string, lines int, d time.Duration)
	IncrementFinding(kind string)
	IncrementCache(outcome string)
	IncrementRuleSetReload(outcome string)
}

// OutputFormatter formats evaluation results.
type OutputFormatter interface {
	Format(resp *dto.EvaluateOrderResponse) error
}

// FormatterOptions tunes formatter output.
type FormatterOptions struct {
	// Indent pretty-prints JSON output
	Indent bool
	// Color enables ANSI colors in table output
	Color bool
	// ToolVersion is reported by machine-readable formats
	ToolVersion string
	// SourcePath is the order document, used for SARIF locations
	SourcePath string
}

// OutputFormatterFactory creates formatters by name.
type OutputFormatterFactory interface {
	Create(format string, writer io.Writer, options FormatterOptions) (OutputFormatter, error)
	SupportedFormats() []string
}
