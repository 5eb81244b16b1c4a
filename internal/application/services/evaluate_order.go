// Package services contains application use cases.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mealguard-dev/mealguard/internal/application/dto"
	apperrors "github.com/mealguard-dev/mealguard/internal/application/errors"
	"github.com/mealguard-dev/mealguard/internal/application/ports"
	"github.com/mealguard-dev/mealguard/internal/domain/entities"
	"github.com/mealguard-dev/mealguard/internal/domain/evaluation"
	"github.com/mealguard-dev/mealguard/internal/domain/repositories"
	"github.com/mealguard-dev/mealguard/internal/domain/rules"
	domainservices "github.com/mealguard-dev/mealguard/internal/domain/services"
	"github.com/mealguard-dev/mealguard/internal/fingerprint"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/mealguard-dev/mealguard/internal/application/services"

// EvaluateOrderUseCase wraps the compliance evaluator with the service's side
// effects: caching, the audit trail, events and metrics. None of them can
// change a verdict.
type EvaluateOrderUseCase struct {
	rules        repositories.RuleRepository
	evaluator    *domainservices.ComplianceEvaluator
	records      repositories.EvaluationRecordRepository
	requireAudit bool
	cache        ports.ResultCache
	events       ports.EventPublisher
	metrics      ports.Metrics
	tracer       trace.Tracer
	logger       *slog.Logger
	now          func() time.Time
}

// EvaluateOption configures optional collaborators.
type EvaluateOption func(*EvaluateOrderUseCase)

// WithAuditTrail appends a record for every evaluation. When required is
// true an append failure fails the request.
func WithAuditTrail(records repositories.EvaluationRecordRepository, required bool) EvaluateOption {
	return func(uc *EvaluateOrderUseCase) {
		uc.records = records
		uc.requireAudit = required
	}
}

// WithResultCache enables result caching keyed by input digest.
func WithResultCache(cache ports.ResultCache) EvaluateOption {
	return func(uc *EvaluateOrderUseCase) { uc.cache = cache }
}

// WithEventPublisher publishes an event after each evaluation.
func WithEventPublisher(events ports.EventPublisher) EvaluateOption {
	return func(uc *EvaluateOrderUseCase) { uc.events = events }
}

// WithMetrics records evaluation metrics.
func WithMetrics(m ports.Metrics) EvaluateOption {
	return func(uc *EvaluateOrderUseCase) { uc.metrics = m }
}

// WithClock overrides the clock used for audit timestamps.
func WithClock(now func() time.Time) EvaluateOption {
	return func(uc *EvaluateOrderUseCase) { uc.now = now }
}

// NewEvaluateOrderUseCase creates a new evaluate order use case.
func NewEvaluateOrderUseCase(
	ruleRepo repositories.RuleRepository,
	evaluator *domainservices.ComplianceEvaluator,
	logger *slog.Logger,
	opts ...EvaluateOption,
) *EvaluateOrderUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	uc := &EvaluateOrderUseCase{
		rules:     ruleRepo,
		evaluator: evaluator,
		tracer:    otel.Tracer(tracerName),
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute evaluates one order. It captures a single rule snapshot up front
// and uses it for the whole request.
func (uc *EvaluateOrderUseCase) Execute(ctx context.Context, req dto.EvaluateOrderRequest) (resp *dto.EvaluateOrderResponse, err error) {
	start := time.Now()
	principal := req.Metadata.Principal

	ctx, span := uc.tracer.Start(ctx, "EvaluateOrder", trace.WithAttributes(
		attribute.String("mealguard.request_id", req.Metadata.RequestID),
		attribute.String("mealguard.principal", principal.Subject),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if !principal.HasRole(dto.RoleEvaluator) {
		return nil, apperrors.NewAuthorizationError(principal.Subject, dto.RoleEvaluator)
	}

	snap := uc.rules.Current()
	if snap == nil {
		return nil, apperrors.NewConfigurationError("rules", "no rule set loaded", domainservices.ErrNoRuleSet)
	}

	profile, order, err := dto.BuildEvaluationInput(req.Profile, req.Order, req.Menu)
	if err != nil {
		return nil, err
	}

	digest, err := InputDigest(profile, order, snap)
	if err != nil {
		return nil, fmt.Errorf("compute input digest: %w", err)
	}
	key := digest.String()
	span.SetAttributes(
		attribute.String("mealguard.resident_id", profile.ResidentID.String()),
		attribute.String("mealguard.ruleset_version", snap.Version()),
		attribute.Int("mealguard.lines", len(order.Lines)),
	)

	result, cached := uc.lookupCache(ctx, key, req.Options.SkipCache)
	if !cached {
		result, err = uc.evaluator.Evaluate(profile, order, snap)
		if err != nil {
			if malformed, ok := apperrors.AsInputMalformed(err); ok {
				return nil, malformed
			}
			return nil, fmt.Errorf("evaluate order: %w", err)
		}
		uc.storeCache(ctx, key, result, req.Options.SkipCache)
	}

	resp = &dto.EvaluateOrderResponse{Result: result, InputDigest: key, Cached: cached}

	if uc.records != nil && !req.Options.SkipAudit {
		rec := evaluation.NewRecord(result, key, principal.Subject, req.Metadata.RequestID, uc.now())
		if err := uc.records.Append(ctx, rec); err != nil {
			if uc.requireAudit {
				return nil, fmt.Errorf("append audit record: %w", err)
			}
			uc.logger.WarnContext(ctx, "audit append failed", "error", err, "resident", result.ResidentID)
		} else {
			resp.EvaluationID = rec.ID.String()
		}
	}

	uc.publish(ctx, resp, principal)
	uc.record(result, time.Since(start))
	span.SetAttributes(attribute.String("mealguard.verdict", string(result.Verdict)))

	uc.logger.InfoContext(ctx, "order evaluated",
		"resident", result.ResidentID,
		"order", result.OrderID,
		"verdict", result.Verdict,
		"lines", result.Summary.TotalLines,
		"blocked", result.Summary.BlockedLines,
		"ruleset", result.RuleSetVersion,
		"cached", cached,
		"request_id", req.Metadata.RequestID,
	)

	return resp, nil
}

// InputDigest fingerprints the evaluation inputs together with the rule
// snapshot version, so equal digests imply equal results.
func InputDigest(profile *entities.DietaryProfile, order *entities.Order, snap *rules.Snapshot) (fingerprint.Digest, error) {
	return fingerprint.Of(fingerprint.Evaluation, struct {
		Profile *entities.DietaryProfile
		Order   *entities.Order
		RuleSet string
	}{profile, order, snap.Version()})
}

func (uc *EvaluateOrderUseCase) lookupCache(ctx context.Context, key string, skip bool) (*evaluation.Result, bool) {
	if uc.cache == nil || skip {
		return nil, false
	}
	result, ok, err := uc.cache.Get(ctx, key)
	switch {
	case err != nil:
		uc.logger.WarnContext(ctx, "result cache lookup failed", "error", err)
		uc.countCache("error")
		return nil, false
	case !ok:
		uc.countCache("miss")
		return nil, false
	default:
		uc.countCache("hit")
		return result, true
	}
}

func (uc *EvaluateOrderUseCase) storeCache(ctx context.Context, key string, result *evaluation.Result, skip bool) {
	if uc.cache == nil || skip {
		return
	}
	if err := uc.cache.Set(ctx, key, result); err != nil {
		uc.logger.WarnContext(ctx, "result cache store failed", "error", err)
	}
}

func (uc *EvaluateOrderUseCase) countCache(outcome string) {
	if uc.metrics != nil {
		uc.metrics.IncrementCache(outcome)
	}
}

func (uc *EvaluateOrderUseCase) publish(ctx context.Context, resp *dto.EvaluateOrderResponse, principal dto.Principal) {
	if uc.events == nil {
		return
	}
	result := resp.Result
	event := dto.EvaluationEvent{
		EvaluationID:   resp.EvaluationID,
		ResidentID:     result.ResidentID,
		OrderID:        result.OrderID,
		Verdict:        string(result.Verdict),
		RuleSetVersion: result.RuleSetVersion,
		BlockedLines:   result.Summary.BlockedLines,
		WarningLines:   result.Summary.WarningLines,
		FindingKinds:   findingKinds(result),
		Principal:      principal.Subject,
		OccurredAt:     uc.now().UTC(),
	}
	if err := uc.events.PublishEvaluation(ctx, event); err != nil {
		uc.logger.WarnContext(ctx, "publish evaluation event failed", "error", err, "resident", result.ResidentID)
	}
}

func (uc *EvaluateOrderUseCase) record(result *evaluation.Result, d time.Duration) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.ObserveEvaluation(string(result.Verdict), result.Summary.TotalLines, d)
	for _, f := range result.Findings() {
		uc.metrics.IncrementFinding(string(f.Kind))
	}
}

func findingKinds(result *evaluation.Result) []string {
	seen := make(map[string]bool)
	var kinds []string
	for _, f := range result.Findings() {
		if !seen[string(f.Kind)] {
			seen[string(f.Kind)] = true
			kinds = append(kinds, string(f.Kind))
		}
	}
	return kinds
}

// IsClientError reports whether err was caused by the request rather than
// the service.
func IsClientError(err error) bool {
	if _, ok := apperrors.AsInputMalformed(err); ok {
		return true
	}
	var authErr *apperrors.AuthorizationError
	return errors.As(err, &authErr)
}
