package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mealguard-dev/mealguard/internal/application/dto"
	apperrors "github.com/mealguard-dev/mealguard/internal/application/errors"
	"github.com/mealguard-dev/mealguard/internal/application/ports"
	"github.com/mealguard-dev/mealguard/internal/domain/repositories"
	domainservices "github.com/mealguard-dev/mealguard/internal/domain/services"
)

// ErrWatchUnsupported is returned by Watch when the source cannot notify changes.
var ErrWatchUnsupported = errors.New("rule set source does not support watching")

// RuleSetService loads rule sets from a source and publishes them to the
// rule repository. Reloads are serialized; evaluations keep reading the
// previous snapshot until the swap.
type RuleSetService struct {
	source  ports.RuleSetSource
	parser  ports.RuleSetParser
	repo    repositories.RuleRepository
	metrics ports.Metrics
	logger  *slog.Logger
	now     func() time.Time

	mu       sync.Mutex
	loadedAt time.Time
}

// NewRuleSetService creates a new rule set service. metrics may be nil.
func NewRuleSetService(
	source ports.RuleSetSource,
	parser ports.RuleSetParser,
	repo repositories.RuleRepository,
	metrics ports.Metrics,
	logger *slog.Logger,
) *RuleSetService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RuleSetService{
		source:  source,
		parser:  parser,
		repo:    repo,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// Reload fetches, validates and installs the rule set. A rule set whose
// digest matches the active one is not swapped.
func (s *RuleSetService) Reload(ctx context.Context, req dto.ReloadRuleSetRequest) (*dto.ReloadRuleSetResponse, error) {
	principal := req.Metadata.Principal
	if !principal.HasRole(dto.RoleAdmin) {
		return nil, apperrors.NewAuthorizationError(principal.Subject, dto.RoleAdmin)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	resp, err := s.reloadLocked(ctx, req.Force)
	switch {
	case err != nil:
		s.count("error")
		s.logger.ErrorContext(ctx, "rule set reload failed", "source", s.source.Describe(), "error", err)
	case resp.Changed:
		s.count("changed")
		s.logger.InfoContext(ctx, "rule set installed",
			"source", s.source.Describe(),
			"previous", resp.Previous,
			"current", resp.Current,
			"principal", principal.Subject,
		)
	default:
		s.count("unchanged")
		s.logger.DebugContext(ctx, "rule set unchanged", "version", resp.Current)
	}
	return resp, err
}

func (s *RuleSetService) reloadLocked(ctx context.Context, force bool) (*dto.ReloadRuleSetResponse, error) {
	data, err := s.source.Fetch(ctx)
	if err != nil {
		return nil, apperrors.NewRuleSetError(s.source.Describe(), fmt.Errorf("fetch: %w", err))
	}

	next, err := s.parser.Parse(data, s.source.Describe())
	if err != nil {
		return nil, err
	}

	current := s.repo.Current()
	resp := &dto.ReloadRuleSetResponse{Current: next.Version()}
	if current != nil {
		resp.Previous = current.Version()
		if current.Digest() == next.Digest() {
			resp.Current = current.Version()
			return resp, nil
		}
	}

	if _, err := s.repo.Swap(next, force); err != nil {
		if errors.Is(err, repositories.ErrStaleRuleSet) {
			return nil, apperrors.NewRuleSetError(s.source.Describe(), err,
				fmt.Sprintf("active %s, candidate %s", resp.Previous, resp.Current))
		}
		return nil, fmt.Errorf("install rule set: %w", err)
	}
	s.loadedAt = s.now().UTC()
	resp.Changed = true
	return resp, nil
}

// Info describes the active rule set.
func (s *RuleSetService) Info() (dto.RuleSetInfo, error) {
	snap := s.repo.Current()
	if snap == nil {
		return dto.RuleSetInfo{}, apperrors.NewConfigurationError("rules", "no rule set loaded", domainservices.ErrNoRuleSet)
	}
	s.mu.Lock()
	loadedAt := s.loadedAt
	s.mu.Unlock()
	return dto.NewRuleSetInfo(snap, s.source.Describe(), loadedAt), nil
}

// Watch reloads the rule set whenever the source reports a change. It
// blocks until ctx is cancelled. Failed reloads leave the active snapshot
// in place.
func (s *RuleSetService) Watch(ctx context.Context) error {
	watchable, ok := s.source.(ports.WatchableRuleSetSource)
	if !ok {
		return ErrWatchUnsupported
	}
	s.logger.InfoContext(ctx, "watching rule set", "source", s.source.Describe())
	return watchable.Watch(ctx, func() {
		// Errors are logged by Reload.
		_, _ = s.Reload(ctx, dto.ReloadRuleSetRequest{
			Metadata: dto.RequestMetadata{Principal: dto.SystemPrincipal()},
		})
	})
}

func (s *RuleSetService) count(outcome string) {
	if s.metrics != nil {
		s.metrics.IncrementRuleSetReload(outcome)
	}
}
