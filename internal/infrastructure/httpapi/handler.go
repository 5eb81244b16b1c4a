// Package httpapi exposes evaluations and rule set administration over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mealguard-dev/mealguard/internal/application/dto"
	apperrors "github.com/mealguard-dev/mealguard/internal/application/errors"
	"github.com/mealguard-dev/mealguard/internal/application/services"
	"github.com/mealguard-dev/mealguard/internal/domain/evaluation"
)

//go:generate mockgen -source=handler.go -destination=mocks/mock_handler.go -package=mocks Evaluator,RuleSetManager,HistoryReader

const maxBodyBytes = 1 << 20

// Evaluator evaluates orders.
type Evaluator interface {
	Execute(ctx context.Context, req dto.EvaluateOrderRequest) (*dto.EvaluateOrderResponse, error)
}

// RuleSetManager reports on and reloads the active rule set.
type RuleSetManager interface {
	Reload(ctx context.Context, req dto.ReloadRuleSetRequest) (*dto.ReloadRuleSetResponse, error)
	Info() (dto.RuleSetInfo, error)
}

// HistoryReader reads the evaluation audit trail.
type HistoryReader interface {
	Get(ctx context.Context, id string, meta dto.RequestMetadata) (*evaluation.Record, error)
	List(ctx context.Context, q services.HistoryQuery) ([]*evaluation.Record, error)
}

// Handler is the thin HTTP layer over the application services.
type Handler struct {
	evaluator Evaluator
	rules     RuleSetManager
	history   HistoryReader
	logger    *slog.Logger
}

// NewHandler creates a handler. history may be nil when no audit trail is
// configured.
func NewHandler(evaluator Evaluator, rules RuleSetManager, history HistoryReader, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{evaluator: evaluator, rules: rules, history: history, logger: logger}
}

type evaluateRequest struct {
	Profile dto.ProfileDocument `json:"profile"`
	Order   dto.OrderDocument   `json:"order"`
	Menu    *dto.MenuDocument   `json:"menu,omitempty"`
	Options struct {
		SkipCache bool `json:"skip_cache"`
		SkipAudit bool `json:"skip_audit"`
	} `json:"options"`
}

type reloadRequest struct {
	Force bool `json:"force"`
}

type historyResponse struct {
	ResidentID string               `json:"resident_id"`
	Records    []*evaluation.Record `json:"records"`
}

func (h *Handler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var body evaluateRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(w, apperrors.NewInputMalformedError(err.Error()))
		return
	}

	resp, err := h.evaluator.Execute(r.Context(), dto.EvaluateOrderRequest{
		Profile:  body.Profile,
		Order:    body.Order,
		Menu:     body.Menu,
		Metadata: metadata(r),
		Options: dto.EvaluateOptions{
			SkipCache: body.Options.SkipCache,
			SkipAudit: body.Options.SkipAudit,
		},
	})
	if err != nil {
		h.fail(w, r, "evaluate order", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleRuleSetInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.rules.Info()
	if err != nil {
		h.fail(w, r, "rule set info", err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (h *Handler) handleReload(w http.ResponseWriter, r *http.Request) {
	var body reloadRequest
	if r.ContentLength != 0 {
		if err := decodeBody(r, &body); err != nil {
			writeError(w, apperrors.NewInputMalformedError(err.Error()))
			return
		}
	}

	resp, err := h.rules.Reload(r.Context(), dto.ReloadRuleSetRequest{Metadata: metadata(r), Force: body.Force})
	if err != nil {
		h.fail(w, r, "reload rule set", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetEvaluation(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeErrorBody(w, http.StatusNotFound, "not_found", "audit trail disabled", nil)
		return
	}
	rec, err := h.history.Get(r.Context(), chi.URLParam(r, "evaluationID"), metadata(r))
	if err != nil {
		h.fail(w, r, "get evaluation", err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) handleResidentHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeErrorBody(w, http.StatusNotFound, "not_found", "audit trail disabled", nil)
		return
	}

	q := services.HistoryQuery{
		ResidentID: chi.URLParam(r, "residentID"),
		Metadata:   metadata(r),
	}
	var problems []string
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			problems = append(problems, "limit must be an integer")
		}
		q.Limit = n
	}
	for name, dst := range map[string]*time.Time{"from": &q.From, "to": &q.To} {
		v := r.URL.Query().Get(name)
		if v == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			problems = append(problems, name+" must be an RFC 3339 timestamp")
			continue
		}
		*dst = t
	}
	if len(problems) > 0 {
		writeError(w, apperrors.NewInputMalformedError(problems...))
		return
	}

	recs, err := h.history.List(r.Context(), q)
	if err != nil {
		h.fail(w, r, "resident history", err)
		return
	}
	if recs == nil {
		recs = []*evaluation.Record{}
	}
	writeJSON(w, http.StatusOK, historyResponse{ResidentID: q.ResidentID, Records: recs})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	status := map[string]string{"status": "ok"}
	if info, err := h.rules.Info(); err == nil {
		status["ruleset_version"] = info.Version
	} else {
		status["status"] = "degraded"
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	ctx := r.Context()
	if services.IsClientError(err) {
		h.logger.InfoContext(ctx, op+" rejected", "error", err, "request_id", middleware.GetReqID(ctx))
	} else {
		h.logger.ErrorContext(ctx, op+" failed", "error", err, "request_id", middleware.GetReqID(ctx))
	}
	writeError(w, err)
}

func metadata(r *http.Request) dto.RequestMetadata {
	return dto.RequestMetadata{
		RequestID: middleware.GetReqID(r.Context()),
		Principal: PrincipalFrom(r.Context()),
	}
}

func decodeBody(r *http.Request, out any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return errors.New("invalid JSON body: " + err.Error())
	}
	return nil
}
