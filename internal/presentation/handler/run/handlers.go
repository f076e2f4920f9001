package run

import (
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/hilthontt/codeboard/internal/infrastructure/executor"
	"github.com/hilthontt/codeboard/internal/infrastructure/json"
	"github.com/hilthontt/codeboard/internal/infrastructure/logging"
	"github.com/hilthontt/codeboard/internal/infrastructure/metrics"
	"github.com/hilthontt/codeboard/internal/infrastructure/ratelimiter"
	"github.com/hilthontt/codeboard/internal/infrastructure/tracing"
	"go.opentelemetry.io/otel/attribute"
)

type Handler struct {
	executor executor.Executor
	quota    ratelimiter.Limiter
	metrics  *metrics.Metrics
	logger   logging.Logger
}

func NewHandler(exec executor.Executor, quota ratelimiter.Limiter, m *metrics.Metrics, logger logging.Logger) *Handler {
	return &Handler{
		executor: exec,
		quota:    quota,
		metrics:  m,
		logger:   logger,
	}
}

// RunHandler godoc
// @Summary      Run code
// @Description  Forwards code to the execution service. Failures of the service are reported in the error field with status 200 so the session carries on.
// @Tags         run
// @Accept       json
// @Produce      json
// @Param        request body runRequest true "Code to run"
// @Success      200 {object} runResponse "Run output"
// @Failure      400 {object} json.ErrorResponse "Unsupported language or malformed body"
// @Failure      429 {object} json.ErrorResponse "Run quota exceeded"
// @Router       /api/run [post]
func (h *Handler) RunHandler(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	execReq := executor.Request{Code: req.Code, Language: req.Language, Input: req.Input}
	if err := execReq.Validate(); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	if h.quota != nil {
		if d := h.quota.Allow(r.Context(), ratelimiter.SourceKey(r, "")); !d.Allowed {
			json.WriteRateLimitError(w, int(math.Ceil(d.RetryAfter.Seconds())))
			return
		}
	}

	ctx, span := tracing.Tracer("run").Start(r.Context(), "executor.submit")
	span.SetAttributes(attribute.String("code.language", req.Language))
	defer span.End()

	start := time.Now()
	result, err := h.executor.Submit(ctx, execReq)
	h.metrics.ObserveExecution(req.Language, time.Since(start).Seconds(), err != nil)

	if err != nil {
		span.RecordError(err)
		h.logger.Error(logging.Executor, logging.ExternalService, "execution failed", map[logging.ExtraKey]any{
			logging.Language:     req.Language,
			logging.ErrorMessage: err.Error(),
		})

		msg := err.Error()
		if errors.Is(err, executor.ErrUnavailable) {
			msg = "Execution service unavailable"
		}
		json.Write(w, http.StatusOK, runResponse{Error: msg})
		return
	}

	json.Write(w, http.StatusOK, runResponse{
		Output: result.Output,
		Error:  result.Error,
		Time:   result.Time,
	})
}
