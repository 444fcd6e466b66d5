package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/md-rashed-zaman/artisanslots/libs/httpx"
	"github.com/md-rashed-zaman/artisanslots/services/availability-service/internal/availability"
)

// AvailabilityPath is the public, unauthenticated slot lookup route.
const AvailabilityPath = "GET /api/v1/providers/{publicId}/availability"

type Querier interface {
	Query(ctx context.Context, req availability.Request) (availability.Response, error)
}

type AvailabilityHandler struct {
	svc    Querier
	logger *slog.Logger
}

func NewAvailabilityHandler(svc Querier, logger *slog.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{svc: svc, logger: logger}
}

func (h *AvailabilityHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc(AvailabilityPath, h.Get)
}

func (h *AvailabilityHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := availability.Request{
		ProviderPublicID: r.PathValue("publicId"),
		Date:             q.Get("date"),
	}
	if raw := strings.TrimSpace(q.Get("min_notice_hours")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "min_notice_hours must be an integer")
			return
		}
		req.MinNoticeHours = &n
	}

	resp, err := h.svc.Query(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *AvailabilityHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *availability.ValidationError
	var nerr *availability.NotFoundError
	switch {
	case errors.As(err, &verr):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", verr.Error())
	case errors.As(err, &nerr):
		httpx.WriteError(w, http.StatusNotFound, "not_found", nerr.Error())
	case errors.Is(err, context.DeadlineExceeded):
		h.logger.WarnContext(r.Context(), "availability query timed out", "path", r.URL.Path)
		httpx.WriteError(w, http.StatusServiceUnavailable, "timeout", "request timed out")
	default:
		h.logger.ErrorContext(r.Context(), "availability query failed",
			"path", r.URL.Path,
			"request_id", httpx.RequestIDFromContext(r.Context()),
			"err", err,
		)
		httpx.WriteError(w, http.StatusInternalServerError, "internal", "failed to compute availability")
	}
}
