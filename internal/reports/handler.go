package reports

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/consorcia/consorcia/internal/consortium"
	"github.com/consorcia/consorcia/internal/shared"
)

// Handler serves the read-only projection endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// Routes mounts the reporting endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/dashboard", h.Dashboard)
	r.Get("/categories", h.Categories)
	r.Get("/rubrics", h.Rubrics)
	r.Get("/income", h.Income)
	r.Get("/bank-balance", h.BankBalance)
	return r
}

// Dashboard returns the cached period dashboard.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	buildingID, err := consortium.BuildingIDParam(r)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	period, err := shared.ParsePeriod(r.URL.Query().Get("month"), r.URL.Query().Get("year"))
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	dash, err := h.service.Dashboard(r.Context(), buildingID, period)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, dash)
}

// Categories returns the period's category breakdown.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	buildingID, err := consortium.BuildingIDParam(r)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	period, err := shared.ParsePeriod(r.URL.Query().Get("month"), r.URL.Query().Get("year"))
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	breakdown, err := h.service.CategoryBreakdown(r.Context(), buildingID, period)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, breakdown)
}

// Rubrics returns the period's rubric breakdown.
func (h *Handler) Rubrics(w http.ResponseWriter, r *http.Request) {
	buildingID, err := consortium.BuildingIDParam(r)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	period, err := shared.ParsePeriod(r.URL.Query().Get("month"), r.URL.Query().Get("year"))
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	breakdown, err := h.service.RubricBreakdown(r.Context(), buildingID, period)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, breakdown)
}

// Income returns the month-over-month collection delta.
func (h *Handler) Income(w http.ResponseWriter, r *http.Request) {
	buildingID, err := consortium.BuildingIDParam(r)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	period, err := shared.ParsePeriod(r.URL.Query().Get("month"), r.URL.Query().Get("year"))
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	delta, err := h.service.Income(r.Context(), buildingID, period)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, delta)
}

// BankBalance returns the running balance series.
func (h *Handler) BankBalance(w http.ResponseWriter, r *http.Request) {
	buildingID, err := consortium.BuildingIDParam(r)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	series, err := h.service.BankBalance(r.Context(), buildingID)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, series)
}
