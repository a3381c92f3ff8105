package settlement

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/consorcia/consorcia/internal/consortium"
	"github.com/consorcia/consorcia/internal/shared"
)

// Handler serves the settlement view and archive endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// Routes mounts the settlement endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/live", h.Live)
	r.Post("/close", h.Close)
	r.Get("/archive", h.Archive)
	r.Get("/archive/{year}/{month}", h.Get)
	return r
}

func periodFromQuery(r *http.Request) (shared.Period, error) {
	return shared.ParsePeriod(r.URL.Query().Get("month"), r.URL.Query().Get("year"))
}

// Live recomputes the ephemeral settlement view.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	buildingID, err := consortium.BuildingIDParam(r)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	period, err := periodFromQuery(r)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	view, err := h.service.Live(r.Context(), buildingID, period)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, view)
}

type closeRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

// Close freezes the period into the archive. Closing twice returns 409.
func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	buildingID, err := consortium.BuildingIDParam(r)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	var req closeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	period, err := shared.NewPeriod(time.Month(req.Month), req.Year)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	liq, err := h.service.CloseMonth(r.Context(), buildingID, period)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusCreated, liq)
}

// Archive lists closed periods, newest first.
func (h *Handler) Archive(w http.ResponseWriter, r *http.Request) {
	buildingID, err := consortium.BuildingIDParam(r)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	list, err := h.service.Archive(r.Context(), buildingID)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, list)
}

// Get returns one archived liquidation.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	buildingID, err := consortium.BuildingIDParam(r)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	period, err := shared.ParsePeriod(chi.URLParam(r, "month"), chi.URLParam(r, "year"))
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	liq, err := h.service.Get(r.Context(), buildingID, period)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, liq)
}
