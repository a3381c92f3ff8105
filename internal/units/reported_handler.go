package units

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/consorcia/consorcia/internal/consortium"
	"github.com/consorcia/consorcia/internal/money"
	"github.com/consorcia/consorcia/internal/shared"
)

// reportRequest is the wire form of a payment claim.
type reportRequest struct {
	UnitID        string `json:"unitId" validate:"required"`
	Amount        string `json:"amount" validate:"required"`
	Date          string `json:"date" validate:"required"`
	VoucherNumber string `json:"voucherNumber"`
	Notes         string `json:"notes"`
}

// NeighborRoutes mounts the resident-facing claim submission endpoint.
// Claims on this path are always pending; the verdict stays with the
// administrator routes.
func (h *Handler) NeighborRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.SubmitReport)
	return r
}

func reportIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "reportID"))
	if err != nil {
		return uuid.Nil, shared.NewValidationError("reportID", "must be a uuid")
	}
	return id, nil
}

// SubmitReport records a resident's payment claim.
func (h *Handler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	buildingID, err := consortium.BuildingIDParam(r)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	var req reportRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		shared.RespondError(w, h.logger, shared.NewValidationError("", err.Error()))
		return
	}
	unitID, err := uuid.Parse(req.UnitID)
	if err != nil {
		shared.RespondError(w, h.logger, shared.NewValidationError("unitId", "must be a uuid"))
		return
	}
	amount, err := money.Parse(req.Amount)
	if err != nil {
		shared.RespondError(w, h.logger, shared.NewValidationError("amount", err.Error()))
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		shared.RespondError(w, h.logger, shared.NewValidationError("date", "must be YYYY-MM-DD"))
		return
	}
	rp, err := h.service.SubmitReport(r.Context(), buildingID, ReportInput{
		UnitID:        unitID,
		Amount:        amount,
		Date:          date,
		VoucherNumber: req.VoucherNumber,
		Notes:         req.Notes,
	})
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusCreated, rp)
}

// ListReports returns the building's payment claims. ?pending=true narrows
// the listing to claims awaiting a verdict.
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	buildingID, err := consortium.BuildingIDParam(r)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	pendingOnly := r.URL.Query().Get("pending") == "true"
	list, err := h.service.ListReports(r.Context(), buildingID, pendingOnly)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, list)
}

// VerifyReport approves a claim and records the payment on the unit.
func (h *Handler) VerifyReport(w http.ResponseWriter, r *http.Request) {
	h.decideReport(w, r, h.service.VerifyReport)
}

// RejectReport marks a claim rejected.
func (h *Handler) RejectReport(w http.ResponseWriter, r *http.Request) {
	h.decideReport(w, r, h.service.RejectReport)
}

func (h *Handler) decideReport(w http.ResponseWriter, r *http.Request, decide func(ctx context.Context, buildingID, reportID uuid.UUID) (*consortium.ReportedPayment, error)) {
	buildingID, err := consortium.BuildingIDParam(r)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	reportID, err := reportIDParam(r)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	rp, err := decide(r.Context(), buildingID, reportID)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, rp)
}
