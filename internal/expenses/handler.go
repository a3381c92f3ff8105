package expenses

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/consorcia/consorcia/internal/consortium"
	"github.com/consorcia/consorcia/internal/money"
	"github.com/consorcia/consorcia/internal/shared"
)

const dateLayout = "2006-01-02"

// expenseRequest is the wire form of an expense: amounts arrive as
// locale-formatted strings and dates as plain calendar days.
type expenseRequest struct {
	Description string `json:"description" validate:"required"`
	Amount      string `json:"amount" validate:"required"`
	Date        string `json:"date" validate:"required"`
	Category    string `json:"category"`
	Paid        bool   `json:"paid"`
	ReceiptRef  string `json:"receiptRef"`
	Notes       string `json:"notes"`
}

func (req expenseRequest) toInput() (ExpenseInput, error) {
	amount, err := money.Parse(req.Amount)
	if err != nil {
		return ExpenseInput{}, shared.NewValidationError("amount", err.Error())
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return ExpenseInput{}, shared.NewValidationError("date", "must be YYYY-MM-DD")
	}
	return ExpenseInput{
		Description: req.Description,
		Amount:      amount,
		Date:        date,
		Category:    req.Category,
		Paid:        req.Paid,
		ReceiptRef:  req.ReceiptRef,
		Notes:       req.Notes,
	}, nil
}

// Handler serves the expense ledger endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// Routes mounts the administrator-facing expense endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListPeriod)
	r.Post("/", h.Add)
	r.Put("/bulk", h.BulkReplace)
	r.Put("/{expenseID}", h.Update)
	r.Delete("/{expenseID}", h.Remove)
	r.Post("/{expenseID}/approve", h.Approve)
	return r
}

// ProviderRoutes mounts the external submission endpoint. Submitters on this
// path can only create pending expenses; approval stays with the
// administrator routes.
func (h *Handler) ProviderRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.SubmitProvider)
	return r
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (ExpenseInput, bool) {
	var req expenseRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondError(w, h.logger, err)
		return ExpenseInput{}, false
	}
	if err := h.validate.Struct(req); err != nil {
		shared.RespondError(w, h.logger, shared.NewValidationError("", err.Error()))
		return ExpenseInput{}, false
	}
	in, err := req.toInput()
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return ExpenseInput{}, false
	}
	return in, true
}

func expenseIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "expenseID"))
	if err != nil {
		return uuid.Nil, shared.NewValidationError("expenseID", "must be a uuid")
	}
	return id, nil
}

// ListPeriod returns a period's expenses. ?all=1 includes pending
// submissions for the review listing; the default mirrors what settlement
// sees.
func (h *Handler) ListPeriod(w http.ResponseWriter, r *http.Request) {
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
	approvedOnly := r.URL.Query().Get("all") != "1"
	list, err := h.service.ListPeriod(r.Context(), buildingID, period, approvedOnly)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, list)
}

// Add records an administrator-entered expense.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	buildingID, err := consortium.BuildingIDParam(r)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	in, ok := h.decode(w, r)
	if !ok {
		return
	}
	e, err := h.service.Add(r.Context(), buildingID, in)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusCreated, e)
}

// SubmitProvider records an external submission, always pending.
func (h *Handler) SubmitProvider(w http.ResponseWriter, r *http.Request) {
	buildingID, err := consortium.BuildingIDParam(r)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	in, ok := h.decode(w, r)
	if !ok {
		return
	}
	e, err := h.service.SubmitProvider(r.Context(), buildingID, in)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusCreated, e)
}

// Update replaces an expense's writable fields.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	buildingID, err := consortium.BuildingIDParam(r)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	expenseID, err := expenseIDParam(r)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	in, ok := h.decode(w, r)
	if !ok {
		return
	}
	e, err := h.service.Update(r.Context(), buildingID, expenseID, in)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, e)
}

// Remove deletes (or rejects) an expense.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	buildingID, err := consortium.BuildingIDParam(r)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	expenseID, err := expenseIDParam(r)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	if err := h.service.Remove(r.Context(), buildingID, expenseID); err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusNoContent, nil)
}

// BulkReplace swaps the whole expense set from an import payload.
func (h *Handler) BulkReplace(w http.ResponseWriter, r *http.Request) {
	buildingID, err := consortium.BuildingIDParam(r)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	var reqs []expenseRequest
	if err := shared.DecodeJSON(r, &reqs); err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	inputs := make([]ExpenseInput, 0, len(reqs))
	for _, req := range reqs {
		if err := h.validate.Struct(req); err != nil {
			shared.RespondError(w, h.logger, shared.NewValidationError("", err.Error()))
			return
		}
		in, err := req.toInput()
		if err != nil {
			shared.RespondError(w, h.logger, err)
			return
		}
		inputs = append(inputs, in)
	}
	list, err := h.service.BulkReplace(r.Context(), buildingID, inputs)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, list)
}

// Approve validates a pending submission.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	buildingID, err := consortium.BuildingIDParam(r)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	expenseID, err := expenseIDParam(r)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	e, err := h.service.Approve(r.Context(), buildingID, expenseID)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, e)
}
