package units

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/consorcia/consorcia/internal/consortium"
	"github.com/consorcia/consorcia/internal/money"
	"github.com/consorcia/consorcia/internal/shared"
)

const dateLayout = "2006-01-02"

// unitRequest is the wire form of a unit. Coefficient is a decimal string
// and may be a 0-100 percentage; the service normalizes it.
type unitRequest struct {
	Floor       string `json:"floor"`
	Department  string `json:"department"`
	Owner       string `json:"owner"`
	Coefficient string `json:"coefficient" validate:"required"`
}

type paymentRequest struct {
	Amount string `json:"amount" validate:"required"`
	Date   string `json:"date" validate:"required"`
}

// accountRequest mirrors the manual worksheet. Optional fields stay nil to
// mean "derive from policy"; sending "0.00" is an explicit zero override.
type accountRequest struct {
	PreviousBalance      string  `json:"previousBalance"`
	Debt                 string  `json:"debt"`
	Interest             *string `json:"interest"`
	OrdinaryPaid         string  `json:"ordinaryPaid"`
	ExtraordinaryPaid    string  `json:"extraordinaryPaid"`
	UtilityPaid          string  `json:"utilityPaid"`
	OrdinaryDueNext      *string `json:"ordinaryDueNext"`
	ExtraordinaryDueNext *string `json:"extraordinaryDueNext"`
	UtilityDueNext       *string `json:"utilityDueNext"`
}

// Handler serves the unit ledger endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
	epsilon  decimal.Decimal
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, epsilon decimal.Decimal) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New(), epsilon: epsilon}
}

// Routes mounts the unit endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Add)
	r.Get("/coefficients", h.Coefficients)
	r.Put("/{unitID}", h.Update)
	r.Delete("/{unitID}", h.Remove)
	r.Post("/{unitID}/payments", h.RecordPayment)
	r.Put("/{unitID}/account", h.UpdateAccount)
	r.Get("/reported-payments", h.ListReports)
	r.Post("/reported-payments/{reportID}/verify", h.VerifyReport)
	r.Post("/reported-payments/{reportID}/reject", h.RejectReport)
	return r
}

func unitIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "unitID"))
	if err != nil {
		return uuid.Nil, shared.NewValidationError("unitID", "must be a uuid")
	}
	return id, nil
}

func (h *Handler) decodeUnit(w http.ResponseWriter, r *http.Request) (UnitInput, bool) {
	var req unitRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondError(w, h.logger, err)
		return UnitInput{}, false
	}
	if err := h.validate.Struct(req); err != nil {
		shared.RespondError(w, h.logger, shared.NewValidationError("", err.Error()))
		return UnitInput{}, false
	}
	coeff, err := decimal.NewFromString(req.Coefficient)
	if err != nil {
		shared.RespondError(w, h.logger, shared.NewValidationError("coefficient", "must be a decimal number"))
		return UnitInput{}, false
	}
	return UnitInput{
		Floor:       req.Floor,
		Department:  req.Department,
		Owner:       req.Owner,
		Coefficient: coeff,
	}, true
}

// Add registers a unit.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	buildingID, err := consortium.BuildingIDParam(r)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	in, ok := h.decodeUnit(w, r)
	if !ok {
		return
	}
	u, err := h.service.Add(r.Context(), buildingID, in)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusCreated, u)
}

// Update replaces a unit's identity fields.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	buildingID, err := consortium.BuildingIDParam(r)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	unitID, err := unitIDParam(r)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	in, ok := h.decodeUnit(w, r)
	if !ok {
		return
	}
	u, err := h.service.Update(r.Context(), buildingID, unitID, in)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, u)
}

// Remove deletes a unit from the live building.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	buildingID, err := consortium.BuildingIDParam(r)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	unitID, err := unitIDParam(r)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	if err := h.service.Remove(r.Context(), buildingID, unitID); err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusNoContent, nil)
}

// RecordPayment appends to a unit's payment history.
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	buildingID, err := consortium.BuildingIDParam(r)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	unitID, err := unitIDParam(r)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	var req paymentRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		shared.RespondError(w, h.logger, shared.NewValidationError("", err.Error()))
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
	p, err := h.service.RecordPayment(r.Context(), buildingID, unitID, PaymentInput{Amount: amount, Date: date})
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusCreated, p)
}

// UpdateAccount replaces the manual worksheet fields.
func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	buildingID, err := consortium.BuildingIDParam(r)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	unitID, err := unitIDParam(r)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	var req accountRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	account, err := req.toAccountState()
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	u, err := h.service.UpdateAccount(r.Context(), buildingID, unitID, account)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, u)
}

// Coefficients reports the coefficient sum and integrity flag.
func (h *Handler) Coefficients(w http.ResponseWriter, r *http.Request) {
	buildingID, err := consortium.BuildingIDParam(r)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	total, ok, err := h.service.CoefficientSummary(r.Context(), buildingID, h.epsilon)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]any{
		"coefficientSum": total,
		"coefficientOk":  ok,
	})
}

func (req accountRequest) toAccountState() (consortium.AccountState, error) {
	var out consortium.AccountState
	var err error
	if out.PreviousBalance, err = parseAmount("previousBalance", req.PreviousBalance); err != nil {
		return out, err
	}
	if out.Debt, err = parseAmount("debt", req.Debt); err != nil {
		return out, err
	}
	if out.OrdinaryPaid, err = parseAmount("ordinaryPaid", req.OrdinaryPaid); err != nil {
		return out, err
	}
	if out.ExtraordinaryPaid, err = parseAmount("extraordinaryPaid", req.ExtraordinaryPaid); err != nil {
		return out, err
	}
	if out.UtilityPaid, err = parseAmount("utilityPaid", req.UtilityPaid); err != nil {
		return out, err
	}
	if out.Interest, err = parseOptional("interest", req.Interest); err != nil {
		return out, err
	}
	if out.OrdinaryDueNext, err = parseOptional("ordinaryDueNext", req.OrdinaryDueNext); err != nil {
		return out, err
	}
	if out.ExtraordinaryDueNext, err = parseOptional("extraordinaryDueNext", req.ExtraordinaryDueNext); err != nil {
		return out, err
	}
	if out.UtilityDueNext, err = parseOptional("utilityDueNext", req.UtilityDueNext); err != nil {
		return out, err
	}
	return out, nil
}

func parseAmount(field, value string) (money.Money, error) {
	if value == "" {
		return money.Zero, nil
	}
	m, err := money.Parse(value)
	if err != nil {
		return 0, shared.NewValidationError(field, err.Error())
	}
	return m, nil
}

func parseOptional(field string, value *string) (*money.Money, error) {
	if value == nil {
		return nil, nil
	}
	m, err := money.Parse(*value)
	if err != nil {
		return nil, shared.NewValidationError(field, err.Error())
	}
	return &m, nil
}
