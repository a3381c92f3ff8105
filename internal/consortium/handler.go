package consortium

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/consorcia/consorcia/internal/shared"
)

// Handler serves building aggregate CRUD over JSON.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
}

// BuildingIDParam extracts the building id path parameter.
func BuildingIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "buildingID"))
	if err != nil {
		return uuid.Nil, shared.NewValidationError("buildingID", "must be a uuid")
	}
	return id, nil
}

// List returns all managed buildings.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, list)
}

// Create registers a building, optionally generating its unit grid.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateBuildingInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	if err := h.validate.Struct(in); err != nil {
		shared.RespondError(w, h.logger, shared.NewValidationError("", err.Error()))
		return
	}
	b, err := h.service.Create(r.Context(), in)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusCreated, b)
}

// Get returns one building aggregate.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := BuildingIDParam(r)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, b)
}

// Update replaces the administrative metadata.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := BuildingIDParam(r)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	var in UpdateBuildingInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	if err := h.validate.Struct(in); err != nil {
		shared.RespondError(w, h.logger, shared.NewValidationError("", err.Error()))
		return
	}
	b, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, b)
}

// Delete removes a building.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := BuildingIDParam(r)
	if err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		shared.RespondError(w, h.logger, err)
		return
	}
	shared.RespondJSON(w, http.StatusNoContent, nil)
}
