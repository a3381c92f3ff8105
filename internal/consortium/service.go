package consortium

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/consorcia/consorcia/internal/shared"
)

// DefaultCategories seeds the expense category set of a new building.
var DefaultCategories = []string{"mantenimiento", "servicios", "servicios públicos", "sueldos", "otros"}

// UnitGrid describes auto-generation of units at building creation.
type UnitGrid struct {
	Floors        int  `json:"floors" validate:"min=1,max=200"`
	UnitsPerFloor int  `json:"unitsPerFloor" validate:"min=1,max=50"`
	AlphaLabels   bool `json:"alphaLabels"`
}

// CreateBuildingInput carries the fields accepted when registering a building.
type CreateBuildingInput struct {
	Name          string    `json:"name" validate:"required"`
	Address       string    `json:"address"`
	TaxID         string    `json:"cuit"`
	AdminName     string    `json:"adminName"`
	AdminTaxID    string    `json:"adminCuit"`
	AdminRegistry string    `json:"adminRpa"`
	Grid          *UnitGrid `json:"grid,omitempty"`
}

// UpdateBuildingInput carries the mutable administrative metadata.
type UpdateBuildingInput struct {
	Name          string   `json:"name" validate:"required"`
	Address       string   `json:"address"`
	TaxID         string   `json:"cuit"`
	AdminName     string   `json:"adminName"`
	AdminTaxID    string   `json:"adminCuit"`
	AdminRegistry string   `json:"adminRpa"`
	Categories    []string `json:"categories"`
}

// Service manages the building aggregate lifecycle.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// WithNow overrides the clock for deterministic tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Repo exposes the repository to sibling services operating on the same
// aggregates.
func (s *Service) Repo() Repository {
	return s.repo
}

// Create registers a new building, optionally generating its unit grid with
// equal coefficients that sum to exactly 1.
func (s *Service) Create(ctx context.Context, in CreateBuildingInput) (*Building, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, shared.NewValidationError("name", "required")
	}
	b := &Building{
		ID:            uuid.New(),
		Name:          strings.TrimSpace(in.Name),
		Address:       strings.TrimSpace(in.Address),
		TaxID:         strings.TrimSpace(in.TaxID),
		AdminName:     strings.TrimSpace(in.AdminName),
		AdminTaxID:    strings.TrimSpace(in.AdminTaxID),
		AdminRegistry: strings.TrimSpace(in.AdminRegistry),
		Categories:    append([]string(nil), DefaultCategories...),
		Units:         []Unit{},
		Expenses:      []Expense{},
		Liquidations:  []Liquidation{},
	}
	if in.Grid != nil {
		units, err := generateUnits(*in.Grid)
		if err != nil {
			return nil, err
		}
		b.Units = units
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	s.logger.Info("building created",
		slog.String("building_id", b.ID.String()),
		slog.Int("units", len(b.Units)))
	return b, nil
}

// Get loads one building aggregate.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Building, error) {
	return s.repo.Load(ctx, id)
}

// List returns all managed buildings.
func (s *Service) List(ctx context.Context) ([]Building, error) {
	return s.repo.List(ctx)
}

// Update replaces the administrative metadata and category set.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateBuildingInput) (*Building, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, shared.NewValidationError("name", "required")
	}
	b, err := s.repo.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	b.Name = strings.TrimSpace(in.Name)
	b.Address = strings.TrimSpace(in.Address)
	b.TaxID = strings.TrimSpace(in.TaxID)
	b.AdminName = strings.TrimSpace(in.AdminName)
	b.AdminTaxID = strings.TrimSpace(in.AdminTaxID)
	b.AdminRegistry = strings.TrimSpace(in.AdminRegistry)
	if in.Categories != nil {
		b.Categories = append([]string(nil), in.Categories...)
	}
	if err := s.repo.Save(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Delete removes a building and everything nested in it.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// generateUnits builds a floors x departments grid. Coefficients are the
// equal share rounded to four places, with the last unit absorbing the
// rounding difference so the total is exactly 1.
func generateUnits(grid UnitGrid) ([]Unit, error) {
	if grid.Floors < 1 || grid.UnitsPerFloor < 1 {
		return nil, shared.NewValidationError("grid", "floors and unitsPerFloor must be at least 1")
	}
	total := grid.Floors * grid.UnitsPerFloor
	base := decimal.NewFromInt(1).Div(decimal.NewFromInt(int64(total))).Round(4)
	last := decimal.NewFromInt(1).Sub(base.Mul(decimal.NewFromInt(int64(total - 1))))
	units := make([]Unit, 0, total)
	for f := 1; f <= grid.Floors; f++ {
		for u := 1; u <= grid.UnitsPerFloor; u++ {
			dept := fmt.Sprintf("%d", u)
			if grid.AlphaLabels {
				dept = string(rune('A' + u - 1))
			}
			coeff := base
			if len(units) == total-1 {
				coeff = last
			}
			units = append(units, Unit{
				ID:          uuid.New(),
				Floor:       fmt.Sprintf("%d", f),
				Department:  dept,
				Owner:       NoOwner,
				Coefficient: coeff,
				Payments:    []Payment{},
			})
		}
	}
	return units, nil
}
