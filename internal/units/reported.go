package units

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/consorcia/consorcia/internal/consortium"
	"github.com/consorcia/consorcia/internal/money"
	"github.com/consorcia/consorcia/internal/shared"
)

// ReportInput carries a resident's payment claim from the neighbor portal.
type ReportInput struct {
	UnitID        uuid.UUID   `json:"unitId"`
	Amount        money.Money `json:"amount"`
	Date          time.Time   `json:"date"`
	VoucherNumber string      `json:"voucherNumber"`
	Notes         string      `json:"notes"`
}

// SubmitReport records a payment claim. The status is forced to pending
// regardless of the caller's input; residents cannot verify their own claims.
func (s *Service) SubmitReport(ctx context.Context, buildingID uuid.UUID, in ReportInput) (*consortium.ReportedPayment, error) {
	rp := consortium.ReportedPayment{
		ID:            uuid.New(),
		UnitID:        in.UnitID,
		Amount:        in.Amount,
		Date:          in.Date,
		VoucherNumber: strings.TrimSpace(in.VoucherNumber),
		Notes:         strings.TrimSpace(in.Notes),
		Status:        consortium.ReportPending,
	}
	if err := rp.Validate(); err != nil {
		return nil, err
	}
	b, err := s.repo.Load(ctx, buildingID)
	if err != nil {
		return nil, err
	}
	if _, err := b.FindUnit(in.UnitID); err != nil {
		return nil, shared.NewValidationError("unitId", "unknown unit")
	}
	b.ReportedPayments = append(b.ReportedPayments, rp)
	if err := s.repo.Save(ctx, b); err != nil {
		return nil, err
	}
	s.logger.Info("payment claim submitted",
		slog.String("building_id", buildingID.String()),
		slog.String("report_id", rp.ID.String()),
		slog.String("amount", money.Format(rp.Amount)))
	return &rp, nil
}

// VerifyReport approves a pending claim and records the claimed amount as a
// payment on the unit. A claim already approved or rejected is a conflict,
// so a claim can never turn into two payments.
func (s *Service) VerifyReport(ctx context.Context, buildingID, reportID uuid.UUID) (*consortium.ReportedPayment, error) {
	b, err := s.repo.Load(ctx, buildingID)
	if err != nil {
		return nil, err
	}
	rp, err := b.FindReportedPayment(reportID)
	if err != nil {
		return nil, err
	}
	if rp.Status != consortium.ReportPending {
		return nil, shared.ErrConflict
	}
	u, err := b.FindUnit(rp.UnitID)
	if err != nil {
		return nil, err
	}
	u.Payments = append(u.Payments, consortium.Payment{
		ID:     uuid.New(),
		Amount: rp.Amount,
		Date:   rp.Date,
	})
	rp.Status = consortium.ReportApproved
	if err := s.repo.Save(ctx, b); err != nil {
		return nil, err
	}
	s.bump(ctx)
	s.logger.Info("payment claim verified",
		slog.String("building_id", buildingID.String()),
		slog.String("report_id", reportID.String()),
		slog.String("unit", u.Label()))
	return rp, nil
}

// RejectReport marks a pending claim rejected. The claim stays in the list
// so the resident can see the verdict; no payment is recorded.
func (s *Service) RejectReport(ctx context.Context, buildingID, reportID uuid.UUID) (*consortium.ReportedPayment, error) {
	b, err := s.repo.Load(ctx, buildingID)
	if err != nil {
		return nil, err
	}
	rp, err := b.FindReportedPayment(reportID)
	if err != nil {
		return nil, err
	}
	if rp.Status != consortium.ReportPending {
		return nil, shared.ErrConflict
	}
	rp.Status = consortium.ReportRejected
	if err := s.repo.Save(ctx, b); err != nil {
		return nil, err
	}
	s.logger.Info("payment claim rejected",
		slog.String("building_id", buildingID.String()),
		slog.String("report_id", reportID.String()))
	return rp, nil
}

// ListReports returns the building's payment claims, optionally only the
// ones still awaiting a verdict.
func (s *Service) ListReports(ctx context.Context, buildingID uuid.UUID, pendingOnly bool) ([]consortium.ReportedPayment, error) {
	b, err := s.repo.Load(ctx, buildingID)
	if err != nil {
		return nil, err
	}
	if !pendingOnly {
		return b.ReportedPayments, nil
	}
	out := make([]consortium.ReportedPayment, 0, len(b.ReportedPayments))
	for _, rp := range b.ReportedPayments {
		if rp.Status == consortium.ReportPending {
			out = append(out, rp)
		}
	}
	return out, nil
}
