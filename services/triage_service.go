package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/waste-point/web-go/models"
	"github.com/waste-point/web-go/session"
)

type TriageStore interface {
	UpdateStatus(ctx context.Context, reportID uint, status models.ReportStatus, adminID uint) (*models.StatusChange, error)
	ListAll(ctx context.Context) ([]models.ReportListing, error)
}

type TriageService struct {
	Reports TriageStore
}

func NewTriageService(reports TriageStore) *TriageService {
	return &TriageService{Reports: reports}
}

// StatusUpdate carries the raw form values of a triage action.
type StatusUpdate struct {
	ReportID  string
	NewStatus string
}

type TriageResult struct {
	Reports []models.ReportListing
	// Change is set when an update was applied, UpdateErr when it was rejected.
	Change    *models.StatusChange
	UpdateErr error
}

// Triage applies the optional update and then lists every report. A rejected
// update does not prevent the listing.
func (s *TriageService) Triage(ctx context.Context, sess *session.Context, update *StatusUpdate) (*TriageResult, error) {
	if err := Authorize(sess, models.CapabilityTriageReports); err != nil {
		return nil, err
	}

	result := &TriageResult{}
	if update != nil {
		result.Change, result.UpdateErr = s.apply(ctx, sess, update)
	}

	reports, err := s.Reports.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	result.Reports = reports
	return result, nil
}

func (s *TriageService) apply(ctx context.Context, sess *session.Context, update *StatusUpdate) (*models.StatusChange, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(update.ReportID), 10, 64)
	if err != nil || id == 0 {
		return nil, fmt.Errorf("%w: invalid report id", ErrValidation)
	}

	status, ok := models.ParseReportStatus(update.NewStatus)
	if !ok {
		return nil, ErrInvalidStatus
	}

	change, err := s.Reports.UpdateStatus(ctx, uint(id), status, sess.UserID)
	if err != nil {
		if UserFacing(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	log.Printf("Admin %d moved report %d from %s to %s", sess.UserID, id, change.FromStatus, change.ToStatus)
	return change, nil
}
