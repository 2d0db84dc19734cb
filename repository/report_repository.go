package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/waste-point/web-go/models"
	"gorm.io/gorm"
)

type ReportRepository struct {
	DB *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{DB: db}
}

// Insert stores a new report. Status defaults to pending.
func (r *ReportRepository) Insert(ctx context.Context, report *models.Report) error {
	if report.Status == "" {
		report.Status = models.StatusPending
	}
	if !report.Status.Valid() {
		return ErrInvalidStatus
	}
	return r.DB.WithContext(ctx).Create(report).Error
}

func (r *ReportRepository) Get(ctx context.Context, id uint) (*models.Report, error) {
	var report models.Report
	err := r.DB.WithContext(ctx).First(&report, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// ListForUser returns the user's reports, newest first.
func (r *ReportRepository) ListForUser(ctx context.Context, userID uint) ([]models.Report, error) {
	var reports []models.Report
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&reports).Error
	return reports, err
}

// ListAll returns every report with its reporter's name, newest first.
func (r *ReportRepository) ListAll(ctx context.Context) ([]models.ReportListing, error) {
	var reports []models.ReportListing
	err := r.DB.WithContext(ctx).Model(&models.Report{}).
		Select("reports.*, COALESCE(users.name, '') AS reporter").
		Joins("LEFT JOIN users ON users.id = reports.user_id").
		Order("reports.created_at DESC, reports.id DESC").
		Scan(&reports).Error
	return reports, err
}

// UpdateStatus sets a report's status and records who changed it. Unknown
// statuses and missing reports are rejected; otherwise the last write wins.
func (r *ReportRepository) UpdateStatus(ctx context.Context, reportID uint, status models.ReportStatus, adminID uint) (*models.StatusChange, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	var change *models.StatusChange
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var report models.Report
		if err := tx.First(&report, reportID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		from := report.Status
		if err := tx.Model(&report).Update("status", status).Error; err != nil {
			return fmt.Errorf("update status: %w", err)
		}

		change = &models.StatusChange{
			ReportID:   report.ID,
			AdminID:    adminID,
			FromStatus: from,
			ToStatus:   status,
		}
		return tx.Create(change).Error
	})
	if err != nil {
		return nil, err
	}
	return change, nil
}

// StatusHistory returns the triage actions on a report, oldest first.
func (r *ReportRepository) StatusHistory(ctx context.Context, reportID uint) ([]models.StatusChange, error) {
	var changes []models.StatusChange
	err := r.DB.WithContext(ctx).
		Where("report_id = ?", reportID).
		Order("created_at ASC, id ASC").
		Find(&changes).Error
	return changes, err
}

// ReferencedImages is the set of upload names still attached to a report.
func (r *ReportRepository) ReferencedImages(ctx context.Context) (map[string]struct{}, error) {
	var names []string
	err := r.DB.WithContext(ctx).Model(&models.Report{}).
		Where("image IS NOT NULL AND image <> ''").
		Pluck("image", &names).Error
	if err != nil {
		return nil, err
	}

	refs := make(map[string]struct{}, len(names))
	for _, n := range names {
		refs[n] = struct{}{}
	}
	return refs, nil
}
