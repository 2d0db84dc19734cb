package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/waste-point/web-go/models"
	"github.com/waste-point/web-go/session"
	"github.com/waste-point/web-go/uploads"
)

const MaxWasteTypeLength = 50

type ReportStore interface {
	Insert(ctx context.Context, report *models.Report) error
}

type ImageStore interface {
	ValidateAndStore(ctx context.Context, f *uploads.File) (string, error)
	Delete(ctx context.Context, name string) error
}

type ReportService struct {
	Reports ReportStore
	Images  ImageStore
}

func NewReportService(reports ReportStore, images ImageStore) *ReportService {
	return &ReportService{Reports: reports, Images: images}
}

type SubmitInput struct {
	WasteType   string
	Description string
	Lat         string
	Lng         string
	Image       *uploads.File
}

// Submit runs one pass of the submission workflow: authorization, field
// checks, image validation and storage, then the insert. A failed insert
// removes the image stored for it.
func (s *ReportService) Submit(ctx context.Context, sess *session.Context, in SubmitInput) (*models.Report, error) {
	if err := Authorize(sess, models.CapabilitySubmitReport); err != nil {
		return nil, err
	}

	report := &models.Report{
		UserID:      sess.UserID,
		WasteType:   strings.TrimSpace(in.WasteType),
		Description: strings.TrimSpace(in.Description),
		Status:      models.StatusPending,
	}
	if utf8.RuneCountInString(report.WasteType) > MaxWasteTypeLength {
		return nil, fmt.Errorf("%w: waste type must be at most %d characters", ErrValidation, MaxWasteTypeLength)
	}

	var err error
	if report.Latitude, err = parseCoordinate(in.Lat); err != nil {
		return nil, fmt.Errorf("%w: latitude %v", ErrValidation, err)
	}
	if report.Longitude, err = parseCoordinate(in.Lng); err != nil {
		return nil, fmt.Errorf("%w: longitude %v", ErrValidation, err)
	}

	image, err := s.Images.ValidateAndStore(ctx, in.Image)
	if err != nil {
		if errors.Is(err, ErrUnsupportedType) || errors.Is(err, ErrTooLarge) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if image != "" {
		report.Image = &image
	}

	if err := s.Reports.Insert(ctx, report); err != nil {
		if image != "" {
			if delErr := s.Images.Delete(ctx, image); delErr != nil {
				log.Printf("Failed to remove orphaned upload %s: %v", image, delErr)
			}
		}
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	if image != "" {
		log.Printf("Report %d by user %d stored image %s (uploaded as %q)", report.ID, sess.UserID, image, uploads.SanitizeFilename(in.Image.Name))
	} else {
		log.Printf("Report %d submitted by user %d", report.ID, sess.UserID)
	}
	return report, nil
}

// parseCoordinate treats an empty value as absent. Values are not range
// checked; the only requirement is a finite number for the decimal column.
func parseCoordinate(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("%q is not a number", raw)
	}
	return &v, nil
}
