package controllers

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/waste-point/web-go/models"
	"github.com/waste-point/web-go/repository"
	"github.com/waste-point/web-go/services"
	"github.com/waste-point/web-go/uploads"
	"github.com/waste-point/web-go/utils"
	"gorm.io/gorm"
)

type ReportController struct {
	Reports    *repository.ReportRepository
	Submission *services.ReportService
	WasteTypes []string
}

func NewReportController(db *gorm.DB, files uploads.FileStore, wasteTypes []string) *ReportController {
	reports := repository.NewReportRepository(db)
	return &ReportController{
		Reports:    reports,
		Submission: services.NewReportService(reports, uploads.NewValidator(files)),
		WasteTypes: wasteTypes,
	}
}

func (rc *ReportController) Form(c *gin.Context) {
	render(c, http.StatusOK, "report.html", gin.H{"Title": "Report waste", "WasteTypes": rc.WasteTypes})
}

func (rc *ReportController) Submit(c *gin.Context) {
	sess := utils.GetSession(c)
	if err := services.Authorize(sess, models.CapabilitySubmitReport); err != nil {
		if errors.Is(err, services.ErrUnauthenticated) {
			utils.Redirect(c, "/login", utils.FlashWarning, "Please login to submit a report.")
			return
		}
		utils.RedirectForError(c, err, "/")
		return
	}

	file, header, err := formImage(c)
	if err != nil {
		utils.RedirectForError(c, err, "/report")
		return
	}
	var image *uploads.File
	if file != nil {
		defer file.Close()
		image = &uploads.File{Name: header.Filename, Content: file}
	}

	report, err := rc.Submission.Submit(c.Request.Context(), sess, services.SubmitInput{
		WasteType:   c.PostForm("waste_type"),
		Description: c.PostForm("description"),
		Lat:         c.PostForm("lat"),
		Lng:         c.PostForm("lng"),
		Image:       image,
	})
	if err != nil {
		utils.RedirectForError(c, err, "/report")
		return
	}

	log.Printf("Report %d accepted", report.ID)
	utils.Redirect(c, "/dashboard", utils.FlashSuccess, "Report submitted. Thank you!")
}

// formImage returns the optional "image" part of a multipart submission.
// A nil file means no image was sent.
func formImage(c *gin.Context) (multipart.File, *multipart.FileHeader, error) {
	err := c.Request.ParseMultipartForm(32 << 20)
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return nil, nil, services.ErrTooLarge
	case errors.Is(err, http.ErrNotMultipart):
		return nil, nil, nil
	case err != nil:
		return nil, nil, fmt.Errorf("parse form: %w", err)
	}

	file, header, err := c.Request.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read image: %w", err)
	}
	return file, header, nil
}

// Dashboard lists the caller's own reports, newest first.
func (rc *ReportController) Dashboard(c *gin.Context) {
	sess := utils.GetSession(c)
	reports, err := rc.Reports.ListForUser(c.Request.Context(), sess.UserID)
	if err != nil {
		utils.RedirectForError(c, err, "/")
		return
	}
	render(c, http.StatusOK, "dashboard.html", gin.H{"Title": "My reports", "Reports": reports})
}
