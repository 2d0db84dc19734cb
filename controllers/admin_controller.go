package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/waste-point/web-go/repository"
	"github.com/waste-point/web-go/services"
	"github.com/waste-point/web-go/utils"
	"gorm.io/gorm"
)

type AdminController struct {
	Triage *services.TriageService
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{Triage: services.NewTriageService(repository.NewReportRepository(db))}
}

// Reports serves both the triage listing and status updates. The listing is
// rendered in the same response as the update.
func (ac *AdminController) Reports(c *gin.Context) {
	var update *services.StatusUpdate
	if c.Request.Method == http.MethodPost {
		update = &services.StatusUpdate{
			ReportID:  c.PostForm("report_id"),
			NewStatus: c.PostForm("new_status"),
		}
	}

	result, err := ac.Triage.Triage(c.Request.Context(), utils.GetSession(c), update)
	if err != nil {
		// Anonymous visitors lack the admin role like everyone else.
		if errors.Is(err, services.ErrUnauthenticated) {
			err = services.ErrForbidden
		}
		utils.RedirectForError(c, err, "/")
		return
	}

	status := http.StatusOK
	data := gin.H{"Title": "Triage reports", "Reports": result.Reports}
	switch {
	case result.UpdateErr != nil:
		status = http.StatusUnprocessableEntity
		data["Flash"] = &utils.Flash{Category: utils.FlashDanger, Message: utils.ErrorMessage(c, result.UpdateErr)}
	case result.Change != nil:
		data["Flash"] = &utils.Flash{
			Category: utils.FlashSuccess,
			Message:  fmt.Sprintf("Report #%d is now %s.", result.Change.ReportID, result.Change.ToStatus.Label()),
		}
	}
	render(c, status, "admin_reports.html", data)
}
