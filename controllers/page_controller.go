package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/waste-point/web-go/repository"
	"github.com/waste-point/web-go/utils"
	"gorm.io/gorm"
)

type PageController struct {
	DB      *gorm.DB
	Reports *repository.ReportRepository
}

func NewPageController(db *gorm.DB) *PageController {
	return &PageController{DB: db, Reports: repository.NewReportRepository(db)}
}

func (pc *PageController) Index(c *gin.Context) {
	render(c, http.StatusOK, "index.html", gin.H{})
}

// AllReports is the public listing of every report.
func (pc *PageController) AllReports(c *gin.Context) {
	reports, err := pc.Reports.ListAll(c.Request.Context())
	if err != nil {
		utils.RedirectForError(c, err, "/")
		return
	}
	render(c, http.StatusOK, "reports.html", gin.H{"Title": "All reports", "Reports": reports})
}

func (pc *PageController) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status, code := "ok", http.StatusOK
	database := "ok"
	if err := pc.ping(ctx); err != nil {
		status, code = "degraded", http.StatusServiceUnavailable
		database = "unavailable"
		log.Printf("Health check database ping failed: %v", err)
	}
	c.JSON(code, gin.H{
		"status":   status,
		"database": database,
		"time":     time.Now().UTC().Format(time.RFC3339),
	})
}

func (pc *PageController) ping(ctx context.Context) error {
	sqlDB, err := pc.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
