package routes

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"github.com/waste-point/web-go/config"
	"github.com/waste-point/web-go/controllers"
	"github.com/waste-point/web-go/middleware"
	"github.com/waste-point/web-go/services"
	"github.com/waste-point/web-go/session"
	"github.com/waste-point/web-go/uploads"
	"github.com/waste-point/web-go/utils"
	"github.com/waste-point/web-go/views"
	"gorm.io/gorm"
)

// MaxRequestBody caps every form post, report photos included.
const MaxRequestBody = 10 << 20

type Dependencies struct {
	DB       *gorm.DB
	Sessions *session.Manager
	Files    uploads.FileStore
	// Google is nil when Google sign-in is not configured.
	Google     *config.GoogleConfig
	WasteTypes []string
	// CSRFKey enables CSRF protection when set; it must be 32 bytes.
	CSRFKey      []byte
	CookieSecure bool
}

func NewRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.LoggerWithWriter(os.Stdout), gin.Recovery())
	r.SetHTMLTemplate(views.Templates())
	r.StaticFS("/static", http.FS(views.Static()))

	SetupRoutes(r, deps)
	return r
}

func SetupRoutes(r *gin.Engine, deps Dependencies) {
	pageController := controllers.NewPageController(deps.DB)
	authController := controllers.NewAuthController(deps.DB, deps.Sessions, deps.Google)
	reportController := controllers.NewReportController(deps.DB, deps.Files, deps.WasteTypes)
	adminController := controllers.NewAdminController(deps.DB)
	uploadController := controllers.NewUploadController(deps.Files)

	r.GET("/health", pageController.Health)
	r.GET("/uploads/:filename", uploadController.Serve)

	site := r.Group("/")
	site.Use(middleware.LoadSession(deps.Sessions), middleware.BodyLimit(MaxRequestBody, bodyTooLarge))
	if len(deps.CSRFKey) > 0 {
		site.Use(middleware.CSRF(deps.CSRFKey, csrf.Secure(deps.CookieSecure), csrf.Path("/")))
	}
	{
		site.GET("/", pageController.Index)
		site.GET("/reports", pageController.AllReports)

		site.GET("/register", authController.RegisterForm)
		site.POST("/register", authController.Register)
		site.GET("/login", authController.LoginForm)
		site.POST("/login", authController.Login)
		site.GET("/logout", authController.Logout)
		if deps.Google != nil {
			site.GET("/auth/google/login", authController.GoogleLogin)
			site.GET("/auth/google/callback", authController.GoogleCallback)
		}

		site.GET("/report", reportController.Form)
		site.POST("/report", reportController.Submit)
		site.GET("/dashboard", middleware.RequireSession(), reportController.Dashboard)

		site.GET("/admin/reports", adminController.Reports)
		site.POST("/admin/reports", adminController.Reports)
	}
}

// bodyTooLarge sends the browser back to the form it posted from.
func bodyTooLarge(c *gin.Context) {
	utils.RedirectForError(c, services.ErrTooLarge, c.Request.URL.Path)
}
