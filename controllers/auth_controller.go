package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/waste-point/web-go/config"
	"github.com/waste-point/web-go/repository"
	"github.com/waste-point/web-go/session"
	"github.com/waste-point/web-go/utils"
	"gorm.io/gorm"
)

const oauthStateCookie = "wp_oauth_state"

type AuthController struct {
	Users        *repository.UserRepository
	Sessions     *session.Manager
	GoogleConfig *config.GoogleConfig
}

func NewAuthController(db *gorm.DB, sessions *session.Manager, google *config.GoogleConfig) *AuthController {
	return &AuthController{
		Users:        repository.NewUserRepository(db),
		Sessions:     sessions,
		GoogleConfig: google,
	}
}

func (ac *AuthController) RegisterForm(c *gin.Context) {
	render(c, http.StatusOK, "register.html", gin.H{"Title": "Register"})
}

func (ac *AuthController) Register(c *gin.Context) {
	user, err := ac.Users.Register(c.Request.Context(), c.PostForm("name"), c.PostForm("email"), c.PostForm("password"))
	if err != nil {
		utils.RedirectForError(c, err, "/register")
		return
	}

	log.Printf("Registered user %d", user.ID)
	utils.Redirect(c, "/login", utils.FlashSuccess, "Registration successful. Please login.")
}

func (ac *AuthController) LoginForm(c *gin.Context) {
	render(c, http.StatusOK, "login.html", gin.H{"Title": "Login", "GoogleEnabled": ac.GoogleConfig != nil})
}

func (ac *AuthController) Login(c *gin.Context) {
	user, err := ac.Users.Authenticate(c.Request.Context(), c.PostForm("email"), c.PostForm("password"))
	if err != nil {
		utils.RedirectForError(c, err, "/login")
		return
	}

	if _, err := ac.Sessions.Login(c, user); err != nil {
		utils.RedirectForError(c, err, "/login")
		return
	}
	utils.Redirect(c, "/", utils.FlashSuccess, "Welcome back, "+user.Name+"!")
}

func (ac *AuthController) Logout(c *gin.Context) {
	if err := ac.Sessions.Logout(c); err != nil {
		log.Printf("Failed to end session: %v", err)
	}
	utils.Redirect(c, "/", utils.FlashInfo, "You have been logged out.")
}

// GoogleLogin sends the browser to Google's consent screen.
func (ac *AuthController) GoogleLogin(c *gin.Context) {
	state := uuid.NewString()
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/auth/google",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   ac.Sessions.Secure(),
		SameSite: http.SameSiteLaxMode,
	})
	c.Redirect(http.StatusFound, ac.GoogleConfig.AuthCodeURL(state))
}

func (ac *AuthController) GoogleCallback(c *gin.Context) {
	expected, err := c.Cookie(oauthStateCookie)
	http.SetCookie(c.Writer, &http.Cookie{Name: oauthStateCookie, Value: "", Path: "/auth/google", MaxAge: -1, HttpOnly: true})
	if err != nil || expected == "" || c.Query("state") != expected {
		utils.Redirect(c, "/login", utils.FlashDanger, "Google sign-in expired, please try again.")
		return
	}
	if c.Query("code") == "" {
		utils.Redirect(c, "/login", utils.FlashWarning, "Google sign-in was cancelled.")
		return
	}

	ctx := c.Request.Context()
	token, err := ac.GoogleConfig.ExchangeCode(ctx, c.Query("code"))
	if err != nil {
		log.Printf("Google code exchange failed: %v", err)
		utils.Redirect(c, "/login", utils.FlashDanger, "Google sign-in failed.")
		return
	}
	info, err := ac.GoogleConfig.GetUserInfo(ctx, token)
	if err != nil {
		log.Printf("Google user info failed: %v", err)
		utils.Redirect(c, "/login", utils.FlashDanger, "Google sign-in failed.")
		return
	}
	if !info.VerifiedEmail {
		utils.Redirect(c, "/login", utils.FlashDanger, "Your Google email address is not verified.")
		return
	}

	user, err := ac.Users.FindOrCreateGoogleUser(ctx, info.ID, info.Email, info.Name)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			utils.Redirect(c, "/login", utils.FlashWarning, "This email is linked to another Google account.")
			return
		}
		utils.RedirectForError(c, err, "/login")
		return
	}

	if _, err := ac.Sessions.Login(c, user); err != nil {
		utils.RedirectForError(c, err, "/login")
		return
	}
	utils.Redirect(c, "/", utils.FlashSuccess, "Welcome, "+user.Name+"!")
}
