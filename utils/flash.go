package utils

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

const flashCookieName = "wp_flash"

const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashWarning = "warning"
	FlashDanger  = "danger"
)

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Category string
	Message  string
}

func SetFlash(c *gin.Context, category, message string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(category + "|" + message),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlash reads and clears the pending flash, if any.
func PopFlash(c *gin.Context) *Flash {
	raw, err := c.Cookie(flashCookieName)
	if err != nil || raw == "" {
		return nil
	}
	http.SetCookie(c.Writer, &http.Cookie{Name: flashCookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})

	category, message, ok := strings.Cut(raw, "|")
	if !ok || message == "" {
		return nil
	}
	switch category {
	case FlashSuccess, FlashInfo, FlashWarning, FlashDanger:
	default:
		category = FlashInfo
	}
	return &Flash{Category: category, Message: message}
}

// Redirect flashes a message and sends the browser to location.
func Redirect(c *gin.Context, location, category, message string) {
	SetFlash(c, category, message)
	c.Redirect(http.StatusFound, location)
}
