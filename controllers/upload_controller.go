package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/waste-point/web-go/uploads"
)

type UploadController struct {
	Files uploads.FileStore
}

func NewUploadController(files uploads.FileStore) *UploadController {
	return &UploadController{Files: files}
}

// Serve streams a stored upload by its generated name.
func (uc *UploadController) Serve(c *gin.Context) {
	body, info, err := uc.Files.Open(c.Request.Context(), c.Param("filename"))
	if errors.Is(err, uploads.ErrNotExist) {
		c.String(http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		log.Printf("Failed to open upload %q: %v", c.Param("filename"), err)
		c.String(http.StatusInternalServerError, "could not read file")
		return
	}
	defer body.Close()

	c.DataFromReader(http.StatusOK, info.Size, info.ContentType, body, map[string]string{
		"X-Content-Type-Options": "nosniff",
		"Cache-Control":          "public, max-age=86400",
	})
}
