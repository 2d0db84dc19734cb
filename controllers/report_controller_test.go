package controllers

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/waste-point/web-go/middleware"
	"github.com/waste-point/web-go/services"
)

func multipartRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	w.WriteField("waste_type", "plastic")
	if filename != "" {
		part, err := w.CreateFormFile("image", filename)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		part.Write(content)
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/report", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestFormImage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	type result struct {
		name string
		size int64
		err  error
	}
	rejected := func(c *gin.Context) { c.Status(http.StatusRequestEntityTooLarge) }
	run := func(req *http.Request, limit int64) result {
		var got result
		r := gin.New()
		r.POST("/report", middleware.BodyLimit(limit, rejected), func(c *gin.Context) {
			file, header, err := formImage(c)
			got.err = err
			if file != nil {
				defer file.Close()
				got.name, got.size = header.Filename, header.Size
			}
			c.Status(http.StatusNoContent)
		})
		r.ServeHTTP(httptest.NewRecorder(), req)
		return got
	}

	got := run(multipartRequest(t, "photo.png", []byte("png bytes")), 1<<20)
	if got.err != nil || got.name != "photo.png" || got.size != 9 {
		t.Fatalf("expected the uploaded image, got %+v", got)
	}

	got = run(multipartRequest(t, "", nil), 1<<20)
	if got.err != nil || got.name != "" {
		t.Fatalf("a form without an image is not an error, got %+v", got)
	}

	urlencoded := httptest.NewRequest(http.MethodPost, "/report", strings.NewReader("waste_type=glass"))
	urlencoded.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	got = run(urlencoded, 1<<20)
	if got.err != nil || got.name != "" {
		t.Fatalf("a plain form is not an error, got %+v", got)
	}

	// A body without a declared length is only caught while it is read.
	streamed := multipartRequest(t, "huge.png", make([]byte, 4096))
	streamed.ContentLength = -1
	got = run(streamed, 1024)
	if !errors.Is(got.err, services.ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge past the body limit, got %v", got.err)
	}
}

func TestBodyLimitRejectsDeclaredOversize(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reached := false
	r := gin.New()
	r.POST("/report", middleware.BodyLimit(1024, func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/report")
	}), func(c *gin.Context) {
		reached = true
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, "huge.png", make([]byte, 4096)))
	if reached || w.Code != http.StatusFound {
		t.Fatalf("oversize body should be turned away before the handler, got %d (reached=%v)", w.Code, reached)
	}
}
