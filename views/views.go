// Package views holds the embedded HTML templates and static assets.
package views

import (
	"embed"
	"html/template"
	"io/fs"
	"strconv"
	"time"

	"github.com/waste-point/web-go/models"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates parses every page. Each page is addressed by its file name.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html"))
}

// Static returns the assets served under /static.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

func FuncMap() template.FuncMap {
	return template.FuncMap{
		"coord": func(v *float64) string {
			if v == nil {
				return ""
			}
			return strconv.FormatFloat(*v, 'f', -1, 64)
		},
		"date": func(t time.Time) string {
			return t.Format("2006-01-02 15:04")
		},
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"statuses": func() []models.ReportStatus {
			return models.ReportStatuses
		},
	}
}
