package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"github.com/waste-point/web-go/utils"
)

// render executes a page template with the values every page needs.
func render(c *gin.Context, status int, page string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Session"] = utils.GetSession(c)
	data["CSRFField"] = csrf.TemplateField(c.Request)
	if _, ok := data["Flash"]; !ok {
		data["Flash"] = utils.PopFlash(c)
	}
	c.HTML(status, page, data)
}
