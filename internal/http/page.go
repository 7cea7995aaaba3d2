package http

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"signup-service/internal/form"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageTemplates = template.Must(template.New("").ParseFS(templatesFS, "templates/*.html"))

const registerPage = "register.html"

type registerView struct {
	Name   string
	Email  string
	Errors map[string]string
	Alert  string
}

func (h *Handler) showRegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, registerPage, registerView{})
}

// submitRegisterPage runs the form flow for a browser post and re-renders
// the page with field errors or an alert. The password is never echoed back.
func (h *Handler) submitRegisterPage(c *gin.Context) {
	var in form.Input
	if err := c.ShouldBind(&in); err != nil {
		h.log(c).WithError(err).Warn("bind register form")
		c.HTML(http.StatusOK, registerPage, registerView{Alert: form.MsgUnexpected})
		return
	}

	res := h.signup.Submit(c.Request.Context(), in)
	view := registerView{Errors: res.FieldErrors, Alert: res.Alert}
	if !res.Success {
		view.Name = in.Name
		view.Email = in.Email
	}
	c.HTML(http.StatusOK, registerPage, view)
}
