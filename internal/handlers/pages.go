package handlers

import (
	"html/template"
	"net/http"

	"github.com/diewo77/learnhub/internal/auth"
	"github.com/diewo77/learnhub/internal/obs"
)

// Minimal server-rendered pages. The real UI is a separate client; these
// pages exist so the guard's redirect rules have concrete targets and the
// flows can be exercised end to end without the client.
var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Title}} - LearnHub</title></head>
<body>
<h1>{{.Title}}</h1>
{{if .Email}}<p>Signed in as {{.Email}} ({{.Role}})</p>{{end}}
{{if .ShowAuthForm}}
<form method="post" action="/auth/{{.FormAction}}">
{{if .ShowProfileFields}}
<input name="firstName" placeholder="first name">
<input name="lastName" placeholder="last name">
<select name="role">
<option value="STUDENT">Student</option>
<option value="INSTRUCTOR">Instructor</option>
<option value="COMPANY_ADMIN">Company admin</option>
</select>
<input name="companyName" placeholder="company name (company admins)">
{{end}}
<input name="email" type="email" placeholder="email">
<input name="password" type="password" placeholder="password">
<button type="submit">{{.Title}}</button>
</form>
{{end}}
</body>
</html>
`))

type pageData struct {
	Title             string
	Email             string
	Role              string
	ShowAuthForm      bool
	ShowProfileFields bool
	FormAction        string
}

type PageHandler struct{}

func NewPageHandler() *PageHandler { return &PageHandler{} }

func renderPage(w http.ResponseWriter, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.Execute(w, data); err != nil {
		obs.Log("pages.render.error", map[string]any{"error": err.Error()})
	}
}

func (h *PageHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	renderPage(w, pageData{Title: "Sign in", ShowAuthForm: true, FormAction: "login"})
}

func (h *PageHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	renderPage(w, pageData{Title: "Sign up", ShowAuthForm: true, ShowProfileFields: true, FormAction: "register"})
}

func (h *PageHandler) dashboard(title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := pageData{Title: title}
		if claims := auth.ClaimsFromContext(r.Context()); claims != nil {
			data.Email = claims.Email
			data.Role = string(claims.Role)
		}
		renderPage(w, data)
	}
}

func (h *PageHandler) Dashboard() http.HandlerFunc  { return h.dashboard("Dashboard") }
func (h *PageHandler) Student() http.HandlerFunc    { return h.dashboard("Student dashboard") }
func (h *PageHandler) Instructor() http.HandlerFunc { return h.dashboard("Instructor dashboard") }
func (h *PageHandler) Company() http.HandlerFunc    { return h.dashboard("Company dashboard") }
