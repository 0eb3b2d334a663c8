package echoapi

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studyflow/core"
)

// Widget containers of the auth pages.
const (
	loginContainer  = "authentication-login"
	signupContainer = "authentication-signup"
)

type authPage struct {
	AppName     string
	Title       string
	Subtitle    string
	Mount       *core.Mount // nil until the widget is ready
	SwitchText  string
	SwitchURL   string
	SwitchLabel string
}

type authPages struct {
	tmpl    *template.Template
	auth    core.Authenticator
	appName string
}

func registerAuthPages(app *echo.Echo, tmpl *template.Template, auth core.Authenticator, appName string) {
	p := authPages{tmpl: tmpl, auth: auth, appName: appName}

	app.GET("/login", p.login)
	app.GET("/signup", p.signup)
}

func (p *authPages) login(ctx echo.Context) error {
	return p.render(ctx, core.ViewLogin, loginContainer, authPage{
		Title:       "Welcome Back",
		Subtitle:    "Sign in to your account",
		SwitchText:  "Don't have an account?",
		SwitchURL:   "/signup",
		SwitchLabel: "Sign up",
	})
}

func (p *authPages) signup(ctx echo.Context) error {
	return p.render(ctx, core.ViewSignup, signupContainer, authPage{
		Title:       "Create Account",
		Subtitle:    "Start organizing your studies",
		SwitchText:  "Already have an account?",
		SwitchURL:   "/login",
		SwitchLabel: "Sign in",
	})
}

// render mounts the widget only once it is ready. Until then the page shows a loading state.
func (p *authPages) render(ctx echo.Context, view, container string, page authPage) error {
	page.AppName = p.appName
	if p.auth != nil && p.auth.IsReady() {
		m, err := p.auth.Mount(container, view)
		if err != nil {
			return errors.Wrapf(err, "mounting %s widget", view)
		}
		page.Mount = &m
	}

	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, "auth.gohtml", page); err != nil {
		return errors.Wrap(err, "rendering auth page")
	}
	return ctx.HTMLBlob(http.StatusOK, buf.Bytes())
}
