package router

import (
	"errors"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/ngunnawal/heritage/handler"
	"github.com/ngunnawal/heritage/util"
)

// pages rendered inside base.html
var pages = []string{
	"index.html",
	"registration.html",
	"login.html",
	"contact.html",
	"todo.html",
	"photos.html",
	"profile.html",
	"reset_password.html",
	"users.html",
	"contact_messages.html",
	"unauthorized.html",
	"404.html",
	"500.html",
}

// TemplateRegistry is a custom html/template renderer for Echo framework
type TemplateRegistry struct {
	templates map[string]*template.Template
	extraData map[string]string
}

// Render e.Renderer interface
func (t *TemplateRegistry) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	tmpl, ok := t.templates[name]
	if !ok {
		return errors.New("Template not found -> " + name)
	}

	// inject more app data information. E.g. siteTitle
	if m, ok := data.(map[string]interface{}); ok {
		for k, v := range t.extraData {
			if _, set := m[k]; !set {
				m[k] = v
			}
		}
	}

	return tmpl.ExecuteTemplate(w, "base.html", data)
}

// LoadTemplates parses every page together with the base layout
func LoadTemplates(tmplDir fs.FS) (map[string]*template.Template, error) {
	tmplBaseString, err := util.StringFromEmbedFile(tmplDir, "base.html")
	if err != nil {
		return nil, err
	}

	funcs := template.FuncMap{
		"DateTime": func(t time.Time) string {
			return t.Format("2 Jan 2006 15:04")
		},
	}

	templates := make(map[string]*template.Template, len(pages))
	for _, name := range pages {
		page, err := util.StringFromEmbedFile(tmplDir, name)
		if err != nil {
			return nil, err
		}
		tmpl, err := template.New(name).Funcs(funcs).Parse(tmplBaseString + page)
		if err != nil {
			return nil, err
		}
		templates[name] = tmpl
	}
	return templates, nil
}

// New function
func New(tmplDir fs.FS, extraData map[string]string, secret []byte) *echo.Echo {
	templates, err := LoadTemplates(tmplDir)
	if err != nil {
		log.Fatal(err)
	}

	lvl, err := util.ParseLogLevel(util.LookupEnvOrString(util.LogLevel, "INFO"))
	if err != nil {
		log.Fatal(err)
	}
	logConfig := middleware.DefaultLoggerConfig
	logConfig.Skipper = func(c echo.Context) bool {
		resp := c.Response()
		if resp.Status >= 500 && lvl > log.ERROR { // do not log if response is 5XX but log level is higher than ERROR
			return true
		} else if resp.Status >= 400 && lvl > log.WARN { // do not log if response is 4XX but log level is higher than WARN
			return true
		} else if lvl > log.DEBUG { // do not log if log level is higher than DEBUG
			return true
		}
		return false
	}

	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	e := echo.New()
	e.Logger.SetLevel(lvl)
	log.SetLevel(lvl)
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	e.Use(middleware.LoggerWithConfig(logConfig))
	e.Use(middleware.BodyLimit(util.MaxBodySize))
	e.Use(session.Middleware(store))
	e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
		TokenLookup:    "form:csrf_token",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSameSite: http.SameSiteLaxMode,
	}))
	e.HideBanner = true
	e.HidePort = lvl > log.INFO // hide the port output if the log level is higher than INFO
	e.Validator = NewValidator()
	e.Renderer = &TemplateRegistry{
		templates: templates,
		extraData: extraData,
	}
	e.HTTPErrorHandler = handler.ErrorHandler

	return e
}
