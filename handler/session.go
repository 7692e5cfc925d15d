package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/ngunnawal/heritage/model"
	"github.com/ngunnawal/heritage/store"
)

const (
	sessionName    = "session"
	tokenCookie    = "session_token"
	identityKey    = "identity"
	sessionMaxAge  = 86400 * 7
	loginPath      = "/login.html"
	flashLoggedIn  = "You have been logged in."
	flashLoggedOut = "You have been logged out."
)

// getSession returns the request's session. A cookie that cannot be decoded
// yields a fresh empty session.
func getSession(c echo.Context) *sessions.Session {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		log.Warnf("Cannot decode session cookie, starting a new session: %v", err)
	}
	if sess == nil {
		sess = sessions.NewSession(nil, sessionName)
	}
	return sess
}

func saveSession(c echo.Context, sess *sessions.Session) {
	if sess.Store() == nil {
		return
	}
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		log.Error("Cannot save session: ", err)
	}
}

// LoadIdentity binds the logged in user to the request context. The user is
// re-read from the store on every request so role and active flag changes
// apply immediately.
func LoadIdentity(db store.IStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if user, ok := sessionUser(c, db); ok {
				c.Set(identityKey, model.NewIdentity(user))
			}
			return next(c)
		}
	}
}

func sessionUser(c echo.Context, db store.IStore) (model.User, bool) {
	sess := getSession(c)
	userID, ok := sess.Values["user_id"].(int64)
	if !ok || userID == 0 {
		return model.User{}, false
	}

	token, _ := sess.Values["session_token"].(string)
	cookie, err := c.Cookie(tokenCookie)
	if err != nil || token == "" || cookie.Value != token {
		return model.User{}, false
	}

	user, err := db.GetUserByID(userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Error("Cannot load session user: ", err)
		}
		return model.User{}, false
	}
	if !user.Active {
		return model.User{}, false
	}
	return user, true
}

// currentIdentity returns the identity bound by LoadIdentity
func currentIdentity(c echo.Context) (model.Identity, bool) {
	ident, ok := c.Get(identityKey).(model.Identity)
	return ident, ok
}

// ValidSession redirects anonymous visitors to the login page
func ValidSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := currentIdentity(c); !ok {
			if c.Request().Method == http.MethodGet {
				return c.Redirect(http.StatusFound, loginPath+"?next="+url.QueryEscape(c.Request().URL.RequestURI()))
			}
			return c.Redirect(http.StatusFound, loginPath)
		}
		return next(c)
	}
}

// NeedsAdmin renders the unauthorized page unless the identity is an admin
func NeedsAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ident, ok := currentIdentity(c)
		if !ok || !model.IsAdmin(ident) {
			log.Warnf("Unauthorized %s %s by user %d", c.Request().Method, c.Request().URL.Path, ident.UserID)
			return c.Render(http.StatusOK, "unauthorized.html", map[string]interface{}{
				"baseData": baseData(c, ""),
			})
		}
		return next(c)
	}
}

// createSession binds user to a fresh session token
func createSession(c echo.Context, user model.User) error {
	token := uuid.NewString()

	sess := getSession(c)
	sess.Values["user_id"] = user.ID
	sess.Values["session_token"] = token
	sess.AddFlash(flashLoggedIn)
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     tokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// clearSession to remove current session
func clearSession(c echo.Context) {
	sess := getSession(c)
	delete(sess.Values, "user_id")
	delete(sess.Values, "session_token")
	sess.AddFlash(flashLoggedOut)
	saveSession(c, sess)

	c.SetCookie(&http.Cookie{
		Name:     tokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// addFlash queues a notice for the next rendered page
func addFlash(c echo.Context, msg string) {
	sess := getSession(c)
	sess.AddFlash(msg)
	saveSession(c, sess)
}

// baseData builds the layout data and consumes pending flash notices
func baseData(c echo.Context, active string) model.BaseData {
	data := model.BaseData{Active: active}

	sess := getSession(c)
	if raw := sess.Flashes(); len(raw) > 0 {
		for _, f := range raw {
			if msg, ok := f.(string); ok {
				data.Flashes = append(data.Flashes, msg)
			}
		}
		saveSession(c, sess)
	}

	if token, ok := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string); ok {
		data.CSRFToken = token
	}

	if ident, ok := currentIdentity(c); ok {
		data.LoggedIn = true
		data.CurrentUser = ident.Name
		data.Admin = model.IsAdmin(ident)
	}
	return data
}
