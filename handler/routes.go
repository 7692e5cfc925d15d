package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/ngunnawal/heritage/form"
	"github.com/ngunnawal/heritage/model"
	"github.com/ngunnawal/heritage/notify"
	"github.com/ngunnawal/heritage/store"
	"github.com/ngunnawal/heritage/util"
)

const (
	msgInvalidLogin  = "Invalid email or password."
	msgEmailTaken    = "Email is already registered."
	msgContactThanks = "Thank you for your message. We will be in touch soon."
)

// Index handler
func Index() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.Render(http.StatusOK, "index.html", map[string]interface{}{
			"baseData": baseData(c, "home"),
			"title":    util.SiteTitle,
		})
	}
}

func renderRegistration(c echo.Context, f *form.Registration, errs map[string]string) error {
	return c.Render(http.StatusOK, "registration.html", map[string]interface{}{
		"baseData": baseData(c, "registration"),
		"form":     f,
		"errors":   errs,
	})
}

// RegistrationPage handler
func RegistrationPage() echo.HandlerFunc {
	return func(c echo.Context) error {
		return renderRegistration(c, &form.Registration{}, nil)
	}
}

// Register handler creates a regular, active user
func Register(db store.IStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		f := new(form.Registration)
		if err := c.Bind(f); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Bad post data")
		}

		errs := form.Errors(c.Validate(f))
		if len(errs) == 0 {
			hash, err := util.HashPassword(f.Password)
			if err != nil {
				return err
			}
			user := model.User{
				Email:        f.Email,
				Name:         strings.TrimSpace(f.Name),
				PasswordHash: hash,
				Role:         model.RoleRegular,
				Active:       true,
			}
			err = db.CreateUser(&user)
			switch {
			case errors.Is(err, store.ErrDuplicateEmail):
				errs["email"] = msgEmailTaken
			case err != nil:
				return err
			default:
				log.Infof("Registered user %d (%s)", user.ID, user.Email)
				addFlash(c, "Registration successful. Please log in.")
				return c.Redirect(http.StatusSeeOther, loginPath)
			}
		}

		return renderRegistration(c, f, errs)
	}
}

func renderLogin(c echo.Context, f *form.Login, errs map[string]string) error {
	return c.Render(http.StatusOK, "login.html", map[string]interface{}{
		"baseData": baseData(c, "login"),
		"form":     f,
		"errors":   errs,
	})
}

// LoginPage handler
func LoginPage() echo.HandlerFunc {
	return func(c echo.Context) error {
		return renderLogin(c, &form.Login{Next: c.QueryParam("next")}, nil)
	}
}

// Login handler. Unknown email, wrong password and disabled account all
// produce the same message.
func Login(db store.IStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		f := new(form.Login)
		if err := c.Bind(f); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Bad post data")
		}

		errs := form.Errors(c.Validate(f))
		if len(errs) == 0 {
			user, err := db.GetUserByEmail(f.Email)
			if err != nil && !errors.Is(err, store.ErrNotFound) {
				return err
			}
			if err == nil {
				match, verr := util.VerifyHash(user.PasswordHash, f.Password)
				if verr != nil {
					log.Error("Cannot verify password hash: ", verr)
				}
				if match && user.Active {
					if err := createSession(c, user); err != nil {
						return err
					}
					log.Infof("User %d logged in", user.ID)
					return c.Redirect(http.StatusSeeOther, util.SafeNextURL(f.Next, "/"))
				}
			}
			log.Warnf("Failed login attempt for %s", util.NormalizeEmail(f.Email))
			errs[""] = msgInvalidLogin
		}

		f.Password = ""
		return renderLogin(c, f, errs)
	}
}

// Logout to log a user out
func Logout() echo.HandlerFunc {
	return func(c echo.Context) error {
		clearSession(c)
		return c.Redirect(http.StatusSeeOther, "/")
	}
}

func renderContact(c echo.Context, f *form.Contact, errs map[string]string) error {
	return c.Render(http.StatusOK, "contact.html", map[string]interface{}{
		"baseData": baseData(c, "contact"),
		"title":    "Contact Us",
		"form":     f,
		"errors":   errs,
	})
}

// ContactPage handler
func ContactPage() echo.HandlerFunc {
	return func(c echo.Context) error {
		return renderContact(c, &form.Contact{}, nil)
	}
}

// Contact handler stores a visitor message and notifies the admins
func Contact(db store.IStore, notifier notify.Notifier) echo.HandlerFunc {
	return func(c echo.Context) error {
		f := new(form.Contact)
		if err := c.Bind(f); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Bad post data")
		}

		errs := form.Errors(c.Validate(f))
		if len(errs) > 0 {
			return renderContact(c, f, errs)
		}

		msg := model.ContactMessage{
			Name:    strings.TrimSpace(f.Name),
			Email:   strings.TrimSpace(f.Email),
			Message: strings.TrimSpace(f.Message),
		}
		if err := db.CreateContactMessage(&msg); err != nil {
			return err
		}
		log.Infof("Stored contact message %d from %s", msg.ID, msg.Email)

		if err := notifier.ContactReceived(msg); err != nil {
			log.Warnf("Cannot notify admins of contact message %d: %v", msg.ID, err)
		}

		addFlash(c, msgContactThanks)
		return c.Redirect(http.StatusSeeOther, "/contact.html")
	}
}
