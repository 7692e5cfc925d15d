package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/ngunnawal/heritage/form"
	"github.com/ngunnawal/heritage/model"
	"github.com/ngunnawal/heritage/store"
	"github.com/ngunnawal/heritage/util"
)

const usersPath = "/admin/list_all_users"

func renderProfile(c echo.Context, f *form.Profile, errs map[string]string) error {
	return c.Render(http.StatusOK, "profile.html", map[string]interface{}{
		"baseData": baseData(c, "profile"),
		"form":     f,
		"errors":   errs,
	})
}

// ProfilePage handler shows the own profile, pre-filled from the identity
func ProfilePage() echo.HandlerFunc {
	return func(c echo.Context) error {
		ident, _ := currentIdentity(c)
		return renderProfile(c, &form.Profile{Name: ident.Name, Email: ident.Email}, nil)
	}
}

// UpdateProfile handler changes the own name and email
func UpdateProfile(db store.IStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		ident, _ := currentIdentity(c)

		f := new(form.Profile)
		if err := c.Bind(f); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Bad post data")
		}

		errs := form.Errors(c.Validate(f))
		if len(errs) > 0 {
			return renderProfile(c, f, errs)
		}

		user, err := db.GetUserByID(ident.UserID)
		if err != nil {
			return err
		}
		user.Name = strings.TrimSpace(f.Name)
		user.Email = f.Email

		err = db.SaveUser(user)
		if errors.Is(err, store.ErrDuplicateEmail) {
			errs["email"] = msgEmailTaken
			return renderProfile(c, f, errs)
		}
		if err != nil {
			return err
		}
		log.Infof("User %d updated their profile", user.ID)
		addFlash(c, "Profile updated.")
		return c.Redirect(http.StatusSeeOther, "/profile")
	}
}

func renderPasswordReset(c echo.Context, target model.User, errs map[string]string) error {
	return c.Render(http.StatusOK, "reset_password.html", map[string]interface{}{
		"baseData": baseData(c, "profile"),
		"target":   target,
		"action":   c.Request().URL.Path,
		"errors":   errs,
	})
}

// setPassword validates the reset form and stores the new hash for user.
// It returns the field errors when the form is invalid.
func setPassword(c echo.Context, db store.IStore, user model.User) (map[string]string, error) {
	f := new(form.PasswordReset)
	if err := c.Bind(f); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Bad post data")
	}

	errs := form.Errors(c.Validate(f))
	if len(errs) > 0 {
		return errs, nil
	}

	hash, err := util.HashPassword(f.Password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash
	return nil, db.SaveUser(user)
}

// ResetPasswordPage handler
func ResetPasswordPage(db store.IStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		ident, _ := currentIdentity(c)
		user, err := db.GetUserByID(ident.UserID)
		if err != nil {
			return err
		}
		return renderPasswordReset(c, user, nil)
	}
}

// ResetPassword handler changes the own password
func ResetPassword(db store.IStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		ident, _ := currentIdentity(c)
		user, err := db.GetUserByID(ident.UserID)
		if err != nil {
			return err
		}

		errs, err := setPassword(c, db, user)
		if err != nil {
			return err
		}
		if len(errs) > 0 {
			return renderPasswordReset(c, user, errs)
		}
		log.Infof("User %d changed their password", user.ID)
		addFlash(c, "Your password has been updated.")
		return c.Redirect(http.StatusSeeOther, "/profile")
	}
}

// AdminResetPasswordPage handler. The form posts back to the path it was
// served on.
func AdminResetPasswordPage(db store.IStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		target, err := targetUser(c, db)
		if err != nil {
			return err
		}
		return renderPasswordReset(c, target, nil)
	}
}

// AdminResetPassword handler sets the password of any user
func AdminResetPassword(db store.IStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		ident, _ := currentIdentity(c)
		target, err := targetUser(c, db)
		if err != nil {
			return err
		}

		errs, err := setPassword(c, db, target)
		if err != nil {
			return err
		}
		if len(errs) > 0 {
			return renderPasswordReset(c, target, errs)
		}
		log.Infof("Admin %d reset the password of user %d", ident.UserID, target.ID)
		addFlash(c, "Password updated for "+target.Email+".")
		return c.Redirect(http.StatusSeeOther, usersPath)
	}
}

func targetUser(c echo.Context, db store.IStore) (model.User, error) {
	id, err := idParam(c, "userid")
	if err != nil {
		return model.User{}, err
	}
	return db.GetUserByID(id)
}

// Users handler lists every account for the admins
func Users(db store.IStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		users, err := db.GetUsers()
		if err != nil {
			return err
		}
		ident, _ := currentIdentity(c)
		return c.Render(http.StatusOK, "users.html", map[string]interface{}{
			"baseData": baseData(c, "users"),
			"users":    users,
			"selfID":   ident.UserID,
		})
	}
}

// ToggleUserActive handler enables or disables an account. An admin cannot
// disable themself.
func ToggleUserActive(db store.IStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		ident, _ := currentIdentity(c)
		target, err := targetUser(c, db)
		if err != nil {
			return err
		}
		if target.ID == ident.UserID {
			addFlash(c, "You cannot disable your own account.")
			return c.Redirect(http.StatusSeeOther, usersPath)
		}

		target.Active = !target.Active
		if err := db.SaveUser(target); err != nil {
			return err
		}
		state := "disabled"
		if target.Active {
			state = "enabled"
		}
		log.Infof("Admin %d %s user %d", ident.UserID, state, target.ID)
		addFlash(c, "User "+target.Email+" "+state+".")
		return c.Redirect(http.StatusSeeOther, usersPath)
	}
}

// ToggleUserRole handler switches an account between regular and admin. An
// admin cannot demote themself.
func ToggleUserRole(db store.IStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		ident, _ := currentIdentity(c)
		target, err := targetUser(c, db)
		if err != nil {
			return err
		}
		if target.ID == ident.UserID {
			addFlash(c, "You cannot change your own role.")
			return c.Redirect(http.StatusSeeOther, usersPath)
		}

		if model.IsAdmin(target) {
			target.Role = model.RoleRegular
		} else {
			target.Role = model.RoleAdmin
		}
		if err := db.SaveUser(target); err != nil {
			return err
		}
		log.Infof("Admin %d set role of user %d to %s", ident.UserID, target.ID, target.Role)
		addFlash(c, "User "+target.Email+" is now "+string(target.Role)+".")
		return c.Redirect(http.StatusSeeOther, usersPath)
	}
}

// ContactMessages handler lists received messages, newest first
func ContactMessages(db store.IStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		msgs, err := db.GetContactMessages()
		if err != nil {
			return err
		}
		return c.Render(http.StatusOK, "contact_messages.html", map[string]interface{}{
			"baseData": baseData(c, "contact_messages"),
			"messages": msgs,
		})
	}
}
