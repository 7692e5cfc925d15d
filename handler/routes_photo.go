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
	"github.com/ngunnawal/heritage/upload"
)

const msgFileRejected = "Only image files (png, jpg, jpeg, gif) up to 10 MB are allowed."

func renderPhotos(c echo.Context, db store.IStore, f *form.Photo, errs map[string]string) error {
	ident, _ := currentIdentity(c)
	photos, err := db.GetPhotosByUser(ident.UserID)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "photos.html", map[string]interface{}{
		"baseData": baseData(c, "photos"),
		"photos":   photos,
		"form":     f,
		"errors":   errs,
	})
}

// Photos handler lists the photos of the logged in user
func Photos(db store.IStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		return renderPhotos(c, db, &form.Photo{}, nil)
	}
}

// UploadPhoto handler stores an image under a generated name and records it
// for the logged in user
func UploadPhoto(db store.IStore, policy upload.Policy, dir string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ident, _ := currentIdentity(c)

		f := new(form.Photo)
		if err := c.Bind(f); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Bad post data")
		}

		errs := form.Errors(c.Validate(f))
		fh, err := c.FormFile("photo")
		if err != nil {
			errs["photo"] = "This field is required."
		}
		if len(errs) > 0 {
			return renderPhotos(c, db, f, errs)
		}

		name, err := policy.Save(dir, fh)
		if err != nil {
			if errors.Is(err, upload.ErrExtensionNotAllowed) ||
				errors.Is(err, upload.ErrContentTypeNotAllowed) ||
				errors.Is(err, upload.ErrTooLarge) {
				log.Warnf("Rejected upload %q from user %d: %v", fh.Filename, ident.UserID, err)
				errs["photo"] = msgFileRejected
				return renderPhotos(c, db, f, errs)
			}
			return err
		}

		photo := model.Photo{
			Title:        strings.TrimSpace(f.Title),
			Filename:     name,
			OriginalName: fh.Filename,
			UserID:       ident.UserID,
		}
		if err := db.CreatePhoto(&photo); err != nil {
			return err
		}
		log.Infof("User %d uploaded photo %d as %s", ident.UserID, photo.ID, name)
		addFlash(c, "Photo uploaded.")
		return c.Redirect(http.StatusSeeOther, "/userPhotos")
	}
}
