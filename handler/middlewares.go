package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/ngunnawal/heritage/store"
)

// ErrorHandler renders the 404 page for unknown routes and records, and the
// generic error page for everything else. Error details are logged, never
// shown.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
	} else if errors.Is(err, store.ErrNotFound) {
		code = http.StatusNotFound
	}

	name := "500.html"
	if code == http.StatusNotFound || code == http.StatusMethodNotAllowed {
		code = http.StatusNotFound
		name = "404.html"
	}

	req := c.Request()
	if code >= http.StatusInternalServerError {
		log.Errorf("%s %s failed: %v", req.Method, req.URL.Path, err)
	} else {
		log.Warnf("%s %s: %v", req.Method, req.URL.Path, err)
	}

	if req.Method == http.MethodHead {
		if err := c.NoContent(code); err != nil {
			log.Error(err)
		}
		return
	}

	rerr := c.Render(code, name, map[string]interface{}{
		"baseData": baseData(c, ""),
		"code":     code,
		"status":   http.StatusText(code),
	})
	if rerr != nil {
		log.Error("Cannot render error page: ", rerr)
		c.String(code, http.StatusText(code))
	}
}

// idParam parses a positive numeric path parameter. Anything else is a 404.
func idParam(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.ErrNotFound
	}
	return id, nil
}
