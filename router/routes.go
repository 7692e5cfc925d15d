package router

import (
	"os"

	"github.com/labstack/echo/v4"

	"github.com/ngunnawal/heritage/handler"
	"github.com/ngunnawal/heritage/notify"
	"github.com/ngunnawal/heritage/store"
	"github.com/ngunnawal/heritage/upload"
)

// Options configures the routes that need more than the store
type Options struct {
	UploadDir string
	Policy    upload.Policy
	Notifier  notify.Notifier
}

// Register binds every page of the site to app
func Register(app *echo.Echo, db store.IStore, opts Options) {
	if opts.Notifier == nil {
		opts.Notifier = notify.Nop{}
	}

	app.Use(handler.LoadIdentity(db))

	app.GET("/", handler.Index())
	app.GET("/registration", handler.RegistrationPage())
	app.POST("/registration", handler.Register(db))
	app.GET("/login.html", handler.LoginPage())
	app.POST("/login.html", handler.Login(db))
	app.GET("/logout", handler.Logout(), handler.ValidSession)
	app.GET("/contact.html", handler.ContactPage())
	app.POST("/contact.html", handler.Contact(db, opts.Notifier))

	app.GET("/todo", handler.Todos(db))
	app.POST("/todo", handler.CreateTodo(db))
	app.GET("/todoedit/:id", handler.DeleteTodo(db), handler.ValidSession, handler.NeedsAdmin)
	app.POST("/todoedit/:id", handler.UpdateTodo(db), handler.ValidSession, handler.NeedsAdmin)

	app.GET("/userPhotos", handler.Photos(db), handler.ValidSession)
	app.POST("/userPhotos", handler.UploadPhoto(db, opts.Policy, opts.UploadDir), handler.ValidSession)
	app.GET("/uploads/*", echo.StaticDirectoryHandler(os.DirFS(opts.UploadDir), false), handler.ValidSession)

	app.GET("/profile", handler.ProfilePage(), handler.ValidSession)
	app.POST("/profile", handler.UpdateProfile(db), handler.ValidSession)
	app.GET("/reset_password", handler.ResetPasswordPage(db), handler.ValidSession)
	app.POST("/reset_password", handler.ResetPassword(db), handler.ValidSession)

	for _, path := range []string{"/reset_password/:userid", "/reset_user_password/:userid"} {
		app.GET(path, handler.AdminResetPasswordPage(db), handler.ValidSession, handler.NeedsAdmin)
		app.POST(path, handler.AdminResetPassword(db), handler.ValidSession, handler.NeedsAdmin)
	}

	app.GET("/admin/list_all_users", handler.Users(db), handler.ValidSession, handler.NeedsAdmin)
	app.GET("/admin/user_enable/:userid", handler.ToggleUserActive(db), handler.ValidSession, handler.NeedsAdmin)
	app.GET("/admin/user_role/:userid", handler.ToggleUserRole(db), handler.ValidSession, handler.NeedsAdmin)
	app.GET("/contact_messages", handler.ContactMessages(db), handler.ValidSession, handler.NeedsAdmin)
}
