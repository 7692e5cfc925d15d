package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/ngunnawal/heritage/form"
	"github.com/ngunnawal/heritage/model"
	"github.com/ngunnawal/heritage/store"
)

func renderTodos(c echo.Context, db store.IStore, f *form.Todo, errs map[string]string) error {
	todos, err := db.GetTodos()
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "todo.html", map[string]interface{}{
		"baseData": baseData(c, "todo"),
		"todos":    todos,
		"form":     f,
		"errors":   errs,
	})
}

// Todos handler lists every todo item
func Todos(db store.IStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		return renderTodos(c, db, &form.Todo{}, nil)
	}
}

// CreateTodo handler. Any visitor may add an item.
func CreateTodo(db store.IStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		f := new(form.Todo)
		if err := c.Bind(f); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Bad post data")
		}

		errs := form.Errors(c.Validate(f))
		if len(errs) > 0 {
			return renderTodos(c, db, f, errs)
		}

		todo := model.TodoItem{Text: strings.TrimSpace(f.Text), Done: f.Done}
		if err := db.CreateTodo(&todo); err != nil {
			return err
		}
		log.Infof("Created todo item %d", todo.ID)
		return c.Redirect(http.StatusSeeOther, "/todo")
	}
}

// UpdateTodo handler changes the text and done flag of an item
func UpdateTodo(db store.IStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := idParam(c, "id")
		if err != nil {
			return err
		}
		todo, err := db.GetTodoByID(id)
		if err != nil {
			return err
		}

		f := new(form.Todo)
		if err := c.Bind(f); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Bad post data")
		}

		errs := form.Errors(c.Validate(f))
		if len(errs) > 0 {
			return renderTodos(c, db, f, errs)
		}

		todo.Text = strings.TrimSpace(f.Text)
		todo.Done = f.Done
		if err := db.SaveTodo(todo); err != nil {
			return err
		}
		log.Infof("Updated todo item %d", todo.ID)
		addFlash(c, "Todo item updated.")
		return c.Redirect(http.StatusSeeOther, "/todo")
	}
}

// DeleteTodo handler removes an item. It is served on GET so plain links in
// the todo list can use it.
func DeleteTodo(db store.IStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := idParam(c, "id")
		if err != nil {
			return err
		}
		if err := db.DeleteTodo(id); err != nil {
			return err
		}
		log.Infof("Deleted todo item %d", id)
		addFlash(c, "Todo item deleted.")
		return c.Redirect(http.StatusSeeOther, "/todo")
	}
}
