package store

import (
	"errors"

	"github.com/ngunnawal/heritage/model"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

type IStore interface {
	Init() error
	GetUsers() ([]model.User, error)
	GetUserByID(id int64) (model.User, error)
	GetUserByEmail(email string) (model.User, error)
	CreateUser(user *model.User) error
	SaveUser(user model.User) error
	CreateContactMessage(msg *model.ContactMessage) error
	GetContactMessages() ([]model.ContactMessage, error)
	CreateTodo(todo *model.TodoItem) error
	GetTodos() ([]model.TodoItem, error)
	GetTodoByID(id int64) (model.TodoItem, error)
	SaveTodo(todo model.TodoItem) error
	DeleteTodo(id int64) error
	CreatePhoto(photo *model.Photo) error
	GetPhotosByUser(userID int64) ([]model.Photo, error)
}
