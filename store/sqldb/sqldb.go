// Package sqldb provides a SQL storage backend (SQLite or PostgreSQL)
package sqldb

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/ngunnawal/heritage/model"
	"github.com/ngunnawal/heritage/store"
	"github.com/ngunnawal/heritage/util"
)

// SqlDB - Representation of a SQL database backend
type SqlDB struct {
	conn   *sqlx.DB
	schema string
}

// New opens a connection pool. driver is "sqlite" or "postgres".
func New(driver string, dsn string) (*SqlDB, error) {
	var driverName, schema string
	switch driver {
	case "sqlite":
		driverName, schema = "sqlite", sqliteSchema
	case "postgres":
		driverName, schema = "pgx", postgresSchema
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	conn, err := sqlx.Connect(driverName, dsn)
	if err != nil {
		return nil, err
	}
	conn.SetConnMaxLifetime(time.Minute * 3)
	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(10)
	if driver == "sqlite" {
		// a single writer avoids SQLITE_BUSY under concurrent requests
		conn.SetMaxOpenConns(1)
	}

	ans := SqlDB{
		conn:   conn,
		schema: schema,
	}
	return &ans, nil
}

// Init creates the tables. Safe to call multiple times.
func (o *SqlDB) Init() error {
	if _, err := o.conn.Exec(o.schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (o *SqlDB) Close() error {
	return o.conn.Close()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// exactlyOne maps an update or delete that touched no row to store.ErrNotFound
func exactlyOne(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

const userColumns = "id, email, name, password_hash, role, active, created_at, updated_at"

func (o *SqlDB) GetUsers() ([]model.User, error) {
	users := []model.User{}
	err := o.conn.Select(&users, "SELECT "+userColumns+" FROM users ORDER BY id")
	return users, err
}

func (o *SqlDB) GetUserByID(id int64) (model.User, error) {
	user := model.User{}
	err := o.conn.Get(&user, o.conn.Rebind("SELECT "+userColumns+" FROM users WHERE id = ?"), id)
	return user, notFound(err)
}

func (o *SqlDB) GetUserByEmail(email string) (model.User, error) {
	user := model.User{}
	err := o.conn.Get(&user, o.conn.Rebind("SELECT "+userColumns+" FROM users WHERE email = ?"), util.NormalizeEmail(email))
	return user, notFound(err)
}

func (o *SqlDB) CreateUser(user *model.User) error {
	user.Email = util.NormalizeEmail(user.Email)
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt

	err := o.conn.QueryRowx(
		o.conn.Rebind("INSERT INTO users (email, name, password_hash, role, active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id"),
		user.Email, user.Name, user.PasswordHash, string(user.Role), user.Active, user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicateEmail
		}
		return fmt.Errorf("cannot insert user: %w", err)
	}
	return nil
}

func (o *SqlDB) SaveUser(user model.User) error {
	res, err := o.conn.Exec(
		o.conn.Rebind("UPDATE users SET email = ?, name = ?, password_hash = ?, role = ?, active = ?, updated_at = ? WHERE id = ?"),
		util.NormalizeEmail(user.Email), user.Name, user.PasswordHash, string(user.Role), user.Active, time.Now().UTC(), user.ID,
	)
	if err != nil && isUniqueViolation(err) {
		return store.ErrDuplicateEmail
	}
	return exactlyOne(res, err)
}

func (o *SqlDB) CreateContactMessage(msg *model.ContactMessage) error {
	msg.CreatedAt = time.Now().UTC()
	return o.conn.QueryRowx(
		o.conn.Rebind("INSERT INTO contact_messages (name, email, message, created_at) VALUES (?, ?, ?, ?) RETURNING id"),
		msg.Name, msg.Email, msg.Message, msg.CreatedAt,
	).Scan(&msg.ID)
}

func (o *SqlDB) GetContactMessages() ([]model.ContactMessage, error) {
	messages := []model.ContactMessage{}
	err := o.conn.Select(&messages, "SELECT id, name, email, message, created_at FROM contact_messages ORDER BY id DESC")
	return messages, err
}

func (o *SqlDB) CreateTodo(todo *model.TodoItem) error {
	todo.CreatedAt = time.Now().UTC()
	todo.UpdatedAt = todo.CreatedAt
	return o.conn.QueryRowx(
		o.conn.Rebind("INSERT INTO todos (text, done, created_at, updated_at) VALUES (?, ?, ?, ?) RETURNING id"),
		todo.Text, todo.Done, todo.CreatedAt, todo.UpdatedAt,
	).Scan(&todo.ID)
}

func (o *SqlDB) GetTodos() ([]model.TodoItem, error) {
	todos := []model.TodoItem{}
	err := o.conn.Select(&todos, "SELECT id, text, done, created_at, updated_at FROM todos ORDER BY id")
	return todos, err
}

func (o *SqlDB) GetTodoByID(id int64) (model.TodoItem, error) {
	todo := model.TodoItem{}
	err := o.conn.Get(&todo, o.conn.Rebind("SELECT id, text, done, created_at, updated_at FROM todos WHERE id = ?"), id)
	return todo, notFound(err)
}

func (o *SqlDB) SaveTodo(todo model.TodoItem) error {
	return exactlyOne(o.conn.Exec(
		o.conn.Rebind("UPDATE todos SET text = ?, done = ?, updated_at = ? WHERE id = ?"),
		todo.Text, todo.Done, time.Now().UTC(), todo.ID,
	))
}

func (o *SqlDB) DeleteTodo(id int64) error {
	return exactlyOne(o.conn.Exec(o.conn.Rebind("DELETE FROM todos WHERE id = ?"), id))
}

func (o *SqlDB) CreatePhoto(photo *model.Photo) error {
	photo.CreatedAt = time.Now().UTC()
	return o.conn.QueryRowx(
		o.conn.Rebind("INSERT INTO photos (title, filename, original_name, user_id, created_at) VALUES (?, ?, ?, ?, ?) RETURNING id"),
		photo.Title, photo.Filename, photo.OriginalName, photo.UserID, photo.CreatedAt,
	).Scan(&photo.ID)
}

func (o *SqlDB) GetPhotosByUser(userID int64) ([]model.Photo, error) {
	photos := []model.Photo{}
	err := o.conn.Select(&photos,
		o.conn.Rebind("SELECT id, title, filename, original_name, user_id, created_at FROM photos WHERE user_id = ? ORDER BY id DESC"),
		userID,
	)
	return photos, err
}
