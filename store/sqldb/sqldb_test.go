package sqldb

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/ngunnawal/heritage/model"
	"github.com/ngunnawal/heritage/store"
)

func setupTestDB(t *testing.T) *SqlDB {
	t.Helper()

	db, err := New("sqlite", filepath.Join(t.TempDir(), "heritage.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Init(); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	// schema creation must be idempotent
	if err := db.Init(); err != nil {
		t.Fatalf("Failed to re-run schema: %v", err)
	}
	return db
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	if _, err := New("oracle", "x"); err == nil {
		t.Error("Expected an error for an unsupported driver")
	}
}

func TestUsers(t *testing.T) {
	db := setupTestDB(t)

	user := model.User{Email: " Kim@Example.com", Name: "Kim", PasswordHash: "hash", Role: model.RoleRegular, Active: true}
	if err := db.CreateUser(&user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("Expected an id to be assigned")
	}

	dup := model.User{Email: "kim@example.com", Name: "Other", PasswordHash: "hash", Role: model.RoleRegular}
	if err := db.CreateUser(&dup); !errors.Is(err, store.ErrDuplicateEmail) {
		t.Errorf("Expected ErrDuplicateEmail, got %v", err)
	}

	got, err := db.GetUserByEmail("KIM@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if got.ID != user.ID || got.Role != model.RoleRegular || !got.Active {
		t.Errorf("Unexpected user: %+v", got)
	}

	got.Active = false
	got.Role = model.RoleAdmin
	if err := db.SaveUser(got); err != nil {
		t.Fatalf("SaveUser failed: %v", err)
	}
	reloaded, err := db.GetUserByID(user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if reloaded.Active || !model.IsAdmin(reloaded) {
		t.Errorf("Expected saved changes, got %+v", reloaded)
	}

	if _, err := db.GetUserByID(999); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if err := db.SaveUser(model.User{ID: 999, Email: "ghost@example.com"}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	users, err := db.GetUsers()
	if err != nil || len(users) != 1 {
		t.Errorf("Expected 1 user, got %d (%v)", len(users), err)
	}
}

func TestSaveUserEmailClash(t *testing.T) {
	db := setupTestDB(t)

	a := model.User{Email: "a@example.com", Name: "A", PasswordHash: "h", Role: model.RoleRegular, Active: true}
	b := model.User{Email: "b@example.com", Name: "B", PasswordHash: "h", Role: model.RoleRegular, Active: true}
	db.CreateUser(&a)
	db.CreateUser(&b)

	b.Email = "a@example.com"
	if err := db.SaveUser(b); !errors.Is(err, store.ErrDuplicateEmail) {
		t.Errorf("Expected ErrDuplicateEmail, got %v", err)
	}
}

func TestTodos(t *testing.T) {
	db := setupTestDB(t)

	for _, text := range []string{"one", "two", "three", "four", "five"} {
		if err := db.CreateTodo(&model.TodoItem{Text: text}); err != nil {
			t.Fatalf("CreateTodo failed: %v", err)
		}
	}

	todo, err := db.GetTodoByID(5)
	if err != nil {
		t.Fatalf("GetTodoByID failed: %v", err)
	}
	todo.Text = "five (edited)"
	todo.Done = true
	if err := db.SaveTodo(todo); err != nil {
		t.Fatalf("SaveTodo failed: %v", err)
	}

	if err := db.DeleteTodo(3); err != nil {
		t.Fatalf("DeleteTodo failed: %v", err)
	}
	if err := db.DeleteTodo(3); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if _, err := db.GetTodoByID(3); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	todos, err := db.GetTodos()
	if err != nil {
		t.Fatalf("GetTodos failed: %v", err)
	}
	if len(todos) != 4 {
		t.Fatalf("Expected 4 todos, got %d", len(todos))
	}
	last := todos[len(todos)-1]
	if last.ID != 5 || !last.Done || last.Text != "five (edited)" {
		t.Errorf("Unexpected last todo: %+v", last)
	}
}

func TestContactMessagesAndPhotos(t *testing.T) {
	db := setupTestDB(t)

	owner := model.User{Email: "owner@example.com", Name: "Owner", PasswordHash: "h", Role: model.RoleRegular, Active: true}
	db.CreateUser(&owner)

	msg := model.ContactMessage{Name: "Visitor", Email: "v@example.com", Message: "When is the open day?"}
	if err := db.CreateContactMessage(&msg); err != nil {
		t.Fatalf("CreateContactMessage failed: %v", err)
	}
	messages, err := db.GetContactMessages()
	if err != nil || len(messages) != 1 || messages[0].Message != msg.Message {
		t.Errorf("Unexpected messages: %+v (%v)", messages, err)
	}

	photo := model.Photo{Title: "Rock art", Filename: "abc.png", OriginalName: "rock.png", UserID: owner.ID}
	if err := db.CreatePhoto(&photo); err != nil {
		t.Fatalf("CreatePhoto failed: %v", err)
	}
	photos, err := db.GetPhotosByUser(owner.ID)
	if err != nil || len(photos) != 1 || photos[0].Filename != "abc.png" {
		t.Errorf("Unexpected photos: %+v (%v)", photos, err)
	}
	others, err := db.GetPhotosByUser(owner.ID + 1)
	if err != nil || len(others) != 0 {
		t.Errorf("Expected no photos for another user, got %+v (%v)", others, err)
	}
}
