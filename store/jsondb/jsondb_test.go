package jsondb

import (
	"errors"
	"sync"
	"testing"

	"github.com/ngunnawal/heritage/model"
	"github.com/ngunnawal/heritage/store"
)

func setupTestDB(t *testing.T) *JsonDB {
	t.Helper()

	db, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to open json db: %v", err)
	}
	if err := db.Init(); err != nil {
		t.Fatalf("Failed to init json db: %v", err)
	}
	return db
}

func TestCreateUserAssignsIDs(t *testing.T) {
	db := setupTestDB(t)

	first := model.User{Email: "One@Example.com", Name: "One", Role: model.RoleRegular, Active: true}
	second := model.User{Email: "two@example.com", Name: "Two", Role: model.RoleRegular, Active: true}
	if err := db.CreateUser(&first); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if err := db.CreateUser(&second); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	if first.ID != 1 || second.ID != 2 {
		t.Errorf("Expected ids 1 and 2, got %d and %d", first.ID, second.ID)
	}
	if first.Email != "one@example.com" {
		t.Errorf("Expected normalized email, got %q", first.Email)
	}
	if first.CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to be set")
	}

	got, err := db.GetUserByEmail("ONE@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if got.ID != first.ID {
		t.Errorf("Expected user %d, got %d", first.ID, got.ID)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)

	if err := db.CreateUser(&model.User{Email: "dup@example.com"}); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	err := db.CreateUser(&model.User{Email: "DUP@example.com"})
	if !errors.Is(err, store.ErrDuplicateEmail) {
		t.Errorf("Expected ErrDuplicateEmail, got %v", err)
	}

	users, _ := db.GetUsers()
	if len(users) != 1 {
		t.Errorf("Expected 1 user, got %d", len(users))
	}
}

func TestSaveUser(t *testing.T) {
	db := setupTestDB(t)

	a := model.User{Email: "a@example.com", Name: "A", Active: true}
	b := model.User{Email: "b@example.com", Name: "B", Active: true}
	db.CreateUser(&a)
	db.CreateUser(&b)

	a.Name = "Alpha"
	a.Active = false
	if err := db.SaveUser(a); err != nil {
		t.Fatalf("SaveUser failed: %v", err)
	}
	got, _ := db.GetUserByID(a.ID)
	if got.Name != "Alpha" || got.Active {
		t.Errorf("Expected updated user, got %+v", got)
	}
	if !got.CreatedAt.Equal(a.CreatedAt) {
		t.Error("Expected CreatedAt to be preserved")
	}

	a.Email = "b@example.com"
	if err := db.SaveUser(a); !errors.Is(err, store.ErrDuplicateEmail) {
		t.Errorf("Expected ErrDuplicateEmail, got %v", err)
	}

	if err := db.SaveUser(model.User{ID: 99, Email: "x@example.com"}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestGetUserNotFound(t *testing.T) {
	db := setupTestDB(t)

	if _, err := db.GetUserByID(42); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if _, err := db.GetUserByEmail("nobody@example.com"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestTodoLifecycle(t *testing.T) {
	db := setupTestDB(t)

	for _, text := range []string{"Plant natives", "Clean signage", "Map songlines"} {
		if err := db.CreateTodo(&model.TodoItem{Text: text}); err != nil {
			t.Fatalf("CreateTodo failed: %v", err)
		}
	}

	todo, err := db.GetTodoByID(2)
	if err != nil {
		t.Fatalf("GetTodoByID failed: %v", err)
	}
	todo.Done = true
	if err := db.SaveTodo(todo); err != nil {
		t.Fatalf("SaveTodo failed: %v", err)
	}

	if err := db.DeleteTodo(1); err != nil {
		t.Fatalf("DeleteTodo failed: %v", err)
	}
	if err := db.DeleteTodo(1); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}

	todos, err := db.GetTodos()
	if err != nil {
		t.Fatalf("GetTodos failed: %v", err)
	}
	if len(todos) != 2 || todos[0].ID != 2 || !todos[0].Done || todos[1].ID != 3 {
		t.Errorf("Unexpected todos: %+v", todos)
	}
}

func TestTodoIDsNotReused(t *testing.T) {
	db := setupTestDB(t)

	first := model.TodoItem{Text: "a"}
	db.CreateTodo(&first)
	db.DeleteTodo(first.ID)

	second := model.TodoItem{Text: "b"}
	db.CreateTodo(&second)
	if second.ID == first.ID {
		t.Errorf("Expected a fresh id, got %d again", second.ID)
	}
}

func TestContactMessagesNewestFirst(t *testing.T) {
	db := setupTestDB(t)

	for _, name := range []string{"first", "second"} {
		if err := db.CreateContactMessage(&model.ContactMessage{Name: name, Email: "v@example.com", Message: "hi"}); err != nil {
			t.Fatalf("CreateContactMessage failed: %v", err)
		}
	}

	messages, err := db.GetContactMessages()
	if err != nil {
		t.Fatalf("GetContactMessages failed: %v", err)
	}
	if len(messages) != 2 || messages[0].Name != "second" {
		t.Errorf("Expected newest first, got %+v", messages)
	}
}

func TestPhotosFilteredByOwner(t *testing.T) {
	db := setupTestDB(t)

	db.CreatePhoto(&model.Photo{Title: "Creek", Filename: "a.png", UserID: 1})
	db.CreatePhoto(&model.Photo{Title: "Ridge", Filename: "b.png", UserID: 2})
	db.CreatePhoto(&model.Photo{Title: "Gums", Filename: "c.png", UserID: 1})

	photos, err := db.GetPhotosByUser(1)
	if err != nil {
		t.Fatalf("GetPhotosByUser failed: %v", err)
	}
	if len(photos) != 2 {
		t.Fatalf("Expected 2 photos, got %d", len(photos))
	}
	for _, p := range photos {
		if p.UserID != 1 {
			t.Errorf("Expected only user 1 photos, got %+v", p)
		}
	}

	none, err := db.GetPhotosByUser(3)
	if err != nil || len(none) != 0 {
		t.Errorf("Expected no photos, got %v (%v)", none, err)
	}
}

func TestConcurrentRegistrationSameEmail(t *testing.T) {
	db := setupTestDB(t)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- db.CreateUser(&model.User{Email: "race@example.com"})
		}()
	}
	wg.Wait()
	close(errs)

	created := 0
	for err := range errs {
		if err == nil {
			created++
		} else if !errors.Is(err, store.ErrDuplicateEmail) {
			t.Errorf("Unexpected error: %v", err)
		}
	}
	if created != 1 {
		t.Errorf("Expected exactly one user created, got %d", created)
	}
}

func TestEnsureAdmin(t *testing.T) {
	db := setupTestDB(t)

	if err := store.EnsureAdmin(db, "Admin@Example.com", "Admin", "hunter22"); err != nil {
		t.Fatalf("EnsureAdmin failed: %v", err)
	}
	if err := store.EnsureAdmin(db, "admin@example.com", "Admin", "hunter22"); err != nil {
		t.Fatalf("EnsureAdmin second call failed: %v", err)
	}

	users, _ := db.GetUsers()
	if len(users) != 1 {
		t.Fatalf("Expected 1 user, got %d", len(users))
	}
	if !model.IsAdmin(users[0]) || !users[0].Active || users[0].PasswordHash == "hunter22" {
		t.Errorf("Unexpected seeded admin: %+v", users[0])
	}

	if err := store.EnsureAdmin(db, "other@example.com", "Other", ""); err != nil {
		t.Fatalf("EnsureAdmin without password failed: %v", err)
	}
	if users, _ := db.GetUsers(); len(users) != 1 {
		t.Errorf("Expected no seeding without a password, got %d users", len(users))
	}
}
