package jsondb

import (
	"sort"
	"time"

	"github.com/ngunnawal/heritage/model"
)

func (o *JsonDB) CreateContactMessage(msg *model.ContactMessage) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	id, err := o.nextID(contactsCollection)
	if err != nil {
		return err
	}
	msg.ID = id
	msg.CreatedAt = time.Now().UTC()
	return o.conn.Write(contactsCollection, resourceName(msg.ID), msg)
}

// GetContactMessages returns all messages, newest first
func (o *JsonDB) GetContactMessages() ([]model.ContactMessage, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	messages, err := readAll[model.ContactMessage](o.conn, contactsCollection)
	if err != nil {
		return messages, err
	}
	sort.Slice(messages, func(i, j int) bool { return messages[i].ID > messages[j].ID })
	return messages, nil
}

func (o *JsonDB) CreateTodo(todo *model.TodoItem) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	id, err := o.nextID(todosCollection)
	if err != nil {
		return err
	}
	todo.ID = id
	todo.CreatedAt = time.Now().UTC()
	todo.UpdatedAt = todo.CreatedAt
	return o.conn.Write(todosCollection, resourceName(todo.ID), todo)
}

func (o *JsonDB) GetTodos() ([]model.TodoItem, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	todos, err := readAll[model.TodoItem](o.conn, todosCollection)
	if err != nil {
		return todos, err
	}
	sort.Slice(todos, func(i, j int) bool { return todos[i].ID < todos[j].ID })
	return todos, nil
}

func (o *JsonDB) GetTodoByID(id int64) (model.TodoItem, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	todo := model.TodoItem{}
	if err := o.read(todosCollection, id, &todo); err != nil {
		return todo, err
	}
	return todo, nil
}

func (o *JsonDB) SaveTodo(todo model.TodoItem) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	existing := model.TodoItem{}
	if err := o.read(todosCollection, todo.ID, &existing); err != nil {
		return err
	}
	todo.CreatedAt = existing.CreatedAt
	todo.UpdatedAt = time.Now().UTC()
	return o.conn.Write(todosCollection, resourceName(todo.ID), todo)
}

func (o *JsonDB) DeleteTodo(id int64) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	existing := model.TodoItem{}
	if err := o.read(todosCollection, id, &existing); err != nil {
		return err
	}
	return o.conn.Delete(todosCollection, resourceName(id))
}

func (o *JsonDB) CreatePhoto(photo *model.Photo) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	id, err := o.nextID(photosCollection)
	if err != nil {
		return err
	}
	photo.ID = id
	photo.CreatedAt = time.Now().UTC()
	return o.conn.Write(photosCollection, resourceName(photo.ID), photo)
}

// GetPhotosByUser returns the photos owned by userID, newest first
func (o *JsonDB) GetPhotosByUser(userID int64) ([]model.Photo, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	all, err := readAll[model.Photo](o.conn, photosCollection)
	if err != nil {
		return nil, err
	}
	photos := make([]model.Photo, 0, len(all))
	for _, photo := range all {
		if photo.UserID == userID {
			photos = append(photos, photo)
		}
	}
	sort.Slice(photos, func(i, j int) bool { return photos[i].ID > photos[j].ID })
	return photos, nil
}
