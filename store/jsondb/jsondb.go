package jsondb

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/sdomino/scribble"

	"github.com/ngunnawal/heritage/model"
	"github.com/ngunnawal/heritage/store"
	"github.com/ngunnawal/heritage/util"
)

const (
	usersCollection    = "users"
	contactsCollection = "contact_messages"
	todosCollection    = "todos"
	photosCollection   = "photos"
	metaCollection     = "meta"
	sequencesResource  = "sequences"
)

type JsonDB struct {
	conn   *scribble.Driver
	dbPath string
	// mu serialises writers (id allocation, the unique email check) and
	// keeps readers away from half-written records
	mu sync.RWMutex
}

// New returns a new pointer JsonDB
func New(dbPath string) (*JsonDB, error) {
	conn, err := scribble.New(dbPath, nil)
	if err != nil {
		return nil, err
	}
	ans := JsonDB{
		conn:   conn,
		dbPath: dbPath,
	}
	return &ans, nil
}

func (o *JsonDB) Init() error {
	for _, collection := range []string{usersCollection, contactsCollection, todosCollection, photosCollection, metaCollection} {
		collectionPath := path.Join(o.dbPath, collection)
		if _, err := os.Stat(collectionPath); os.IsNotExist(err) {
			if err := os.MkdirAll(collectionPath, os.ModePerm); err != nil {
				return fmt.Errorf("cannot create collection %s: %w", collection, err)
			}
		}
	}

	// id sequences
	sequencesPath := path.Join(o.dbPath, metaCollection, sequencesResource+".json")
	if _, err := os.Stat(sequencesPath); os.IsNotExist(err) {
		if err := o.conn.Write(metaCollection, sequencesResource, map[string]int64{}); err != nil {
			return err
		}
	}

	return nil
}

// nextID allocates the next id of a collection. Callers must hold o.mu.
func (o *JsonDB) nextID(collection string) (int64, error) {
	sequences := map[string]int64{}
	if err := o.conn.Read(metaCollection, sequencesResource, &sequences); err != nil && !os.IsNotExist(err) {
		return 0, fmt.Errorf("cannot read id sequences: %w", err)
	}
	sequences[collection]++
	if err := o.conn.Write(metaCollection, sequencesResource, sequences); err != nil {
		return 0, fmt.Errorf("cannot write id sequences: %w", err)
	}
	return sequences[collection], nil
}

func resourceName(id int64) string {
	return strconv.FormatInt(id, 10)
}

// read loads one record and maps a missing file to store.ErrNotFound
func (o *JsonDB) read(collection string, id int64, v interface{}) error {
	err := o.conn.Read(collection, resourceName(id), v)
	if os.IsNotExist(err) {
		return store.ErrNotFound
	}
	return err
}

// readAll decodes every record of a collection
func readAll[T any](conn *scribble.Driver, collection string) ([]T, error) {
	var items []T

	records, err := conn.ReadAll(collection)
	if err != nil {
		if os.IsNotExist(err) {
			return items, nil
		}
		return items, err
	}

	for _, f := range records {
		var item T
		if err := json.Unmarshal([]byte(f), &item); err != nil {
			return items, fmt.Errorf("cannot decode %s json structure: %v", collection, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// GetUsers func to get all users from the database
func (o *JsonDB) GetUsers() ([]model.User, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.getUsers()
}

func (o *JsonDB) getUsers() ([]model.User, error) {
	users, err := readAll[model.User](o.conn, usersCollection)
	if err != nil {
		return users, err
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// GetUserByID func to get single user from the database
func (o *JsonDB) GetUserByID(id int64) (model.User, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	user := model.User{}
	if err := o.read(usersCollection, id, &user); err != nil {
		return user, err
	}
	return user, nil
}

// GetUserByEmail func to find a user by its unique email
func (o *JsonDB) GetUserByEmail(email string) (model.User, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.getUserByEmail(email)
}

func (o *JsonDB) getUserByEmail(email string) (model.User, error) {
	users, err := o.getUsers()
	if err != nil {
		return model.User{}, err
	}
	email = util.NormalizeEmail(email)
	for _, user := range users {
		if user.Email == email {
			return user, nil
		}
	}
	return model.User{}, store.ErrNotFound
}

// emailTaken reports whether another user than exceptID owns email. Callers must hold o.mu.
func (o *JsonDB) emailTaken(email string, exceptID int64) (bool, error) {
	existing, err := o.getUserByEmail(email)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return existing.ID != exceptID, nil
}

// CreateUser func to insert a new user, assigning its id
func (o *JsonDB) CreateUser(user *model.User) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	user.Email = util.NormalizeEmail(user.Email)
	taken, err := o.emailTaken(user.Email, 0)
	if err != nil {
		return err
	}
	if taken {
		return store.ErrDuplicateEmail
	}

	id, err := o.nextID(usersCollection)
	if err != nil {
		return err
	}
	user.ID = id
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	return o.conn.Write(usersCollection, resourceName(user.ID), user)
}

// SaveUser func to update an existing user
func (o *JsonDB) SaveUser(user model.User) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	existing := model.User{}
	if err := o.read(usersCollection, user.ID, &existing); err != nil {
		return err
	}

	user.Email = util.NormalizeEmail(user.Email)
	taken, err := o.emailTaken(user.Email, user.ID)
	if err != nil {
		return err
	}
	if taken {
		return store.ErrDuplicateEmail
	}

	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = time.Now().UTC()
	return o.conn.Write(usersCollection, resourceName(user.ID), user)
}
