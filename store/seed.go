package store

import (
	"errors"
	"fmt"

	"github.com/labstack/gommon/log"

	"github.com/ngunnawal/heritage/model"
	"github.com/ngunnawal/heritage/util"
)

// EnsureAdmin creates an active admin account with the given credentials
// unless a user with that email already exists. An empty password skips
// seeding.
func EnsureAdmin(db IStore, email, name, password string) error {
	email = util.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil
	}

	_, err := db.GetUserByEmail(email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("cannot check for existing admin user: %w", err)
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return err
	}
	user := model.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		Active:       true,
	}
	if err := db.CreateUser(&user); err != nil {
		return fmt.Errorf("cannot seed admin user: %w", err)
	}
	log.Infof("Seeded admin user %s", email)
	return nil
}
