package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/inkwellapp/inkwell-server/internal/domain"
)

const (
	userPrefix     = "user:"
	userEmailIndex = "idx:users:email:"
)

var (
	// ErrUserNotFound is returned when a user doesn't exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when trying to create a user with an existing ID.
	ErrUserExists = errors.New("user already exists")
	// ErrEmailExists is returned when the email is already registered.
	ErrEmailExists = errors.New("email already exists")
)

// userKey generates the primary key for a user.
func userKey(id string) []byte {
	return []byte(userPrefix + id)
}

// userEmailKey generates the email index key for a user.
func userEmailKey(email string) []byte {
	return []byte(userEmailIndex + normalizeEmail(email))
}

// CreateUser stores a new user and claims their email in the uniqueness
// index. Both writes happen in one transaction so a partial signup can
// never leave a dangling index entry.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	data, err := marshalDoc(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(userKey(user.ID)); err == nil {
			return ErrUserExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if _, err := txn.Get(userEmailKey(user.Email)); err == nil {
			return ErrEmailExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if err := txn.Set(userKey(user.ID), data); err != nil {
			return err
		}
		return txn.Set(userEmailKey(user.Email), []byte(user.ID))
	})
	if err != nil {
		return err
	}

	s.logger.Info("User created", "userID", user.ID)
	return nil
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := s.get(userKey(id), &user)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetUserByEmail looks a user up through the email index.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userEmailKey(email))
		if err != nil {
			return err
		}

		var userID string
		if err := item.Value(func(val []byte) error {
			userID = string(val)
			return nil
		}); err != nil {
			return err
		}

		item, err = txn.Get(userKey(userID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return unmarshalDoc(val, &user)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}
