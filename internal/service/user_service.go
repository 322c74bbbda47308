package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/blogsite/internal/auth"
	"github.com/blogsite/internal/db"
)

var (
	ErrUserNotFound  = fmt.Errorf("user: %w", db.ErrNotFound)
	ErrEmailTaken    = errors.New("email already registered")
	ErrWrongPassword = errors.New("wrong password")
)

// UserService handles registration, credential checks and session lookups.
type UserService struct {
	store *db.Store
}

// RegisterInput carries a validated registration form.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// NewUserService returns a new UserService instance.
func NewUserService(store *db.Store) *UserService {
	return &UserService{store: store}
}

// Register hashes the password and stores a new account. The account created
// on an empty users table becomes the administrator.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*db.User, error) {
	hashed, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := db.User{
		Email:    strings.TrimSpace(input.Email),
		Password: hashed,
		Name:     strings.TrimSpace(input.Name),
	}
	user.MakeReader()

	err = s.store.Transaction(ctx, func(tx *db.Store) error {
		total, err := db.Count[db.User](ctx, tx)
		if err != nil {
			return err
		}
		if total == 0 {
			user.MakeAdmin()
		}
		return tx.Insert(ctx, &user)
	})
	if errors.Is(err, db.ErrUniqueViolation) && user.IsAdmin() {
		// A concurrent first registration took the admin slot; join as a reader.
		// A taken email fails the same way again below.
		user.ID = 0
		user.MakeReader()
		err = s.store.Insert(ctx, &user)
	}
	if err != nil {
		if errors.Is(err, db.ErrUniqueViolation) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return &user, nil
}

// Authenticate finds the account for email and checks its password.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*db.User, error) {
	user, err := db.FindOne[db.User](ctx, s.store, "email = ?", strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !auth.CheckPassword(user.Password, password) {
		return nil, ErrWrongPassword
	}
	return user, nil
}

// LoadUser resolves a session's user id.
func (s *UserService) LoadUser(ctx context.Context, id uint) (*db.User, error) {
	user, err := db.Get[db.User](ctx, s.store, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
