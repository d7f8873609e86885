package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/taskstream/domain/user"
	"gorm.io/gorm"
)

// Directory is the user lookup/registration store the authentication
// service verifies credentials against. It replaces the original mutable
// global list of mock users with an injectable repository so tests can
// substitute their own.
type Directory interface {
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	Insert(ctx context.Context, u *user.User) error
	EmailExists(ctx context.Context, email string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// GormDirectory implements Directory using GORM.
type GormDirectory struct {
	db *gorm.DB
}

// NewGormDirectory creates a new GormDirectory.
func NewGormDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{db: db}
}

// FindByEmail finds a user by email.
func (d *GormDirectory) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var u user.User
	result := d.db.WithContext(ctx).First(&u, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", result.Error)
	}
	return &u, nil
}

// Insert creates a new user in the directory.
func (d *GormDirectory) Insert(ctx context.Context, u *user.User) error {
	result := d.db.WithContext(ctx).Create(u)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrUserExists
		}
		return fmt.Errorf("failed to create user: %w", result.Error)
	}
	return nil
}

// EmailExists checks if a user with the given email is registered.
func (d *GormDirectory) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	result := d.db.WithContext(ctx).Model(&user.User{}).Where("email = ?", email).Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("failed to check email existence: %w", result.Error)
	}
	return count > 0, nil
}

// Count returns the number of registered users.
func (d *GormDirectory) Count(ctx context.Context) (int64, error) {
	var count int64
	result := d.db.WithContext(ctx).Model(&user.User{}).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count users: %w", result.Error)
	}
	return count, nil
}

// mockUser describes one seeded demo account.
type mockUser struct {
	id     string
	email  string
	name   string
	avatar string
}

// The two demo accounts every fresh directory starts with. Both accept
// the password "password".
var mockUsers = []mockUser{
	{
		id:     "1",
		email:  "john@example.com",
		name:   "John Doe",
		avatar: "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=32&h=32&fit=crop&crop=face",
	},
	{
		id:     "2",
		email:  "jane@example.com",
		name:   "Jane Smith",
		avatar: "https://images.unsplash.com/photo-1494790108755-2616b772b631?w=32&h=32&fit=crop&crop=face",
	},
}

// SeedMockUsers inserts the demo accounts unless they are already present.
func SeedMockUsers(ctx context.Context, dir Directory, hasher *PasswordHasher) error {
	hash, err := hasher.Hash("password")
	if err != nil {
		return fmt.Errorf("failed to hash mock password: %w", err)
	}

	for i, mu := range mockUsers {
		exists, err := dir.EmailExists(ctx, mu.email)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		u := &user.User{
			ID:           mu.id,
			Email:        mu.email,
			Name:         mu.name,
			Avatar:       mu.avatar,
			PasswordHash: hash,
			CreatedAt:    time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC),
		}
		if err := dir.Insert(ctx, u); err != nil {
			return err
		}
	}
	return nil
}
