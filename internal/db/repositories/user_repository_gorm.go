package repositories

import (
	"context"
	"errors"
	"fmt"

	"clubhouse/internal/constants"
	gormModels "clubhouse/internal/models/gorm"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a lookup by id or key matches no row
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write hits a unique index
	ErrDuplicate = errors.New("duplicate record")
)

func wrapWriteErr(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", op, err)
}

type UserRepositoryGORM struct {
	db *gorm.DB
}

// NewUserRepositoryGORM creates a new GORM-based user repository
func NewUserRepositoryGORM(db *gorm.DB) *UserRepositoryGORM {
	return &UserRepositoryGORM{db: db}
}

// WithTx returns a copy bound to an open transaction
func (r *UserRepositoryGORM) WithTx(tx *gorm.DB) *UserRepositoryGORM {
	return &UserRepositoryGORM{db: tx}
}

// GetByID retrieves a user by primary key
func (r *UserRepositoryGORM) GetByID(ctx context.Context, id uint) (*gormModels.User, error) {
	var user gormModels.User

	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	return &user, nil
}

// GetByUsername retrieves a user by login name
func (r *UserRepositoryGORM) GetByUsername(ctx context.Context, username string) (*gormModels.User, error) {
	var user gormModels.User

	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	return &user, nil
}

// List returns every user ordered by name, without photo payloads
func (r *UserRepositoryGORM) List(ctx context.Context) ([]gormModels.User, error) {
	var users []gormModels.User

	err := r.db.WithContext(ctx).
		Omit("photo_data").
		Order("name ASC, username ASC").
		Find(&users).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UsernameTaken reports whether another user (not excludeID) owns the username
func (r *UserRepositoryGORM) UsernameTaken(ctx context.Context, username string, excludeID uint) (bool, error) {
	return r.exists(ctx, "username = ?", username, excludeID)
}

// EmailTaken reports whether another user (not excludeID) owns the email
func (r *UserRepositoryGORM) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	return r.exists(ctx, "email = ?", email, excludeID)
}

func (r *UserRepositoryGORM) exists(ctx context.Context, cond string, value string, excludeID uint) (bool, error) {
	var count int64

	q := r.db.WithContext(ctx).Model(&gormModels.User{}).Where(cond, value)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check user uniqueness: %w", err)
	}
	return count > 0, nil
}

// Usernames lists login names, optionally restricted to one role and
// excluding a single username (the actor of a fan-out).
func (r *UserRepositoryGORM) Usernames(ctx context.Context, role constants.Role, exclude string) ([]string, error) {
	var names []string

	q := r.db.WithContext(ctx).Model(&gormModels.User{})
	if role != "" {
		q = q.Where("role = ?", role)
	}
	if exclude != "" {
		q = q.Where("username <> ?", exclude)
	}
	if err := q.Order("username ASC").Pluck("username", &names).Error; err != nil {
		return nil, fmt.Errorf("failed to list usernames: %w", err)
	}
	return names, nil
}

// Create inserts a new user
func (r *UserRepositoryGORM) Create(ctx context.Context, user *gormModels.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return wrapWriteErr("failed to create user", err)
	}
	return nil
}

// Update saves every column of an existing user
func (r *UserRepositoryGORM) Update(ctx context.Context, user *gormModels.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return wrapWriteErr("failed to update user", err)
	}
	return nil
}

// Delete removes a user row
func (r *UserRepositoryGORM) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&gormModels.User{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return nil
}
