package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"userhub/internal/model"
)

// PaginationParams carries offset-pagination inputs. Search, when
// non-blank, filters by a case-insensitive substring match on name.
type PaginationParams struct {
	Page   int
	Limit  int
	Search string
}

// Pagination describes the page window that was actually served.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// PaginatedResult bundles one page of users with its pagination metadata.
type PaginatedResult struct {
	Data       []model.User
	Pagination Pagination
}

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindAll(ctx context.Context) ([]model.User, error)
	FindAllPaginated(ctx context.Context, params PaginationParams) (*PaginatedResult, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user. The email unique index is the authoritative
// uniqueness check; callers translate duplicate-key failures.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// Update applies a partial column update by id. Zero matched rows is not
// an error; existence is the caller's concern.
func (r *userRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// FindByID finds an active user by ID.
func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds an active user by exact email.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindAll lists all active users in store order.
func (r *userRepository) FindAll(ctx context.Context) ([]model.User, error) {
	users := make([]model.User, 0)
	if err := r.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// FindAllPaginated serves one page of users, newest first. It counts first
// so that a page past the end can be clamped to the last valid page
// instead of coming back silently empty.
func (r *userRepository) FindAllPaginated(ctx context.Context, params PaginationParams) (*PaginatedResult, error) {
	q := r.db.WithContext(ctx).Model(&model.User{})
	if s := strings.TrimSpace(params.Search); s != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	page, totalPages := clampPage(params.Page, params.Limit, total)
	offset := (page - 1) * params.Limit

	users := make([]model.User, 0, params.Limit)
	if err := q.Order("created_at DESC").Limit(params.Limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, err
	}

	return &PaginatedResult{
		Data: users,
		Pagination: Pagination{
			Page:       page,
			Limit:      params.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

// SoftDelete marks a user deleted. The row keeps occupying its email's
// uniqueness footprint.
func (r *userRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.User{}).Error
}

// clampPage computes totalPages with a floor of one page and snaps an
// out-of-range page down to the last valid one.
func clampPage(page, limit int, total int64) (int, int) {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	return page, totalPages
}

// IsDuplicateKey reports whether err is a unique-constraint violation.
// The string probes cover drivers that predate gorm's error translation.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}
