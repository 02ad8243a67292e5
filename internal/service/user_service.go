package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"userhub/internal/cache"
	"userhub/internal/errors"
	"userhub/internal/model"
	"userhub/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// UserUpdate carries a partial update. Nil fields are left untouched.
type UserUpdate struct {
	Name  *string
	Email *string
}

// UserService exposes the user business operations.
type UserService interface {
	GetAllUsers(ctx context.Context) ([]model.User, error)
	GetUsersPaginated(ctx context.Context, params repository.PaginationParams) (*repository.PaginatedResult, error)
	Create(ctx context.Context, name, email string) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	Update(ctx context.Context, id uuid.UUID, update UserUpdate) (*model.User, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService. The cache client may be nil, in
// which case every read goes to the repository.
func NewUserService(repo repository.UserRepository, cacheClient *cache.Client) UserService {
	return &userService{repo: repo, cache: cacheClient}
}

func userCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id)
}

func (s *userService) GetAllUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.FindAll(ctx)
}

func (s *userService) GetUsersPaginated(ctx context.Context, params repository.PaginationParams) (*repository.PaginatedResult, error) {
	return s.repo.FindAllPaginated(ctx, params)
}

// Create registers a new user. The email pre-check gives a clean conflict
// on the common path; the duplicate-key guard on insert closes the race
// against a concurrent create with the same email.
func (s *userService) Create(ctx context.Context, name, email string) (*model.User, error) {
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}
	if existing != nil {
		return nil, &errors.UserAlreadyExistsError{Email: email}
	}

	user := &model.User{Name: name, Email: email}
	if err := s.repo.Create(ctx, user); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, &errors.UserAlreadyExistsError{Email: email}
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	key := userCacheKey(id)

	var cached model.User
	if s.cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}

	s.cache.SetJSON(ctx, key, user, userCacheTTL)
	return user, nil
}

// Update applies a partial update. Changing the email re-runs the
// uniqueness check against other users; sending back the current email
// is a no-op, not a conflict.
func (s *userService) Update(ctx context.Context, id uuid.UUID, update UserUpdate) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.Name != nil {
		updates["name"] = *update.Name
	}
	if update.Email != nil && *update.Email != user.Email {
		other, err := s.repo.FindByEmail(ctx, *update.Email)
		if err != nil && err != gorm.ErrRecordNotFound {
			return nil, err
		}
		if other != nil {
			return nil, &errors.UserAlreadyExistsError{Email: *update.Email}
		}
		updates["email"] = *update.Email
	}

	if len(updates) == 0 {
		return user, nil
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		if update.Email != nil && repository.IsDuplicateKey(err) {
			return nil, &errors.UserAlreadyExistsError{Email: *update.Email}
		}
		return nil, err
	}

	s.cache.Delete(ctx, userCacheKey(id))

	return s.repo.FindByID(ctx, id)
}

func (s *userService) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrUserNotFound
		}
		return err
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.cache.Delete(ctx, userCacheKey(id))
	return nil
}
