package users

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/fastpace/flightapi/internal/domain"
	"github.com/fastpace/flightapi/internal/repository"
	"github.com/google/uuid"
)

type UserUseCase interface {
	List(ctx context.Context, actor *domain.User) ([]domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, id int64, actor *domain.User, patch Patch) (*domain.User, error)
	UploadPhoto(ctx context.Context, actor *domain.User, filename string, contentType string, size int64, body io.Reader) (*domain.User, error)
	DeletePhoto(ctx context.Context, actor *domain.User) error
}

// Patch is the self-service profile update. Only names are mutable
// this way; email, staff flag and the rest are not representable.
type Patch struct {
	FirstName *string
	LastName  *string
}

// PhotoStore is the object-store boundary for profile photos.
type PhotoStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, key string) error
}

type UserService struct {
	users  repository.UserRepository
	photos PhotoStore
}

func NewUserService(users repository.UserRepository, photos PhotoStore) *UserService {
	return &UserService{users: users, photos: photos}
}

func (s *UserService) List(ctx context.Context, actor *domain.User) ([]domain.User, error) {
	if !actor.IsStaff {
		return nil, domain.Authorization("You are not authorized to view this information")
	}
	return s.users.List(ctx)
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if repository.IsNoRows(err) {
			return nil, domain.NotFound("User does not exist")
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id int64, actor *domain.User, patch Patch) (*domain.User, error) {
	if actor.ID != id {
		return nil, domain.Authorization("You are not authorized to update this information")
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	firstName := user.FirstName
	lastName := user.LastName
	if patch.FirstName != nil {
		firstName = *patch.FirstName
	}
	if patch.LastName != nil {
		lastName = *patch.LastName
	}
	return s.users.UpdateNames(ctx, id, firstName, lastName)
}

func (s *UserService) UploadPhoto(ctx context.Context, actor *domain.User, filename string, contentType string, size int64, body io.Reader) (*domain.User, error) {
	key := fmt.Sprintf("users/%d/%s%s", actor.ID, uuid.NewString(), path.Ext(filename))
	if err := s.photos.Put(ctx, key, body, size, contentType); err != nil {
		return nil, fmt.Errorf("store photo: %w", err)
	}

	// Old photo is replaced, not kept.
	if actor.PhotoKey != "" {
		_ = s.photos.Remove(ctx, actor.PhotoKey)
	}

	if err := s.users.SetPhotoKey(ctx, actor.ID, key); err != nil {
		return nil, err
	}
	actor.PhotoKey = key
	return actor, nil
}

func (s *UserService) DeletePhoto(ctx context.Context, actor *domain.User) error {
	if actor.PhotoKey != "" {
		_ = s.photos.Remove(ctx, actor.PhotoKey)
	}
	if err := s.users.SetPhotoKey(ctx, actor.ID, ""); err != nil {
		return err
	}
	actor.PhotoKey = ""
	return nil
}

var _ UserUseCase = (*UserService)(nil)
