package users

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/fastpace/flightapi/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateNames(ctx context.Context, id int64, firstName, lastName string) (*domain.User, error) {
	args := m.Called(ctx, id, firstName, lastName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SetPhotoKey(ctx context.Context, id int64, key string) error {
	args := m.Called(ctx, id, key)
	return args.Error(0)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

type MockPhotoStore struct {
	mock.Mock
}

func (m *MockPhotoStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, body, size, contentType)
	return args.Error(0)
}

func (m *MockPhotoStore) Remove(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func TestUserService_List_NonStaff(t *testing.T) {
	users := &MockUserRepository{}
	service := NewUserService(users, &MockPhotoStore{})

	_, err := service.List(context.Background(), &domain.User{ID: 3})

	de, ok := domain.AsError(err)
	assert.True(t, ok)
	assert.Equal(t, domain.KindAuthorization, de.Kind)
	assert.Equal(t, "You are not authorized to view this information", de.Message)
	users.AssertNotCalled(t, "List", mock.Anything)
}

func TestUserService_List_Staff(t *testing.T) {
	users := &MockUserRepository{}
	service := NewUserService(users, &MockPhotoStore{})

	users.On("List", mock.Anything).Return([]domain.User{{ID: 1}, {ID: 2}}, nil)

	all, err := service.List(context.Background(), &domain.User{ID: 1, IsStaff: true})

	assert.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUserService_Update_NotSelf(t *testing.T) {
	users := &MockUserRepository{}
	service := NewUserService(users, &MockPhotoStore{})

	_, err := service.Update(context.Background(), 8, &domain.User{ID: 3}, Patch{})

	de, ok := domain.AsError(err)
	assert.True(t, ok)
	assert.Equal(t, domain.KindAuthorization, de.Kind)
	assert.Equal(t, "You are not authorized to update this information", de.Message)
}

func TestUserService_Update_Names(t *testing.T) {
	users := &MockUserRepository{}
	service := NewUserService(users, &MockPhotoStore{})

	current := &domain.User{ID: 3, FirstName: "Sola", LastName: "Smith"}
	users.On("GetByID", mock.Anything, int64(3)).Return(current, nil)
	users.On("UpdateNames", mock.Anything, int64(3), "Imisi", "Smith").
		Return(&domain.User{ID: 3, FirstName: "Imisi", LastName: "Smith"}, nil)

	first := "Imisi"
	updated, err := service.Update(context.Background(), 3, &domain.User{ID: 3}, Patch{FirstName: &first})

	assert.NoError(t, err)
	assert.Equal(t, "Imisi", updated.FirstName)
	assert.Equal(t, "Smith", updated.LastName)
}

func TestUserService_UploadPhoto_ReplacesOldObject(t *testing.T) {
	users := &MockUserRepository{}
	photos := &MockPhotoStore{}
	service := NewUserService(users, photos)

	actor := &domain.User{ID: 3, PhotoKey: "users/3/old.png"}
	body := strings.NewReader("png-bytes")

	photos.On("Put", mock.Anything, mock.AnythingOfType("string"), body, int64(9), "image/png").Return(nil)
	photos.On("Remove", mock.Anything, "users/3/old.png").Return(nil)
	users.On("SetPhotoKey", mock.Anything, int64(3), mock.AnythingOfType("string")).Return(nil)

	updated, err := service.UploadPhoto(context.Background(), actor, "me.png", "image/png", 9, body)

	assert.NoError(t, err)
	assert.NotEmpty(t, updated.PhotoKey)
	assert.NotEqual(t, "users/3/old.png", updated.PhotoKey)
	photos.AssertExpectations(t)
}

func TestUserService_DeletePhoto(t *testing.T) {
	users := &MockUserRepository{}
	photos := &MockPhotoStore{}
	service := NewUserService(users, photos)

	actor := &domain.User{ID: 3, PhotoKey: "users/3/me.png"}
	photos.On("Remove", mock.Anything, "users/3/me.png").Return(nil)
	users.On("SetPhotoKey", mock.Anything, int64(3), "").Return(nil)

	err := service.DeletePhoto(context.Background(), actor)

	assert.NoError(t, err)
	assert.Empty(t, actor.PhotoKey)
}
