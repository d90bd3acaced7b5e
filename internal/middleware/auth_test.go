package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fastpace/flightapi/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockTokenVerifier struct {
	mock.Mock
}

func (m *MockTokenVerifier) VerifyToken(ctx context.Context, token string) (*domain.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func TestAuth_missingHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/ticket", nil)

	Auth(&MockTokenVerifier{})(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message": "Authentication credentials were not provided"}`, w.Body.String())
}

func TestAuth_badToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/ticket", nil)
	c.Request.Header.Set("Authorization", "Bearer bogus")

	verifier := &MockTokenVerifier{}
	verifier.On("VerifyToken", c.Request.Context(), "bogus").
		Return(nil, domain.Authentication("Invalid or expired token"))

	Auth(verifier)(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message": "Invalid or expired token"}`, w.Body.String())
}

func TestAuth_setsCurrentUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/ticket", nil)
	c.Request.Header.Set("Authorization", "Bearer token123")

	user := &domain.User{ID: 3, Email: "sola.smith@gmail.com"}
	verifier := &MockTokenVerifier{}
	verifier.On("VerifyToken", c.Request.Context(), "token123").Return(user, nil)

	Auth(verifier)(c)

	assert.False(t, c.IsAborted())
	got, ok := CurrentUser(c)
	assert.True(t, ok)
	assert.Equal(t, user, got)
}

func TestRequireAdmin_nonStaff(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/flight", nil)
	SetCurrentUser(c, &domain.User{ID: 3, IsStaff: false})

	RequireAdmin()(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"message": "You do not have permission to perform this action."}`, w.Body.String())
}

func TestRequireAdmin_staff(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/flight", nil)
	SetCurrentUser(c, &domain.User{ID: 1, IsStaff: true})

	RequireAdmin()(c)

	assert.False(t, c.IsAborted())
}
