package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"absenceportal/internal/model"
)

// MockTokenManager mocks the token.Manager interface
type MockTokenManager struct {
	mock.Mock
}

func (m *MockTokenManager) Generate(userID uuid.UUID, role model.Role) (string, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Error(1)
}

func (m *MockTokenManager) Parse(tokenString string) (uuid.UUID, model.Role, error) {
	args := m.Called(tokenString)
	return args.Get(0).(uuid.UUID), args.Get(1).(model.Role), args.Error(2)
}

func TestAuth(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name       string
		header     string
		mockSetup  func(*MockTokenManager)
		wantStatus int
	}{
		{
			name:   "valid token",
			header: "Bearer good-token",
			mockSetup: func(tokens *MockTokenManager) {
				tokens.On("Parse", "good-token").Return(userID, model.RoleStudent, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing header",
			header:     "",
			mockSetup:  func(tokens *MockTokenManager) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			header:     "Basic Zm9vOmJhcg==",
			mockSetup:  func(tokens *MockTokenManager) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "invalid token",
			header: "Bearer bad-token",
			mockSetup: func(tokens *MockTokenManager) {
				tokens.On("Parse", "bad-token").Return(uuid.Nil, model.Role(""), errors.New("expired"))
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := &MockTokenManager{}
			tt.mockSetup(tokens)

			gin.SetMode(gin.TestMode)
			engine := gin.New()
			engine.GET("/protected", Auth(tokens), func(c *gin.Context) {
				gotID, ok := c.Get(ContextUserID)
				require.True(t, ok)
				assert.Equal(t, userID, gotID)
				gotRole, ok := c.Get(ContextRole)
				require.True(t, ok)
				assert.Equal(t, model.RoleStudent, gotRole)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			tokens.AssertExpectations(t)
		})
	}
}
