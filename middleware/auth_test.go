package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/fourwheels-api/config"
	"github.com/kendall-kelly/fourwheels-api/models"
	"github.com/kendall-kelly/fourwheels-api/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret-0123456789"

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:   testSecret,
		JWTIssuer:   "fourwheels-api",
		JWTAudience: "fourwheels-clients",
		TokenTTL:    time.Hour,
		ClockSkew:   time.Minute,
		AuthHeader:  "x-auth-token",
	}
}

func issueToken(t *testing.T, ttl time.Duration, userID uint, role string) string {
	cfg := testConfig()
	token, err := services.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, ttl).Issue(userID, role)
	require.NoError(t, err)
	return token
}

func newTestAuthenticator(t *testing.T) *Authenticator {
	auth, err := NewAuthenticator(testConfig())
	require.NoError(t, err)
	return auth
}

// protectedRouter serves GET /protected behind EnsureValidToken and echoes the identity
func protectedRouter(auth *Authenticator) *gin.Engine {
	router := gin.New()
	router.GET("/protected", EnsureValidToken(auth), func(c *gin.Context) {
		userID, _ := GetCurrentUserID(c)
		role, _ := GetRole(c)
		c.JSON(http.StatusOK, gin.H{"userId": userID, "role": role})
	})
	return router
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	return body.Error.Code
}

func TestEnsureValidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := protectedRouter(newTestAuthenticator(t))

	foreign, err := services.NewTokenService("some-other-secret-value", "fourwheels-api", "fourwheels-clients", time.Hour).Issue(1, models.RoleAdmin)
	require.NoError(t, err)
	wrongAudience, err := services.NewTokenService(testSecret, "fourwheels-api", "someone-else", time.Hour).Issue(1, models.RoleAdmin)
	require.NoError(t, err)

	tests := []struct {
		name     string
		token    string
		wantCode string
	}{
		{"missing header", "", "MISSING_TOKEN"},
		{"garbage token", "not-a-jwt", "INVALID_TOKEN"},
		{"expired token", issueToken(t, -time.Hour, 1, models.RoleCustomer), "INVALID_TOKEN"},
		{"wrong secret", foreign, "INVALID_TOKEN"},
		{"wrong audience", wrongAudience, "INVALID_TOKEN"},
		{"unknown role", issueToken(t, time.Hour, 1, "mechanic"), "INVALID_TOKEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.token != "" {
				req.Header.Set("x-auth-token", tt.token)
			}
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.wantCode, errorCode(t, w))
		})
	}
}

func TestEnsureValidToken_SetsIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := protectedRouter(newTestAuthenticator(t))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("x-auth-token", issueToken(t, time.Hour, 42, models.RoleAdmin))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userId":42,"role":"admin"}`, w.Body.String())
}

func TestEnsureValidToken_IgnoresAuthorizationHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := protectedRouter(newTestAuthenticator(t))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, time.Hour, 42, models.RoleAdmin))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "MISSING_TOKEN", errorCode(t, w))
}

func TestCustomClaims_Validate(t *testing.T) {
	assert.NoError(t, (&CustomClaims{Role: models.RoleAdmin}).Validate(context.Background()))
	assert.NoError(t, (&CustomClaims{Role: models.RoleCustomer}).Validate(context.Background()))
	assert.Error(t, (&CustomClaims{Role: "root"}).Validate(context.Background()))
	assert.Error(t, (&CustomClaims{}).Validate(context.Background()))
}

func TestGetUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		setupFunc func(*gin.Context)
		wantID    string
		wantErr   bool
	}{
		{
			name: "successfully extracts user ID",
			setupFunc: func(c *gin.Context) {
				c.Set("user_id", "17")
			},
			wantID:  "17",
			wantErr: false,
		},
		{
			name: "user ID not found in context",
			setupFunc: func(c *gin.Context) {
				// Don't set user_id
			},
			wantID:  "",
			wantErr: true,
		},
		{
			name: "user ID is not a string",
			setupFunc: func(c *gin.Context) {
				c.Set("user_id", 12345) // Set as int instead of string
			},
			wantID:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			tt.setupFunc(c)

			gotID, err := GetUserID(c)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Empty(t, gotID)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantID, gotID)
			}
		})
	}
}

func TestGetCurrentUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	_, err := GetCurrentUserID(c)
	assert.Error(t, err)

	c.Set("user_id", "abc")
	_, err = GetCurrentUserID(c)
	assert.Error(t, err)

	c.Set("user_id", "9")
	id, err := GetCurrentUserID(c)
	require.NoError(t, err)
	assert.Equal(t, uint(9), id)
}

func TestGetClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		setupFunc func(*gin.Context)
		wantErr   bool
	}{
		{
			name: "successfully extracts claims",
			setupFunc: func(c *gin.Context) {
				claims := &validator.ValidatedClaims{
					RegisteredClaims: validator.RegisteredClaims{
						Issuer:  "fourwheels-api",
						Subject: "17",
					},
					CustomClaims: &CustomClaims{
						Role: models.RoleCustomer,
					},
				}
				c.Set("validated_claims", claims)
			},
			wantErr: false,
		},
		{
			name: "claims not found in context",
			setupFunc: func(c *gin.Context) {
				// Don't set validated_claims
			},
			wantErr: true,
		},
		{
			name: "claims are not the expected type",
			setupFunc: func(c *gin.Context) {
				c.Set("validated_claims", "invalid")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			tt.setupFunc(c)

			claims, err := GetClaims(c)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, claims)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, claims)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		roles          []string
		setupFunc      func(*gin.Context)
		wantStatusCode int
		wantAborted    bool
	}{
		{
			name:  "role is allowed",
			roles: []string{models.RoleAdmin},
			setupFunc: func(c *gin.Context) {
				c.Set("user_role", models.RoleAdmin)
			},
			wantAborted: false,
		},
		{
			name:  "one of several roles",
			roles: []string{models.RoleAdmin, models.RoleCustomer},
			setupFunc: func(c *gin.Context) {
				c.Set("user_role", models.RoleCustomer)
			},
			wantAborted: false,
		},
		{
			name:  "role is not allowed",
			roles: []string{models.RoleAdmin},
			setupFunc: func(c *gin.Context) {
				c.Set("user_role", models.RoleCustomer)
			},
			wantStatusCode: http.StatusForbidden,
			wantAborted:    true,
		},
		{
			name:  "no identity in context",
			roles: []string{models.RoleAdmin},
			setupFunc: func(c *gin.Context) {
				// Don't set user_role
			},
			wantStatusCode: http.StatusUnauthorized,
			wantAborted:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

			tt.setupFunc(c)

			handler := RequireRole(tt.roles...)
			handler(c)

			if tt.wantAborted {
				assert.True(t, c.IsAborted())
				assert.Equal(t, tt.wantStatusCode, w.Code)
			} else {
				assert.False(t, c.IsAborted())
			}
		})
	}
}

func TestIsAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.False(t, IsAdmin(c))
	c.Set("user_role", models.RoleCustomer)
	assert.False(t, IsAdmin(c))
	c.Set("user_role", models.RoleAdmin)
	assert.True(t, IsAdmin(c))
}

func TestAuthError(t *testing.T) {
	err := &AuthError{
		Code:    "TEST_ERROR",
		Message: "This is a test error",
	}

	assert.Equal(t, "This is a test error", err.Error())
}
