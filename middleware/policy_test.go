package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/fourwheels-api/models"
	"github.com/stretchr/testify/assert"
)

func TestAccessDescriptors(t *testing.T) {
	assert.True(t, Public.IsPublic())
	assert.False(t, Authenticated().IsPublic())
	assert.False(t, Roles(models.RoleAdmin).IsPublic())
	assert.True(t, Roles(models.RoleAdmin).Authenticated)
	assert.False(t, Access{Roles: []string{models.RoleAdmin}}.IsPublic(), "roles imply authentication")
}

func TestEnforce(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := newTestAuthenticator(t)

	admin := issueToken(t, time.Hour, 1, models.RoleAdmin)
	customer := issueToken(t, time.Hour, 2, models.RoleCustomer)
	expired := issueToken(t, -time.Hour, 2, models.RoleCustomer)

	tests := []struct {
		name       string
		access     Access
		token      string
		wantStatus int
	}{
		{"public without token", Public, "", http.StatusOK},
		{"public ignores bad token", Public, "garbage", http.StatusOK},
		{"authenticated without token", Authenticated(), "", http.StatusUnauthorized},
		{"authenticated with customer", Authenticated(), customer, http.StatusOK},
		{"authenticated with expired token", Authenticated(), expired, http.StatusUnauthorized},
		{"admin route with admin", Roles(models.RoleAdmin), admin, http.StatusOK},
		{"admin route with customer", Roles(models.RoleAdmin), customer, http.StatusForbidden},
		{"admin route without token", Roles(models.RoleAdmin), "", http.StatusUnauthorized},
		{"customer route with customer", Roles(models.RoleCustomer), customer, http.StatusOK},
		{"customer route with admin", Roles(models.RoleCustomer), admin, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			router := gin.New()
			router.GET("/resource", Enforce(tt.access, auth), func(c *gin.Context) {
				reached = true
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/resource", nil)
			if tt.token != "" {
				req.Header.Set("x-auth-token", tt.token)
			}
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, reached, "handler must only run when access is granted")
		})
	}
}
