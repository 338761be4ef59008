package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/fourwheels-api/config"
	"github.com/kendall-kelly/fourwheels-api/models"
	"go.uber.org/zap"
)

// Context keys set by a successful authentication
const (
	ContextUserID = "user_id"
	ContextRole   = "user_role"
	ContextClaims = "validated_claims"
)

// CustomClaims contains the application data carried in the token.
type CustomClaims struct {
	Role string `json:"role"`
}

// Validate rejects tokens whose role is not one we issue.
func (c *CustomClaims) Validate(ctx context.Context) error {
	if !models.IsValidRole(c.Role) {
		return fmt.Errorf("unknown role %q", c.Role)
	}
	return nil
}

// Authenticator validates HS256 credential tokens read from the configured header.
type Authenticator struct {
	jwt *jwtmiddleware.JWTMiddleware
}

// NewAuthenticator builds the token validator from configuration.
func NewAuthenticator(cfg *config.Config) (*Authenticator, error) {
	secret := []byte(cfg.JWTSecret)
	keyFunc := func(ctx context.Context) (interface{}, error) {
		return secret, nil
	}

	jwtValidator, err := validator.New(
		keyFunc,
		validator.HS256,
		cfg.JWTIssuer,
		[]string{cfg.JWTAudience},
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return &CustomClaims{}
			},
		),
		validator.WithAllowedClockSkew(cfg.ClockSkew),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set up the jwt validator: %w", err)
	}

	header := cfg.AuthHeader
	extractor := func(r *http.Request) (string, error) {
		return r.Header.Get(header), nil
	}

	return &Authenticator{
		jwt: jwtmiddleware.New(
			jwtValidator.ValidateToken,
			jwtmiddleware.WithErrorHandler(writeTokenError),
			jwtmiddleware.WithTokenExtractor(extractor),
		),
	}, nil
}

// Authenticate checks the token on the request. On success it stores the caller's
// identity in the gin context and returns true; otherwise it writes a 401 and aborts.
func (a *Authenticator) Authenticate(c *gin.Context) bool {
	authenticated := false

	var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
		token := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
		customClaims := token.CustomClaims.(*CustomClaims)

		c.Set(ContextUserID, token.RegisteredClaims.Subject)
		c.Set(ContextRole, customClaims.Role)
		c.Set(ContextClaims, token)
		c.Request = r
		authenticated = true
	}

	a.jwt.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)

	if !authenticated {
		c.Abort()
	}
	return authenticated
}

// EnsureValidToken is a middleware that rejects requests without a valid token.
func EnsureValidToken(a *Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if a.Authenticate(c) {
			c.Next()
		}
	}
}

// RequireRole is a middleware that only lets the listed roles through.
// It must run after authentication.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authorize(c, roles) {
			c.Next()
		}
	}
}

func authorize(c *gin.Context, roles []string) bool {
	role, err := GetRole(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return false
	}

	for _, allowed := range roles {
		if role == allowed {
			return true
		}
	}

	abortWithError(c, http.StatusForbidden, "FORBIDDEN", "You do not have permission to access this resource")
	return false
}

func writeTokenError(w http.ResponseWriter, r *http.Request, err error) {
	code, message := "INVALID_TOKEN", "Token is not valid"
	if errors.Is(err, jwtmiddleware.ErrJWTMissing) {
		code, message = "MISSING_TOKEN", "No token, authorization denied"
	}
	config.GetLogger().Debug("rejected request token",
		zap.String("path", r.URL.Path), zap.String("code", code), zap.Error(err))

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	body := gin.H{"success": false, "error": gin.H{"code": code, "message": message}}
	if encodeErr := json.NewEncoder(w).Encode(body); encodeErr != nil {
		config.GetLogger().Warn("failed to write error response", zap.Error(encodeErr))
	}
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) (string, error) {
	userID, exists := c.Get(ContextUserID)
	if !exists {
		return "", &AuthError{Code: "MISSING_USER_ID", Message: "User ID not found in context"}
	}

	userIDStr, ok := userID.(string)
	if !ok {
		return "", &AuthError{Code: "INVALID_USER_ID", Message: "User ID is not a string"}
	}

	return userIDStr, nil
}

// GetCurrentUserID returns the authenticated user's numeric id
func GetCurrentUserID(c *gin.Context) (uint, error) {
	raw, err := GetUserID(c)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, &AuthError{Code: "INVALID_USER_ID", Message: "User ID is not numeric"}
	}
	return uint(id), nil
}

// GetRole extracts the authenticated user's role from the Gin context
func GetRole(c *gin.Context) (string, error) {
	role, exists := c.Get(ContextRole)
	if !exists {
		return "", &AuthError{Code: "MISSING_ROLE", Message: "Role not found in context"}
	}

	roleStr, ok := role.(string)
	if !ok {
		return "", &AuthError{Code: "INVALID_ROLE", Message: "Role is not a string"}
	}

	return roleStr, nil
}

// IsAdmin reports whether the authenticated user is an admin
func IsAdmin(c *gin.Context) bool {
	role, err := GetRole(c)
	return err == nil && role == models.RoleAdmin
}

// GetClaims extracts the validated JWT claims from the Gin context
func GetClaims(c *gin.Context) (*validator.ValidatedClaims, error) {
	claims, exists := c.Get(ContextClaims)
	if !exists {
		return nil, &AuthError{Code: "MISSING_CLAIMS", Message: "Claims not found in context"}
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return nil, &AuthError{Code: "INVALID_CLAIMS", Message: "Claims are not in the expected format"}
	}

	return validatedClaims, nil
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
