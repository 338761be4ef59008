package middleware

import "github.com/gin-gonic/gin"

// Access describes who may call a route.
// A non-empty Roles implies Authenticated.
type Access struct {
	Authenticated bool
	Roles         []string
}

// Public lets every request through.
var Public = Access{}

// Authenticated requires a valid token, any role.
func Authenticated() Access {
	return Access{Authenticated: true}
}

// Roles requires a valid token carrying one of roles.
func Roles(roles ...string) Access {
	return Access{Authenticated: true, Roles: roles}
}

// IsPublic reports whether the route needs no token.
func (a Access) IsPublic() bool {
	return !a.Authenticated && len(a.Roles) == 0
}

// Enforce is the single policy check for a route: it authenticates when the
// descriptor asks for it, then applies the role whitelist.
func Enforce(access Access, auth *Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if access.IsPublic() {
			c.Next()
			return
		}

		if !auth.Authenticate(c) {
			return
		}

		if len(access.Roles) > 0 && !authorize(c, access.Roles) {
			return
		}

		c.Next()
	}
}
