package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/fourwheels-api/config"
	"github.com/kendall-kelly/fourwheels-api/controllers"
	"github.com/kendall-kelly/fourwheels-api/metrics"
	"github.com/kendall-kelly/fourwheels-api/middleware"
	"github.com/kendall-kelly/fourwheels-api/models"
)

// Route binds a handler to a path under /api/v1 together with its access policy
type Route struct {
	Method  string
	Path    string
	Access  middleware.Access
	Handler gin.HandlerFunc
}

var (
	admin    = middleware.Roles(models.RoleAdmin)
	customer = middleware.Roles(models.RoleCustomer)
	anyUser  = middleware.Authenticated()
)

// Table lists every API route
func Table() []Route {
	return []Route{
		{http.MethodGet, "/health", middleware.Public, controllers.HealthCheck},
		{http.MethodGet, "/database/status", middleware.Public, controllers.DatabaseStatus},
		{http.MethodGet, "/uploads/:filename", middleware.Public, controllers.GetUploadedImage},

		{http.MethodPost, "/auth/register", middleware.Public, controllers.Register},
		{http.MethodPost, "/auth/login", middleware.Public, controllers.Login},
		{http.MethodGet, "/auth", anyUser, controllers.GetCurrentUser},
		{http.MethodGet, "/auth/:username", anyUser, controllers.GetUserByUsername},
		{http.MethodPut, "/auth/:id/passwords/reset", admin, controllers.ResetPassword},
		{http.MethodPut, "/auth/:id/passwords/update", anyUser, controllers.UpdatePassword},
		{http.MethodPut, "/auth/:id/phoneNumbers/update", anyUser, controllers.UpdatePhoneNumber},

		{http.MethodGet, "/automakers", anyUser, controllers.ListAutomakers},
		{http.MethodGet, "/automakers/:id", anyUser, controllers.GetAutomaker},
		{http.MethodPost, "/automakers", admin, controllers.CreateAutomaker},
		{http.MethodPut, "/automakers/:id", admin, controllers.UpdateAutomaker},
		{http.MethodDelete, "/automakers/:id", admin, controllers.DeleteAutomaker},

		{http.MethodGet, "/cars", anyUser, controllers.ListCars},
		{http.MethodGet, "/cars/getByAutomaker/:automaker", anyUser, controllers.ListCarsByAutomaker},
		{http.MethodGet, "/cars/:id", anyUser, controllers.GetCar},
		{http.MethodPost, "/cars", admin, controllers.CreateCar},
		{http.MethodPut, "/cars/:id", admin, controllers.UpdateCar},
		{http.MethodDelete, "/cars/:id", admin, controllers.DeleteCar},

		{http.MethodPost, "/orders", customer, controllers.CreateOrder},
		{http.MethodGet, "/orders", admin, controllers.ListOrders},
		{http.MethodGet, "/orders/users", customer, controllers.ListMyOrders},
		{http.MethodGet, "/orders/:id", anyUser, controllers.GetOrder},
		{http.MethodPut, "/orders/:id", admin, controllers.UpdateOrder},
		{http.MethodDelete, "/orders/:id", admin, controllers.DeleteOrder},
	}
}

// Setup installs the global middleware, the metrics endpoint and every API route on router
func Setup(router *gin.Engine, cfg *config.Config, auth *middleware.Authenticator) {
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.AccessLog(config.GetLogger()),
		metrics.Middleware(),
		cors.New(corsConfig(cfg)),
	)

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := router.Group("/api/v1")
	for _, route := range Table() {
		v1.Handle(route.Method, route.Path, middleware.Enforce(route.Access, auth), route.Handler)
	}
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", cfg.AuthHeader, middleware.HeaderRequestID}
	corsCfg.ExposeHeaders = []string{middleware.HeaderRequestID}

	origins := cfg.CORSAllowedOrigins
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
	}
	return corsCfg
}
