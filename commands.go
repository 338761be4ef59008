package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/fourwheels-api/config"
	"github.com/kendall-kelly/fourwheels-api/middleware"
	"github.com/kendall-kelly/fourwheels-api/models"
	"github.com/kendall-kelly/fourwheels-api/routes"
	"github.com/kendall-kelly/fourwheels-api/services"
	"github.com/kendall-kelly/fourwheels-api/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// fourwheels serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServer,
}

// fourwheels migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := bootDB(); err != nil {
			return err
		}
		config.GetLogger().Info("database migration completed successfully")
		return nil
	},
}

var adminFlags struct {
	username string
	password string
	phone    string
}

// fourwheels create-admin --username --password --phone
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(adminFlags.password) < 8 {
			return errors.New("password must be at least 8 characters")
		}
		if len(adminFlags.password) > services.MaxPasswordBytes {
			return services.ErrPasswordTooLong
		}
		if !utils.IsMobileNumber(adminFlags.phone) {
			return fmt.Errorf("%q is not a valid mobile number", adminFlags.phone)
		}

		cfg, err := bootDB()
		if err != nil {
			return err
		}
		services.InitTokenService(cfg)

		user, _, err := services.NewAuthService(config.GetDB(), services.GetTokenService()).Register(cmd.Context(), services.Registration{
			Username:    adminFlags.username,
			Password:    adminFlags.password,
			PhoneNumber: adminFlags.phone,
			Role:        models.RoleAdmin,
		})
		if err != nil {
			return fmt.Errorf("failed to create admin %q: %w", adminFlags.username, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created admin %s (id %d)\n", user.Username, user.ID)
		return nil
	},
}

// fourwheels routes
var routeListCmd = &cobra.Command{
	Use:   "routes",
	Short: "List every API route with its access policy",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tACCESS")
		for _, route := range routes.Table() {
			fmt.Fprintf(w, "%s\t/api/v1%s\t%s\n", route.Method, route.Path, describeAccess(route.Access))
		}
		return w.Flush()
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminFlags.username, "username", "", "admin username")
	createAdminCmd.Flags().StringVar(&adminFlags.password, "password", "", "admin password (at least 8 characters)")
	createAdminCmd.Flags().StringVar(&adminFlags.phone, "phone", "", "admin mobile number")
	_ = createAdminCmd.MarkFlagRequired("username")
	_ = createAdminCmd.MarkFlagRequired("password")
	_ = createAdminCmd.MarkFlagRequired("phone")
}

// bootDB loads config, starts the logger, opens the database and migrates it.
func bootDB() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger, err := config.InitLogger(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.EnvFile != "" {
		logger.Info("loaded configuration", zap.String("file", cfg.EnvFile))
	} else {
		logger.Info("no .env file found, using system environment variables")
	}
	if err := config.ConnectDatabase(cfg); err != nil {
		return nil, err
	}
	if err := config.GetDB().AutoMigrate(models.All()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return cfg, nil
}

// newRouter builds the gin engine with every route and middleware installed.
// The database and services must be initialised first.
func newRouter(cfg *config.Config) (*gin.Engine, error) {
	auth, err := middleware.NewAuthenticator(cfg)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	routes.Setup(router, cfg, auth)
	return router, nil
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := bootDB()
	if err != nil {
		return err
	}
	logger := config.GetLogger()
	defer func() { _ = logger.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	services.InitTokenService(cfg)
	if _, err := services.InitImageService(cmd.Context(), cfg); err != nil {
		return fmt.Errorf("failed to initialise image storage: %w", err)
	}

	router, err := newRouter(cfg)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("FourWheels API started",
			zap.String("port", cfg.Port),
			zap.String("env", cfg.GoEnv),
			zap.String("storage", cfg.StorageDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-quit:
	}

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return nil
}

func describeAccess(access middleware.Access) string {
	switch {
	case access.IsPublic():
		return "public"
	case len(access.Roles) == 0:
		return "authenticated"
	default:
		return fmt.Sprint(access.Roles)
	}
}
