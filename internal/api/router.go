// Package api wires together all HTTP routes of the onboarding service.
//
// Route surface: registration, login, and the query endpoints are
// intentionally unauthenticated — the published contract predates any
// authorization layer and existing clients depend on it. Only /get-swagger-uri
// and /protected sit behind the bearer-token gate.
package api

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/network-onboarding/network-onboarding/internal/api/accounts"
	"github.com/network-onboarding/network-onboarding/internal/api/authn"
	"github.com/network-onboarding/network-onboarding/internal/api/projects"
	"github.com/network-onboarding/network-onboarding/internal/api/registration"
	"github.com/network-onboarding/network-onboarding/internal/auth"
	"github.com/network-onboarding/network-onboarding/internal/config"
	"github.com/network-onboarding/network-onboarding/internal/crypto"
	"github.com/network-onboarding/network-onboarding/internal/middleware"
	"github.com/network-onboarding/network-onboarding/internal/notify"
	"github.com/network-onboarding/network-onboarding/internal/safego"
)

// BackgroundServices holds references to background workers that must be
// stopped during graceful shutdown. The caller (cmd/server) is responsible for
// calling Shutdown() when the process receives a termination signal.
type BackgroundServices struct {
	dispatcher *notify.Dispatcher
}

// Shutdown stops all background goroutines. It should be called after the HTTP
// server has been shut down so that in-flight requests drain first and their
// post-commit notifications still reach the queue.
func (bg *BackgroundServices) Shutdown() {
	slog.Info("stopping background services")
	if bg.dispatcher != nil {
		bg.dispatcher.Stop()
	}
	slog.Info("all background services stopped")
}

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, db *sqlx.DB) (*gin.Engine, *BackgroundServices) {
	router := gin.New()

	// Token issuer for login and the bearer gate
	issuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Password cipher for the reversible read path. A 32-byte key is used
	// directly; any other value is stretched as a passphrase. A deployment
	// without the key can run; only /get-decrypted-password is affected.
	var cipher *crypto.PasswordCipher
	if cfg.Auth.PasswordEncryptionKey != "" {
		var err error
		cipher, err = crypto.CipherForKey(cfg.Auth.PasswordEncryptionKey)
		if err != nil {
			log.Fatalf("Failed to initialize password cipher: %v", err)
		}
	} else {
		slog.Warn("PASSWORD_ENCRYPTION_KEY not set; /get-decrypted-password will fail")
	}

	// Notification dispatcher: bounded queue drained by a background worker
	mailer := notify.NewSMTPMailer(&cfg.Notifications.SMTP)
	dispatcher := notify.NewDispatcher(mailer, &cfg.Notifications)
	safego.Go(func() {
		dispatcher.Start(context.Background())
	})

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(LoggerMiddleware(cfg))
	router.Use(CORSMiddleware(cfg))
	router.Use(middleware.SecurityHeadersMiddleware(middleware.APISecurityHeadersConfig()))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// API version
	router.GET("/version", versionHandler())

	registrationHandlers := registration.NewHandlers(db, dispatcher)
	authnHandlers := authn.NewHandlers(db, issuer)
	projectHandlers := projects.NewHandlers(db, dispatcher)
	accountHandlers := accounts.NewHandlers(db, cipher)

	tokenGate := middleware.TokenAuthMiddleware(issuer)

	// Registration and provisioning
	router.POST("/register", registrationHandlers.RegisterHandler())
	router.POST("/confirm-project", projectHandlers.ConfirmProjectHandler())

	// Authentication
	router.POST("/login", authnHandlers.LoginHandler())
	router.GET("/protected", tokenGate, authnHandlers.ProtectedHandler())

	// Query endpoints
	router.GET("/check-username", accountHandlers.CheckUsernameHandler())
	router.GET("/get-auth-token", accountHandlers.GetAuthTokenHandler())
	router.GET("/get-decrypted-password", accountHandlers.GetDecryptedPasswordHandler())
	router.GET("/get-swagger-uri", tokenGate, projectHandlers.GetSwaggerURIHandler())

	bg := &BackgroundServices{dispatcher: dispatcher}

	return router, bg
}

// @Summary      Health check
// @Description  Returns the health status of the service, including database connectivity.
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status: healthy, time: RFC3339 timestamp"
// @Failure      503  {object}  map[string]interface{}  "status: unhealthy, error: database connection failed"
// @Router       /health [get]
// healthCheckHandler returns the health status of the service
func healthCheckHandler(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Check database connection
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// @Summary      API version
// @Description  Returns the current API version.
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "version, api_version"
// @Router       /version [get]
// versionHandler returns the API version
func versionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":     "0.1.0",
			"api_version": "v1",
		})
	}
}

// LoggerMiddleware provides structured logging
func LoggerMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		requestID, _ := c.Get(middleware.RequestIDKey)
		slog.LogAttrs(
			c.Request.Context(),
			slog.LevelInfo,
			"http request",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("query", query),
			slog.Int("status", c.Writer.Status()),
			slog.Int("size", c.Writer.Size()),
			slog.Duration("latency", latency),
			slog.String("ip", c.ClientIP()),
			slog.Any("request_id", requestID),
			slog.String("user_agent", c.Request.UserAgent()),
		)
	}
}

// CORSMiddleware handles CORS
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		// Check if origin is allowed
		allowed := false
		for _, allowedOrigin := range cfg.Security.CORS.AllowedOrigins {
			if allowedOrigin == "*" || allowedOrigin == origin {
				allowed = true
				break
			}
		}

		if allowed {
			if origin == "" {
				c.Header("Access-Control-Allow-Origin", "*")
			} else {
				c.Header("Access-Control-Allow-Origin", origin)
			}
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Requested-With")
			c.Header("Access-Control-Max-Age", "3600")
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
