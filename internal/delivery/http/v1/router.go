package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/OV20408/mgc-back/config"
	"github.com/OV20408/mgc-back/internal/delivery/http/middleware"
	"github.com/OV20408/mgc-back/internal/delivery/http/response"
	"github.com/OV20408/mgc-back/internal/domain"
)

// maxBodyBytes caps the inbound request body (1 MB)
const maxBodyBytes = 1 << 20

type RouterDeps struct {
	ContactUC domain.ContactUsecase
	Config    *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORS(deps.Config.AllowedOrigins)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger()) // Use standard Gin logger
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))
	r.Use(middleware.ErrorHandler())

	// Health Check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	// Contact form (public, rate limited per client IP)
	contactLimiter := middleware.RateLimit(middleware.ContactRateLimitConfig(
		deps.Config.RateLimitMaxRequests,
		time.Duration(deps.Config.RateLimitWindowMinutes)*time.Minute,
	))
	NewContactHandler(r, deps.ContactUC, contactLimiter)

	// Unmatched routes
	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "Ruta no encontrada", nil)
	})

	return r
}
