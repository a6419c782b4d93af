package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	handlers "github.com/oksasatya/hello-birthday/internal/interface/http"
	"github.com/oksasatya/hello-birthday/internal/interface/middleware"
	"github.com/oksasatya/hello-birthday/pkg/response"
)

// EngineOptions toggles the optional global middleware.
type EngineOptions struct {
	CORSOrigins []string
	AccessLog   bool
	Durations   middleware.DurationRecorder
}

// NewEngine builds the gin engine with global middleware, panic recovery and
// the fallback handlers for unknown routes.
func NewEngine(logger *logrus.Logger, opts EngineOptions) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(middleware.RequestIDMiddleware())
	if opts.Durations != nil {
		r.Use(middleware.RequestDuration(opts.Durations))
	}
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.WithField("request_id", c.GetString(middleware.RequestIDKey)).
			WithField("panic", recovered).Error("handler panicked")
		response.AbortError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}))
	r.Use(middleware.RealIP())
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  opts.CORSOrigins,
			AllowMethods:  []string{"GET", "PUT", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
			ExposeHeaders: []string{"Content-Length", "Location", middleware.RequestIDHeader},
			MaxAge:        12 * time.Hour,
		}))
	}
	if opts.AccessLog {
		r.Use(gin.Logger())
	}

	r.NoMethod(handlers.MethodNotAllowed)
	r.NoRoute(func(c *gin.Context) {
		if handlers.IsHelloPath(c.Request.URL.Path) {
			handlers.InvalidPath(c)
			return
		}
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{})
	})
	return r
}
