package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/hello-birthday/internal/interface/http"
	"github.com/oksasatya/hello-birthday/internal/interface/middleware"
)

// HealthModule serves GET / and GET /health. Probes from private networks
// are not rate limited.
type HealthModule struct {
	Handler *handlers.HealthHandler
	Redis   *redis.Client
}

func NewHealthModule(h *handlers.HealthHandler, rdb *redis.Client) *HealthModule {
	return &HealthModule{Handler: h, Redis: rdb}
}

func (m *HealthModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/", rl, m.Handler.Health)
	rg.GET("/health", rl, m.Handler.Health)
}
