package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/hello-birthday/internal/interface/http"
	"github.com/oksasatya/hello-birthday/internal/interface/middleware"
)

// HelloModule wires the birthday endpoints:
// PUT /hello/:username and GET /hello/:username, rate limited per IP.
type HelloModule struct {
	Handler   *handlers.HelloHandler
	Redis     *redis.Client
	PerMinute int
}

func NewHelloModule(h *handlers.HelloHandler, rdb *redis.Client, perMinute int) *HelloModule {
	return &HelloModule{Handler: h, Redis: rdb, PerMinute: perMinute}
}

func (m *HelloModule) Register(rg *gin.RouterGroup) {
	limiter := middleware.RateLimit(m.Redis, m.PerMinute, time.Minute, middleware.KeyByIPAndPath(), nil)

	hello := rg.Group("/hello")
	hello.Use(limiter)
	{
		hello.PUT("/:username", m.Handler.Put)
		hello.GET("/:username", m.Handler.Get)
	}
}
