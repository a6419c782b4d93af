package container

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/hello-birthday/config"
	"github.com/oksasatya/hello-birthday/internal/application"
	"github.com/oksasatya/hello-birthday/internal/domain/repository"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	store       repository.UserRepository
	redisClient *redis.Client
	observer    application.Observer
)

func SetConfig(c *config.Config) { cfg = c }
func GetConfig() *config.Config  { return cfg }
func SetLogger(l *logrus.Logger) { logger = l }
func GetLogger() *logrus.Logger {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return logger
}

// SetStore registers the backing store: postgres or memory, before caching.
func SetStore(s repository.UserRepository) { store = s }
func GetStore() repository.UserRepository  { return store }
func SetRedis(r *redis.Client)             { redisClient = r }
func GetRedis() *redis.Client              { return redisClient }
func SetObserver(o application.Observer)   { observer = o }
func GetObserver() application.Observer    { return observer }
