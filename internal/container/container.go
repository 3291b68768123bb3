package container

import (
	"context"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-account-service/config"
	"github.com/oksasatya/go-account-service/internal/domain/repository"
	"github.com/oksasatya/go-account-service/pkg/helpers"
)

// app-level container to share constructed components across packages.
// Router auto-wires modules from these singletons; nil optional clients
// simply switch the matching feature off.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	userRepo    repository.UserRepository
	storePing   func(context.Context) error
	redisClient *redis.Client
	gcsClient   *storage.Client
	esClient    *elasticsearch.Client
	rabbitPub   *helpers.RabbitQueue

	jwtManager *helpers.JWTManager
	cookies    *helpers.Manager

	metricsReg *prometheus.Registry
	authEvents *helpers.AuthEvents
)

func SetConfig(c *config.Config) { cfg = c }
func GetConfig() *config.Config  { return cfg }
func SetLogger(l *logrus.Logger) { logger = l }
func GetLogger() *logrus.Logger {
	if logger == nil {
		return helpers.NewNopLogger()
	}
	return logger
}

func SetUserRepo(r repository.UserRepository) { userRepo = r }
func GetUserRepo() repository.UserRepository  { return userRepo }

// SetStorePing registers the liveness probe of the credential store.
func SetStorePing(fn func(context.Context) error) { storePing = fn }

// PingStore probes the credential store; stores without a probe report healthy.
func PingStore(ctx context.Context) error {
	if storePing == nil {
		return nil
	}
	return storePing(ctx)
}

func SetRedis(r *redis.Client)            { redisClient = r }
func GetRedis() *redis.Client             { return redisClient }
func SetGCS(s *storage.Client)            { gcsClient = s }
func GetGCS() *storage.Client             { return gcsClient }
func SetES(c *elasticsearch.Client)       { esClient = c }
func GetES() *elasticsearch.Client        { return esClient }
func SetRabbitPub(p *helpers.RabbitQueue) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitQueue  { return rabbitPub }

func SetJWT(m *helpers.JWTManager)  { jwtManager = m }
func GetJWT() *helpers.JWTManager   { return jwtManager }
func SetCookies(m *helpers.Manager) { cookies = m }
func GetCookies() *helpers.Manager  { return cookies }

// SetMetrics installs the registry and the auth event counter registered on it.
func SetMetrics(reg *prometheus.Registry) {
	metricsReg = reg
	authEvents = helpers.NewAuthEvents(reg)
}
func GetMetricsRegistry() *prometheus.Registry { return metricsReg }
func GetAuthEvents() *helpers.AuthEvents       { return authEvents }
