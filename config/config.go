package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store drivers accepted in STORE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

// Config holds application configuration loaded from environment variables
// Provide sane defaults for local development.
type Config struct {
	AppName string
	Env     string // development, staging, production
	Port    string
	GinMode string

	// Credential store
	StoreDriver string

	// Postgres
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	DBMaxConns    int32
	DBMinConns    int32
	DBMaxConnLife time.Duration

	// Mongo
	MongoURI      string
	MongoDatabase string

	// Migrations
	MigrationsDir string

	// Redis
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	ProfileCacheTTL time.Duration

	// Google Cloud Storage
	GCSBucket              string
	GCSCredentialsJSONPath string // optional; if empty, Application Default Credentials are used

	// Uploads
	UploadTempDir  string
	UploadMaxBytes int64

	// Tokens
	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration

	// Cookies
	CookieDomain string
	CookieSecure bool

	// CORS
	CORSOrigin string // comma-separated

	// Elasticsearch
	ElasticsearchAddrs string // comma-separated
	ElasticsearchUser  string
	ElasticsearchPass  string
	ESUsersIndex       string

	// RabbitMQ
	RabbitMQURL         string
	RabbitMQNotifyQueue string

	// Mailgun
	MailgunDomain string
	MailgunAPIKey string
	MailgunSender string

	MailSendEnabled bool
	MetricsEnabled  bool
	HTTPLogEnabled  bool
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %v, using default %v", key, err, def)
			return def
		}
		return b
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid int for %s: %v, using default %d", key, err, def)
			return def
		}
		return i
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using default %v", key, err, def)
			return def
		}
		return d
	}
	return def
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		AppName: getenv("APP_NAME", "go-account-service"),
		Env:     getenv("APP_ENV", "development"),
		Port:    getenv("PORT", "8000"),
		GinMode: getenv("GIN_MODE", "release"),

		StoreDriver: strings.ToLower(getenv("STORE_DRIVER", DriverPostgres)),

		DBHost:        getenv("DB_HOST", "localhost"),
		DBPort:        getenv("DB_PORT", "5432"),
		DBUser:        getenv("DB_USER", "postgres"),
		DBPassword:    getenv("DB_PASSWORD", "postgres"),
		DBName:        getenv("DB_NAME", "accounts"),
		DBSSLMode:     getenv("DB_SSLMODE", "disable"),
		DBMaxConns:    int32(getint("DB_MAX_CONNS", 10)),
		DBMinConns:    int32(getint("DB_MIN_CONNS", 2)),
		DBMaxConnLife: getdur("DB_MAX_CONN_LIFETIME", time.Hour),

		MongoURI:      getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getenv("MONGO_DATABASE", "accounts"),

		MigrationsDir: getenv("MIGRATIONS_DIR", "db/migrations"),

		RedisAddr:       getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getenv("REDIS_PASSWORD", ""),
		RedisDB:         getint("REDIS_DB", 0),
		ProfileCacheTTL: getdur("PROFILE_CACHE_TTL", 5*time.Minute),

		GCSBucket:              getenv("GCS_BUCKET", ""),
		GCSCredentialsJSONPath: getenv("GCS_CREDENTIALS_JSON", ""),

		UploadTempDir:  getenv("UPLOAD_TEMP_DIR", "public/temp"),
		UploadMaxBytes: int64(getint("UPLOAD_MAX_BYTES", 8<<20)),

		AccessTokenSecret:  getenv("ACCESS_TOKEN_SECRET", "devaccesssecret"),
		RefreshTokenSecret: getenv("REFRESH_TOKEN_SECRET", "devrefreshsecret"),
		AccessTokenExpiry:  getdur("ACCESS_TOKEN_EXPIRY", 24*time.Hour),
		RefreshTokenExpiry: getdur("REFRESH_TOKEN_EXPIRY", 240*time.Hour),

		CookieDomain: getenv("COOKIE_DOMAIN", ""),
		CookieSecure: getbool("COOKIE_SECURE", true),

		CORSOrigin: getenv("CORS_ORIGIN", ""),

		ElasticsearchAddrs: getenv("ELASTICSEARCH_ADDRS", ""),
		ElasticsearchUser:  getenv("ELASTICSEARCH_USERNAME", ""),
		ElasticsearchPass:  getenv("ELASTICSEARCH_PASSWORD", ""),
		ESUsersIndex:       getenv("ES_USERS_INDEX", "users"),

		RabbitMQURL:         getenv("RABBITMQ_URL", ""),
		RabbitMQNotifyQueue: getenv("RABBITMQ_NOTIFY_QUEUE", "account-notifications"),

		MailgunDomain: getenv("MAILGUN_DOMAIN", ""),
		MailgunAPIKey: getenv("MAILGUN_API_KEY", ""),
		MailgunSender: getenv("MAILGUN_SENDER", ""),

		MailSendEnabled: getbool("MAIL_SEND_ENABLED", false),
		MetricsEnabled:  getbool("METRICS_ENABLED", true),
		HTTPLogEnabled:  getbool("HTTP_LOG_ENABLED", false),
	}
}

// Validate reports configuration that would make token handling unsafe or the store unusable.
func (c *Config) Validate() error {
	var errs []error
	if c.AccessTokenSecret == "" || c.RefreshTokenSecret == "" {
		errs = append(errs, errors.New("token secrets must not be empty"))
	}
	if c.AccessTokenSecret == c.RefreshTokenSecret {
		errs = append(errs, errors.New("access and refresh token secrets must differ"))
	}
	if c.AccessTokenExpiry <= 0 || c.RefreshTokenExpiry <= 0 {
		errs = append(errs, errors.New("token expiries must be positive"))
	}
	switch c.StoreDriver {
	case DriverPostgres, DriverMongo, DriverMemory:
	default:
		errs = append(errs, errors.New("unknown STORE_DRIVER "+strconv.Quote(c.StoreDriver)))
	}
	return errors.Join(errs...)
}

// PostgresDSN returns a DSN compatible with pgx
func (c *Config) PostgresDSN() string {
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + c.DBPort + "/" + c.DBName + "?sslmode=" + c.DBSSLMode
}

// CORSOrigins returns the allowed origins as slice
func (c *Config) CORSOrigins() []string {
	return splitList(c.CORSOrigin)
}

// ESAddrs returns Elasticsearch addresses as a slice
func (c *Config) ESAddrs() []string {
	return splitList(c.ElasticsearchAddrs)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}
