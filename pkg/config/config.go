package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/karunasetu/karuna-backend/pkg/env"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Admin         AdminConfig
	JWT           JWTConfig
	Cloudinary    CloudinaryConfig
	Uploads       UploadsConfig
	CORS          CORSConfig
	Redis         RedisConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"KARUNA_APP_ENV" default:"dev"`
	Port         string `envconfig:"KARUNA_APP_PORT" default:"8000"`
	LogLevel     string `envconfig:"KARUNA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"KARUNA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"KARUNA_DB_DSN"`
	Driver string `envconfig:"KARUNA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"KARUNA_DB_HOST"`
	LegacyPort     int    `envconfig:"KARUNA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"KARUNA_DB_USER"`
	LegacyPassword string `envconfig:"KARUNA_DB_PASSWORD"`
	LegacyName     string `envconfig:"KARUNA_DB_NAME"`
	LegacySSLMode  string `envconfig:"KARUNA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"KARUNA_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"KARUNA_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"KARUNA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"KARUNA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// AdminConfig describes the single admin identity. Password may legitimately
// be empty: the credential verifier then rejects every login instead of the
// process refusing to start.
type AdminConfig struct {
	Email    string `envconfig:"KARUNA_ADMIN_EMAIL" default:"admin@example.com"`
	Password string `envconfig:"KARUNA_ADMIN_PASSWORD"`
	APIKey   string `envconfig:"KARUNA_ADMIN_API_KEY"`
}

type JWTConfig struct {
	Secret            string `envconfig:"KARUNA_ADMIN_JWT_SECRET"`
	Issuer            string `envconfig:"KARUNA_JWT_ISSUER" default:"karuna-backend"`
	ExpirationMinutes int    `envconfig:"KARUNA_JWT_EXPIRATION_MINUTES" default:"60"`
}

// CloudinaryConfig carries everything except the credentials, which are
// re-read from the environment on every storage call (see Credentials).
type CloudinaryConfig struct {
	Folder string `envconfig:"KARUNA_CLOUDINARY_FOLDER" default:"ngo-gallery"`
}

// CloudinaryCredentials is the triple that selects the cloud backend. The
// cloud store is used only when all three values are present.
type CloudinaryCredentials struct {
	CloudName string
	APIKey    string
	APISecret string
}

func (c CloudinaryCredentials) Configured() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

// CloudinaryCredentialsFromEnv reads the credential triple directly from the
// process environment so configuration changes take effect without a restart.
func CloudinaryCredentialsFromEnv() CloudinaryCredentials {
	return CloudinaryCredentials{
		CloudName: env.Get(EnvCloudinaryCloudName, ""),
		APIKey:    env.Get(EnvCloudinaryAPIKey, ""),
		APISecret: env.Get(EnvCloudinaryAPISecret, ""),
	}
}

type UploadsConfig struct {
	Dir               string `envconfig:"KARUNA_UPLOADS_DIR" default:"public/uploads"`
	URLPrefix         string `envconfig:"KARUNA_UPLOADS_URL_PREFIX" default:"/uploads"`
	ImageMaxMB        int    `envconfig:"KARUNA_UPLOADS_IMAGE_MAX_MB" default:"20"`
	PortraitMaxMB     int    `envconfig:"KARUNA_UPLOADS_PORTRAIT_MAX_MB" default:"5"`
	MaxFilesPerUpload int    `envconfig:"KARUNA_UPLOADS_MAX_FILES" default:"12"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"KARUNA_CORS_ALLOWED_ORIGINS"`
}

type RedisConfig struct {
	URL          string        `envconfig:"KARUNA_REDIS_URL"`
	Address      string        `envconfig:"KARUNA_REDIS_ADDR"`
	Password     string        `envconfig:"KARUNA_REDIS_PASSWORD"`
	DB           int           `envconfig:"KARUNA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KARUNA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KARUNA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KARUNA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KARUNA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KARUNA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint is configured at all. The login
// rate limiter is skipped when it is not.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"KARUNA_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"KARUNA_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"KARUNA_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"KARUNA_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
