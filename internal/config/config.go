package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Taxonomy listing orders.
const (
	OrderNameDesc  = "name_desc"
	OrderInsertion = "insertion"
)

// Config holds application level configuration.
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Log      LogConfig
	Storage  StorageConfig
	Recipe   RecipeConfig
	Swagger  SwaggerConfig
	Metrics  MetricsConfig
}

// AppConfig holds application-specific settings.
type AppConfig struct {
	Name string
	Env  string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        string
	BodyLimit   string
	SwaggerHost string
}

// DatabaseConfig selects the GORM dialect and its DSN.
type DatabaseConfig struct {
	Driver string // mysql, postgres, sqlite
	DSN    string
	Reset  bool // drop all tables before migrating
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// JWTConfig holds token settings.
type JWTConfig struct {
	Secret         string
	AccessTokenTTL time.Duration
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// StorageConfig selects where uploaded images live.
type StorageConfig struct {
	Driver        string // local, s3
	LocalRoot     string
	BaseURL       string
	UploadDir     string
	MaxImageBytes int64
	S3            S3Config
}

// S3Config holds settings for any S3-compatible backend.
type S3Config struct {
	Bucket       string
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
}

// RecipeConfig holds the product decisions around recipes.
type RecipeConfig struct {
	// TaxonomyOrder is the default ordering of tag and ingredient listings.
	TaxonomyOrder string
	// EnforceAssociationOwnership rejects tags and ingredients owned by
	// someone other than the recipe owner.
	EnforceAssociationOwnership bool
}

// SwaggerConfig toggles the /swagger endpoint.
type SwaggerConfig struct {
	Enabled bool
}

// MetricsConfig toggles the /metrics endpoint.
type MetricsConfig struct {
	Enabled bool
}

// Load builds Config from config.toml and environment variables.
// Environment variables use the RECIPEBOX_ prefix, e.g. RECIPEBOX_DATABASE_DSN.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix("RECIPEBOX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		Server: ServerConfig{
			Port:        v.GetString("server.port"),
			BodyLimit:   v.GetString("server.body_limit"),
			SwaggerHost: v.GetString("server.swagger_host"),
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(v.GetString("database.driver")),
			DSN:    v.GetString("database.dsn"),
			Reset:  v.GetBool("database.reset"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:         v.GetString("jwt.secret"),
			AccessTokenTTL: v.GetDuration("jwt.access_token_ttl"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Storage: StorageConfig{
			Driver:        strings.ToLower(v.GetString("storage.driver")),
			LocalRoot:     v.GetString("storage.local_root"),
			BaseURL:       v.GetString("storage.base_url"),
			UploadDir:     v.GetString("storage.upload_dir"),
			MaxImageBytes: v.GetInt64("storage.max_image_bytes"),
			S3: S3Config{
				Bucket:       v.GetString("storage.s3.bucket"),
				Region:       v.GetString("storage.s3.region"),
				Endpoint:     v.GetString("storage.s3.endpoint"),
				AccessKey:    v.GetString("storage.s3.access_key"),
				SecretKey:    v.GetString("storage.s3.secret_key"),
				UsePathStyle: v.GetBool("storage.s3.use_path_style"),
			},
		},
		Recipe: RecipeConfig{
			TaxonomyOrder:               strings.ToLower(v.GetString("recipe.taxonomy_order")),
			EnforceAssociationOwnership: v.GetBool("recipe.enforce_association_ownership"),
		},
		Swagger: SwaggerConfig{
			Enabled: v.GetBool("swagger.enabled"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("metrics.enabled"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "recipebox")
	v.SetDefault("app.env", "development")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.body_limit", "12M")
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.dsn", "user:password@tcp(localhost:3306)/app?charset=utf8mb4&parseTime=True&loc=Local")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "change-me")
	v.SetDefault("jwt.access_token_ttl", 24*time.Hour)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.local_root", "media")
	v.SetDefault("storage.base_url", "http://localhost:8080/media")
	v.SetDefault("storage.upload_dir", "uploads/recipe")
	v.SetDefault("storage.max_image_bytes", 10<<20)
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("recipe.taxonomy_order", OrderNameDesc)
	v.SetDefault("recipe.enforce_association_ownership", false)
	v.SetDefault("swagger.enabled", true)
	v.SetDefault("metrics.enabled", true)
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	switch c.Storage.Driver {
	case "local":
	case "s3":
		if c.Storage.S3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket is required for the s3 driver")
		}
	default:
		return fmt.Errorf("unsupported storage driver %q", c.Storage.Driver)
	}
	switch c.Recipe.TaxonomyOrder {
	case OrderNameDesc, OrderInsertion:
	default:
		return fmt.Errorf("unsupported recipe.taxonomy_order %q", c.Recipe.TaxonomyOrder)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required")
	}
	if c.IsProduction() && c.JWT.Secret == "change-me" {
		return fmt.Errorf("jwt.secret must be changed in production")
	}
	if c.JWT.AccessTokenTTL <= 0 {
		return fmt.Errorf("jwt.access_token_ttl must be positive")
	}
	return nil
}

// IsProduction reports whether the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
