package config

import (
	"coinlings/internal/world"
	"errors"
	"fmt"
	"github.com/joho/godotenv"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
)

type ServerConfig struct {
	Env         string        `env:"ENV,required"` // local, dev, prod
	Address     string        `env:"ADDRESS,required"`
	Timeout     time.Duration `env:"TIMEOUT" envDefault:"5s"`
	CORSOrigins []string      `env:"CORS_ORIGINS" envDefault:"http://localhost:8080"`
}

type DatabaseConfig struct {
	Driver       string `env:"STORAGE_DRIVER" envDefault:"postgres"` // postgres, sqlite, memory
	PostgresConn string `env:"POSTGRES_CONN"`
	SQLitePath   string `env:"SQLITE_PATH" envDefault:"data/coinlings.db"`
}

type JWTConfig struct {
	Secret                  string `env:"JWT_SECRET,required"`
	AccessExpirationMinutes int    `env:"ACCESS_EXPIRATION_MINUTES" envDefault:"15"`
	RefreshExpirationDays   int    `env:"REFRESH_EXPIRATION_DAYS" envDefault:"7"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type SpritesConfig struct {
	Driver     string `env:"SPRITES_DRIVER" envDefault:"fs"` // fs, s3
	Dir        string `env:"SPRITES_DIR" envDefault:"./public"`
	S3Bucket   string `env:"SPRITES_S3_BUCKET"`
	S3Region   string `env:"SPRITES_S3_REGION" envDefault:"us-east-1"`
	S3Endpoint string `env:"SPRITES_S3_ENDPOINT"`
	PathStyle  bool   `env:"SPRITES_S3_PATH_STYLE" envDefault:"false"`

	// optional; the default AWS credentials chain is used when empty
	S3AccessKeyID     string `env:"SPRITES_S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"SPRITES_S3_SECRET_ACCESS_KEY"`
}

type WorldConfig struct {
	MaxPopulation int `env:"MAX_POPULATION" envDefault:"10000"`
}

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Sprites  SpritesConfig
	World    WorldConfig
}

const (
	local = ".env.local"
	dev   = ".env.dev"
	prod  = ".env.prod"
)

// MustLoad reads the env file matching ENV (.env.local by default) when it exists,
// then the process environment. Malformed or missing required values panic.
func MustLoad() *Config {
	file := local
	switch os.Getenv("ENV") {
	case "dev":
		file = dev
	case "prod":
		file = prod
	}

	if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	cfg, err := Load()
	if err != nil {
		panic(err)
	}

	return cfg
}

// Load builds the config from the process environment.
func Load() (*Config, error) {
	timeout, err := time.ParseDuration(getEnv("TIMEOUT", "5s"))
	if err != nil {
		return nil, errors.New("Invalid TIMEOUT format: " + err.Error())
	}

	accessExp, err := strconv.Atoi(getEnv("ACCESS_EXPIRATION_MINUTES", "15"))
	if err != nil {
		return nil, errors.New("Invalid ACCESS_EXPIRATION_MINUTES format: " + err.Error())
	}

	refreshExp, err := strconv.Atoi(getEnv("REFRESH_EXPIRATION_DAYS", "7"))
	if err != nil {
		return nil, errors.New("Invalid REFRESH_EXPIRATION_DAYS format: " + err.Error())
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, errors.New("Invalid REDIS_DB format: " + err.Error())
	}

	pathStyle, err := strconv.ParseBool(getEnv("SPRITES_S3_PATH_STYLE", "false"))
	if err != nil {
		return nil, errors.New("Invalid SPRITES_S3_PATH_STYLE format: " + err.Error())
	}

	maxPopulation, err := strconv.Atoi(getEnv("MAX_POPULATION", "10000"))
	if err != nil {
		return nil, errors.New("Invalid MAX_POPULATION format: " + err.Error())
	}
	if maxPopulation < 1 || maxPopulation > world.PopulationLimit {
		return nil, fmt.Errorf("MAX_POPULATION must be between 1 and %d", world.PopulationLimit)
	}

	cfg := &Config{
		Server: ServerConfig{
			Env:         os.Getenv("ENV"),
			Address:     os.Getenv("ADDRESS"),
			Timeout:     timeout,
			CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:8080")),
		},
		Database: DatabaseConfig{
			Driver:       getEnv("STORAGE_DRIVER", "postgres"),
			PostgresConn: os.Getenv("POSTGRES_CONN"),
			SQLitePath:   getEnv("SQLITE_PATH", "data/coinlings.db"),
		},
		JWT: JWTConfig{
			Secret:                  os.Getenv("JWT_SECRET"),
			AccessExpirationMinutes: accessExp,
			RefreshExpirationDays:   refreshExp,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Sprites: SpritesConfig{
			Driver:     getEnv("SPRITES_DRIVER", "fs"),
			Dir:        getEnv("SPRITES_DIR", "./public"),
			S3Bucket:   os.Getenv("SPRITES_S3_BUCKET"),
			S3Region:   getEnv("SPRITES_S3_REGION", "us-east-1"),
			S3Endpoint: os.Getenv("SPRITES_S3_ENDPOINT"),
			PathStyle:  pathStyle,

			S3AccessKeyID:     os.Getenv("SPRITES_S3_ACCESS_KEY_ID"),
			S3SecretAccessKey: os.Getenv("SPRITES_S3_SECRET_ACCESS_KEY"),
		},
		World: WorldConfig{
			MaxPopulation: maxPopulation,
		},
	}

	switch {
	case cfg.Server.Env == "":
		return nil, errors.New("ENV is required")
	case cfg.Server.Address == "":
		return nil, errors.New("ADDRESS is required")
	case cfg.JWT.Secret == "":
		return nil, errors.New("JWT_SECRET is required")
	}

	switch cfg.Database.Driver {
	case "postgres":
		if cfg.Database.PostgresConn == "" {
			return nil, errors.New("POSTGRES_CONN is required for the postgres driver")
		}
	case "sqlite", "memory":
	default:
		return nil, errors.New("Unknown STORAGE_DRIVER: " + cfg.Database.Driver)
	}

	switch cfg.Sprites.Driver {
	case "fs":
	case "s3":
		if cfg.Sprites.S3Bucket == "" {
			return nil, errors.New("SPRITES_S3_BUCKET is required for the s3 driver")
		}
	default:
		return nil, errors.New("Unknown SPRITES_DRIVER: " + cfg.Sprites.Driver)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
