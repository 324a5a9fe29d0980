package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type AppEnv struct {
	LogLvl  string
	LogFile string

	PgHost     string
	PgPort     string
	PgUser     string
	PgPassword string
	PgDbName   string
	SSLMode    string
	TimeZone   string

	MongoURI string
	MongoDB  string

	AuthHost string
	AuthPort string

	SupervisorEmail        string
	SupervisorHashPassword string
}

// LoadDotEnv seeds the environment from .env when the file exists. Variables
// already set are not overridden.
func LoadDotEnv(paths ...string) error {
	err := godotenv.Load(paths...)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// GetEnvironment reads the environment and checks the variables the
// configured drivers need.
func GetEnvironment(cfg Config) (env AppEnv, err error) {
	env = AppEnv{
		LogLvl:                 getEnv("LOG_LEVEL", "debug"),
		LogFile:                getEnv("LOG_FILE", ""),
		PgHost:                 getEnv("POSTGRES_HOST", ""),
		PgPort:                 getEnv("POSTGRES_PORT", ""),
		PgUser:                 getEnv("POSTGRES_USER", ""),
		PgPassword:             getEnv("POSTGRES_PASSWORD", ""),
		PgDbName:               getEnv("POSTGRES_DB", ""),
		SSLMode:                getEnv("POSTGRES_SSL_MODE", "disable"),
		TimeZone:               getEnv("POSTGRES_TIMEZONE", "Asia/Bishkek"),
		MongoURI:               getEnv("MONGO_URI", ""),
		MongoDB:                getEnv("MONGO_DB", "boodai"),
		AuthHost:               getEnv("AUTH_HOST", "localhost"),
		AuthPort:               getEnv("AUTH_PORT", ":8080"),
		SupervisorEmail:        getEnv("SUPERVISOR_EMAIL", ""),
		SupervisorHashPassword: getEnv("SUPERVISOR_HASHPASSWORD", ""),
	}

	if cfg.Store.Driver == StorePostgres {
		if env.PgHost == "" || env.PgPort == "" || env.PgUser == "" ||
			env.PgPassword == "" || env.PgDbName == "" {
			return env, fmt.Errorf("incorrect environment params: postgres")
		}
	}

	if cfg.Loyalty.Enabled && env.MongoURI == "" {
		return env, fmt.Errorf("incorrect environment params: mongo")
	}

	if cfg.Auth.Enabled && (env.SupervisorEmail == "" || env.SupervisorHashPassword == "") {
		return env, fmt.Errorf("incorrect environment params: supervisor")
	}

	return env, nil
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultVal
}
