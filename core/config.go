package core

import (
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// DefaultJWTSecret signs tokens in local setups. It is refused outside DEV and TEST.
const DefaultJWTSecret = "change-me"

// Record backend drivers.
const (
	DriverApper    = "apper"
	DriverSupabase = "supabase"
	DriverPostgres = "postgres"
	DriverBolt     = "bolt"
	DriverMemory   = "memory"
)

type (
	ServerConfig struct {
		Host            string
		Address         string
		DebugHost       string
		ShutdownTimeout time.Duration
		JWTSecret       string
		JWTExpiration   time.Duration
	}

	BackendConfig struct {
		Driver    string
		URL       string
		ProjectID string
		APIKey    string
		Timeout   time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	BoltConfig struct {
		Path    string
		Timeout time.Duration
	}

	AuthWidgetConfig struct {
		SDKURL    string
		ProjectID string
		PublicKey string
	}

	Config struct {
		Debug        bool
		TestMode     bool
		AppName      string
		Env          string
		Build        string
		WorkDir      string
		RollbarToken string

		Server     ServerConfig
		Backend    BackendConfig
		Database   DatabaseConfig
		Bolt       BoltConfig
		AuthWidget AuthWidgetConfig
	}
)

func (dbc DatabaseConfig) Address() string {
	return net.JoinHostPort(dbc.Host, dbc.Port)
}

// CheckSecrets refuses to run outside DEV and TEST with an empty or default JWT secret.
func (conf *Config) CheckSecrets() error {
	if conf.Env == "DEV" || conf.Env == "TEST" {
		return nil
	}
	if conf.Server.JWTSecret == "" || conf.Server.JWTSecret == DefaultJWTSecret {
		return errors.Errorf("%s: the JWT secret must be set (%s_SERVER_JWTSECRET)", strings.ToLower(conf.Env), conf.Env)
	}
	return nil
}

// NewConfig loads the configuration from the environment.
// Variables are prefixed with the value of ENV (DEV by default), e.g. DEV_BACKEND_DRIVER.
func NewConfig() *Config {
	v := viper.New()

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	wd := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}

	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", env == "DEV")
	v.SetDefault("testMode", env == "TEST")
	v.SetDefault("appName", "StudyFlow")
	v.SetDefault("build", "develop")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.jwtSecret", DefaultJWTSecret)
	v.SetDefault("server.jwtExpiration", 24*time.Hour)
	v.SetDefault("backend.driver", DriverMemory)
	v.SetDefault("backend.url", "")
	v.SetDefault("backend.projectId", "")
	v.SetDefault("backend.apiKey", "")
	v.SetDefault("backend.timeout", 10*time.Second)
	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "studyflow")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.adminUser", "")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.disableTLS", env == "DEV" || env == "TEST")
	v.SetDefault("bolt.path", filepath.Join(wd, "studyflow.db"))
	v.SetDefault("bolt.timeout", time.Second)
	v.SetDefault("authWidget.sdkUrl", "")
	v.SetDefault("authWidget.projectId", "")
	v.SetDefault("authWidget.publicKey", "")

	return &Config{
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		AppName:      v.GetString("appName"),
		Env:          env,
		Build:        v.GetString("build"),
		WorkDir:      wd,
		RollbarToken: v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			Address:         v.GetString("server.address"),
			DebugHost:       v.GetString("server.debugHost"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
			JWTSecret:       v.GetString("server.jwtSecret"),
			JWTExpiration:   v.GetDuration("server.jwtExpiration"),
		},
		Backend: BackendConfig{
			Driver:    strings.ToLower(v.GetString("backend.driver")),
			URL:       v.GetString("backend.url"),
			ProjectID: v.GetString("backend.projectId"),
			APIKey:    v.GetString("backend.apiKey"),
			Timeout:   v.GetDuration("backend.timeout"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("database.engine"),
			Host:          v.GetString("database.host"),
			Port:          v.GetString("database.port"),
			Name:          v.GetString("database.name"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			DisableTLS:    v.GetBool("database.disableTLS"),
		},
		Bolt: BoltConfig{
			Path:    v.GetString("bolt.path"),
			Timeout: v.GetDuration("bolt.timeout"),
		},
		AuthWidget: AuthWidgetConfig{
			SDKURL:    v.GetString("authWidget.sdkUrl"),
			ProjectID: v.GetString("authWidget.projectId"),
			PublicKey: v.GetString("authWidget.publicKey"),
		},
	}
}
