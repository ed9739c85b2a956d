package configuration

import (
	"fmt"
	"os"
	"strconv"

	"reelpilot/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App         App         `json:"app"`
	Database    Database    `json:"database"`
	RedisClient RedisClient `json:"redisClient"`
	Pubsub      Pubsub      `json:"pubsub"`
	Scheduler   Scheduler   `json:"scheduler"`
	Render      Render      `json:"render"`
	Platforms   Platforms   `json:"platforms"`
	OAuth       OAuth       `json:"oauth"`
	Logger      Logger      `json:"logger"`
}

type App struct {
	Port        int    `json:"port"`
	SecretKey   string `json:"secretKey"`
	BaseURL     string `json:"baseURL"`
	TLSEnabled  bool   `json:"tlsEnabled"`
	TLSCertFile string `json:"tlsCertFile"`
	TLSKeyFile  string `json:"tlsKeyFile"`
}

type Database struct {
	Psql Db `json:"psql"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
}

type RedisClient struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	Password     string `json:"password"`
	DatabaseName string `json:"databaseName"`
	Username     string `json:"username"`
}

type Pubsub struct {
	ProjectID string `json:"projectID"`
}

// Scheduler controls the background generation loop.
type Scheduler struct {
	Enabled          bool `json:"enabled"`
	IntervalMinutes  int  `json:"intervalMinutes"`
	LeadTimeMinutes  int  `json:"leadTimeMinutes"`
	OAuthStateTTLMin int  `json:"oauthStateTTLMin"`
}

// Render points at the external video generation service.
type Render struct {
	Host           string `json:"host"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
	WorkDir        string `json:"workDir"`
}

// Platforms lists which publish targets are enabled.
type Platforms struct {
	Enabled []string `json:"enabled"`
}

type Logger struct {
	Format string `json:"format"`
}

// OAuth holds per-platform OAuth client credentials.
type OAuth struct {
	YouTube   OAuthClient `json:"youtube"`
	TikTok    OAuthClient `json:"tiktok"`
	Instagram OAuthClient `json:"instagram"`
}

type OAuthClient struct {
	ClientID     string   `json:"clientId"`
	ClientSecret string   `json:"clientSecret"`
	RedirectURI  string   `json:"redirectURI"`
	Scopes       []string `json:"scopes"`
}

var C Config

func init() {
	LoadConfig()
	initDatabase(&C)
	initApp(&C)
	initScheduler(&C)
	// Prefer https redirect URIs locally when TLS enabled
	if C.App.TLSEnabled {
		for _, client := range []*OAuthClient{&C.OAuth.YouTube, &C.OAuth.TikTok, &C.OAuth.Instagram} {
			if client.RedirectURI != "" && !hasHTTPS(client.RedirectURI) {
				client.RedirectURI = toHTTPSCallback(client.RedirectURI)
			}
		}
	}
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initDatabase(C *Config) {
	if C.Database.Psql.Name == "" {
		C.Database.Psql.Name = os.Getenv("DB_NAME")
	}
	if C.Database.Psql.Host == "" {
		C.Database.Psql.Host = os.Getenv("DB_HOST")
	}
	if C.Database.Psql.User == "" {
		C.Database.Psql.User = os.Getenv("DB_USER")
	}
	if C.Database.Psql.Password == "" {
		C.Database.Psql.Password = os.Getenv("DB_PASSWORD")
	}
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = os.Getenv("DB_PORT")
	}
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = "5432"
	}

	if C.RedisClient.Host == "" {
		C.RedisClient.Host = os.Getenv("REDIS_HOST")
	}
	if C.RedisClient.Port == "" {
		if v := os.Getenv("REDIS_PORT"); v != "" {
			C.RedisClient.Port = v
		} else {
			C.RedisClient.Port = "6379"
		}
	}
	if C.RedisClient.Password == "" {
		C.RedisClient.Password = os.Getenv("REDIS_PASSWORD")
	}
}

func initApp(C *Config) {
	// Prefer SECRET_KEY from environment for JWT verification; overrides config file when provided
	if v := os.Getenv("SECRET_KEY"); v != "" {
		C.App.SecretKey = v
	}
	// Port resolution order (env overrides config): APP_PORT -> PORT -> config -> default 10001
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 10001
	}
	if C.App.BaseURL == "" {
		C.App.BaseURL = os.Getenv("APP_BASE_URL")
	}
	// Allow overriding TLS settings via env variables (both enable and disable)
	if v := os.Getenv("TLS_ENABLED"); v != "" {
		switch v {
		case "1", "true", "TRUE", "True":
			C.App.TLSEnabled = true
		case "0", "false", "FALSE", "False":
			C.App.TLSEnabled = false
		}
	}
	if C.App.TLSCertFile == "" {
		C.App.TLSCertFile = os.Getenv("TLS_CERT_FILE")
	}
	if C.App.TLSKeyFile == "" {
		C.App.TLSKeyFile = os.Getenv("TLS_KEY_FILE")
	}
	if C.App.TLSEnabled {
		if C.App.TLSCertFile == "" {
			if _, err := os.Stat("certs/localhost.crt"); err == nil {
				C.App.TLSCertFile = "certs/localhost.crt"
			}
		}
		if C.App.TLSKeyFile == "" {
			if _, err := os.Stat("certs/localhost.key"); err == nil {
				C.App.TLSKeyFile = "certs/localhost.key"
			}
		}
		logger.GetLogger().WithFields(map[string]interface{}{"cert": C.App.TLSCertFile, "key": C.App.TLSKeyFile}).Info("TLS enabled via configuration")
	}
	if C.App.SecretKey == "" {
		logger.GetLogger().Warn("App.SecretKey not set; JWT authentication will fail. Provide SECRET_KEY via environment.")
	}
}

func initScheduler(C *Config) {
	if v := os.Getenv("SCHEDULER_ENABLED"); v != "" {
		C.Scheduler.Enabled = v == "1" || v == "true" || v == "TRUE" || v == "True"
	}
	if C.Scheduler.IntervalMinutes <= 0 {
		C.Scheduler.IntervalMinutes = 60
	}
	if C.Scheduler.LeadTimeMinutes <= 0 {
		C.Scheduler.LeadTimeMinutes = 90
	}
	if C.Scheduler.OAuthStateTTLMin <= 0 {
		C.Scheduler.OAuthStateTTLMin = 10
	}
	if C.Render.Host == "" {
		C.Render.Host = os.Getenv("RENDER_HOST")
	}
	if C.Render.TimeoutSeconds <= 0 {
		C.Render.TimeoutSeconds = 30
	}
	if C.Render.WorkDir == "" {
		if v := os.Getenv("RENDER_WORK_DIR"); v != "" {
			C.Render.WorkDir = v
		} else {
			C.Render.WorkDir = "projects"
		}
	}
	if len(C.Platforms.Enabled) == 0 {
		C.Platforms.Enabled = []string{"youtube", "tiktok", "instagram"}
	}
}

// helpers to coerce local callback to https
func hasHTTPS(u string) bool { return len(u) >= 8 && u[:8] == "https://" }
func toHTTPSCallback(u string) string {
	// simple swap for localhost callbacks
	if len(u) >= 7 && u[:7] == "http://" {
		return "https://" + u[7:]
	}
	return u
}
