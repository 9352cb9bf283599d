// internal/config/config.go
package config

import (
	"log"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// AppConfig はスケジューラ本体の調整値
type AppConfig struct {
	// 「今日の復習」1回の取得上限
	DueLimit int `mapstructure:"due_limit"`
	// get_upcoming の days パラメータ上限
	UpcomingDaysMax int `mapstructure:"upcoming_days_max"`
	// 永続化の同期リトライのバックオフ(ミリ秒)。要素数がリトライ回数になる。
	RetryBackoffMs []int `mapstructure:"retry_backoff_ms"`
}

// QueueConfig は非同期リトライキューの設定
type QueueConfig struct {
	Size            int `mapstructure:"size"`
	DrainIntervalMs int `mapstructure:"drain_interval_ms"`
	MaxAttempts     int `mapstructure:"max_attempts"`
}

type AuthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type JWTConfig struct {
	SecretKey string `mapstructure:"secret_key"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// AlertConfig はオペレータ警報の送信先設定 (log / smtp / ses)
type AlertConfig struct {
	Type string `mapstructure:"type"`
	To   string `mapstructure:"to"`
}

type SMTPConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	From string `mapstructure:"from"`
}

type SESConfig struct {
	Region          string `mapstructure:"region"`
	AuthType        string `mapstructure:"auth_type"` // "static_credentials" or "iam_role"
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	From            string `mapstructure:"from"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	App      AppConfig      `mapstructure:"app"`
	Queue    QueueConfig    `mapstructure:"queue"`
	Auth     AuthConfig     `mapstructure:"auth"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Alert    AlertConfig    `mapstructure:"alert"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	SES      SESConfig      `mapstructure:"ses"`
}

var Cfg Config

func LoadConfig(path string) error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(path)
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("APP")
	viper.AutomaticEnv()
	viper.BindEnv("database.url", "DATABASE_URL")
	viper.BindEnv("auth.enabled", "AUTH_ENABLED")
	viper.BindEnv("jwt.secret_key", "JWT_SECRET_KEY")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Warning: Config file not found. Using default settings or environment variables if available.")
		} else {
			log.Printf("Error reading config file: %s\n", err)
			return err
		}
	}

	if err := viper.Unmarshal(&Cfg); err != nil {
		log.Printf("Error unmarshalling config: %s\n", err)
		return err
	}

	// --- デフォルト値の設定 ---
	if Cfg.Server.Port == "" {
		Cfg.Server.Port = DefaultServerPort
	}
	if Cfg.Log.Level == "" {
		Cfg.Log.Level = DefaultLogLevel
	}
	if Cfg.App.DueLimit <= 0 {
		Cfg.App.DueLimit = DefaultDueLimit
	}
	if Cfg.App.UpcomingDaysMax <= 0 {
		Cfg.App.UpcomingDaysMax = DefaultUpcomingDaysMax
	}
	if len(Cfg.App.RetryBackoffMs) == 0 {
		// 同期リトライは3回・指数的バックオフ
		Cfg.App.RetryBackoffMs = []int{100, 300, 900}
	}
	if Cfg.Queue.Size <= 0 {
		Cfg.Queue.Size = DefaultQueueSize
	}
	if Cfg.Queue.DrainIntervalMs <= 0 {
		Cfg.Queue.DrainIntervalMs = DefaultQueueDrainIntervalMs
	}
	if Cfg.Queue.MaxAttempts <= 0 {
		Cfg.Queue.MaxAttempts = DefaultQueueMaxAttempts
	}
	if Cfg.Alert.Type == "" {
		Cfg.Alert.Type = DefaultAlertType
	}
	if !viper.IsSet("auth.enabled") {
		log.Println("Auth enabled flag not set, defaulting to true (enabled)")
		Cfg.Auth.Enabled = true
	}
	if Cfg.Database.URL == "" {
		log.Println("Warning: Database URL is not set in config.")
	}

	log.Println("Config loaded successfully")
	log.Printf("Server Port: %s", Cfg.Server.Port)
	log.Printf("Due Limit: %d", Cfg.App.DueLimit)
	log.Printf("Auth Enabled: %t", Cfg.Auth.Enabled)

	return nil
}
