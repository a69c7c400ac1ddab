package config

import (
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AppConfig struct {
	RDS      *redis.Client
	DB       *gorm.DB
	NatsConn *nats.Conn
	Logger   *logrus.Logger

	RootWorkingDir string

	Client       ClientInfo   `yaml:"client"`
	LogSettings  LogSettings  `yaml:"log_settings"`
	RedisInfo    RedisInfo    `yaml:"redis_info"`
	DatabaseInfo DatabaseInfo `yaml:"database_info"`
	NatsInfo     *NatsInfo    `yaml:"nats_info"`
	Recognizer   Recognizer   `yaml:"recognizer"`
	AzureSpeech  AzureSpeech  `yaml:"azure_speech"`
	WhisperAPI   WhisperAPI   `yaml:"whisper_api"`
}

type ClientInfo struct {
	Port           int            `yaml:"port"`
	Debug          bool           `yaml:"debug"`
	ProxyHeader    string         `yaml:"proxy_header"`
	PrometheusConf PrometheusConf `yaml:"prometheus"`
}

type PrometheusConf struct {
	Enable      bool   `yaml:"enable"`
	MetricsPath string `yaml:"metrics_path"`
}

type LogSettings struct {
	LogFile    string  `yaml:"log_file"`
	LogLevel   *string `yaml:"log_level"`
	MaxSize    int     `yaml:"max_size"`
	MaxBackups int     `yaml:"max_backups"`
	MaxAge     int     `yaml:"max_age"`
}

type RedisInfo struct {
	Host              string   `yaml:"host"`
	Username          string   `yaml:"username"`
	Password          string   `yaml:"password"`
	DBName            int      `yaml:"db"`
	UseTLS            bool     `yaml:"use_tls"`
	MasterName        string   `yaml:"master_name"`
	SentinelUsername  string   `yaml:"sentinel_username"`
	SentinelPassword  string   `yaml:"sentinel_password"`
	SentinelAddresses []string `yaml:"sentinel_addresses"`
}

type DatabaseInfo struct {
	Host            string         `yaml:"host"`
	Port            int32          `yaml:"port"`
	Username        string         `yaml:"username"`
	Password        string         `yaml:"password"`
	DBName          string         `yaml:"db"`
	Charset         *string        `yaml:"charset"`
	Loc             *string        `yaml:"loc"`
	Prefix          string         `yaml:"prefix"`
	ConnMaxLifetime *time.Duration `yaml:"conn_max_lifetime"`
	MaxOpenConns    *int           `yaml:"max_open_conns"`
}

type NatsInfo struct {
	Enabled     bool     `yaml:"enabled"`
	NatsUrls    []string `yaml:"nats_urls"`
	Username    string   `yaml:"username"`
	Password    string   `yaml:"password"`
	EventPrefix string   `yaml:"event_prefix"`
}

// Recognizer holds the settings of the session manager core. Mode selects
// the backend variant for this deployment: "streaming" (live incremental
// recognition) or "batch" (collect then transcribe once at stop).
type Recognizer struct {
	Mode                  string         `yaml:"mode"`
	MaxConcurrentSessions int64          `yaml:"max_concurrent_sessions"`
	SessionTimeout        time.Duration  `yaml:"session_timeout"`
	ReaperInterval        time.Duration  `yaml:"reaper_interval"`
	FinalizeGracePeriod   time.Duration  `yaml:"finalize_grace_period"`
	MaxBatchWorkers       int            `yaml:"max_batch_workers"`
	DefaultLanguage       string         `yaml:"default_language"`
	MaxSessionBytes       int64          `yaml:"max_session_bytes"`
}

type AzureSpeech struct {
	SubscriptionKeys []AzureSubscriptionKey `yaml:"subscription_keys"`
	SynthesisVoice   string                 `yaml:"synthesis_voice"`
}

type AzureSubscriptionKey struct {
	Id              string `yaml:"id"`
	SubscriptionKey string `yaml:"subscription_key"`
	ServiceRegion   string `yaml:"service_region"`
	MaxConnection   int64  `yaml:"max_connection"`
}

type WhisperAPI struct {
	APIKey  string `yaml:"api_key"`
	BaseUrl string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

var (
	appCnf        *AppConfig
	mux           sync.RWMutex
	dbTablePrefix string
)

// New applies defaults and sets the config for global usage.
func New(a *AppConfig) *AppConfig {
	if a.Recognizer.Mode == "" {
		a.Recognizer.Mode = RecognizerModeStreaming
	}
	if a.Recognizer.MaxConcurrentSessions <= 0 {
		a.Recognizer.MaxConcurrentSessions = DefaultMaxConcurrentSessions
	}
	if a.Recognizer.SessionTimeout <= 0 {
		a.Recognizer.SessionTimeout = DefaultSessionTimeout
	}
	if a.Recognizer.ReaperInterval <= 0 {
		a.Recognizer.ReaperInterval = DefaultReaperInterval
	}
	if a.Recognizer.FinalizeGracePeriod <= 0 {
		a.Recognizer.FinalizeGracePeriod = DefaultFinalizeGracePeriod
	}
	if a.Recognizer.MaxBatchWorkers <= 0 {
		a.Recognizer.MaxBatchWorkers = DefaultMaxBatchWorkers
	}
	if a.Recognizer.DefaultLanguage == "" {
		a.Recognizer.DefaultLanguage = "zh-CN"
	}
	if a.WhisperAPI.Model == "" {
		a.WhisperAPI.Model = "whisper-1"
	}

	if a.DatabaseInfo.Prefix != "" {
		dbTablePrefix = a.DatabaseInfo.Prefix
	}

	mux.Lock()
	appCnf = a
	mux.Unlock()

	return a
}

// FormatDBTable prepends the configured table prefix, if any.
func FormatDBTable(table string) string {
	if dbTablePrefix != "" {
		return dbTablePrefix + table
	}
	return table
}

func GetConfig() *AppConfig {
	mux.RLock()
	defer mux.RUnlock()
	return appCnf
}
