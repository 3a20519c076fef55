package structures

import (
	"net/http"
	"time"
)

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}

type Route struct {
	Url     string
	Handler http.Handler
}

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type PremiumConfig struct {
	Window      time.Duration `yaml:"window" validate:"required|min:1"`
	Tick        time.Duration `yaml:"tick"`
	GameId      string        `yaml:"gameId" validate:"required"`
	PlacementId string        `yaml:"placementId" validate:"required"`
}

type AdsConfig struct {
	Driver   string        `yaml:"driver" validate:"required|in:simulated"`
	FillRate float64       `yaml:"fillRate"`
	Playback time.Duration `yaml:"playback"`
	TestMode bool          `yaml:"testMode"`
}

type RedisConfig struct {
	Addr      string        `yaml:"addr"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	KeyPrefix string        `yaml:"keyPrefix"`
	Timeout   time.Duration `yaml:"timeout"`
}

type PrefsConfig struct {
	Driver       string        `yaml:"driver" validate:"required|in:memory,file,redis"`
	FilePath     string        `yaml:"filePath"`
	SaveInterval time.Duration `yaml:"saveInterval"`
	Redis        RedisConfig   `yaml:"redis"`
}

type BackendConfig struct {
	BaseUrl string        `yaml:"baseUrl" validate:"required|fullUrl"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

type SubscriptionConfig struct {
	RefreshInterval time.Duration `yaml:"refreshInterval"`
	AllowedUsers    []string      `yaml:"allowedUsers"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
	// StaleTTL bounds how long the last good list survives an outage.
	StaleTTL time.Duration `yaml:"staleTtl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type RateLimitConfig struct {
	WatchAdPerMinute int `yaml:"watchAdPerMinute"`
	Burst            int `yaml:"burst"`
}

type Config struct {
	AppName      string
	Debug        bool
	Path         string
	WebServer    Server             `yaml:"webServer"`
	Logger       LoggerConfig       `yaml:"logger"`
	Premium      PremiumConfig      `yaml:"premium"`
	Ads          AdsConfig          `yaml:"ads"`
	Prefs        PrefsConfig        `yaml:"prefs"`
	Backend      BackendConfig      `yaml:"backend"`
	Subscription SubscriptionConfig `yaml:"subscription"`
	Cache        CacheConfig        `yaml:"cache"`
	Metrics      MetricsConfig      `yaml:"metrics"`
	RateLimit    RateLimitConfig    `yaml:"rateLimit"`
}
