package providers

import (
	"betcodes/internal/structures"
	"fmt"
	"github.com/spf13/viper"
	"path/filepath"
	"strings"
	"time"
)

func setDefaults() {
	viper.SetDefault("premium.window", 20*time.Minute)
	viper.SetDefault("premium.tick", time.Second)
	viper.SetDefault("ads.driver", "simulated")
	viper.SetDefault("ads.fillRate", 1.0)
	viper.SetDefault("ads.playback", 2*time.Second)
	viper.SetDefault("prefs.driver", "file")
	viper.SetDefault("prefs.saveInterval", time.Minute)
	viper.SetDefault("prefs.redis.keyPrefix", "betcodes")
	viper.SetDefault("prefs.redis.timeout", 500*time.Millisecond)
	viper.SetDefault("backend.timeout", 10*time.Second)
	viper.SetDefault("subscription.refreshInterval", 5*time.Minute)
	viper.SetDefault("cache.ttl", time.Minute)
	viper.SetDefault("cache.staleTtl", 24*time.Hour)
	viper.SetDefault("rateLimit.watchAdPerMinute", 6)
	viper.SetDefault("rateLimit.burst", 2)
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	setDefaults()

	viper.BindEnv("logger.level", "BETCODES_LOG_LEVEL")
	viper.BindEnv("prefs.driver", "BETCODES_PREFS_DRIVER")
	viper.BindEnv("prefs.redis.addr", "BETCODES_REDIS_ADDR")
	viper.BindEnv("backend.baseUrl", "BETCODES_BACKEND_URL")
	viper.BindEnv("backend.token", "BETCODES_BACKEND_TOKEN")
	viper.BindEnv("cache.enabled", "BETCODES_CACHE_ENABLED")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "BetCodesPremiumDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
