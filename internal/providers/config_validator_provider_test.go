package providers

import (
	"betcodes/internal/structures"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *structures.Config {
	return &structures.Config{
		WebServer: structures.Server{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   "/tmp/logs",
		},
		Premium: structures.PremiumConfig{
			Window:      20 * time.Minute,
			Tick:        time.Second,
			GameId:      "5551234",
			PlacementId: "Rewarded_Android",
		},
		Ads: structures.AdsConfig{
			Driver:   "simulated",
			FillRate: 1,
		},
		Prefs: structures.PrefsConfig{
			Driver:   "file",
			FilePath: "/tmp/prefs.dat",
		},
		Backend: structures.BackendConfig{
			BaseUrl: "https://api.example.com",
		},
	}
}

func TestConfigValidator_ValidConfig(t *testing.T) {
	v := NewCnfValidator(validConfig())
	assert.NoError(t, v.Validate())
}

func TestConfigValidator_EmptyHost(t *testing.T) {
	c := validConfig()
	c.WebServer.Host = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_ZeroPort(t *testing.T) {
	c := validConfig()
	c.WebServer.Port = 0
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_InvalidLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = "verbose"
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_UnknownPrefsDriver(t *testing.T) {
	c := validConfig()
	c.Prefs.Driver = "sqlite"
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_FileDriverNeedsPath(t *testing.T) {
	c := validConfig()
	c.Prefs.FilePath = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_RedisDriverNeedsAddr(t *testing.T) {
	c := validConfig()
	c.Prefs.Driver = "redis"
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())

	c.Prefs.Redis.Addr = "127.0.0.1:6379"
	assert.NoError(t, v.Validate())
}

func TestConfigValidator_FillRateOutOfRange(t *testing.T) {
	c := validConfig()
	c.Ads.FillRate = 1.5
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_MissingPlacement(t *testing.T) {
	c := validConfig()
	c.Premium.PlacementId = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}
