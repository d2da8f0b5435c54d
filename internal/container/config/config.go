package config

import (
	"github.com/RuiFG/storagebox/backend"
	"github.com/RuiFG/storagebox/pkg/config"
	"github.com/spf13/viper"
	"time"
)

const (
	appName    = "storagebox"
	configName = "storagebox"
)

type Application struct {
	Debug    bool     `mapstructure:"debug"`
	Log      Log      `mapstructure:"log"`
	Session  Session  `mapstructure:"session"`
	Snapshot Snapshot `mapstructure:"snapshot"`
	Backend  Backend  `mapstructure:"backend"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type Session struct {
	ID  string        `mapstructure:"id"`
	TTL time.Duration `mapstructure:"ttl"`
}

type Snapshot struct {
	Codec string `mapstructure:"codec"`
}

type Backend struct {
	//memory, fs or redis
	Type string `mapstructure:"type"`
	Dir  string `mapstructure:"dir"`
	//nutsdb data file size in bytes, 0 keeps the nutsdb default
	SegmentSize int64  `mapstructure:"segment_size"`
	RedisURL    string `mapstructure:"redis_url"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "")
	v.SetDefault("debug", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("session.id", "")
	v.SetDefault("session.ttl", backend.DefaultSessionTTL)
	v.SetDefault("snapshot.codec", "json")
	v.SetDefault("backend.type", "fs")
	v.SetDefault("backend.dir", "./data")
	v.SetDefault("backend.segment_size", 0)
	v.SetDefault("backend.redis_url", "redis://localhost:6379/0")
}

// Load builds the application config, file may be empty to search the default locations.
func Load(file string) (Application, error) {
	v := viper.New()
	setDefaults(v)
	if file != "" {
		v.SetConfigFile(file)
	}
	var application Application
	if err := config.UnmarshalConfig(v, &application, appName, configName); err != nil {
		return Application{}, err
	}
	return application, nil
}
