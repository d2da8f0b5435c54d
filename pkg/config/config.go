package config

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"strings"
)

// UnmarshalConfig reads <configName>.yml from . or ./config/, merges an optional
// <configName>-<env>.yml on top and lets <APPNAME>_* environment variables override both.
// A missing base file is not an error, defaults and environment still apply.
// If v already has an explicit config file, only that file is read and it must exist.
func UnmarshalConfig(v *viper.Viper, config interface{}, appName string, configName string) error {
	v.SetEnvPrefix(appName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			return errors.WithMessagef(err, "failed to read %s", v.ConfigFileUsed())
		}
		return unmarshal(v, config, configName)
	}
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config/")

	v.SetConfigName(configName)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return errors.WithMessagef(err, "failed to read %s config", configName)
		}
	}
	if extended := extendConfigName(v, configName); extended != configName {
		v.SetConfigName(extended)
		//a missing overlay is fine, a broken one is not
		if err := v.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return errors.WithMessagef(err, "failed to merge %s config", extended)
			}
		}
	}
	return unmarshal(v, config, configName)
}

func unmarshal(v *viper.Viper, config interface{}, configName string) error {
	if err := v.Unmarshal(config); err != nil {
		return errors.WithMessagef(err, "failed to unmarshal %s config", configName)
	}
	return nil
}

func extendConfigName(v *viper.Viper, configName string) string {
	if v.GetString("env") == "" {
		return configName
	} else {
		return configName + "-" + v.GetString("env")
	}
}
