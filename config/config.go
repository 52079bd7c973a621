// Package config owns the viper registry: defaults, SUBGATE_* environment bindings and the TOML file.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subgate-cli/subgate/constant"
	"github.com/subgate-cli/subgate/filesystem"
	"github.com/subgate-cli/subgate/key"
	"github.com/subgate-cli/subgate/where"
)

// EnvKeyReplacer maps config keys to environment variable names.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup loads defaults, binds the environment and reads subgate.toml if present.
func Setup() error {
	viper.SetConfigName(constant.Subgate)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.Subgate)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}

	return nil
}

// BackendTimeout is backend.timeout as a duration. Non-positive values mean no timeout.
func BackendTimeout() time.Duration {
	secs := viper.GetInt(key.BackendTimeout)
	if secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// VersionInterval is the heartbeat period, never shorter than a minute.
func VersionInterval() time.Duration {
	mins := viper.GetInt(key.CliVersionInterval)
	if mins < 1 {
		mins = 1
	}
	return time.Duration(mins) * time.Minute
}

// Upstream is the web application proxied by subgate.
func Upstream() string {
	if u := viper.GetString(key.ProxyUpstream); u != "" {
		return u
	}
	return viper.GetString(key.BackendBaseURL)
}
