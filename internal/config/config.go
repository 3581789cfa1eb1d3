package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
}

type APIConfig struct {
	Environment        string  `mapstructure:"environment"`
	Port               string  `mapstructure:"port"`
	BaseURL            string  `mapstructure:"base_url"`
	AllowedCORSDomains string  `mapstructure:"allowed_cors_domains"`
	JWTSigningKey      string  `mapstructure:"jwt_signing_key"`
	QRSigningKey       string  `mapstructure:"qr_signing_key"`
	ScanRateLimitRPS   float64 `mapstructure:"scan_rate_limit_rps"`
	ScanRateLimitBurst int     `mapstructure:"scan_rate_limit_burst"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"db_name"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// Load reads the YAML config file and lets environment variables override
// any key (api.jwt_signing_key -> API_JWT_SIGNING_KEY). The file is
// watched so non-secret tweaks apply without a restart.
func Load(configPath string) (*AppConfig, error) {
	viper.SetConfigFile(configPath)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("viper.ReadInConfig -> %w", err)
	}

	conf := &AppConfig{}
	if err := viper.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("viper.Unmarshal -> %w", err)
	}

	viper.OnConfigChange(func(e fsnotify.Event) {
		zap.L().Info("config file changed, reloading", zap.String("file", e.Name))

		if err := viper.Unmarshal(conf); err != nil {
			zap.L().Error("failed to reload config", zap.Error(err))
		}
	})
	viper.WatchConfig()

	return conf, nil
}
