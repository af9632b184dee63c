package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

type Configs struct {
	Env      string `toml:"env"`
	LogLevel string `toml:"log_level"`

	App       AppConfigs       `toml:"app"`
	Database  DatabaseConfigs  `toml:"database"`
	ApiServer APIServerConfigs `toml:"api_server"`
	Auth      AuthConfigs      `toml:"auth"`
	Redis     RedisConfigs     `toml:"redis"`
	Mirror    MirrorConfigs    `toml:"mirror"`
}

type AppConfigs struct {
	// RootURL is the canonical origin used in notification messages and in
	// links appended to mirrored posts, e.g. "https://luvlist.example".
	RootURL  string `toml:"root_url"`
	SiteName string `toml:"site_name"`
}

type DatabaseConfigs struct {
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type APIServerConfigs struct {
	Host           string   `toml:"host"`
	Port           string   `toml:"port"`
	AllowedOrigins []string `toml:"allowed_origins"`
	DefaultLimit   int      `toml:"default_limit"`
	MaxLimit       int      `toml:"max_limit"`
}

func (s *APIServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type AuthConfigs struct {
	TokenSecret     string        `toml:"token_secret"`
	AccessTokenName string        `toml:"access_token_name"`
	TokenExpiration time.Duration `toml:"token_expiration"`
}

type RedisConfigs struct {
	Addr string `toml:"addr"`
}

type MirrorConfigs struct {
	// SecretKey encrypts linked-account credentials at rest. Hex-encoded,
	// 32 bytes once decoded.
	SecretKey string `toml:"secret_key"`

	// RequestTimeout bounds every call to an external provider. Mirroring
	// is best-effort; a slow provider must not hold the request hostage.
	RequestTimeout time.Duration `toml:"request_timeout"`
}

// Load reads a TOML config file.
func Load(path string) (Configs, error) {
	var cfg Configs
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Configs{}, err
	}

	return cfg, nil
}
