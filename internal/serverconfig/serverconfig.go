// Package serverconfig loads the cmd/api HTTP surface's own configuration
// (ports, datastore DSNs) via viper. This is distinct from the pure core's
// internal/config.Config (YAML+struct, no viper) — see DESIGN.md for why
// the two configuration layers are kept separate.
package serverconfig

import (
	"strings"

	"github.com/spf13/viper"
)

// ServerConfig is the HTTP surface's runtime configuration.
type ServerConfig struct {
	Port           string
	CoreConfigPath string
	GazetteerSeed  string // path to a JSON seed file, loaded by cmd/api when PostgresDSN is empty
	PostgresDSN    string
	RedisURL       string
	MongoURI       string
	MeiliHost      string
	MeiliAPIKey    string
	EnableReview   bool
	EnableCache    bool
}

// Load reads server configuration from (in ascending priority) defaults,
// an optional config file at path, and VNADDR_-prefixed environment
// variables, mirroring a viper-based app/config loader.
func Load(path string) (ServerConfig, error) {
	v := viper.New()
	v.SetDefault("port", "8080")
	v.SetDefault("core_config_path", "")
	v.SetDefault("postgres_dsn", "")
	v.SetDefault("redis_url", "")
	v.SetDefault("mongo_uri", "")
	v.SetDefault("meili_host", "")
	v.SetDefault("meili_api_key", "")
	v.SetDefault("enable_review", false)
	v.SetDefault("enable_cache", false)

	v.SetEnvPrefix("VNADDR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return ServerConfig{}, err
			}
		}
	}

	return ServerConfig{
		Port:           v.GetString("port"),
		CoreConfigPath: v.GetString("core_config_path"),
		GazetteerSeed:  v.GetString("gazetteer_seed"),
		PostgresDSN:    v.GetString("postgres_dsn"),
		RedisURL:       v.GetString("redis_url"),
		MongoURI:       v.GetString("mongo_uri"),
		MeiliHost:      v.GetString("meili_host"),
		MeiliAPIKey:    v.GetString("meili_api_key"),
		EnableReview:   v.GetBool("enable_review"),
		EnableCache:    v.GetBool("enable_cache"),
	}, nil
}
