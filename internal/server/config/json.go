package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/rentscope/internal/flagx"
	"github.com/dmitrijs2005/rentscope/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Only fields
// present in the file override the current values.
type JsonConfig struct {
	EndpointAddrHTTP      *string         `json:"endpoint_addr_http"`
	StoreKind             *string         `json:"store_kind"`
	DatabaseDSN           *string         `json:"database_dsn"`
	MongoURI              *string         `json:"mongo_uri"`
	MongoDatabase         *string         `json:"mongo_database"`
	SecretKey             *string         `json:"secret_key"`
	TokenValidityDuration *timex.Duration `json:"token_validity_duration"`
	PasswordHasher        *string         `json:"password_hasher"`
	BcryptCost            *int            `json:"bcrypt_cost"`
	MinPasswordLength     *int            `json:"min_password_length"`
	AllowedOrigins        []string        `json:"allowed_origins"`
	RedisAddr             *string         `json:"redis_addr"`
}

// parseJson overlays values from the file named by -c/-config (or
// $RENTSCOPE_CONFIG). A missing path is a no-op; an unreadable or invalid
// file panics, as misconfiguration must stop the process.
func parseJson(config *Config) {
	path := flagx.ConfigFilePath()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.StoreKind, c.StoreKind)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.MongoURI, c.MongoURI)
	setString(&config.MongoDatabase, c.MongoDatabase)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.PasswordHasher, c.PasswordHasher)
	setString(&config.RedisAddr, c.RedisAddr)

	if c.TokenValidityDuration != nil {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.BcryptCost != nil {
		config.BcryptCost = *c.BcryptCost
	}
	if c.MinPasswordLength != nil {
		config.MinPasswordLength = *c.MinPasswordLength
	}
	if c.AllowedOrigins != nil {
		config.AllowedOrigins = c.AllowedOrigins
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
