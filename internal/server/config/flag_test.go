package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"cmd",
			"-a", "127.0.0.1:9090", "-k", "mongo", "-d", "db", "-m", "mongodb://m:27017",
			"-s", "secret", "-t", "24", "-o", "http://a.test, http://b.test", "-r", "redis:6379",
		}, expected: &Config{
			EndpointAddrHTTP:      "127.0.0.1:9090",
			StoreKind:             "mongo",
			DatabaseDSN:           "db",
			MongoURI:              "mongodb://m:27017",
			SecretKey:             "secret",
			TokenValidityDuration: 24 * time.Hour,
			AllowedOrigins:        []string{"http://a.test", "http://b.test"},
			RedisAddr:             "redis:6379",
		}},
		{name: "unknown flags are filtered out", args: []string{"cmd", "-x", "1", "-s", "k"},
			expected: &Config{SecretKey: "k"}},
		{name: "bad int panics", args: []string{"cmd", "-t", "soon"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			config := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config) })
				return
			}
			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}

func TestParseFlags_KeepsTokenValidityWhenUnset(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"cmd"}

	config := &Config{TokenValidityDuration: 90 * time.Minute}
	parseFlags(config)

	assert.Equal(t, 90*time.Minute, config.TokenValidityDuration)
}
