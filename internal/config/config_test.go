package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInstance(t *testing.T) {
	clear1 := setEnv("PRS_CONFIG_FILE", "testdata/config.yaml")
	defer clear1()
	clear2 := setEnv("PRS_JWT_PRIVATE_KEY", "private2.key")
	defer clear2()

	a := assert.New(t)
	assert.NoError(t, Load())
	cfg := Instance()
	a.Equal("public.pem", cfg.JWT.PublicKey)
	a.Equal("private2.key", cfg.JWT.PrivateKey)
	a.Equal("debug", cfg.Log.Level)

	// yaml overrides the built-in rule defaults
	a.Equal(5, cfg.DefaultRules.SmallBlind)
	a.Equal(10, cfg.DefaultRules.BigBlind)
	a.Equal(4, cfg.DefaultRules.MaxPlayerCount)

	// ensure that it's only loaded once
	_ = os.Setenv("PRS_JWT_PRIVATE_KEY", "private3.key")
	// ensure we aren't using a pointer
	cfg.JWT.PrivateKey = "bad"
	cfg = Instance()
	a.Equal("private2.key", cfg.JWT.PrivateKey)
}

func setEnv(key, val string) func() {
	orig := os.Getenv(key)
	_ = os.Setenv(key, val)
	return func() {
		if orig == "" {
			_ = os.Unsetenv(key)
		} else {
			_ = os.Setenv(key, orig)
		}
	}
}
