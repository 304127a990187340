package config_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/intent-wallet/internal/config"
	"golang.org/x/text/language"
)

func TestPrintServiceEnv(t *testing.T) {
	config := config.DefaultServiceConfigFromEnv()
	_, err := json.MarshalIndent(config, "", "  ")

	if err != nil {
		t.Fatal(err)
	}
}

func TestDefaults(t *testing.T) {
	cfg := config.DefaultServiceConfigFromEnv()

	assert.Equal(t, ":8080", cfg.Echo.ListenAddress)
	assert.Equal(t, "devnet", cfg.Wallet.Cluster)
	assert.Equal(t, "confirmed", cfg.Wallet.Commitment)
	assert.Equal(t, 30*time.Second, cfg.Wallet.MaxStampAge)
	assert.Equal(t, uint(3), cfg.Wallet.ReadRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.Wallet.ReadRetryInitialInterval)
	assert.Equal(t, "https://phantom.app/ul/v1", cfg.Signer.DeepLinkBase)
	assert.Equal(t, language.English, cfg.I18n.DefaultLanguage)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("WALLET_CLUSTER", "mainnet-beta")
	t.Setenv("WALLET_MAX_STAMP_AGE", "5s")
	t.Setenv("WALLET_READ_RETRIES", "7")
	t.Setenv("SERVER_LOGGER_LEVEL", "warn")
	t.Setenv("SERVER_I18N_DEFAULT_LANGUAGE", "de")

	cfg := config.DefaultServiceConfigFromEnv()

	assert.Equal(t, "mainnet-beta", cfg.Wallet.Cluster)
	assert.Equal(t, 5*time.Second, cfg.Wallet.MaxStampAge)
	assert.Equal(t, uint(7), cfg.Wallet.ReadRetries)
	assert.Equal(t, zerolog.WarnLevel, cfg.Logger.Level)
	assert.Equal(t, language.German, cfg.I18n.DefaultLanguage)
}

func TestDotEnvLoad(t *testing.T) {
	file := filepath.Join(t.TempDir(), ".env.local")
	require.NoError(t, os.WriteFile(file, []byte("WALLET_CLUSTER=testnet\nSIGNER_APP_URL=\"https://example.com\"\n"), 0o600))

	got := map[string]string{}
	err := config.DotEnvLoad(file, func(k string, v string) error {
		got[k] = v
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"WALLET_CLUSTER": "testnet",
		"SIGNER_APP_URL": "https://example.com",
	}, got)

	// missing files are ignored
	config.DotEnvTryLoad(filepath.Join(t.TempDir(), "missing"), func(string, string) error {
		t.Fatal("must not be called")
		return nil
	})
}
