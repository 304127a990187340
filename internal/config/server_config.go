package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

type EchoServer struct {
	Debug                          bool
	ListenAddress                  string
	HideInternalServerErrorDetails bool
	EnableCORSMiddleware           bool
	EnableLoggerMiddleware         bool
	EnableRecoverMiddleware        bool
	EnableRequestIDMiddleware      bool
	EnableTrailingSlashMiddleware  bool
}

type LoggerServer struct {
	Level              zerolog.Level
	RequestLevel       zerolog.Level
	LogRequestQuery    bool
	LogResponseBody    bool
	LogCaller          bool
	PrettyPrintConsole bool
}

type ManagementServer struct {
	ReadinessTimeout time.Duration
	LivenessTimeout  time.Duration
}

// Wallet configures the chain side. The RPC endpoint is read once and is
// fixed for the lifetime of the AppContext built from it.
type Wallet struct {
	Cluster                  string
	RPCEndpoint              string
	Commitment               string
	MaxStampAge              time.Duration
	ReadRetries              uint
	ReadRetryInitialInterval time.Duration
}

// Signer configures the deep link channel to the external signer app.
type Signer struct {
	DeepLinkBase string
	AppURL       string
	RedirectBase string
}

type Interpreter struct {
	Endpoint string
	Timeout  time.Duration
}

type I18n struct {
	DefaultLanguage language.Tag
	BundleDirAbs    string
}

// Paths point to the files served under /.well-known so the redirect base
// can be a verified universal link.
type Paths struct {
	AppleAppSiteAssociationFile string
	AndroidAssetlinksFile       string
}

type PrometheusServer struct {
	Enabled bool
	Path    string
}

type Server struct {
	Echo        EchoServer
	Management  ManagementServer
	Logger      LoggerServer
	Wallet      Wallet
	Signer      Signer
	Interpreter Interpreter
	I18n        I18n
	Paths       Paths
	Prometheus  PrometheusServer
}

// DefaultServiceConfigFromEnv returns the server config as parsed from environment variables
// and their respective defaults defined below.
// We don't expect that ENV_VARs change while we are running our application or our tests
// (and it would be a bad thing to do anyways with parallel testing).
// Do NOT use os.Setenv / os.Unsetenv in tests utilizing DefaultServiceConfigFromEnv()!
func DefaultServiceConfigFromEnv() Server {
	// An `.env.local` file in your project root can override the currently set ENV variables.
	// It is never applied automatically while running "go test".
	if !testing.Testing() {
		DotEnvTryLoad(filepath.Join(ProjectRootDir(), ".env.local"), os.Setenv)
	}

	v := newEnv()

	cluster := v.GetString("WALLET_CLUSTER")

	return Server{
		Echo: EchoServer{
			Debug:                          v.GetBool("SERVER_ECHO_DEBUG"),
			ListenAddress:                  v.GetString("SERVER_ECHO_LISTEN_ADDRESS"),
			HideInternalServerErrorDetails: v.GetBool("SERVER_ECHO_HIDE_INTERNAL_SERVER_ERROR_DETAILS"),
			EnableCORSMiddleware:           v.GetBool("SERVER_ECHO_ENABLE_CORS_MIDDLEWARE"),
			EnableLoggerMiddleware:         v.GetBool("SERVER_ECHO_ENABLE_LOGGER_MIDDLEWARE"),
			EnableRecoverMiddleware:        v.GetBool("SERVER_ECHO_ENABLE_RECOVER_MIDDLEWARE"),
			EnableRequestIDMiddleware:      v.GetBool("SERVER_ECHO_ENABLE_REQUEST_ID_MIDDLEWARE"),
			EnableTrailingSlashMiddleware:  v.GetBool("SERVER_ECHO_ENABLE_TRAILING_SLASH_MIDDLEWARE"),
		},
		Management: ManagementServer{
			ReadinessTimeout: v.GetDuration("SERVER_MANAGEMENT_READINESS_TIMEOUT"),
			LivenessTimeout:  v.GetDuration("SERVER_MANAGEMENT_LIVENESS_TIMEOUT"),
		},
		Logger: LoggerServer{
			Level:              logLevel(v.GetString("SERVER_LOGGER_LEVEL"), zerolog.InfoLevel),
			RequestLevel:       logLevel(v.GetString("SERVER_LOGGER_REQUEST_LEVEL"), zerolog.DebugLevel),
			LogRequestQuery:    v.GetBool("SERVER_LOGGER_LOG_REQUEST_QUERY"),
			LogResponseBody:    v.GetBool("SERVER_LOGGER_LOG_RESPONSE_BODY"),
			LogCaller:          v.GetBool("SERVER_LOGGER_LOG_CALLER"),
			PrettyPrintConsole: v.GetBool("SERVER_LOGGER_PRETTY_PRINT_CONSOLE"),
		},
		Wallet: Wallet{
			Cluster:                  cluster,
			RPCEndpoint:              v.GetString("WALLET_RPC_ENDPOINT"),
			Commitment:               v.GetString("WALLET_COMMITMENT"),
			MaxStampAge:              v.GetDuration("WALLET_MAX_STAMP_AGE"),
			ReadRetries:              v.GetUint("WALLET_READ_RETRIES"),
			ReadRetryInitialInterval: v.GetDuration("WALLET_READ_RETRY_INITIAL_INTERVAL"),
		},
		Signer: Signer{
			DeepLinkBase: v.GetString("SIGNER_DEEP_LINK_BASE"),
			AppURL:       v.GetString("SIGNER_APP_URL"),
			RedirectBase: v.GetString("SIGNER_REDIRECT_BASE"),
		},
		Interpreter: Interpreter{
			Endpoint: v.GetString("INTERPRETER_ENDPOINT"),
			Timeout:  v.GetDuration("INTERPRETER_TIMEOUT"),
		},
		I18n: I18n{
			DefaultLanguage: languageTag(v.GetString("SERVER_I18N_DEFAULT_LANGUAGE"), language.English),
			BundleDirAbs:    v.GetString("SERVER_I18N_BUNDLE_DIR_ABS"),
		},
		Paths: Paths{
			AppleAppSiteAssociationFile: v.GetString("SERVER_PATHS_APPLE_APP_SITE_ASSOCIATION_FILE"),
			AndroidAssetlinksFile:       v.GetString("SERVER_PATHS_ANDROID_ASSETLINKS_FILE"),
		},
		Prometheus: PrometheusServer{
			Enabled: v.GetBool("SERVER_PROMETHEUS_ENABLED"),
			Path:    v.GetString("SERVER_PROMETHEUS_PATH"),
		},
	}
}

func newEnv() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_ECHO_DEBUG", false)
	v.SetDefault("SERVER_ECHO_LISTEN_ADDRESS", ":8080")
	v.SetDefault("SERVER_ECHO_HIDE_INTERNAL_SERVER_ERROR_DETAILS", true)
	v.SetDefault("SERVER_ECHO_ENABLE_CORS_MIDDLEWARE", true)
	v.SetDefault("SERVER_ECHO_ENABLE_LOGGER_MIDDLEWARE", true)
	v.SetDefault("SERVER_ECHO_ENABLE_RECOVER_MIDDLEWARE", true)
	v.SetDefault("SERVER_ECHO_ENABLE_REQUEST_ID_MIDDLEWARE", true)
	v.SetDefault("SERVER_ECHO_ENABLE_TRAILING_SLASH_MIDDLEWARE", true)

	v.SetDefault("SERVER_MANAGEMENT_READINESS_TIMEOUT", 4*time.Second)
	v.SetDefault("SERVER_MANAGEMENT_LIVENESS_TIMEOUT", 9*time.Second)

	v.SetDefault("SERVER_LOGGER_LEVEL", "info")
	v.SetDefault("SERVER_LOGGER_REQUEST_LEVEL", "debug")
	v.SetDefault("SERVER_LOGGER_LOG_REQUEST_QUERY", false)
	v.SetDefault("SERVER_LOGGER_LOG_RESPONSE_BODY", false)
	v.SetDefault("SERVER_LOGGER_LOG_CALLER", false)
	v.SetDefault("SERVER_LOGGER_PRETTY_PRINT_CONSOLE", false)

	v.SetDefault("WALLET_CLUSTER", "devnet")
	v.SetDefault("WALLET_RPC_ENDPOINT", "")
	v.SetDefault("WALLET_COMMITMENT", "confirmed")
	v.SetDefault("WALLET_MAX_STAMP_AGE", 30*time.Second)
	v.SetDefault("WALLET_READ_RETRIES", 3)
	v.SetDefault("WALLET_READ_RETRY_INITIAL_INTERVAL", 250*time.Millisecond)

	v.SetDefault("SIGNER_DEEP_LINK_BASE", "https://phantom.app/ul/v1")
	v.SetDefault("SIGNER_APP_URL", "https://intent-wallet.local")
	v.SetDefault("SIGNER_REDIRECT_BASE", "http://localhost:8080/phantom")

	v.SetDefault("INTERPRETER_ENDPOINT", "http://localhost:3000/agent/execute")
	v.SetDefault("INTERPRETER_TIMEOUT", 30*time.Second)

	v.SetDefault("SERVER_I18N_DEFAULT_LANGUAGE", "en")
	v.SetDefault("SERVER_I18N_BUNDLE_DIR_ABS", "")

	v.SetDefault("SERVER_PATHS_APPLE_APP_SITE_ASSOCIATION_FILE", "")
	v.SetDefault("SERVER_PATHS_ANDROID_ASSETLINKS_FILE", "")

	v.SetDefault("SERVER_PROMETHEUS_ENABLED", true)
	v.SetDefault("SERVER_PROMETHEUS_PATH", "/metrics")

	return v
}

func logLevel(s string, fallback zerolog.Level) zerolog.Level {
	l, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil || s == "" {
		return fallback
	}

	return l
}

func languageTag(s string, fallback language.Tag) language.Tag {
	tag, err := language.Parse(s)
	if err != nil {
		return fallback
	}

	return tag
}

// ProjectRootDir returns the module root, derived from this file's location at build time.
func ProjectRootDir() string {
	_, b, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(b), "../..")
}
