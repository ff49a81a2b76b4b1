// Package config собирает конфигурацию из значений по умолчанию, .env, JSON-файла,
// переменных окружения и флагов командной строки.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Totarae/tinylink/internal/tinyurl"
)

// Ключи конфигурации, они же имена переменных окружения.
const (
	KeyServerAddress     = "SERVER_ADDRESS"
	KeyGRPCAddress       = "GRPC_ADDRESS"
	KeyShortenerEndpoint = "SHORTENER_ENDPOINT"
	KeyRequestTimeout    = "REQUEST_TIMEOUT"
	KeySessionSecret     = "SESSION_SECRET"
	KeySessionIdleTTL    = "SESSION_IDLE_TTL"
	KeyLogLevel          = "LOG_LEVEL"
	KeyEnableHTTPS       = "ENABLE_HTTPS"
	KeyTLSCertPath       = "TLS_CERT_PATH"
	KeyTLSKeyPath        = "TLS_KEY_PATH"
	KeyConfig            = "CONFIG"
)

const grpcDisabled = "off"

// Config хранит конфигурацию приложения
type Config struct {
	ServerAddress     string        `json:"server_address"`
	GRPCAddress       string        `json:"grpc_address"`
	ShortenerEndpoint string        `json:"shortener_endpoint"`
	RequestTimeout    time.Duration `json:"request_timeout"`
	SessionSecret     string        `json:"-"`
	SessionIdleTTL    time.Duration `json:"session_idle_ttl"`
	LogLevel          string        `json:"log_level"`
	EnableHTTPS       bool          `json:"enable_https"`
	TLSCertPath       string        `json:"tls_cert_path"`
	TLSKeyPath        string        `json:"tls_key_path"`
}

// flag name -> config key
var flagKeys = map[string]string{
	"address":        KeyServerAddress,
	"grpc-address":   KeyGRPCAddress,
	"endpoint":       KeyShortenerEndpoint,
	"timeout":        KeyRequestTimeout,
	"session-secret": KeySessionSecret,
	"session-ttl":    KeySessionIdleTTL,
	"log-level":      KeyLogLevel,
	"https":          KeyEnableHTTPS,
	"cert":           KeyTLSCertPath,
	"key":            KeyTLSKeyPath,
	"config":         KeyConfig,
}

// BindFlags регистрирует флаги конфигурации. Значения по умолчанию у флагов не задаются,
// их выставляет viper, чтобы незаданный флаг не перекрывал окружение.
func BindFlags(fs *pflag.FlagSet) {
	fs.StringP("address", "a", "", "HTTP server address")
	fs.StringP("grpc-address", "g", "", "gRPC server address (empty or \"off\" disables gRPC)")
	fs.StringP("endpoint", "e", "", "TinyURL API endpoint")
	fs.Duration("timeout", 0, "outbound request timeout (0 disables)")
	fs.String("session-secret", "", "secret for signing session cookies")
	fs.Duration("session-ttl", 0, "idle time after which a session ends")
	fs.StringP("log-level", "l", "", "log level: debug, info, warn, error")
	fs.BoolP("https", "s", false, "enable HTTPS")
	fs.String("cert", "", "path to TLS certificate")
	fs.String("key", "", "path to TLS key")
	fs.StringP("config", "c", "", "path to JSON config file")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyServerAddress, "localhost:8080")
	v.SetDefault(KeyGRPCAddress, "localhost:3200")
	v.SetDefault(KeyShortenerEndpoint, tinyurl.DefaultEndpoint)
	v.SetDefault(KeyRequestTimeout, 10*time.Second)
	v.SetDefault(KeySessionSecret, "")
	v.SetDefault(KeySessionIdleTTL, 30*time.Minute)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyEnableHTTPS, false)
	v.SetDefault(KeyTLSCertPath, "cert.pem")
	v.SetDefault(KeyTLSKeyPath, "key.pem")
	v.SetDefault(KeyConfig, "")
}

// Load читает конфигурацию. Приоритет: флаги, окружение, JSON-файл, .env, значения по умолчанию.
// fs может быть nil.
func Load(v *viper.Viper, fs *pflag.FlagSet) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %q: %w", name, err)
				}
			}
		}
	}

	// Читаем .env, если есть. Ошибку игнорируем, если файла нет
	v.SetConfigFile(".env")
	_ = v.ReadInConfig()

	if path := v.GetString(KeyConfig); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %q: %w", path, err)
		}
	}

	cfg := &Config{
		ServerAddress:     v.GetString(KeyServerAddress),
		GRPCAddress:       v.GetString(KeyGRPCAddress),
		ShortenerEndpoint: v.GetString(KeyShortenerEndpoint),
		RequestTimeout:    v.GetDuration(KeyRequestTimeout),
		SessionSecret:     v.GetString(KeySessionSecret),
		SessionIdleTTL:    v.GetDuration(KeySessionIdleTTL),
		LogLevel:          v.GetString(KeyLogLevel),
		EnableHTTPS:       v.GetBool(KeyEnableHTTPS),
		TLSCertPath:       v.GetString(KeyTLSCertPath),
		TLSKeyPath:        v.GetString(KeyTLSKeyPath),
	}

	// пустая переменная окружения не отличается от незаданной
	if cfg.GRPCAddress == grpcDisabled {
		cfg.GRPCAddress = ""
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет корректность конфигурации
func (cfg *Config) Validate() error {
	if cfg.ServerAddress == "" {
		return errors.New("server address must not be empty")
	}
	if cfg.ShortenerEndpoint == "" {
		return errors.New("shortener endpoint must not be empty")
	}
	u, err := url.Parse(cfg.ShortenerEndpoint)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("shortener endpoint %q is not an absolute http(s) URL", cfg.ShortenerEndpoint)
	}
	if cfg.RequestTimeout < 0 {
		return errors.New("request timeout must not be negative")
	}
	if cfg.SessionIdleTTL < 0 {
		return errors.New("session idle ttl must not be negative")
	}
	if _, err := zap.ParseAtomicLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if cfg.EnableHTTPS && (cfg.TLSCertPath == "" || cfg.TLSKeyPath == "") {
		return errors.New("TLS certificate and key are required when HTTPS is enabled")
	}
	return nil
}

// Fields возвращает поля конфигурации для журнала без секретов.
func (cfg *Config) Fields() []zap.Field {
	return []zap.Field{
		zap.String("server_address", cfg.ServerAddress),
		zap.String("grpc_address", cfg.GRPCAddress),
		zap.String("shortener_endpoint", cfg.ShortenerEndpoint),
		zap.Duration("request_timeout", cfg.RequestTimeout),
		zap.Duration("session_idle_ttl", cfg.SessionIdleTTL),
		zap.String("log_level", cfg.LogLevel),
		zap.Bool("enable_https", cfg.EnableHTTPS),
	}
}
