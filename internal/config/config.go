package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	DatabaseURL string // 指定されていればPOSTGRES_*より優先

	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート
	PostgresSSLMode  string // sslmode（デフォルトdisable）

	RedisAddr string // カートスナップショット用Redis（host:port）

	JWTSecret string // JWT署名シークレット

	MpesaBaseURL        string // DarajaのベースURL
	MpesaConsumerKey    string
	MpesaConsumerSecret string
	MpesaShortCode      string
	MpesaPasskey        string
	MpesaCallbackURL    string        // STK callbackの公開URL
	MpesaTimeout        time.Duration // 外部呼び出しタイムアウト

	GoEnv string // dev/prod
}

// Loadは環境変数
func Load() (Config, error) {
	databaseURL := os.Getenv("DATABASE_URL")

	pgPort := 0
	if databaseURL == "" {
		p, err := mustAtoi("POSTGRES_PORT")
		if err != nil {
			return Config{}, err
		}
		pgPort = p
	}

	cfg := Config{
		Port: os.Getenv("PORT"),

		DatabaseURL: databaseURL,

		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     os.Getenv("POSTGRES_HOST"),
		PostgresPort:     pgPort,
		PostgresSSLMode:  os.Getenv("POSTGRES_SSLMODE"),

		RedisAddr: os.Getenv("REDIS_ADDR"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		MpesaBaseURL:        os.Getenv("MPESA_BASE_URL"),
		MpesaConsumerKey:    os.Getenv("MPESA_CONSUMER_KEY"),
		MpesaConsumerSecret: os.Getenv("MPESA_CONSUMER_SECRET"),
		MpesaShortCode:      os.Getenv("MPESA_SHORT_CODE"),
		MpesaPasskey:        os.Getenv("MPESA_PASSKEY"),
		MpesaCallbackURL:    os.Getenv("MPESA_CALLBACK_URL"),
		MpesaTimeout:        20 * time.Second,

		GoEnv: os.Getenv("GO_ENV"),
	}

	if v := os.Getenv("MPESA_TIMEOUT_SECONDS"); v != "" {
		sec, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("MPESA_TIMEOUT_SECONDS must be number: %w", err)
		}
		cfg.MpesaTimeout = time.Duration(sec) * time.Second
	}

	if cfg.PostgresSSLMode == "" {
		cfg.PostgresSSLMode = "disable"
	}

	//必須チェック（DATABASE_URL指定時はPOSTGRES_*を見ない）
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	if cfg.DatabaseURL == "" {
		if cfg.PostgresUser == "" {
			return Config{}, fmt.Errorf("POSTGRES_USER is required")
		}
		if cfg.PostgresPassword == "" {
			return Config{}, fmt.Errorf("POSTGRES_PASSWORD is required")
		}
		if cfg.PostgresDB == "" {
			return Config{}, fmt.Errorf("POSTGRES_DB is required")
		}
		if cfg.PostgresHost == "" {
			return Config{}, fmt.Errorf("POSTGRES_HOST is required")
		}
	}
	if cfg.RedisAddr == "" {
		return Config{}, fmt.Errorf("REDIS_ADDR is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.MpesaBaseURL == "" {
		return Config{}, fmt.Errorf("MPESA_BASE_URL is required")
	}
	if cfg.MpesaConsumerKey == "" {
		return Config{}, fmt.Errorf("MPESA_CONSUMER_KEY is required")
	}
	if cfg.MpesaConsumerSecret == "" {
		return Config{}, fmt.Errorf("MPESA_CONSUMER_SECRET is required")
	}
	if cfg.MpesaShortCode == "" {
		return Config{}, fmt.Errorf("MPESA_SHORT_CODE is required")
	}
	if cfg.MpesaPasskey == "" {
		return Config{}, fmt.Errorf("MPESA_PASSKEY is required")
	}
	if cfg.MpesaCallbackURL == "" {
		return Config{}, fmt.Errorf("MPESA_CALLBACK_URL is required")
	}
	if cfg.GoEnv == "" {
		return Config{}, fmt.Errorf("GO_ENV is required")
	}

	return cfg, nil
}

func mustAtoi(key string) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}
