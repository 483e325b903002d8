package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config アプリケーション設定
type Config struct {
	Port               string
	FirestoreProjectID string
	CredentialsFile    string
	GoogleMapsAPIKey   string
	UploadDir          string
	CORSAllowOrigin    string
	LogLevel           string
	LogFormat          string
	GinMode            string
}

// Load .envファイルと環境変数から設定を読み込む
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		fmt.Println("Warning: .env file not found, using system environment variables")
	}

	cfg := &Config{
		Port:               getEnv("PORT", "5000"),
		FirestoreProjectID: os.Getenv("FIRESTORE_PROJECT_ID"),
		CredentialsFile:    os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		GoogleMapsAPIKey:   os.Getenv("GOOGLE_MAPS_API_KEY"),
		UploadDir:          getEnv("UPLOAD_DIR", "uploads/images"),
		CORSAllowOrigin:    getEnv("CORS_ALLOW_ORIGIN", "*"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "console"),
		GinMode:            getEnv("GIN_MODE", "release"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 必須の環境変数が揃っているか確認
func (c *Config) Validate() error {
	var missing []string
	if c.FirestoreProjectID == "" {
		missing = append(missing, "FIRESTORE_PROJECT_ID")
	}
	if c.GoogleMapsAPIKey == "" {
		missing = append(missing, "GOOGLE_MAPS_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("環境変数が設定されていません: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Addr HTTPサーバーの待ち受けアドレス
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
