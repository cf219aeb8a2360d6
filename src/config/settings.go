package config

import (
	"os"
	"strings"
)

const (
	DefaultLocale = "en"
	DefaultRegion = "us-east-1"
)

// Settings are the process-level settings read from the environment. Flags
// override them in the args package.
type Settings struct {
	DatabaseURL string
	Locale      string
	LogLevel    string
	Debug       bool
	S3          S3Settings
}

// S3Settings locate the object store used for s3:// import and export.
type S3Settings struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// LoadSettings reads settings from the environment. A .env file, if any, is
// expected to have been loaded already.
func LoadSettings() Settings {
	return Settings{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Locale:      envOrDefault("TYPESHIFT_LOCALE", DefaultLocale),
		LogLevel:    os.Getenv("LOG_LEVEL"),
		Debug:       os.Getenv("DEBUG") != "",
		S3: S3Settings{
			Endpoint:        os.Getenv("S3_ENDPOINT"),
			Region:          envOrDefault("AWS_REGION", DefaultRegion),
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		},
	}
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
