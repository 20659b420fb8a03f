package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// SMTPProvider holds the connection settings for one outbound mail relay.
type SMTPProvider struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	DatabaseURL     string
	CORSAllowOrigin []string

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	S3PublicURL     string

	AdminAPIKey    string
	MaxUploadBytes int64

	SMTPDefaultProvider string
	SMTPProviders       map[string]SMTPProvider
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		DatabaseURL:     dbURL,
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),

		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
		S3PublicURL:     getEnv("S3_PUBLIC_URL", ""),

		AdminAPIKey:    os.Getenv("ADMIN_API_KEY"),
		MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", 20<<20),

		SMTPDefaultProvider: getEnv("SMTP_DEFAULT_PROVIDER", "gmail"),
		SMTPProviders:       loadSMTPProviders(),
	}
}

func loadSMTPProviders() map[string]SMTPProvider {
	providers := map[string]SMTPProvider{
		"gmail": {
			Host: getEnv("SMTP_GMAIL_HOST", "smtp.gmail.com"),
			Port: getEnv("SMTP_GMAIL_PORT", "587"),
		},
		"outlook": {
			Host: getEnv("SMTP_OUTLOOK_HOST", "smtp-mail.outlook.com"),
			Port: getEnv("SMTP_OUTLOOK_PORT", "587"),
		},
	}
	for name, p := range providers {
		prefix := "SMTP_" + strings.ToUpper(name)
		p.Username = os.Getenv(prefix + "_USER")
		p.Password = os.Getenv(prefix + "_PASS")
		p.From = getEnv(prefix+"_FROM", p.Username)
		providers[name] = p
	}
	return providers
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || val <= 0 {
		log.Printf("config: %s invalid, using default: %v", key, err)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
