package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type SMTP struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	ReportTo string
}

type S3 struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

type Config struct {
	Port              string
	Env               string
	StoreDriver       string
	MongoURI          string
	MongoDB           string
	JWTSecret         string
	CORSOrigins       []string
	Timezone          string
	LowStockReportAt  string
	SMTP              SMTP
	SMSGatewayURL     string
	S3                S3
	GeminiAPIKey      string
	GeminiModel       string
	StrictRedemption  bool
	AdminEmail        string
	AdminPassword     string
	MetricsAllowedIPs []string
}

// Load reads .env if present and then the process environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:             env("PORT", "1414"),
		Env:              env("APP_ENV", "production"),
		StoreDriver:      env("STORE_DRIVER", "memory"),
		MongoURI:         env("MONGO_URI", "mongodb://localhost:27017/?replicaSet=rs0"),
		MongoDB:          env("MONGO_DB", "salonpos"),
		JWTSecret:        env("JWT_SECRET", "my_secret_key"),
		CORSOrigins:      list("CORS_ORIGINS", "http://localhost:5173"),
		Timezone:         env("TIMEZONE", "Asia/Kolkata"),
		LowStockReportAt: env("LOW_STOCK_REPORT_AT", "08:00"),
		SMTP: SMTP{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     envInt("SMTP_PORT", 465),
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
			ReportTo: os.Getenv("LOW_STOCK_REPORT_TO"),
		},
		SMSGatewayURL: os.Getenv("SMS_GATEWAY_URL"),
		S3: S3{
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
			Bucket:    env("S3_BUCKET", "salonpos"),
			UseSSL:    envBool("S3_USE_SSL", true),
			PublicURL: os.Getenv("S3_PUBLIC_URL"),
		},
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       env("GEMINI_MODEL", "gemini-2.5-flash"),
		StrictRedemption:  envBool("POS_STRICT_REDEMPTION", false),
		AdminEmail:        os.Getenv("ADMIN_EMAIL"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		MetricsAllowedIPs: list("METRICS_ALLOWED_IPS", ""),
	}
}

func (c Config) Development() bool {
	return c.Env == "development"
}

func env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return b
}

// list splits a comma separated variable, dropping blanks.
func list(key, def string) []string {
	var out []string
	for _, p := range strings.Split(env(key, def), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
