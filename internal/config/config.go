package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env        string
	MongoURI   string
	MongoDB    string
	ServerAddr string

	FrontendOrigins []string

	JWTSecret     string
	TokenTTLHours int

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	RecaptchaSecret string
	AllowDevBypass  bool

	RedisURL        string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	CacheTTLSeconds int

	RateLimitAPI       int
	RateLimitAuth      int
	RateLimitForm      int
	RateLimitWindowSec int

	BrevoAPIKey      string
	BrevoSenderEmail string
	BrevoSenderName  string
	BrevoSandbox     bool
	AdminAlertEmail  string

	Timezone *time.Location
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func Load() (*Config, error) {
	loadDotEnv(".env")
	loc, err := time.LoadLocation(getEnv("TZ", "Asia/Kolkata"))
	if err != nil {
		return nil, err
	}

	mongoURI := getEnv("MONGO_URI", "mongodb://localhost:27017/prapti")
	mongoDB := getEnv("MONGO_DB", "")
	if mongoDB == "" {
		mongoDB = mongoDBFromURI(mongoURI)
	}
	if mongoDB == "" {
		mongoDB = "prapti"
	}

	cfg := &Config{
		Env:                 getEnv("APP_ENV", "development"),
		MongoURI:            mongoURI,
		MongoDB:             mongoDB,
		ServerAddr:          getEnv("SERVER_ADDR", ":8080"),
		FrontendOrigins:     splitOrigins(getEnv("FRONTEND_ORIGINS", "http://localhost:3000")),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		TokenTTLHours:       getEnvInt("TOKEN_TTL_HOURS", 720),
		CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		RecaptchaSecret:     getEnv("RECAPTCHA_SECRET", ""),
		AllowDevBypass:      getEnv("ALLOW_DEV_BYPASS", "false") == "true",
		RedisURL:            getEnv("REDIS_URL", ""),
		RedisAddr:           getEnv("REDIS_ADDR", ""),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RedisDB:             getEnvInt("REDIS_DB", 0),
		CacheTTLSeconds:     getEnvInt("CACHE_TTL_SECONDS", 60),
		RateLimitAPI:        getEnvInt("RATE_LIMIT_API", 100),
		RateLimitAuth:       getEnvInt("RATE_LIMIT_AUTH", 10),
		RateLimitForm:       getEnvInt("RATE_LIMIT_FORM", 5),
		RateLimitWindowSec:  getEnvInt("RATE_LIMIT_WINDOW_SEC", 3600),
		BrevoAPIKey:         getEnv("BREVO_API_KEY", ""),
		BrevoSenderEmail:    getEnv("BREVO_SENDER_EMAIL", ""),
		BrevoSenderName:     getEnv("BREVO_SENDER_NAME", "Prapti Foundation"),
		BrevoSandbox:        getEnv("BREVO_SANDBOX", "false") == "true",
		AdminAlertEmail:     getEnv("ADMIN_ALERT_EMAIL", ""),
		Timezone:            loc,
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

func mongoDBFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	db := strings.Trim(u.Path, "/")
	if db == "" {
		return ""
	}
	// mongodb URIs sometimes include extra path segments; we only support the first one as db name.
	if idx := strings.Index(db, "/"); idx >= 0 {
		db = db[:idx]
	}
	return db
}

func loadDotEnv(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	lines := strings.Split(string(data), "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		if key == "" {
			continue
		}
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		_ = os.Setenv(key, val)
	}
}
