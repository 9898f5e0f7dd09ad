package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Client configures schoolctl and any other consumer of the school API.
type Client struct {
	APIURL         string
	TokenFile      string
	RequestTimeout time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
	PageSize       int
	LogLevel       slog.Level
	NoColor        bool
}

// Server configures the development API server.
type Server struct {
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration
	RequestTimeout     time.Duration
	DatabaseURL        string
	DatabaseMaxConns   int
	JWTSecret          string
	JWTAccessTTL       time.Duration
	CORSOrigins        []string
	RateLimitRPM       int
	AuthRateLimitRPM   int
	AdminUsername      string
	AdminPassword      string
	SeedDemoData       bool
	LogLevel           slog.Level
	NoColor            bool
}

func LoadClient() (*Client, error) {
	_ = godotenv.Load()

	cfg := &Client{
		APIURL:         strings.TrimRight(getEnv("SCHOOL_API_URL", "http://localhost:8080"), "/"),
		TokenFile:      getEnv("SCHOOL_TOKEN_FILE", defaultTokenFile()),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 30*time.Second),
		RateLimitRPS:   getFloat("CLIENT_RATE_LIMIT_RPS", 0),
		RateLimitBurst: getInt("CLIENT_RATE_LIMIT_BURST", 1),
		PageSize:       getInt("PAGE_SIZE", 5),
		LogLevel:       getLevel("LOG_LEVEL", slog.LevelInfo),
		NoColor:        getBool("NO_COLOR"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Client) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("SCHOOL_API_URL must be an absolute http(s) URL")
	}

	if strings.TrimSpace(c.TokenFile) == "" {
		return fmt.Errorf("SCHOOL_TOKEN_FILE cannot be empty")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	if c.RateLimitRPS < 0 {
		return fmt.Errorf("CLIENT_RATE_LIMIT_RPS cannot be negative")
	}

	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		return fmt.Errorf("CLIENT_RATE_LIMIT_BURST must be at least 1")
	}

	if c.PageSize < 1 || c.PageSize > 100 {
		return fmt.Errorf("PAGE_SIZE must be between 1 and 100")
	}

	return nil
}

func LoadServer() (*Server, error) {
	_ = godotenv.Load()

	cfg := &Server{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		ServerReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		ServerWriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		ServerIdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		RequestTimeout:     getDuration("REQUEST_TIMEOUT", 30*time.Second),
		DatabaseURL:        strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DatabaseMaxConns:   getInt("DATABASE_MAX_CONNS", 10),
		JWTSecret:          strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTAccessTTL:       getDuration("JWT_ACCESS_TTL", 8*time.Hour),
		CORSOrigins:        splitCSV(getEnv("CORS_ORIGINS", "*")),
		RateLimitRPM:       getInt("RATE_LIMIT_RPM", 300),
		AuthRateLimitRPM:   getInt("AUTH_RATE_LIMIT_RPM", 10),
		AdminUsername:      getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:      strings.TrimSpace(os.Getenv("ADMIN_PASSWORD")),
		SeedDemoData:       getBool("SEED_DEMO_DATA"),
		LogLevel:           getLevel("LOG_LEVEL", slog.LevelInfo),
		NoColor:            getBool("NO_COLOR"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Server) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT cannot be empty")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	if c.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be positive")
	}

	if c.DatabaseMaxConns < 1 {
		return fmt.Errorf("DATABASE_MAX_CONNS must be at least 1")
	}

	if c.RateLimitRPM < 1 || c.AuthRateLimitRPM < 1 {
		return fmt.Errorf("rate limits must be positive")
	}

	if strings.TrimSpace(c.AdminUsername) == "" {
		return fmt.Errorf("ADMIN_USERNAME cannot be empty")
	}

	if c.AdminPassword != "" && len(c.AdminPassword) < 8 {
		return fmt.Errorf("ADMIN_PASSWORD must be at least 8 characters")
	}

	return nil
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return ".schoolctl-token.json"
	}
	return filepath.Join(dir, "schoolctl", "token.json")
}

func getEnv(key string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	return v
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getFloat(key string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}

	return v
}

func getBool(key string) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return false
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		// NO_COLOR convention: any non-empty value enables it.
		return true
	}

	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getLevel(key string, fallback slog.Level) slog.Level {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return fallback
	}

	return level
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return out
}
