package configs

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type ENV struct {
	Port   string
	AppEnv string

	DBDriver     string
	DatabaseURL  string
	DBHost       string
	DBUser       string
	DBPassword   string
	DBName       string
	DBPort       string
	DBSSLMode    string
	DBMaxRetries int
	SQLitePath   string

	AppAuthKey string
	AppEncKey  string
	CSRFKey    string

	AdminPath         string
	AdminPassword     string
	AdminPasswordHash string

	UploadDir       string
	UploadURLPrefix string
	PlaceholderPath string
	MaxUploadMB     int64

	ShopName     string
	ShopPhone    string
	TemplatesDir string
	StaticDir    string

	LogLevel  string
	LogFormat string
	LogOutput string
	LogFile   string
}

func LoadEnv() ENV {

	if err := godotenv.Load(".env"); err != nil {
		slog.Warn("No .env file found, using process environment")
	}

	return ENV{
		Port:   getEnv("APP_PORT", ":5000"),
		AppEnv: getEnv("APP_ENV", "development"),

		DBDriver:     strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DBHost:       getEnv("DB_HOST", "127.0.0.1"),
		DBUser:       os.Getenv("DB_USER"),
		DBPassword:   os.Getenv("DB_PASSWORD"),
		DBName:       getEnv("DB_NAME", "shop"),
		DBPort:       os.Getenv("DB_PORT"),
		DBSSLMode:    getEnv("DB_SSLMODE", "disable"),
		DBMaxRetries: getEnvInt("DB_MAX_RETRIES", 5),
		SQLitePath:   getEnv("SQLITE_PATH", "shop.db"),

		AppAuthKey: os.Getenv("APP_AUTH_KEY"),
		AppEncKey:  os.Getenv("APP_ENC_KEY"),
		CSRFKey:    os.Getenv("CSRF_KEY"),

		AdminPath:         normalizeAdminPath(getEnv("ADMIN_PATH", "/super-secret-admin-2025")),
		AdminPassword:     getEnv("ADMIN_PASSWORD", "admin123"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),

		UploadDir:       getEnv("UPLOAD_DIR", "static/uploads"),
		UploadURLPrefix: strings.TrimSuffix(getEnv("UPLOAD_URL_PREFIX", "/static/uploads"), "/"),
		PlaceholderPath: getEnv("PLACEHOLDER_PATH", "/static/img-placeholder.png"),
		MaxUploadMB:     int64(getEnvInt("MAX_UPLOAD_MB", 10)),

		ShopName:     getEnv("SHOP_NAME", "Expert Electrical Winding Works"),
		ShopPhone:    getEnv("SHOP_PHONE", "+91-9999999999"),
		TemplatesDir: getEnv("TEMPLATES_DIR", "templates"),
		StaticDir:    getEnv("STATIC_DIR", "static"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		LogOutput: getEnv("LOG_OUTPUT", "stdout"),
		LogFile:   getEnv("LOG_FILE", "logs/storefront.log"),
	}

}

func (e ENV) IsProduction() bool {
	return e.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("Invalid integer in environment, using default", "key", key, "value", value, "default", fallback)
		return fallback
	}
	return n
}

func normalizeAdminPath(path string) string {
	path = "/" + strings.Trim(path, "/")
	if path == "/" {
		return "/admin"
	}
	return path
}
