package configs

import (
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func OpenConnection(env ENV, logger *slog.Logger) (*gorm.DB, error) {
	dialector, safeDSN, err := Dialector(env)
	if err != nil {
		return nil, err
	}

	maxRetries := env.DBMaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}
	retryDelay := 3 * time.Second

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		logger.Info("Connecting to database", "driver", env.DBDriver, "dsn", safeDSN, "attempt", i+1, "max_attempts", maxRetries)

		db, err := gorm.Open(dialector, NewGormConfig(logger))
		if err == nil {
			sqlDB, pingErr := db.DB()
			if pingErr == nil {
				pingErr = sqlDB.Ping()
				if pingErr == nil {
					if env.DBDriver == "sqlite" {
						// SQLite allows a single writer.
						sqlDB.SetMaxOpenConns(1)
					}
					logger.Info("Database connection successful", "driver", env.DBDriver)
					return db, nil
				}
			}
			lastErr = pingErr
			logger.Warn("Failed to ping database", "error", pingErr, "retry_in", retryDelay)
		} else {
			lastErr = err
			logger.Warn("Failed to open database connection", "error", err, "retry_in", retryDelay)
		}

		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}

	return nil, fmt.Errorf("failed to connect to the database after %d attempts (%s): %w", maxRetries, safeDSN, lastErr)
}

func NewGormConfig(logger *slog.Logger) *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(
			slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
			gormlogger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	}
}

// Dialector picks the gorm driver for DB_DRIVER. The second return value is
// the DSN with the password masked, suitable for logs.
func Dialector(env ENV) (gorm.Dialector, string, error) {
	switch env.DBDriver {
	case "mysql":
		dsn := env.DatabaseURL
		if dsn == "" {
			port := env.DBPort
			if port == "" {
				port = "3306"
			}
			cfg := mysqldriver.NewConfig()
			cfg.User = env.DBUser
			cfg.Passwd = env.DBPassword
			cfg.Net = "tcp"
			cfg.Addr = net.JoinHostPort(env.DBHost, port)
			cfg.DBName = env.DBName
			cfg.ParseTime = true
			cfg.Params = map[string]string{"charset": "utf8mb4"}
			dsn = cfg.FormatDSN()
		}
		return mysql.Open(dsn), maskPassword(dsn, env.DBPassword), nil

	case "postgres", "postgresql":
		dsn := env.DatabaseURL
		if dsn == "" {
			port := env.DBPort
			if port == "" {
				port = "5432"
			}
			dsn = fmt.Sprintf(
				"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
				env.DBHost, env.DBUser, env.DBPassword, env.DBName, port, env.DBSSLMode,
			)
		}
		return postgres.Open(dsn), maskPassword(dsn, env.DBPassword), nil

	case "sqlite", "":
		dsn := SQLiteDSN(env.SQLitePath)
		if env.DatabaseURL != "" {
			dsn = withSQLiteForeignKeys(env.DatabaseURL)
		}
		return sqlite.Open(dsn), dsn, nil
	}

	return nil, "", fmt.Errorf("unsupported DB_DRIVER %q (want sqlite, mysql or postgres)", env.DBDriver)
}

// SQLiteDSN turns a file path into a DSN with foreign key enforcement on.
func SQLiteDSN(path string) string {
	return path + "?_foreign_keys=on"
}

// withSQLiteForeignKeys adds the foreign key pragma to a DSN that does not
// set it already.
func withSQLiteForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}
	return dsn + "?_foreign_keys=on"
}

func maskPassword(dsn, password string) string {
	if password == "" {
		return dsn
	}
	return strings.ReplaceAll(dsn, password, "****")
}
