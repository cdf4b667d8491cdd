package db

import (
	"fmt"
	"net"
	"time"

	drivermysql "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"

	defaultMaxRetry      = 10
	defaultRetryInterval = 2 * time.Second
)

// Config describes how to reach the backend database
type Config struct {
	Driver        string
	Host          string
	Port          string
	User          string
	Pass          string
	Name          string
	SSLMode       string
	MaxRetry      int
	RetryInterval time.Duration
}

// Dialector picks the gorm dialect for the configured driver
func (c Config) Dialector() (gorm.Dialector, error) {
	switch c.Driver {
	case DriverPostgres, "":
		sslMode := c.SSLMode
		if sslMode == "" {
			sslMode = "require"
		}
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			c.Host, c.User, c.Pass, c.Name, c.Port, sslMode)
		return postgres.Open(dsn), nil
	case DriverMySQL:
		cfg := drivermysql.NewConfig()
		cfg.User = c.User
		cfg.Passwd = c.Pass
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(c.Host, c.Port)
		cfg.DBName = c.Name
		cfg.ParseTime = true
		cfg.Loc = time.UTC
		return mysql.Open(cfg.FormatDSN()), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", c.Driver)
	}
}

// NewLogger routes gorm's logs through logrus
func NewLogger() logger.Interface {
	return logger.New(logrus.StandardLogger(), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

// Open connects to the database, retrying while it is not reachable yet
func Open(c Config) (*gorm.DB, error) {
	dialector, err := c.Dialector()
	if err != nil {
		return nil, err
	}
	maxRetry := c.MaxRetry
	if maxRetry <= 0 {
		maxRetry = defaultMaxRetry
	}
	interval := c.RetryInterval
	if interval <= 0 {
		interval = defaultRetryInterval
	}

	var db *gorm.DB
	for i := range maxRetry {
		db, err = gorm.Open(dialector, &gorm.Config{
			SkipDefaultTransaction: true,
			Logger:                 NewLogger(),
		})
		if err != nil {
			logrus.Warnf("failed to open connection to database (attempt %d/%d): %v", i+1, maxRetry, err)
		} else {
			sqlDB, dbErr := db.DB()
			if dbErr != nil {
				err = dbErr
				logrus.Warnf("failed to get sql.DB from gorm.DB (attempt %d/%d): %v", i+1, maxRetry, err)
			} else if err = sqlDB.Ping(); err == nil {
				return db, nil
			} else {
				logrus.Warnf("failed to ping database (attempt %d/%d): %v", i+1, maxRetry, err)
				_ = sqlDB.Close()
			}
		}

		time.Sleep(interval)
	}

	return nil, fmt.Errorf("could not connect to database after %d attempts: %w", maxRetry, err)
}
