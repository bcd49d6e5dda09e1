package config

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	Log *logrus.Logger
	DB  *gorm.DB

	initOnce sync.Once
)

// Init is idempotent: concurrent first callers share a single logger setup.
func Init() {
	initOnce.Do(initLogger)
}

func initLogger() {
	Log = logrus.New()
	Log.SetOutput(os.Stdout)
	Log.SetFormatter(&logrus.JSONFormatter{})

	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		Log.SetLevel(lvl)
	} else {
		Log.SetLevel(logrus.InfoLevel)
	}
}

// WithContext returns a logger entry carrying the request context, so the
// chi RequestID middleware value travels with every log line.
func WithContext(ctx context.Context) *logrus.Entry {
	Init()
	return Log.WithContext(ctx)
}

func Connect(ctx context.Context, dsn string) error {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return err
	}

	DB = db
	return nil
}

func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		WithContext(context.Background()).WithError(err).Error("Failed to encode JSON response")
	}
}
