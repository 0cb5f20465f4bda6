package database

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/nothotgamer/hostelixpro/internals/configs"
)

var DB *gorm.DB

func ConnectDB(log *zap.Logger) {
	log.Info("connecting to PostgreSQL")

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  configs.DatabaseDSN(),
		PreferSimpleProtocol: true, // aman untuk PgBouncer (transaction pooling)
	}), &gorm.Config{
		Logger:         configs.NewGormLogger(log, configs.AppEnv),
		TranslateError: true,
	})
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	DB = db
	log.Info("database connected")
}

func TunePool(log *zap.Logger) {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Warn("pool tune failed", zap.Error(err))
		return
	}
	sqlDB.SetMaxOpenConns(configs.GetEnvInt("DB_MAX_OPEN_CONNS", 20))
	sqlDB.SetMaxIdleConns(configs.GetEnvInt("DB_MAX_IDLE_CONNS", 10))
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// WarmUpQueries mengisi pool di background supaya request pertama tidak lambat.
func WarmUpQueries(log *zap.Logger) {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := Ping(); err != nil {
			log.Warn("warm-up ping failed", zap.Error(err))
		}
	}()
}

func Ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
