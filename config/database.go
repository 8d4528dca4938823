package config

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	"keepsakes/config/common"
	"keepsakes/config/logger"
	"keepsakes/entity"
)

type DBConfig struct {
	*gorm.DB
	*logger.AppLogger
}

func NewDB(config *common.Config, log *logger.AppLogger) *DBConfig {
	db := initDatabase(config, log)
	return &DBConfig{DB: db, AppLogger: log}
}

func (db *DBConfig) GetDB() *gorm.DB {
	return db.DB
}

func postgresDSN(host, user, password, name, port, timezone string) string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		host, user, password, name, port, timezone,
	)
}

func initDatabase(cfg *common.Config, log *logger.AppLogger) *gorm.DB {
	dbHost, dbUser, dbPassword, dbName, dbPort := cfg.GetDatabaseConfig()
	timezone := cfg.GetDatabaseTimezone()

	db, err := gorm.Open(postgres.Open(postgresDSN(dbHost, dbUser, dbPassword, dbName, dbPort, timezone)), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Http.Error.Fatal().Err(err).Msg("failed to connect to database")
	}

	if replicas := cfg.GetReplicaHosts(); len(replicas) > 0 {
		dialectors := make([]gorm.Dialector, 0, len(replicas))
		for _, host := range replicas {
			dialectors = append(dialectors, postgres.Open(postgresDSN(host, dbUser, dbPassword, dbName, dbPort, timezone)))
		}
		if err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: dialectors,
			Policy:   dbresolver.RandomPolicy{},
		})); err != nil {
			log.Http.Error.Fatal().Err(err).Msg("failed to register read replicas")
		}
		log.Http.Info.Info().Int("replicas", len(replicas)).Msg("read replicas registered")
	}

	conn, err := db.DB()
	if err != nil {
		log.Http.Error.Fatal().Err(err).Msg("failed to get database handle")
	}

	if err := db.AutoMigrate(entity.All()...); err != nil {
		log.Http.Error.Fatal().Err(err).Msg("failed run migration")
	}

	conn.SetMaxIdleConns(10)
	conn.SetMaxOpenConns(100)
	conn.SetConnMaxLifetime(time.Second * time.Duration(300))

	log.Http.Info.Info().Str("host", dbHost).Str("database", dbName).Msg("connection opened to database")
	return db
}
