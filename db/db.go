package db

import (
	"fmt"

	"github.com/techagentng/askx/config"
	"github.com/techagentng/askx/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type GormDB struct {
	DB *gorm.DB
}

func GetDB(c *config.Config, log *zap.Logger) (*GormDB, error) {
	gormDB := &GormDB{}
	if err := gormDB.Init(c, log); err != nil {
		return nil, err
	}
	return gormDB, nil
}

func (g *GormDB) Init(c *config.Config, log *zap.Logger) error {
	db, err := getPostgresDB(c, log)
	if err != nil {
		return err
	}
	g.DB = db

	if !c.AutoMigrate {
		return nil
	}
	if err := migrate(g.DB); err != nil {
		return fmt.Errorf("unable to run migrations: %w", err)
	}
	log.Info("migrations applied")
	return nil
}

// Close releases the underlying connection pool.
func (g *GormDB) Close() error {
	sqlDB, err := g.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func getPostgresDB(c *config.Config, log *zap.Logger) (*gorm.DB, error) {
	log.Info("connecting to postgres",
		zap.String("host", c.PostgresHost),
		zap.Int("port", c.PostgresPort),
		zap.String("db", c.PostgresDB),
	)
	postgresDSN := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d TimeZone=%s",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresPort, c.PostgresTimeZone)

	gormConfig := &gorm.Config{TranslateError: true}
	if !c.IsProd() {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}
	return openPostgres(postgresDSN, gormConfig)
}

func openPostgres(dsn string, gormConfig *gorm.Config) (*gorm.DB, error) {
	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		DSN: dsn,
	}), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	return gormDB, nil
}

func migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Question{},
		&models.Answer{},
		&models.Comment{},
		&models.Vote{},
		&models.UserPrefs{},
	)
	if err != nil {
		return fmt.Errorf("migrations error: %v", err)
	}
	return nil
}
