package repository

import (
	"fmt"

	"github.com/socialbase/socialbase/internal/config"
	"github.com/socialbase/socialbase/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Database struct {
	*gorm.DB
}

func NewDatabase(cfg *config.DatabaseConfig) (*Database, error) {
	dsn := cfg.DSN()

	// TranslateError surfaces unique-constraint violations as
	// gorm.ErrDuplicatedKey, which is what turns concurrent duplicate
	// inserts into domain failures instead of opaque driver errors.
	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)

	return &Database{db}, nil
}

func (db *Database) AutoMigrate() error {
	return db.DB.AutoMigrate(
		&models.User{},
		&models.ProfileStats{},
		&models.Follow{},
		&models.FollowRequest{},
		&models.Friendship{},
		&models.FriendRequest{},
		&models.Block{},
		&models.Post{},
		&models.PostStats{},
		&models.Like{},
		&models.Comment{},
	)
}

func (db *Database) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
