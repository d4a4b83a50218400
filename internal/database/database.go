package database

import (
	"fmt"

	"github.com/libribooks/core/internal/config"
	"github.com/libribooks/core/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens a MySQL connection and optionally runs auto-migration.
func Connect(cfg *config.AppConfig, autoMigrate bool) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.IsDev() {
		logLevel = logger.Info
	}

	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:               cfg.DSN(),
		DefaultStringSize: 191,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if autoMigrate {
		if err := Migrate(db); err != nil {
			return nil, fmt.Errorf("migration failed: %w", err)
		}
	}

	return db, nil
}

// Migrate runs GORM auto-migration for all models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.UserModel{},
		&models.CategoryModel{},
		&models.TagModel{},
		&models.AuthorModel{},
		&models.BookModel{},
		&models.BookAuthorModel{},
		&models.BookTagModel{},
		&models.SkillModel{},
		&models.ArticleModel{},
		&models.PageModel{},
		&models.PopupAdModel{},
		&models.MessageModel{},
		&models.SettingModel{},
	); err != nil {
		return err
	}

	if db.Dialector.Name() == "mysql" {
		// serializer:json columns default to longtext but older schemas may
		// have narrower types after renames.
		for _, stmt := range []string{
			"ALTER TABLE `books` MODIFY COLUMN `quotes` LONGTEXT NULL",
			"ALTER TABLE `books` MODIFY COLUMN `faq` LONGTEXT NULL",
			"ALTER TABLE `articles` MODIFY COLUMN `keyword_links` LONGTEXT NULL",
			"ALTER TABLE `pages` MODIFY COLUMN `structured_content` LONGTEXT NULL",
		} {
			if err := db.Exec(stmt).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
