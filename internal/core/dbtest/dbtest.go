// Package dbtest opens throwaway SQLite databases carrying the full schema
// for repository and handler tests.
package dbtest

import (
	"github.com/frahmantamala/church-management/internal/core/datamodel/content"
	userDatamodel "github.com/frahmantamala/church-management/internal/core/datamodel/user"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Open() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&userDatamodel.User{},
		&userDatamodel.Child{},
		&content.SiteConfig{},
		&content.Devotional{},
		&content.LeadershipSection{},
		&content.LeadershipPerson{},
		&content.Department{},
		&content.WeekDay{},
		&content.Event{},
		&content.SpecialEvent{},
	)
	if err != nil {
		return nil, err
	}
	return db, nil
}
