package postgres

import (
	"errors"

	"github.com/frahmantamala/church-management/internal/core/datamodel/content"
	"gorm.io/gorm"
)

// CatalogRepository reads the public content tables.
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) FirstSiteConfig() (*content.SiteConfig, error) {
	var cfg content.SiteConfig
	if err := r.db.Order("id ASC").First(&cfg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cfg, nil
}

func (r *CatalogRepository) LatestDevotional() (*content.Devotional, error) {
	var d content.Devotional
	if err := r.db.Order("data_publicacao DESC").Order("id DESC").First(&d).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *CatalogRepository) ListDevotionals() ([]content.Devotional, error) {
	var rows []content.Devotional
	err := r.db.Order("data_publicacao DESC").Order("id DESC").Find(&rows).Error
	return rows, err
}

func (r *CatalogRepository) ListLeadershipSections() ([]content.LeadershipSection, error) {
	var rows []content.LeadershipSection
	err := r.db.Preload("People", func(db *gorm.DB) *gorm.DB {
		return db.Order("ordem ASC").Order("id ASC")
	}).Order("ordem ASC").Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *CatalogRepository) ListDepartments() ([]content.Department, error) {
	var rows []content.Department
	err := r.db.Order("ordem ASC").Order("nome ASC").Find(&rows).Error
	return rows, err
}

func (r *CatalogRepository) ListWeekDays() ([]content.WeekDay, error) {
	var rows []content.WeekDay
	err := r.db.Preload("Events", func(db *gorm.DB) *gorm.DB {
		return db.Order("horario ASC").Order("id ASC")
	}).Order("nome ASC").Find(&rows).Error
	return rows, err
}

func (r *CatalogRepository) ListSpecialEvents() ([]content.SpecialEvent, error) {
	var rows []content.SpecialEvent
	err := r.db.Order("id ASC").Find(&rows).Error
	return rows, err
}
