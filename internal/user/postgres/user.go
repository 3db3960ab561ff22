package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/frahmantamala/church-management/internal"
	userDatamodel "github.com/frahmantamala/church-management/internal/core/datamodel/user"
	"github.com/frahmantamala/church-management/internal/user"
	"gorm.io/gorm"
)

// UserRepository stores user records and their children with GORM.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts the user together with its children.
func (r *UserRepository) Create(u *userDatamodel.User) error {
	if err := r.db.Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return internal.ErrUsernameTaken.WithCause(err)
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.Preload("Children", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).First(&u, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &u, nil
}

func (r *UserRepository) UsernameExists(username string) (bool, error) {
	var count int64
	err := r.db.Model(&userDatamodel.User{}).
		Where("username = ?", strings.TrimSpace(username)).
		Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) GetUsername(id int64) (string, error) {
	var usernames []string
	if err := r.db.Model(&userDatamodel.User{}).Where("id = ?", id).Limit(1).Pluck("username", &usernames).Error; err != nil {
		return "", err
	}
	if len(usernames) == 0 {
		return "", internal.ErrUserNotFound
	}
	return usernames[0], nil
}

// Update saves every column of the user row. Children are managed
// separately and are never rewritten here.
func (r *UserRepository) Update(u *userDatamodel.User) error {
	return r.db.Omit("Children").Save(u).Error
}

func (r *UserRepository) List(filter user.Filter) ([]*userDatamodel.User, error) {
	query := r.db.Model(&userDatamodel.User{})

	if filter.Role != nil {
		query = query.Where("papel = ?", *filter.Role)
	}
	if filter.Approved != nil {
		query = query.Where("aprovado = ?", *filter.Approved)
	}
	if filter.Active != nil {
		query = query.Where("ativo = ?", *filter.Active)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(nome_completo) LIKE ? OR LOWER(email) LIKE ? OR LOWER(cpf) LIKE ?", pattern, pattern, pattern)
	}

	var users []*userDatamodel.User
	err := query.Order("nome_completo ASC").Order("id ASC").Find(&users).Error
	return users, err
}

// Delete removes the user and its children in one transaction.
func (r *UserRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("usuario_id = ?", id).Delete(&userDatamodel.Child{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&userDatamodel.User{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return internal.ErrUserNotFound
		}
		return nil
	})
}
