package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/frahmantamala/church-management/internal"
	userDatamodel "github.com/frahmantamala/church-management/internal/core/datamodel/user"
	"gorm.io/gorm"
)

// ApprovalRepository performs the workflow transitions on user rows.
type ApprovalRepository struct {
	db *gorm.DB
}

func NewApprovalRepository(db *gorm.DB) *ApprovalRepository {
	return &ApprovalRepository{db: db}
}

func (r *ApprovalRepository) GetByID(id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	if err := r.db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &u, nil
}

// Approve writes the four approval columns in a single UPDATE.
func (r *ApprovalRepository) Approve(id int64, role string, approverID int64, at time.Time) error {
	result := r.db.Model(&userDatamodel.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"papel":           role,
			"aprovado":        true,
			"aprovado_por_id": approverID,
			"data_aprovacao":  at,
			"updated_at":      at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrUserNotFound
	}
	return nil
}

// DeletePending removes a user that is still awaiting approval, together
// with its children. The approval check and the delete share a transaction.
func (r *ApprovalRepository) DeletePending(id int64) (*userDatamodel.User, error) {
	var deleted userDatamodel.User
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND aprovado = ?", id, false).First(&deleted).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return internal.ErrPendingUserNotFound
			}
			return err
		}

		if err := tx.Where("usuario_id = ?", id).Delete(&userDatamodel.Child{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ? AND aprovado = ?", id, false).Delete(&userDatamodel.User{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return internal.ErrPendingUserNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &deleted, nil
}

// SetSuperuser moves the superuser and staff flags together.
func (r *ApprovalRepository) SetSuperuser(id int64, value bool) error {
	result := r.db.Model(&userDatamodel.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_superuser": value,
			"is_staff":     value,
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrUserNotFound
	}
	return nil
}

func (r *ApprovalRepository) ListPending() ([]*userDatamodel.User, error) {
	var users []*userDatamodel.User
	err := r.db.Where("aprovado = ?", false).
		Order("data_cadastro ASC").
		Order("id ASC").
		Find(&users).Error
	return users, err
}

func (r *ApprovalRepository) ListNonSuperusers() ([]*userDatamodel.User, error) {
	var users []*userDatamodel.User
	err := r.db.Where("is_superuser = ?", false).
		Order("nome_completo ASC").
		Order("id ASC").
		Find(&users).Error
	return users, err
}

func (r *ApprovalRepository) ListSuperusers() ([]*userDatamodel.User, error) {
	var users []*userDatamodel.User
	err := r.db.Where("is_superuser = ?", true).
		Order("nome_completo ASC").
		Order("id ASC").
		Find(&users).Error
	return users, err
}
