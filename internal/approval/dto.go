package approval

import (
	"github.com/frahmantamala/church-management/internal"
	"github.com/frahmantamala/church-management/internal/core/common/validation"
)

type ApproveDTO struct {
	Role string `json:"papel"`
}

type PromoteDTO struct {
	UserID int64 `json:"user_id"`
}

func (dto PromoteDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("user_id", dto.UserID).Required()
	return v.Validate()
}
