package approval

import (
	"time"

	userDatamodel "github.com/frahmantamala/church-management/internal/core/datamodel/user"
)

// PendingUser is an entry in the review queue.
type PendingUser struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	FullName     string    `json:"nome_completo"`
	Email        string    `json:"email"`
	Phone        string    `json:"telefone"`
	Role         string    `json:"papel"`
	RoleLabel    string    `json:"papel_display"`
	RegisteredAt time.Time `json:"data_cadastro"`
}

// Candidate is a user that may be promoted to superuser.
type Candidate struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	FullName    string `json:"nome_completo"`
	Email       string `json:"email"`
	Role        string `json:"papel"`
	RoleLabel   string `json:"papel_display"`
	IsSuperuser bool   `json:"is_superuser"`
	IsStaff     bool   `json:"is_staff"`
}

type Superuser struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	FullName     string    `json:"nome_completo"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"data_cadastro"`
}

type SuperuserList struct {
	Superusers []Superuser `json:"superusers"`
	Total      int         `json:"total"`
}

func pendingFromDataModel(u *userDatamodel.User) PendingUser {
	return PendingUser{
		ID:           u.ID,
		Username:     u.Username,
		FullName:     u.Profile.FullName,
		Email:        u.Email,
		Phone:        u.Profile.Phone,
		Role:         u.Role,
		RoleLabel:    userDatamodel.RoleLabel(u.Role),
		RegisteredAt: u.RegisteredAt,
	}
}

func candidateFromDataModel(u *userDatamodel.User) Candidate {
	return Candidate{
		ID:          u.ID,
		Username:    u.Username,
		FullName:    u.Profile.FullName,
		Email:       u.Email,
		Role:        u.Role,
		RoleLabel:   userDatamodel.RoleLabel(u.Role),
		IsSuperuser: u.IsSuperuser,
		IsStaff:     u.IsStaff,
	}
}

func superuserFromDataModel(u *userDatamodel.User) Superuser {
	return Superuser{
		ID:           u.ID,
		Username:     u.Username,
		FullName:     u.Profile.FullName,
		Email:        u.Email,
		RegisteredAt: u.RegisteredAt,
	}
}
