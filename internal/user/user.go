package user

import (
	"time"

	"github.com/frahmantamala/church-management/internal/core/common/calendar"
	"github.com/frahmantamala/church-management/internal/core/common/media"
	userDatamodel "github.com/frahmantamala/church-management/internal/core/datamodel/user"
)

// Choice is a stored value with its display label.
type Choice struct {
	Value string
	Label string
}

type Choices []Choice

func (c Choices) Values() []string {
	values := make([]string, len(c))
	for i, choice := range c {
		values[i] = choice.Value
	}
	return values
}

func (c Choices) Label(value string) string {
	for _, choice := range c {
		if choice.Value == value {
			return choice.Label
		}
	}
	return value
}

var (
	MaritalStatusChoices = Choices{
		{"solteiro", "Solteiro(a)"},
		{"casado", "Casado(a)"},
		{"divorciado", "Divorciado(a)"},
		{"viuvo", "Viúvo(a)"},
		{"uniao_estavel", "União Estável"},
	}
	EducationLevelChoices = Choices{
		{"fundamental", "Ensino Fundamental"},
		{"medio", "Ensino Médio"},
		{"superior", "Ensino Superior"},
		{"pos_graduacao", "Pós-graduação"},
	}
	BaptismPlaceChoices = Choices{
		{"nesta_igreja", "Nesta igreja"},
		{"outra_igreja", "Outra igreja"},
	}
)

type Child struct {
	ID        int64          `json:"id"`
	FullName  string         `json:"nome_completo"`
	BirthDate *calendar.Date `json:"data_nascimento"`
}

// User is the full record as returned to its owner and to secretaries.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	userDatamodel.Profile
	MaritalStatusLabel  string     `json:"estado_civil_display"`
	EducationLevelLabel string     `json:"nivel_escolar_display"`
	BaptismPlaceLabel   string     `json:"local_batismo_display"`
	Children            []Child    `json:"filhos"`
	Role                string     `json:"papel"`
	RoleLabel           string     `json:"papel_display"`
	Approved            bool       `json:"aprovado"`
	ApprovedBy          *string    `json:"aprovado_por"`
	ApprovedAt          *time.Time `json:"data_aprovacao"`
	RegisteredAt        time.Time  `json:"data_cadastro"`
	Active              bool       `json:"ativo"`
	IsSuperuser         bool       `json:"is_superuser"`
	IsStaff             bool       `json:"is_staff"`
}

// ListItem is the compact row used by the secretary listing.
type ListItem struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	FullName     string    `json:"nome_completo"`
	Email        string    `json:"email"`
	PhotoURL     string    `json:"foto_perfil"`
	Role         string    `json:"papel"`
	RoleLabel    string    `json:"papel_display"`
	Approved     bool      `json:"aprovado"`
	Active       bool      `json:"ativo"`
	RegisteredAt time.Time `json:"data_cadastro"`
}

// Filter narrows AdminList. Nil pointers mean "any".
type Filter struct {
	Role     *string
	Approved *bool
	Active   *bool
	Search   string
}

type DashboardStats struct {
	TotalUsers       int64 `json:"total_usuarios" db:"total_usuarios"`
	PendingUsers     int64 `json:"usuarios_pendentes" db:"usuarios_pendentes"`
	TotalMembers     int64 `json:"total_membros" db:"total_membros"`
	TotalCongregants int64 `json:"total_congregados" db:"total_congregados"`
}

// FromDataModel builds the API view. approvedBy is the approver's username,
// resolved by the caller.
func FromDataModel(u *userDatamodel.User, approvedBy *string, resolver *media.Resolver) *User {
	view := &User{
		ID:                  u.ID,
		Username:            u.Username,
		Email:               u.Email,
		Profile:             u.Profile,
		MaritalStatusLabel:  MaritalStatusChoices.Label(u.Profile.MaritalStatus),
		EducationLevelLabel: EducationLevelChoices.Label(u.Profile.EducationLevel),
		BaptismPlaceLabel:   BaptismPlaceChoices.Label(u.Profile.BaptismPlace),
		Children:            make([]Child, 0, len(u.Children)),
		Role:                u.Role,
		RoleLabel:           userDatamodel.RoleLabel(u.Role),
		Approved:            u.Approved,
		ApprovedBy:          approvedBy,
		ApprovedAt:          u.ApprovedAt,
		RegisteredAt:        u.RegisteredAt,
		Active:              u.Active,
		IsSuperuser:         u.IsSuperuser,
		IsStaff:             u.IsStaff,
	}
	view.Profile.PhotoURL = resolver.URL(u.Profile.PhotoURL)
	for _, c := range u.Children {
		view.Children = append(view.Children, Child{ID: c.ID, FullName: c.FullName, BirthDate: c.BirthDate})
	}
	return view
}

func ListItemFromDataModel(u *userDatamodel.User, resolver *media.Resolver) ListItem {
	return ListItem{
		ID:           u.ID,
		Username:     u.Username,
		FullName:     u.Profile.FullName,
		Email:        u.Email,
		PhotoURL:     resolver.URL(u.Profile.PhotoURL),
		Role:         u.Role,
		RoleLabel:    userDatamodel.RoleLabel(u.Role),
		Approved:     u.Approved,
		Active:       u.Active,
		RegisteredAt: u.RegisteredAt,
	}
}
