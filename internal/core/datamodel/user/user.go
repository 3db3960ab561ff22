package user

import (
	"time"

	"github.com/frahmantamala/church-management/internal/core/common/calendar"
)

// Profile is the self-editable part of a user record. It is shared by the
// row model and the API views.
type Profile struct {
	FullName              string         `json:"nome_completo" gorm:"column:nome_completo;not null"`
	PhotoURL              string         `json:"foto_perfil" gorm:"column:foto_perfil"`
	BirthDate             *calendar.Date `json:"data_nascimento" gorm:"column:data_nascimento"`
	FatherName            string         `json:"nome_pai" gorm:"column:nome_pai"`
	MotherName            string         `json:"nome_mae" gorm:"column:nome_mae"`
	CPF                   string         `json:"cpf" gorm:"column:cpf"`
	RG                    string         `json:"rg" gorm:"column:rg"`
	Birthplace            string         `json:"naturalidade" gorm:"column:naturalidade"`
	MaritalStatus         string         `json:"estado_civil" gorm:"column:estado_civil"`
	SpouseName            string         `json:"nome_conjuge" gorm:"column:nome_conjuge"`
	WeddingDate           *calendar.Date `json:"data_casamento" gorm:"column:data_casamento"`
	Phone                 string         `json:"telefone" gorm:"column:telefone"`
	Address               string         `json:"endereco" gorm:"column:endereco"`
	Neighborhood          string         `json:"bairro" gorm:"column:bairro"`
	City                  string         `json:"cidade" gorm:"column:cidade"`
	PostalCode            string         `json:"cep" gorm:"column:cep"`
	Occupation            string         `json:"profissao" gorm:"column:profissao"`
	EducationLevel        string         `json:"nivel_escolar" gorm:"column:nivel_escolar"`
	ConversionDate        *calendar.Date `json:"data_conversao" gorm:"column:data_conversao"`
	Baptized              bool           `json:"batizado_aguas" gorm:"column:batizado_aguas"`
	BaptismDate           *calendar.Date `json:"data_batismo" gorm:"column:data_batismo"`
	BaptismPlace          string         `json:"local_batismo" gorm:"column:local_batismo"`
	BaptismChurch         string         `json:"outra_igreja_batismo" gorm:"column:outra_igreja_batismo"`
	ReceivedByAcclamation bool           `json:"recebido_por_aclamacao" gorm:"column:recebido_por_aclamacao"`
	CongregationMember    bool           `json:"membro_congregacao" gorm:"column:membro_congregacao"`
	CongregationName      string         `json:"qual_congregacao" gorm:"column:qual_congregacao"`
	AttendsBibleSchool    bool           `json:"frequenta_escola_biblica" gorm:"column:frequenta_escola_biblica"`
	BibleSchoolClass      string         `json:"qual_classe_escola_biblica" gorm:"column:qual_classe_escola_biblica"`
	WantsToServe          bool           `json:"deseja_exercer_funcao" gorm:"column:deseja_exercer_funcao"`
	DesiredFunction       string         `json:"qual_funcao_deseja" gorm:"column:qual_funcao_deseja"`
	HasMedicationAllergy  bool           `json:"tem_alergia_medicacao" gorm:"column:tem_alergia_medicacao"`
	AllergyNotes          string         `json:"alergias_texto" gorm:"column:alergias_texto"`
}

type User struct {
	ID           int64      `gorm:"primaryKey"`
	Username     string     `gorm:"column:username;uniqueIndex;not null"`
	Email        string     `gorm:"column:email"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	Profile      Profile    `gorm:"embedded"`
	Role         string     `gorm:"column:papel"`
	Approved     bool       `gorm:"column:aprovado"`
	ApprovedByID *int64     `gorm:"column:aprovado_por_id"`
	ApprovedAt   *time.Time `gorm:"column:data_aprovacao"`
	RegisteredAt time.Time  `gorm:"column:data_cadastro;not null"`
	Active       bool       `gorm:"column:ativo"`
	IsSuperuser  bool       `gorm:"column:is_superuser"`
	IsStaff      bool       `gorm:"column:is_staff"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
	Children     []Child    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (User) TableName() string {
	return "usuarios"
}

type Child struct {
	ID        int64          `gorm:"primaryKey"`
	UserID    int64          `gorm:"column:usuario_id;not null;index"`
	FullName  string         `gorm:"column:nome_completo;not null"`
	BirthDate *calendar.Date `gorm:"column:data_nascimento"`
}

func (Child) TableName() string {
	return "filhos"
}
