package user

import (
	"strings"
	"time"

	"github.com/frahmantamala/church-management/internal"
	"github.com/frahmantamala/church-management/internal/core/common/calendar"
	"github.com/frahmantamala/church-management/internal/core/common/validation"
	userDatamodel "github.com/frahmantamala/church-management/internal/core/datamodel/user"
)

const minPasswordLength = 8

// ProfileInput carries every profile field as it arrives on registration.
// Dates are kept as strings until validated.
type ProfileInput struct {
	FullName              string `json:"nome_completo"`
	BirthDate             string `json:"data_nascimento"`
	FatherName            string `json:"nome_pai"`
	MotherName            string `json:"nome_mae"`
	CPF                   string `json:"cpf"`
	RG                    string `json:"rg"`
	Birthplace            string `json:"naturalidade"`
	MaritalStatus         string `json:"estado_civil"`
	SpouseName            string `json:"nome_conjuge"`
	WeddingDate           string `json:"data_casamento"`
	Phone                 string `json:"telefone"`
	Address               string `json:"endereco"`
	Neighborhood          string `json:"bairro"`
	City                  string `json:"cidade"`
	PostalCode            string `json:"cep"`
	Occupation            string `json:"profissao"`
	EducationLevel        string `json:"nivel_escolar"`
	ConversionDate        string `json:"data_conversao"`
	Baptized              bool   `json:"batizado_aguas"`
	BaptismDate           string `json:"data_batismo"`
	BaptismPlace          string `json:"local_batismo"`
	BaptismChurch         string `json:"outra_igreja_batismo"`
	ReceivedByAcclamation bool   `json:"recebido_por_aclamacao"`
	CongregationMember    bool   `json:"membro_congregacao"`
	CongregationName      string `json:"qual_congregacao"`
	AttendsBibleSchool    bool   `json:"frequenta_escola_biblica"`
	BibleSchoolClass      string `json:"qual_classe_escola_biblica"`
	WantsToServe          bool   `json:"deseja_exercer_funcao"`
	DesiredFunction       string `json:"qual_funcao_deseja"`
	HasMedicationAllergy  bool   `json:"tem_alergia_medicacao"`
	AllergyNotes          string `json:"alergias_texto"`
}

type ChildInput struct {
	FullName  string `json:"nome_completo"`
	BirthDate string `json:"data_nascimento"`
}

type RegisterDTO struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
	ProfileInput
	Children []ChildInput `json:"filhos"`
}

func (dto RegisterDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	dto.addRules(v)
	return v.Validate()
}

func (dto RegisterDTO) addRules(v *validation.ValidationBuilder) {
	v.Field("username", dto.Username).Required().MaxLength(150)
	v.Field("email", dto.Email).Required().Email()
	v.Field("password", dto.Password).Required().MinLength(minPasswordLength)
	v.Field("password2", dto.Password2).Required()
	if dto.Password != "" && dto.Password2 != "" && dto.Password != dto.Password2 {
		v.AddError("password", "As senhas não coincidem.", internal.ErrCodePasswordMismatch)
	}

	v.Field("nome_completo", dto.FullName).Required().MaxLength(200)
	v.Field("data_nascimento", dto.BirthDate).Date()
	v.Field("data_casamento", dto.WeddingDate).Date()
	v.Field("data_conversao", dto.ConversionDate).Date()
	v.Field("data_batismo", dto.BaptismDate).Date()
	v.Field("estado_civil", dto.MaritalStatus).OneOf(MaritalStatusChoices.Values()...)
	v.Field("nivel_escolar", dto.EducationLevel).OneOf(EducationLevelChoices.Values()...)
	v.Field("local_batismo", dto.BaptismPlace).OneOf(BaptismPlaceChoices.Values()...)

	for _, child := range dto.Children {
		v.Field("filhos.nome_completo", child.FullName).Required()
		v.Field("filhos.data_nascimento", child.BirthDate).Date()
	}
}

// toDataModel assumes Validate has passed.
func (dto RegisterDTO) toDataModel(passwordHash string, now time.Time) *userDatamodel.User {
	p := dto.ProfileInput
	u := &userDatamodel.User{
		Username:     strings.TrimSpace(dto.Username),
		Email:        strings.TrimSpace(dto.Email),
		PasswordHash: passwordHash,
		Profile: userDatamodel.Profile{
			FullName:              strings.TrimSpace(p.FullName),
			BirthDate:             parseOptionalDate(p.BirthDate),
			FatherName:            p.FatherName,
			MotherName:            p.MotherName,
			CPF:                   p.CPF,
			RG:                    p.RG,
			Birthplace:            p.Birthplace,
			MaritalStatus:         p.MaritalStatus,
			SpouseName:            p.SpouseName,
			WeddingDate:           parseOptionalDate(p.WeddingDate),
			Phone:                 p.Phone,
			Address:               p.Address,
			Neighborhood:          p.Neighborhood,
			City:                  p.City,
			PostalCode:            p.PostalCode,
			Occupation:            p.Occupation,
			EducationLevel:        p.EducationLevel,
			ConversionDate:        parseOptionalDate(p.ConversionDate),
			Baptized:              p.Baptized,
			BaptismDate:           parseOptionalDate(p.BaptismDate),
			BaptismPlace:          p.BaptismPlace,
			BaptismChurch:         p.BaptismChurch,
			ReceivedByAcclamation: p.ReceivedByAcclamation,
			CongregationMember:    p.CongregationMember,
			CongregationName:      p.CongregationName,
			AttendsBibleSchool:    p.AttendsBibleSchool,
			BibleSchoolClass:      p.BibleSchoolClass,
			WantsToServe:          p.WantsToServe,
			DesiredFunction:       p.DesiredFunction,
			HasMedicationAllergy:  p.HasMedicationAllergy,
			AllergyNotes:          p.AllergyNotes,
		},
		Role:         userDatamodel.RoleUnset,
		Active:       true,
		RegisteredAt: now,
		UpdatedAt:    now,
	}
	for _, child := range dto.Children {
		u.Children = append(u.Children, userDatamodel.Child{
			FullName:  strings.TrimSpace(child.FullName),
			BirthDate: parseOptionalDate(child.BirthDate),
		})
	}
	return u
}

// AdminCreateDTO is a registration made by a secretary; the user starts
// approved with the given role.
type AdminCreateDTO struct {
	RegisterDTO
	Role string `json:"papel"`
}

func (dto AdminCreateDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	dto.addRules(v)
	v.Field("papel", dto.Role).Required().OneOf(userDatamodel.ApprovedRoles...)
	return v.Validate()
}

// ProfilePatch is a partial profile update. Nil fields are left untouched;
// an empty date string clears the date.
type ProfilePatch struct {
	Email                 *string `json:"email"`
	FullName              *string `json:"nome_completo"`
	BirthDate             *string `json:"data_nascimento"`
	FatherName            *string `json:"nome_pai"`
	MotherName            *string `json:"nome_mae"`
	CPF                   *string `json:"cpf"`
	RG                    *string `json:"rg"`
	Birthplace            *string `json:"naturalidade"`
	MaritalStatus         *string `json:"estado_civil"`
	SpouseName            *string `json:"nome_conjuge"`
	WeddingDate           *string `json:"data_casamento"`
	Phone                 *string `json:"telefone"`
	Address               *string `json:"endereco"`
	Neighborhood          *string `json:"bairro"`
	City                  *string `json:"cidade"`
	PostalCode            *string `json:"cep"`
	Occupation            *string `json:"profissao"`
	EducationLevel        *string `json:"nivel_escolar"`
	ConversionDate        *string `json:"data_conversao"`
	Baptized              *bool   `json:"batizado_aguas"`
	BaptismDate           *string `json:"data_batismo"`
	BaptismPlace          *string `json:"local_batismo"`
	BaptismChurch         *string `json:"outra_igreja_batismo"`
	ReceivedByAcclamation *bool   `json:"recebido_por_aclamacao"`
	CongregationMember    *bool   `json:"membro_congregacao"`
	CongregationName      *string `json:"qual_congregacao"`
	AttendsBibleSchool    *bool   `json:"frequenta_escola_biblica"`
	BibleSchoolClass      *string `json:"qual_classe_escola_biblica"`
	WantsToServe          *bool   `json:"deseja_exercer_funcao"`
	DesiredFunction       *string `json:"qual_funcao_deseja"`
	HasMedicationAllergy  *bool   `json:"tem_alergia_medicacao"`
	AllergyNotes          *string `json:"alergias_texto"`
}

func (p ProfilePatch) Validate() *internal.AppError {
	v := validation.NewValidator()
	p.addRules(v)
	return v.Validate()
}

func (p ProfilePatch) addRules(v *validation.ValidationBuilder) {
	if p.Email != nil {
		v.Field("email", p.Email).Required().Email()
	}
	if p.FullName != nil {
		v.Field("nome_completo", p.FullName).Required()
	}
	v.Field("data_nascimento", p.BirthDate).Date()
	v.Field("data_casamento", p.WeddingDate).Date()
	v.Field("data_conversao", p.ConversionDate).Date()
	v.Field("data_batismo", p.BaptismDate).Date()
	v.Field("estado_civil", p.MaritalStatus).OneOf(MaritalStatusChoices.Values()...)
	v.Field("nivel_escolar", p.EducationLevel).OneOf(EducationLevelChoices.Values()...)
	v.Field("local_batismo", p.BaptismPlace).OneOf(BaptismPlaceChoices.Values()...)
}

// Apply copies the set fields onto u. Role, approval and privilege flags
// are never touched here.
func (p ProfilePatch) Apply(u *userDatamodel.User) {
	setString(&u.Email, p.Email)
	prof := &u.Profile
	setString(&prof.FullName, p.FullName)
	setDate(&prof.BirthDate, p.BirthDate)
	setString(&prof.FatherName, p.FatherName)
	setString(&prof.MotherName, p.MotherName)
	setString(&prof.CPF, p.CPF)
	setString(&prof.RG, p.RG)
	setString(&prof.Birthplace, p.Birthplace)
	setString(&prof.MaritalStatus, p.MaritalStatus)
	setString(&prof.SpouseName, p.SpouseName)
	setDate(&prof.WeddingDate, p.WeddingDate)
	setString(&prof.Phone, p.Phone)
	setString(&prof.Address, p.Address)
	setString(&prof.Neighborhood, p.Neighborhood)
	setString(&prof.City, p.City)
	setString(&prof.PostalCode, p.PostalCode)
	setString(&prof.Occupation, p.Occupation)
	setString(&prof.EducationLevel, p.EducationLevel)
	setDate(&prof.ConversionDate, p.ConversionDate)
	setBool(&prof.Baptized, p.Baptized)
	setDate(&prof.BaptismDate, p.BaptismDate)
	setString(&prof.BaptismPlace, p.BaptismPlace)
	setString(&prof.BaptismChurch, p.BaptismChurch)
	setBool(&prof.ReceivedByAcclamation, p.ReceivedByAcclamation)
	setBool(&prof.CongregationMember, p.CongregationMember)
	setString(&prof.CongregationName, p.CongregationName)
	setBool(&prof.AttendsBibleSchool, p.AttendsBibleSchool)
	setString(&prof.BibleSchoolClass, p.BibleSchoolClass)
	setBool(&prof.WantsToServe, p.WantsToServe)
	setString(&prof.DesiredFunction, p.DesiredFunction)
	setBool(&prof.HasMedicationAllergy, p.HasMedicationAllergy)
	setString(&prof.AllergyNotes, p.AllergyNotes)
}

// AdminUpdateDTO extends the profile patch with the fields only a
// secretary may change.
type AdminUpdateDTO struct {
	ProfilePatch
	Role   *string `json:"papel"`
	Active *bool   `json:"ativo"`
}

func (dto AdminUpdateDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	dto.addRules(v)
	if dto.Role != nil {
		v.Field("papel", dto.Role).Required().OneOf(userDatamodel.ApprovedRoles...)
	}
	return v.Validate()
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func setDate(dst **calendar.Date, src *string) {
	if src != nil {
		*dst = parseOptionalDate(*src)
	}
}

func parseOptionalDate(s string) *calendar.Date {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	d, err := calendar.Parse(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &d
}
