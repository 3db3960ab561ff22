package document

import (
	"fmt"
	"strings"

	"github.com/frahmantamala/church-management/internal"
	"github.com/frahmantamala/church-management/internal/core/common/calendar"
)

type InvitationDTO struct {
	EventName         string `json:"nome_do_evento"`
	StartDate         string `json:"data_inicio"`
	EndDate           string `json:"data_fim"`
	Time              string `json:"horario"`
	Speakers          string `json:"preletores"`
	RecipientKind     string `json:"tipo_destinatario"`
	Theme             string `json:"tema"`
	BaseVerse         string `json:"versiculo_base"`
	BiblicalReference string `json:"referencia_biblica"`
	CongregationName  string `json:"nome_congregacao"`
	DirectorName      string `json:"nome_diretor"`
}

// invitation is a validated InvitationDTO.
type invitation struct {
	InvitationDTO
	start, end calendar.Date
	speakers   []string
}

func (dto InvitationDTO) validate() (*invitation, *internal.AppError) {
	speakers := splitSpeakers(dto.Speakers)

	required := []struct {
		field string
		ok    bool
	}{
		{"nome_do_evento", strings.TrimSpace(dto.EventName) != ""},
		{"data_inicio", strings.TrimSpace(dto.StartDate) != ""},
		{"data_fim", strings.TrimSpace(dto.EndDate) != ""},
		{"horario", strings.TrimSpace(dto.Time) != ""},
		{"preletores", len(speakers) > 0},
		{"tipo_destinatario", strings.TrimSpace(dto.RecipientKind) != ""},
	}
	var missing []string
	for _, r := range required {
		if !r.ok {
			missing = append(missing, r.field)
		}
	}
	if len(missing) > 0 {
		return nil, internal.NewValidationError(
			fmt.Sprintf("Campos obrigatórios faltando: %s.", strings.Join(missing, ", ")),
			internal.ErrCodeMissingFields,
		).WithDetails(map[string][]string{"campos": missing})
	}

	start, errStart := calendar.Parse(strings.TrimSpace(dto.StartDate))
	end, errEnd := calendar.Parse(strings.TrimSpace(dto.EndDate))
	if errStart != nil || errEnd != nil {
		return nil, ErrInvalidDate
	}

	if dto.RecipientKind == RecipientCongregation && strings.TrimSpace(dto.CongregationName) == "" {
		return nil, ErrCongregationRequired
	}

	return &invitation{InvitationDTO: dto, start: start, end: end, speakers: speakers}, nil
}

var (
	ErrInvalidDate          = internal.NewValidationError("Formato de data inválido. Use YYYY-MM-DD.", internal.ErrCodeInvalidDate)
	ErrCongregationRequired = internal.NewValidationError("Nome da congregação é obrigatório.", internal.ErrCodeMissingFields)
	ErrMembersOnly          = internal.NewForbiddenError("Apenas 'Membros' podem gerar este documento.", internal.ErrCodeForbidden)
	ErrNotBaptized          = internal.NewInvalidStateError("O seu perfil não indica que você foi batizado.", internal.ErrCodeNotBaptized)
	ErrBaptismDateMissing   = internal.NewInvalidStateError("A data do seu batismo não está registrada. Contate a secretaria.", internal.ErrCodeMissingBaptism)
	ErrRendererUnavailable  = internal.NewUnavailableError("Geração de PDF indisponível no servidor.", internal.ErrCodeRendererMissing)
)
