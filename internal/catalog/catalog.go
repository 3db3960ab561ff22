package catalog

import (
	"github.com/frahmantamala/church-management/internal/core/common/calendar"
)

type SiteConfig struct {
	YoutubeLink string  `json:"link_youtube"`
	VideoTitle  string  `json:"titulo_video"`
	ImageURL    *string `json:"imagem_url"`
}

type Devotional struct {
	ID          int64         `json:"id"`
	Title       string        `json:"titulo"`
	Subtitle    string        `json:"subtitulo"`
	Author      string        `json:"autor"`
	Image       *string       `json:"imagem"`
	Content     string        `json:"conteudo"`
	PublishedAt calendar.Date `json:"data_publicacao"`
}

type Person struct {
	ID          int64   `json:"id"`
	Name        string  `json:"nome"`
	Position    string  `json:"cargo"`
	Description string  `json:"descricao"`
	Photo       *string `json:"foto"`
}

type LeadershipSection struct {
	ID          int64    `json:"id"`
	Title       string   `json:"titulo"`
	Description string   `json:"descricao"`
	People      []Person `json:"pessoas"`
}

type Department struct {
	ID            int64   `json:"id"`
	Name          string  `json:"nome"`
	Description   string  `json:"descricao"`
	Image         *string `json:"imagem"`
	Category      string  `json:"categoria"`
	CategoryLabel string  `json:"categoria_display"`
}

type DepartmentGroup struct {
	Label string       `json:"nome_display"`
	Items []Department `json:"lista"`
}

type Event struct {
	ID          int64  `json:"id"`
	Title       string `json:"titulo"`
	Description string `json:"descricao"`
	Time        string `json:"horario"`
}

type WeekDay struct {
	Day      int     `json:"nome"`
	DayLabel string  `json:"nome_display"`
	Summary  string  `json:"resumo"`
	Icon     *string `json:"icone"`
	Events   []Event `json:"eventos"`
}

type SpecialEvent struct {
	ID          int64  `json:"id"`
	Title       string `json:"titulo"`
	Description string `json:"descricao"`
	Period      string `json:"periodo"`
}

type Agenda struct {
	WeekDays      []WeekDay      `json:"dias_semana"`
	SpecialEvents []SpecialEvent `json:"eventos_especiais"`
}

const (
	CategoryMinistry   = "ministerio"
	CategoryDepartment = "departamento"
	CategoryGroup      = "grupo"
)

var categoryLabels = map[string]string{
	CategoryMinistry:   "Ministérios",
	CategoryDepartment: "Departamentos",
	CategoryGroup:      "Grupos",
}

func CategoryLabel(category string) string {
	if label, ok := categoryLabels[category]; ok {
		return label
	}
	return category
}

// Days are numbered from Sunday.
var (
	dayLabels = [7]string{"Domingo", "Segunda-feira", "Terça-feira", "Quarta-feira", "Quinta-feira", "Sexta-feira", "Sábado"}
	dayIcons  = [7]string{"domingo", "segunda", "terca", "quarta", "quinta", "sexta", "sabado"}
)

func DayLabel(day int) string {
	if day < 0 || day >= len(dayLabels) {
		return ""
	}
	return dayLabels[day]
}

func dayIcon(day int) *string {
	if day < 0 || day >= len(dayIcons) {
		return nil
	}
	icon := dayIcons[day]
	return &icon
}
