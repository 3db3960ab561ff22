package content

import "github.com/frahmantamala/church-management/internal/core/common/calendar"

type SiteConfig struct {
	ID          int64  `gorm:"primaryKey"`
	YoutubeLink string `gorm:"column:link_youtube"`
	VideoTitle  string `gorm:"column:titulo_video"`
	Image       string `gorm:"column:imagem"`
}

func (SiteConfig) TableName() string {
	return "configuracao_site"
}

type Devotional struct {
	ID          int64         `gorm:"primaryKey"`
	Title       string        `gorm:"column:titulo;not null"`
	Subtitle    string        `gorm:"column:subtitulo"`
	Author      string        `gorm:"column:autor"`
	Image       string        `gorm:"column:imagem"`
	Content     string        `gorm:"column:conteudo"`
	PublishedAt calendar.Date `gorm:"column:data_publicacao;not null"`
}

func (Devotional) TableName() string {
	return "devocionais"
}

type LeadershipSection struct {
	ID          int64              `gorm:"primaryKey"`
	Title       string             `gorm:"column:titulo;not null"`
	Description string             `gorm:"column:descricao"`
	Order       int                `gorm:"column:ordem"`
	People      []LeadershipPerson `gorm:"foreignKey:SectionID"`
}

func (LeadershipSection) TableName() string {
	return "secoes_lideranca"
}

type LeadershipPerson struct {
	ID          int64  `gorm:"primaryKey"`
	SectionID   int64  `gorm:"column:secao_id;not null;index"`
	Name        string `gorm:"column:nome;not null"`
	Position    string `gorm:"column:cargo"`
	Description string `gorm:"column:descricao"`
	Photo       string `gorm:"column:foto"`
	Order       int    `gorm:"column:ordem"`
}

func (LeadershipPerson) TableName() string {
	return "pessoas_lideranca"
}

type Department struct {
	ID          int64  `gorm:"primaryKey"`
	Name        string `gorm:"column:nome;not null"`
	Description string `gorm:"column:descricao"`
	Image       string `gorm:"column:imagem"`
	Category    string `gorm:"column:categoria;not null"`
	Order       int    `gorm:"column:ordem"`
}

func (Department) TableName() string {
	return "departamentos"
}

// WeekDay.Day is 0 for Sunday through 6 for Saturday.
type WeekDay struct {
	ID      int64   `gorm:"primaryKey"`
	Day     int     `gorm:"column:nome;uniqueIndex;not null"`
	Summary string  `gorm:"column:resumo"`
	Events  []Event `gorm:"foreignKey:WeekDayID"`
}

func (WeekDay) TableName() string {
	return "dias_semana"
}

type Event struct {
	ID          int64  `gorm:"primaryKey"`
	WeekDayID   int64  `gorm:"column:dia_id;not null;index"`
	Title       string `gorm:"column:titulo;not null"`
	Description string `gorm:"column:descricao"`
	Time        string `gorm:"column:horario"`
}

func (Event) TableName() string {
	return "eventos"
}

type SpecialEvent struct {
	ID          int64  `gorm:"primaryKey"`
	Title       string `gorm:"column:titulo;not null"`
	Description string `gorm:"column:descricao"`
	Period      string `gorm:"column:periodo"`
}

func (SpecialEvent) TableName() string {
	return "eventos_especiais"
}
