package catalog

import (
	"fmt"
	"log/slog"

	"github.com/frahmantamala/church-management/internal/core/common/media"
	"github.com/frahmantamala/church-management/internal/core/datamodel/content"
	"github.com/microcosm-cc/bluemonday"
)

type RepositoryAPI interface {
	FirstSiteConfig() (*content.SiteConfig, error)
	LatestDevotional() (*content.Devotional, error)
	ListDevotionals() ([]content.Devotional, error)
	ListLeadershipSections() ([]content.LeadershipSection, error)
	ListDepartments() ([]content.Department, error)
	ListWeekDays() ([]content.WeekDay, error)
	ListSpecialEvents() ([]content.SpecialEvent, error)
}

type ServiceAPI interface {
	GetSiteConfig() (*SiteConfig, error)
	GetLatestDevotional() (*Devotional, error)
	ListDevotionals() ([]Devotional, error)
	ListLeadershipSections() ([]LeadershipSection, error)
	ListDepartmentsGroupedByCategory() (map[string]*DepartmentGroup, error)
	GetAgenda() (*Agenda, error)
}

// Service reads public site content. It never writes.
type Service struct {
	repo   RepositoryAPI
	media  *media.Resolver
	policy *bluemonday.Policy
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, resolver *media.Resolver, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		media:  resolver,
		policy: bluemonday.UGCPolicy(),
		logger: logger,
	}
}

// GetSiteConfig returns nil when no configuration row exists.
func (s *Service) GetSiteConfig() (*SiteConfig, error) {
	cfg, err := s.repo.FirstSiteConfig()
	if err != nil {
		return nil, fmt.Errorf("get site config: %w", err)
	}
	if cfg == nil {
		return nil, nil
	}
	return &SiteConfig{
		YoutubeLink: cfg.YoutubeLink,
		VideoTitle:  cfg.VideoTitle,
		ImageURL:    s.url(cfg.Image),
	}, nil
}

// GetLatestDevotional returns nil when there are no devotionals.
func (s *Service) GetLatestDevotional() (*Devotional, error) {
	d, err := s.repo.LatestDevotional()
	if err != nil {
		return nil, fmt.Errorf("get latest devotional: %w", err)
	}
	if d == nil {
		return nil, nil
	}
	view := s.devotional(*d)
	return &view, nil
}

func (s *Service) ListDevotionals() ([]Devotional, error) {
	rows, err := s.repo.ListDevotionals()
	if err != nil {
		return nil, fmt.Errorf("list devotionals: %w", err)
	}
	out := make([]Devotional, 0, len(rows))
	for _, d := range rows {
		out = append(out, s.devotional(d))
	}
	return out, nil
}

func (s *Service) ListLeadershipSections() ([]LeadershipSection, error) {
	rows, err := s.repo.ListLeadershipSections()
	if err != nil {
		return nil, fmt.Errorf("list leadership: %w", err)
	}
	out := make([]LeadershipSection, 0, len(rows))
	for _, sec := range rows {
		section := LeadershipSection{
			ID:          sec.ID,
			Title:       sec.Title,
			Description: sec.Description,
			People:      make([]Person, 0, len(sec.People)),
		}
		for _, p := range sec.People {
			section.People = append(section.People, Person{
				ID:          p.ID,
				Name:        p.Name,
				Position:    p.Position,
				Description: p.Description,
				Photo:       s.url(p.Photo),
			})
		}
		out = append(out, section)
	}
	return out, nil
}

// ListDepartmentsGroupedByCategory keys groups by category. Each list keeps
// the repository order.
func (s *Service) ListDepartmentsGroupedByCategory() (map[string]*DepartmentGroup, error) {
	rows, err := s.repo.ListDepartments()
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	groups := make(map[string]*DepartmentGroup)
	for _, d := range rows {
		group, ok := groups[d.Category]
		if !ok {
			group = &DepartmentGroup{Label: CategoryLabel(d.Category), Items: []Department{}}
			groups[d.Category] = group
		}
		group.Items = append(group.Items, Department{
			ID:            d.ID,
			Name:          d.Name,
			Description:   d.Description,
			Image:         s.url(d.Image),
			Category:      d.Category,
			CategoryLabel: group.Label,
		})
	}
	return groups, nil
}

func (s *Service) GetAgenda() (*Agenda, error) {
	days, err := s.repo.ListWeekDays()
	if err != nil {
		return nil, fmt.Errorf("list week days: %w", err)
	}
	specials, err := s.repo.ListSpecialEvents()
	if err != nil {
		return nil, fmt.Errorf("list special events: %w", err)
	}

	agenda := &Agenda{
		WeekDays:      make([]WeekDay, 0, len(days)),
		SpecialEvents: make([]SpecialEvent, 0, len(specials)),
	}
	for _, d := range days {
		day := WeekDay{
			Day:      d.Day,
			DayLabel: DayLabel(d.Day),
			Summary:  d.Summary,
			Icon:     dayIcon(d.Day),
			Events:   make([]Event, 0, len(d.Events)),
		}
		for _, e := range d.Events {
			day.Events = append(day.Events, Event{
				ID:          e.ID,
				Title:       e.Title,
				Description: e.Description,
				Time:        clockTime(e.Time),
			})
		}
		agenda.WeekDays = append(agenda.WeekDays, day)
	}
	for _, e := range specials {
		agenda.SpecialEvents = append(agenda.SpecialEvents, SpecialEvent{
			ID:          e.ID,
			Title:       e.Title,
			Description: e.Description,
			Period:      e.Period,
		})
	}
	return agenda, nil
}

func (s *Service) devotional(d content.Devotional) Devotional {
	return Devotional{
		ID:          d.ID,
		Title:       d.Title,
		Subtitle:    d.Subtitle,
		Author:      d.Author,
		Image:       s.url(d.Image),
		Content:     s.policy.Sanitize(d.Content),
		PublishedAt: d.PublishedAt,
	}
}

func (s *Service) url(path string) *string {
	if path == "" {
		return nil
	}
	u := s.media.URL(path)
	return &u
}

// clockTime trims a stored TIME value such as "19:30:00" to "19:30".
func clockTime(t string) string {
	if len(t) > 5 {
		return t[:5]
	}
	return t
}
