package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/church-management/internal"
	"github.com/frahmantamala/church-management/internal/auth"
	"github.com/frahmantamala/church-management/internal/core/common/media"
	userDatamodel "github.com/frahmantamala/church-management/internal/core/datamodel/user"
	"github.com/frahmantamala/church-management/internal/core/events"
)

type RepositoryAPI interface {
	Create(u *userDatamodel.User) error
	GetByID(id int64) (*userDatamodel.User, error)
	UsernameExists(username string) (bool, error)
	GetUsername(id int64) (string, error)
	Update(u *userDatamodel.User) error
	List(filter Filter) ([]*userDatamodel.User, error)
	Delete(id int64) error
}

type StatsRepositoryAPI interface {
	DashboardStats(ctx context.Context) (DashboardStats, error)
}

type ServiceAPI interface {
	Register(ctx context.Context, dto RegisterDTO) (*User, error)
	GetProfile(actor *auth.Actor) (*User, error)
	UpdateProfile(actor *auth.Actor, patch ProfilePatch) (*User, error)
	AdminList(actor *auth.Actor, filter Filter) ([]ListItem, error)
	AdminCreate(ctx context.Context, actor *auth.Actor, dto AdminCreateDTO) (*User, error)
	AdminGet(actor *auth.Actor, id int64) (*User, error)
	AdminUpdate(actor *auth.Actor, id int64, dto AdminUpdateDTO) (*User, error)
	AdminDelete(actor *auth.Actor, id int64) error
	DashboardStats(ctx context.Context, actor *auth.Actor) (*DashboardStats, error)
}

type Service struct {
	repo       RepositoryAPI
	stats      StatsRepositoryAPI
	publisher  events.Publisher
	media      *media.Resolver
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, stats StatsRepositoryAPI, publisher events.Publisher, resolver *media.Resolver, bcryptCost int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:       repo,
		stats:      stats,
		publisher:  publisher,
		media:      resolver,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Register creates a pending user: no role, not approved, active.
func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Info("registration validation failed", "username", dto.Username, "error", err)
		return nil, err
	}

	u, err := s.newUser(dto)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(u); err != nil {
		if errors.Is(err, internal.ErrUsernameTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", u.ID, "username", u.Username)
	s.publish(ctx, events.NewUserRegisteredEvent(u.ID, u.Username))

	return FromDataModel(u, nil, s.media), nil
}

func (s *Service) GetProfile(actor *auth.Actor) (*User, error) {
	if actor == nil {
		return nil, internal.ErrInvalidToken
	}
	return s.load(actor.ID)
}

func (s *Service) UpdateProfile(actor *auth.Actor, patch ProfilePatch) (*User, error) {
	if actor == nil {
		return nil, internal.ErrInvalidToken
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(actor.ID)
	if err != nil {
		return nil, err
	}
	patch.Apply(u)
	u.UpdatedAt = time.Now()

	if err := s.repo.Update(u); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.logger.Info("profile updated", "user_id", u.ID)
	return s.view(u)
}

func (s *Service) AdminList(actor *auth.Actor, filter Filter) ([]ListItem, error) {
	if err := s.requireSecretary(actor, "admin list"); err != nil {
		return nil, err
	}

	users, err := s.repo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	items := make([]ListItem, 0, len(users))
	for _, u := range users {
		items = append(items, ListItemFromDataModel(u, s.media))
	}
	return items, nil
}

// AdminCreate registers a user on a secretary's behalf. The record is
// approved immediately with the actor as approver.
func (s *Service) AdminCreate(ctx context.Context, actor *auth.Actor, dto AdminCreateDTO) (*User, error) {
	if err := s.requireSecretary(actor, "admin create"); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.newUser(dto.RegisterDTO)
	if err != nil {
		return nil, err
	}
	approvedAt := u.RegisteredAt
	u.Role = dto.Role
	u.Approved = true
	u.ApprovedByID = &actor.ID
	u.ApprovedAt = &approvedAt

	if err := s.repo.Create(u); err != nil {
		if errors.Is(err, internal.ErrUsernameTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user created by secretary",
		"user_id", u.ID,
		"username", u.Username,
		"papel", u.Role,
		"actor_id", actor.ID)
	s.publish(ctx, events.NewUserRegisteredEvent(u.ID, u.Username))
	s.publish(ctx, events.NewUserApprovedEvent(u.ID, u.Role, actor.ID))

	approver := actor.Username
	return FromDataModel(u, &approver, s.media), nil
}

func (s *Service) AdminGet(actor *auth.Actor, id int64) (*User, error) {
	if err := s.requireSecretary(actor, "admin get"); err != nil {
		return nil, err
	}
	return s.load(id)
}

// AdminUpdate applies a partial update. A role change is only accepted on
// approved users; pending users get their role through approval.
func (s *Service) AdminUpdate(actor *auth.Actor, id int64, dto AdminUpdateDTO) (*User, error) {
	if err := s.requireSecretary(actor, "admin update"); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if dto.Role != nil && *dto.Role != u.Role {
		if !u.Approved {
			return nil, ErrRoleRequiresApproval
		}
		u.Role = *dto.Role
	}
	if dto.Active != nil {
		u.Active = *dto.Active
	}
	dto.ProfilePatch.Apply(u)
	u.UpdatedAt = time.Now()

	if err := s.repo.Update(u); err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}

	s.logger.Info("user updated by secretary", "user_id", id, "actor_id", actor.ID)
	return s.view(u)
}

func (s *Service) AdminDelete(actor *auth.Actor, id int64) error {
	if err := s.requireSecretary(actor, "admin delete"); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.logger.Info("user deleted by secretary", "user_id", id, "actor_id", actor.ID)
	return nil
}

func (s *Service) DashboardStats(ctx context.Context, actor *auth.Actor) (*DashboardStats, error) {
	if !auth.CanViewDashboard(actor) {
		return nil, internal.ErrPermissionDenied
	}
	stats, err := s.stats.DashboardStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return &stats, nil
}

func (s *Service) newUser(dto RegisterDTO) (*userDatamodel.User, error) {
	exists, err := s.repo.UsernameExists(dto.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return nil, internal.ErrUsernameTaken
	}

	hash, err := auth.HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return dto.toDataModel(hash, time.Now()), nil
}

func (s *Service) load(id int64) (*User, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return s.view(u)
}

func (s *Service) view(u *userDatamodel.User) (*User, error) {
	var approvedBy *string
	if u.ApprovedByID != nil {
		name, err := s.repo.GetUsername(*u.ApprovedByID)
		switch {
		case err == nil:
			approvedBy = &name
		case errors.Is(err, internal.ErrUserNotFound):
			// approver was deleted; keep the field empty
		default:
			return nil, fmt.Errorf("resolve approver: %w", err)
		}
	}
	return FromDataModel(u, approvedBy, s.media), nil
}

func (s *Service) requireSecretary(actor *auth.Actor, op string) error {
	if !auth.CanApprove(actor) {
		s.logger.Warn("secretary operation denied", "operation", op)
		return auth.ErrSecretaryOnly
	}
	return nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}

var ErrRoleRequiresApproval = internal.NewInvalidStateError("O papel de um usuário pendente é definido na aprovação.", internal.ErrCodeInvalidRole)
