package approval

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/church-management/internal"
	"github.com/frahmantamala/church-management/internal/auth"
	userDatamodel "github.com/frahmantamala/church-management/internal/core/datamodel/user"
	"github.com/frahmantamala/church-management/internal/core/events"
)

type RepositoryAPI interface {
	GetByID(id int64) (*userDatamodel.User, error)
	Approve(id int64, role string, approverID int64, at time.Time) error
	DeletePending(id int64) (*userDatamodel.User, error)
	SetSuperuser(id int64, value bool) error
	ListPending() ([]*userDatamodel.User, error)
	ListNonSuperusers() ([]*userDatamodel.User, error)
	ListSuperusers() ([]*userDatamodel.User, error)
}

type ServiceAPI interface {
	Approve(ctx context.Context, actor *auth.Actor, userID int64, role string) (string, error)
	Reject(ctx context.Context, actor *auth.Actor, userID int64) error
	GrantSuperuser(ctx context.Context, actor *auth.Actor, userID int64) (string, error)
	RevokeSuperuser(ctx context.Context, actor *auth.Actor, userID int64) (string, error)
	ListPending(actor *auth.Actor) ([]PendingUser, error)
	ListPromotionCandidates(actor *auth.Actor) ([]Candidate, error)
	ListSuperusers(actor *auth.Actor) (*SuperuserList, error)
}

// Service drives the pending -> approved transition and the orthogonal
// superuser flag. Every transition re-checks the actor's capability.
type Service struct {
	repo      RepositoryAPI
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, publisher events.Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// Approve sets role, approval flag, approver and timestamp in one write.
// Approving an already approved user overwrites all four.
func (s *Service) Approve(ctx context.Context, actor *auth.Actor, userID int64, role string) (string, error) {
	if !auth.CanApprove(actor) {
		s.denied("approve", actor, userID)
		return "", auth.ErrSecretaryOnly
	}

	target, err := s.repo.GetByID(userID)
	if err != nil {
		return "", err
	}

	if !userDatamodel.IsApprovedRole(role) {
		s.logger.Info("approve rejected: invalid role", "user_id", userID, "papel", role)
		return "", internal.ErrInvalidRole
	}

	if target.Approved {
		s.logger.Warn("re-approving an approved user",
			"user_id", userID,
			"previous_papel", target.Role,
			"papel", role)
	}

	if err := s.repo.Approve(userID, role, actor.ID, time.Now()); err != nil {
		return "", fmt.Errorf("approve user %d: %w", userID, err)
	}

	s.logger.Info("user approved", "user_id", userID, "papel", role, "actor_id", actor.ID)
	s.publish(ctx, events.NewUserApprovedEvent(userID, role, actor.ID))

	return fmt.Sprintf("Usuário %s aprovado como %s.", target.Profile.FullName, userDatamodel.RoleLabel(role)), nil
}

// Reject permanently deletes a pending user and its children. Approved
// users are reported as not found.
func (s *Service) Reject(ctx context.Context, actor *auth.Actor, userID int64) error {
	if !auth.CanApprove(actor) {
		s.denied("reject", actor, userID)
		return auth.ErrSecretaryOnly
	}

	deleted, err := s.repo.DeletePending(userID)
	if err != nil {
		return err
	}

	s.logger.Info("pending user rejected", "user_id", userID, "username", deleted.Username, "actor_id", actor.ID)
	s.publish(ctx, events.NewUserRejectedEvent(userID, deleted.Username, actor.ID))
	return nil
}

func (s *Service) GrantSuperuser(ctx context.Context, actor *auth.Actor, userID int64) (string, error) {
	if !auth.CanManageSuperusers(actor) {
		s.denied("grant superuser", actor, userID)
		return "", auth.ErrSuperuserOnly
	}

	target, err := s.repo.GetByID(userID)
	if err != nil {
		return "", err
	}
	if target.IsSuperuser {
		return "", internal.ErrAlreadySuperuser
	}

	if err := s.repo.SetSuperuser(userID, true); err != nil {
		return "", fmt.Errorf("grant superuser to %d: %w", userID, err)
	}

	s.logger.Info("superuser granted", "user_id", userID, "actor_id", actor.ID)
	s.publish(ctx, events.NewSuperuserGrantedEvent(userID, actor.ID))

	return fmt.Sprintf("Usuário %s promovido a superusuário.", target.Profile.FullName), nil
}

func (s *Service) RevokeSuperuser(ctx context.Context, actor *auth.Actor, userID int64) (string, error) {
	if !auth.CanManageSuperusers(actor) {
		s.denied("revoke superuser", actor, userID)
		return "", auth.ErrSuperuserOnly
	}
	if actor.ID == userID {
		return "", internal.ErrSelfRevocation
	}

	target, err := s.repo.GetByID(userID)
	if err != nil {
		return "", err
	}
	if !target.IsSuperuser {
		return "", internal.ErrNotSuperuser
	}

	if err := s.repo.SetSuperuser(userID, false); err != nil {
		return "", fmt.Errorf("revoke superuser from %d: %w", userID, err)
	}

	s.logger.Info("superuser revoked", "user_id", userID, "actor_id", actor.ID)
	s.publish(ctx, events.NewSuperuserRevokedEvent(userID, actor.ID))

	return fmt.Sprintf("Usuário %s teve privilégios de superusuário removidos.", target.Profile.FullName), nil
}

// ListPending returns the review queue, oldest registration first.
func (s *Service) ListPending(actor *auth.Actor) ([]PendingUser, error) {
	if !auth.CanApprove(actor) {
		return nil, auth.ErrSecretaryOnly
	}

	users, err := s.repo.ListPending()
	if err != nil {
		return nil, fmt.Errorf("list pending users: %w", err)
	}

	pending := make([]PendingUser, 0, len(users))
	for _, u := range users {
		pending = append(pending, pendingFromDataModel(u))
	}
	return pending, nil
}

// ListPromotionCandidates is empty for actors without the superuser flag.
func (s *Service) ListPromotionCandidates(actor *auth.Actor) ([]Candidate, error) {
	candidates := make([]Candidate, 0)
	if !auth.CanManageSuperusers(actor) {
		return candidates, nil
	}

	users, err := s.repo.ListNonSuperusers()
	if err != nil {
		return nil, fmt.Errorf("list promotion candidates: %w", err)
	}
	for _, u := range users {
		candidates = append(candidates, candidateFromDataModel(u))
	}
	return candidates, nil
}

func (s *Service) ListSuperusers(actor *auth.Actor) (*SuperuserList, error) {
	if !auth.CanManageSuperusers(actor) {
		return nil, auth.ErrSuperuserOnly
	}

	users, err := s.repo.ListSuperusers()
	if err != nil {
		return nil, fmt.Errorf("list superusers: %w", err)
	}

	list := &SuperuserList{Superusers: make([]Superuser, 0, len(users))}
	for _, u := range users {
		list.Superusers = append(list.Superusers, superuserFromDataModel(u))
	}
	list.Total = len(list.Superusers)
	return list, nil
}

func (s *Service) denied(op string, actor *auth.Actor, userID int64) {
	var actorID int64
	if actor != nil {
		actorID = actor.ID
	}
	s.logger.Warn("workflow operation denied", "operation", op, "actor_id", actorID, "user_id", userID)
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}
