package auth

import (
	"context"
	"time"

	userDatamodel "github.com/frahmantamala/church-management/internal/core/datamodel/user"
	"github.com/golang-jwt/jwt/v5"
)

// Actor is the authenticated user a request acts on behalf of.
type Actor struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	FullName    string `json:"nome_completo"`
	Role        string `json:"papel"`
	IsSuperuser bool   `json:"is_superuser"`
	IsStaff     bool   `json:"is_staff"`
	Active      bool   `json:"ativo"`
}

func ActorFromDataModel(u *userDatamodel.User) *Actor {
	return &Actor{
		ID:          u.ID,
		Username:    u.Username,
		FullName:    u.Profile.FullName,
		Role:        u.Role,
		IsSuperuser: u.IsSuperuser,
		IsStaff:     u.IsStaff,
		Active:      u.Active,
	}
}

type contextKey string

const ContextActorKey contextKey = "actor"

func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, ContextActorKey, actor)
}

func ActorFromContext(ctx context.Context) (*Actor, bool) {
	actor, ok := ctx.Value(ContextActorKey).(*Actor)
	return actor, ok && actor != nil
}

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type Claims struct {
	UserID      int64  `json:"user_id"`
	Username    string `json:"username"`
	FullName    string `json:"nome_completo"`
	Role        string `json:"papel"`
	IsSuperuser bool   `json:"is_superuser"`
	TokenType   string `json:"token_type"`
	jwt.RegisteredClaims
}

type AuthTokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// TokenGenerator issues and validates the bearer tokens.
type TokenGenerator interface {
	GenerateAccessToken(actor *Actor) (string, error)
	GenerateRefreshToken(actor *Actor) (string, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}
