package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeUserRegistered    = "user.registered"
	EventTypeUserApproved      = "user.approved"
	EventTypeUserRejected      = "user.rejected"
	EventTypeSuperuserGranted  = "superuser.granted"
	EventTypeSuperuserRevoked  = "superuser.revoked"
	EventTypeDocumentGenerated = "document.generated"
)

// AllTypes lists every event the application publishes.
var AllTypes = []string{
	EventTypeUserRegistered,
	EventTypeUserApproved,
	EventTypeUserRejected,
	EventTypeSuperuserGranted,
	EventTypeSuperuserRevoked,
	EventTypeDocumentGenerated,
}

func newBase(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

type UserRegisteredEvent struct {
	BaseEvent
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

func NewUserRegisteredEvent(userID int64, username string) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseEvent: newBase(EventTypeUserRegistered, map[string]interface{}{
			"user_id":  userID,
			"username": username,
		}),
		UserID:   userID,
		Username: username,
	}
}

type UserApprovedEvent struct {
	BaseEvent
	UserID     int64  `json:"user_id"`
	Role       string `json:"papel"`
	ApprovedBy int64  `json:"aprovado_por"`
}

func NewUserApprovedEvent(userID int64, role string, approvedBy int64) *UserApprovedEvent {
	return &UserApprovedEvent{
		BaseEvent: newBase(EventTypeUserApproved, map[string]interface{}{
			"user_id":      userID,
			"papel":        role,
			"aprovado_por": approvedBy,
		}),
		UserID:     userID,
		Role:       role,
		ApprovedBy: approvedBy,
	}
}

type UserRejectedEvent struct {
	BaseEvent
	UserID     int64  `json:"user_id"`
	Username   string `json:"username"`
	RejectedBy int64  `json:"rejeitado_por"`
}

func NewUserRejectedEvent(userID int64, username string, rejectedBy int64) *UserRejectedEvent {
	return &UserRejectedEvent{
		BaseEvent: newBase(EventTypeUserRejected, map[string]interface{}{
			"user_id":       userID,
			"username":      username,
			"rejeitado_por": rejectedBy,
		}),
		UserID:     userID,
		Username:   username,
		RejectedBy: rejectedBy,
	}
}

type SuperuserChangedEvent struct {
	BaseEvent
	UserID  int64 `json:"user_id"`
	ActorID int64 `json:"actor_id"`
}

func NewSuperuserGrantedEvent(userID, actorID int64) *SuperuserChangedEvent {
	return newSuperuserChanged(EventTypeSuperuserGranted, userID, actorID)
}

func NewSuperuserRevokedEvent(userID, actorID int64) *SuperuserChangedEvent {
	return newSuperuserChanged(EventTypeSuperuserRevoked, userID, actorID)
}

func newSuperuserChanged(eventType string, userID, actorID int64) *SuperuserChangedEvent {
	return &SuperuserChangedEvent{
		BaseEvent: newBase(eventType, map[string]interface{}{
			"user_id":  userID,
			"actor_id": actorID,
		}),
		UserID:  userID,
		ActorID: actorID,
	}
}

type DocumentGeneratedEvent struct {
	BaseEvent
	Kind     string `json:"kind"`
	ActorID  int64  `json:"actor_id"`
	Filename string `json:"filename"`
}

func NewDocumentGeneratedEvent(kind string, actorID int64, filename string) *DocumentGeneratedEvent {
	return &DocumentGeneratedEvent{
		BaseEvent: newBase(EventTypeDocumentGenerated, map[string]interface{}{
			"kind":     kind,
			"actor_id": actorID,
			"filename": filename,
		}),
		Kind:     kind,
		ActorID:  actorID,
		Filename: filename,
	}
}
