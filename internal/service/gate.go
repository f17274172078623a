package service

import (
	"context"
	"log/slog"

	"townsquare/internal/models"
	"townsquare/internal/observability"
)

// SessionResolver maps a session token to the identity of its owner.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*models.UserIdentity, error)
}

// Gate decides who may read and who may write. It only sees the token string;
// extracting it from the request is the transport's job.
type Gate struct {
	sessions SessionResolver
}

func NewGate(sessions SessionResolver) *Gate {
	return &Gate{sessions: sessions}
}

// ReadAuth is the outcome of a read authorization. Identity is nil for
// anonymous readers. InvalidateSession asks the transport to drop the token
// because it no longer belongs to anyone.
type ReadAuth struct {
	Identity          *models.UserIdentity
	InvalidateSession bool
}

// AuthorizeRead never fails. A token that resolves to no user degrades to an
// anonymous read and is marked for invalidation. A store failure also degrades
// to anonymous but keeps the token, since the outage may be transient.
func (g *Gate) AuthorizeRead(ctx context.Context, token string) ReadAuth {
	if token == "" {
		return ReadAuth{}
	}
	identity, err := g.sessions.ResolveSession(ctx, token)
	if err != nil {
		observability.Logger.WarnContext(ctx, "Session lookup failed, serving anonymous read",
			slog.String("code", models.ErrorCode(err)),
			slog.String("error", err.Error()),
		)
		return ReadAuth{}
	}
	if identity == nil {
		return ReadAuth{InvalidateSession: true}
	}
	return ReadAuth{Identity: identity}
}

// AuthorizeWrite requires a token that resolves to a user.
func (g *Gate) AuthorizeWrite(ctx context.Context, token string) (*models.UserIdentity, error) {
	if token == "" {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	identity, err := g.sessions.ResolveSession(ctx, token)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return nil, models.NewUnauthorizedError("Session is invalid or expired")
	}
	return identity, nil
}
