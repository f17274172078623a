package repository

import (
	"context"
	"time"

	"townsquare/internal/database"
	"townsquare/internal/models"
	"townsquare/internal/observability"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionRepository defines persistence operations for login sessions.
type SessionRepository interface {
	Create(ctx context.Context, userID uint, expiresAt time.Time) (*models.Session, error)
	Resolve(ctx context.Context, token string, now time.Time) (*models.UserIdentity, error)
	Delete(ctx context.Context, token string) error
	DeleteByUser(ctx context.Context, userID uint) (int64, error)
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository returns a new SessionRepository implementation.
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Create stores a session with a fresh random token for the user.
func (r *sessionRepository) Create(ctx context.Context, userID uint, expiresAt time.Time) (*models.Session, error) {
	ctx, cancel := database.WithQueryTimeout(ctx)
	defer cancel()

	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: expiresAt,
	}
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, storeError(err)
	}
	return session, nil
}

type sessionRow struct {
	ID          uint
	Email       string
	DisplayName string
	ExpiresAt   time.Time
}

// Resolve maps a token to the identity of its owner. It returns (nil, nil) for
// malformed, unknown or expired tokens. Expired sessions are removed on sight.
func (r *sessionRepository) Resolve(ctx context.Context, token string, now time.Time) (*models.UserIdentity, error) {
	id, err := uuid.Parse(token)
	if err != nil {
		return nil, nil
	}
	token = id.String()

	ctx, cancel := database.WithQueryTimeout(ctx)
	defer cancel()
	defer observability.TrackQuery("resolve", "sessions")()

	var rows []sessionRow
	err = r.db.WithContext(ctx).
		Table("sessions").
		Select("users.id, users.email, users.display_name, sessions.expires_at").
		Joins("JOIN users ON users.id = sessions.user_id").
		Where("sessions.id = ?", token).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, storeError(err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	row := rows[0]
	if !now.Before(row.ExpiresAt) {
		if err := r.db.WithContext(ctx).Where("id = ?", token).Delete(&models.Session{}).Error; err != nil {
			return nil, storeError(err)
		}
		return nil, nil
	}

	return &models.UserIdentity{
		ID:          row.ID,
		Email:       row.Email,
		DisplayName: row.DisplayName,
	}, nil
}

// Delete removes a session. Unknown or malformed tokens are not an error.
func (r *sessionRepository) Delete(ctx context.Context, token string) error {
	id, err := uuid.Parse(token)
	if err != nil {
		return nil
	}

	ctx, cancel := database.WithQueryTimeout(ctx)
	defer cancel()

	if err := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&models.Session{}).Error; err != nil {
		return storeError(err)
	}
	return nil
}

// DeleteByUser ends every session of the user and reports how many were removed.
func (r *sessionRepository) DeleteByUser(ctx context.Context, userID uint) (int64, error) {
	ctx, cancel := database.WithQueryTimeout(ctx)
	defer cancel()

	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Session{})
	if res.Error != nil {
		return 0, storeError(res.Error)
	}
	return res.RowsAffected, nil
}

func (r *sessionRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := database.WithQueryTimeout(ctx)
	defer cancel()

	res := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&models.Session{})
	if res.Error != nil {
		return 0, storeError(res.Error)
	}
	return res.RowsAffected, nil
}
