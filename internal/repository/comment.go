package repository

import (
	"context"

	"townsquare/internal/database"
	"townsquare/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	ListByPost(ctx context.Context, postID uint) ([]models.CommentView, error)
	Create(ctx context.Context, comment *models.Comment) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository returns a new CommentRepository implementation.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// ListByPost returns the comments of a post oldest first.
func (r *commentRepository) ListByPost(ctx context.Context, postID uint) ([]models.CommentView, error) {
	ctx, cancel := database.WithQueryTimeout(ctx)
	defer cancel()

	db := r.db.WithContext(ctx)
	if err := postExists(db, postID); err != nil {
		return nil, storeError(err)
	}

	comments := []models.CommentView{}
	err := db.Table("comments").
		Select("comments.id, comments.post_id, comments.user_id AS author_id, users.display_name AS author_name, comments.body, comments.created_at").
		Joins("JOIN users ON users.id = comments.user_id").
		Where("comments.post_id = ? AND comments.deleted_at IS NULL", postID).
		Order("comments.id ASC").
		Scan(&comments).Error
	if err != nil {
		return nil, storeError(err)
	}
	return comments, nil
}

// Create stores a comment. Comments are only written by seeding.
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	ctx, cancel := database.WithQueryTimeout(ctx)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return storeError(err)
	}
	return nil
}
