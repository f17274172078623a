package repository

import (
	"context"
	"time"

	"townsquare/internal/database"
	"townsquare/internal/models"
	"townsquare/internal/observability"

	"gorm.io/gorm"
)

// PostRepository defines persistence operations for posts and their likes.
// A nil viewer means an anonymous reader, for whom Liked is always false.
type PostRepository interface {
	List(ctx context.Context, viewer *uint, limit, offset int) ([]models.PostView, error)
	GetByID(ctx context.Context, id uint, viewer *uint) (*models.PostView, error)
	Create(ctx context.Context, post *models.Post) error
	Like(ctx context.Context, userID, postID uint) (*models.PostView, error)
	Unlike(ctx context.Context, userID, postID uint) (*models.PostView, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `posts.id, posts.user_id AS author_id, users.display_name AS author_name,
	posts.body, posts.created_at,
	(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) AS likes_count,
	(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.deleted_at IS NULL) AS comments_count`

// projection selects post views. Counts are derived from the likes and
// comments tables at read time.
func projection(db *gorm.DB, viewer *uint) *gorm.DB {
	q := db.Table("posts").
		Joins("JOIN users ON users.id = posts.user_id").
		Where("posts.deleted_at IS NULL")
	if viewer == nil {
		return q.Select(postColumns + ", FALSE AS liked")
	}
	return q.Select(postColumns+`,
	EXISTS (SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) AS liked`, *viewer)
}

func findPost(db *gorm.DB, id uint, viewer *uint) (*models.PostView, error) {
	var views []models.PostView
	if err := projection(db, viewer).Where("posts.id = ?", id).Limit(1).Scan(&views).Error; err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, models.NewNotFoundError("Post", id)
	}
	return &views[0], nil
}

func postExists(db *gorm.DB, id uint) error {
	var count int64
	if err := db.Model(&models.Post{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return models.NewNotFoundError("Post", id)
	}
	return nil
}

// List returns posts oldest first.
func (r *postRepository) List(ctx context.Context, viewer *uint, limit, offset int) ([]models.PostView, error) {
	ctx, cancel := database.WithQueryTimeout(ctx)
	defer cancel()
	defer observability.TrackQuery("list", "posts")()

	views := []models.PostView{}
	err := projection(r.db.WithContext(ctx), viewer).
		Order("posts.id ASC").
		Limit(limit).
		Offset(offset).
		Scan(&views).Error
	if err != nil {
		return nil, storeError(err)
	}
	return views, nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint, viewer *uint) (*models.PostView, error) {
	ctx, cancel := database.WithQueryTimeout(ctx)
	defer cancel()
	defer observability.TrackQuery("get", "posts")()

	view, err := findPost(r.db.WithContext(ctx), id, viewer)
	if err != nil {
		return nil, storeError(err)
	}
	return view, nil
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	ctx, cancel := database.WithQueryTimeout(ctx)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return storeError(err)
	}
	return nil
}

// Like records the user's like on the post and returns the post as the user
// now sees it. Liking twice is a no-op; the unique (user_id, post_id) index
// settles concurrent attempts.
func (r *postRepository) Like(ctx context.Context, userID, postID uint) (*models.PostView, error) {
	ctx, cancel := database.WithQueryTimeout(ctx)
	defer cancel()
	defer observability.TrackQuery("like", "likes")()

	var view *models.PostView
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := postExists(tx, postID); err != nil {
			return err
		}
		err := tx.Exec(
			`INSERT INTO likes (user_id, post_id, created_at) VALUES (?, ?, ?) ON CONFLICT (user_id, post_id) DO NOTHING`,
			userID, postID, time.Now(),
		).Error
		if err != nil && !isUniqueConstraintError(err) {
			return err
		}
		view, err = findPost(tx, postID, &userID)
		return err
	})
	observability.LikeMutations.WithLabelValues("like", observability.Outcome(err)).Inc()
	if err != nil {
		return nil, storeError(err)
	}
	return view, nil
}

// Unlike removes the user's like if present and returns the updated post.
func (r *postRepository) Unlike(ctx context.Context, userID, postID uint) (*models.PostView, error) {
	ctx, cancel := database.WithQueryTimeout(ctx)
	defer cancel()
	defer observability.TrackQuery("unlike", "likes")()

	var view *models.PostView
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := postExists(tx, postID); err != nil {
			return err
		}
		if err := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		var err error
		view, err = findPost(tx, postID, &userID)
		return err
	})
	observability.LikeMutations.WithLabelValues("unlike", observability.Outcome(err)).Inc()
	if err != nil {
		return nil, storeError(err)
	}
	return view, nil
}
