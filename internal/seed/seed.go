package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"townsquare/internal/models"
	"townsquare/internal/observability"
	"townsquare/internal/repository"
	"townsquare/internal/service"
	"townsquare/internal/validation"

	"gorm.io/gorm"
)

// Result counts the rows created by Apply.
type Result struct {
	Users    int `json:"users"`
	Posts    int `json:"posts"`
	Comments int `json:"comments"`
	Likes    int `json:"likes"`
}

// Seeder writes fixtures through the services.
type Seeder struct {
	db       *gorm.DB
	users    repository.UserRepository
	comments repository.CommentRepository
	auth     *service.AuthService
	posts    *service.PostService
}

// NewSeeder builds a Seeder on db. bcryptCost is forwarded to the auth
// service; seeding large sets is much faster with bcrypt.MinCost.
func NewSeeder(db *gorm.DB, bcryptCost int) *Seeder {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	return &Seeder{
		db:       db,
		users:    userRepo,
		comments: commentRepo,
		auth:     service.NewAuthService(userRepo, repository.NewSessionRepository(db), time.Hour, bcryptCost),
		posts:    service.NewPostService(postRepo, commentRepo),
	}
}

// Apply stores fx. Users that already exist are reused, so a fixture file can
// be applied on top of an existing database.
func (s *Seeder) Apply(ctx context.Context, fx *Fixtures) (*Result, error) {
	res := &Result{}
	ids := make(map[string]uint, len(fx.Users))

	for _, u := range fx.Users {
		user, err := s.auth.Register(ctx, service.RegisterInput{
			Email:       u.Email,
			DisplayName: u.DisplayName,
			Password:    u.Password,
		})
		switch {
		case err == nil:
			res.Users++
		case models.IsCode(err, models.CodeDuplicateEmail):
			user, err = s.users.GetByEmail(ctx, validation.NormalizeEmail(u.Email))
			if err != nil {
				return res, err
			}
		default:
			return res, fmt.Errorf("user %s: %w", u.Email, err)
		}
		ids[user.Email] = user.ID
	}

	for i, p := range fx.Posts {
		authorID, err := s.userID(ctx, ids, p.Author)
		if err != nil {
			return res, fmt.Errorf("post %d: %w", i, err)
		}
		post, err := s.posts.CreatePost(ctx, authorID, p.Body)
		if err != nil {
			return res, fmt.Errorf("post %d: %w", i, err)
		}
		res.Posts++

		// A repeated liker is a no-op, so count only likes that raised the total.
		var likes int64
		for _, email := range p.LikedBy {
			likerID, err := s.userID(ctx, ids, email)
			if err != nil {
				return res, fmt.Errorf("post %d like: %w", i, err)
			}
			view, err := s.posts.Like(ctx, likerID, post.ID)
			if err != nil {
				return res, fmt.Errorf("post %d like: %w", i, err)
			}
			if view.LikesCount > likes {
				res.Likes += int(view.LikesCount - likes)
				likes = view.LikesCount
			}
		}

		for _, c := range p.Comments {
			commenterID, err := s.userID(ctx, ids, c.Author)
			if err != nil {
				return res, fmt.Errorf("post %d comment: %w", i, err)
			}
			body := validation.NormalizeText(c.Body)
			if err := validation.ValidatePostBody(body); err != nil {
				return res, fmt.Errorf("post %d comment: %w", i, models.NewValidationError(err.Error()))
			}
			comment := &models.Comment{PostID: post.ID, UserID: commenterID, Body: body}
			if err := s.comments.Create(ctx, comment); err != nil {
				return res, fmt.Errorf("post %d comment: %w", i, err)
			}
			res.Comments++
		}
	}

	observability.Logger.InfoContext(ctx, "Seed applied",
		slog.Int("users", res.Users),
		slog.Int("posts", res.Posts),
		slog.Int("comments", res.Comments),
		slog.Int("likes", res.Likes),
	)
	return res, nil
}

// userID resolves an author email, first from users seen in this run and then
// from the database.
func (s *Seeder) userID(ctx context.Context, ids map[string]uint, email string) (uint, error) {
	email = validation.NormalizeEmail(email)
	if id, ok := ids[email]; ok {
		return id, nil
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return 0, err
	}
	if user == nil {
		return 0, models.NewNotFoundError("User", email)
	}
	ids[email] = user.ID
	return user.ID, nil
}

// Clean removes every row the seeder can create, children first.
func (s *Seeder) Clean(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"likes", "comments", "posts", "sessions", "users"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clean %s: %w", table, err)
			}
		}
		return nil
	})
}
