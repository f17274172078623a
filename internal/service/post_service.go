package service

import (
	"context"

	"townsquare/internal/models"
	"townsquare/internal/observability"
	"townsquare/internal/repository"
	"townsquare/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

// Page size bounds for post listings.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type PostService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
}

type ListPostsInput struct {
	Viewer *uint
	Limit  int
	Offset int
}

func NewPostService(postRepo repository.PostRepository, commentRepo repository.CommentRepository) *PostService {
	return &PostService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
	}
}

// ListPosts returns a page of posts, oldest first. Liked is only ever true
// for a non-nil viewer.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]models.PostView, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	offset := in.Offset
	if offset < 0 {
		offset = 0
	}
	return s.postRepo.List(ctx, in.Viewer, limit, offset)
}

func (s *PostService) GetPost(ctx context.Context, viewer *uint, postID uint) (*models.PostView, error) {
	return s.postRepo.GetByID(ctx, postID, viewer)
}

// CreatePost stores a text post and returns it as its author sees it.
func (s *PostService) CreatePost(ctx context.Context, authorID uint, body string) (view *models.PostView, err error) {
	span, ctx := observability.NewSpan(ctx, "PostService.CreatePost",
		attribute.Int64("user.id", int64(authorID)),
	)
	defer func() { span.End(err) }()

	body = validation.NormalizeText(body)
	if err := validation.ValidatePostBody(body); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	post := &models.Post{UserID: authorID, Body: body}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID, &authorID)
}

// Like is idempotent: liking an already liked post changes nothing.
func (s *PostService) Like(ctx context.Context, userID, postID uint) (view *models.PostView, err error) {
	span, ctx := observability.NewSpan(ctx, "PostService.Like",
		attribute.Int64("user.id", int64(userID)),
		attribute.Int64("post.id", int64(postID)),
	)
	defer func() { span.End(err) }()

	return s.postRepo.Like(ctx, userID, postID)
}

// Unlike is idempotent: unliking a post that is not liked changes nothing.
func (s *PostService) Unlike(ctx context.Context, userID, postID uint) (view *models.PostView, err error) {
	span, ctx := observability.NewSpan(ctx, "PostService.Unlike",
		attribute.Int64("user.id", int64(userID)),
		attribute.Int64("post.id", int64(postID)),
	)
	defer func() { span.End(err) }()

	return s.postRepo.Unlike(ctx, userID, postID)
}

func (s *PostService) ListComments(ctx context.Context, postID uint) ([]models.CommentView, error) {
	return s.commentRepo.ListByPost(ctx, postID)
}
