package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"townsquare/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn      func(context.Context, *models.User) error
	getByIDFn     func(context.Context, uint) (*models.User, error)
	getByEmailFn  func(context.Context, string) (*models.User, error)
	emailExistsFn func(context.Context, string) (bool, error)
	deleteFn      func(context.Context, uint) error
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.emailExistsFn(ctx, email)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:      func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn:     func(_ context.Context, _ uint) (*models.User, error) { return &models.User{}, nil },
		getByEmailFn:  func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		emailExistsFn: func(_ context.Context, _ string) (bool, error) { return false, nil },
		deleteFn:      func(_ context.Context, _ uint) error { return nil },
	}
}

// sessionRepoStub is a stub for repository.SessionRepository.
type sessionRepoStub struct {
	createFn       func(context.Context, uint, time.Time) (*models.Session, error)
	resolveFn      func(context.Context, string, time.Time) (*models.UserIdentity, error)
	deleteFn       func(context.Context, string) error
	deleteByUserFn func(context.Context, uint) (int64, error)
	purgeExpiredFn func(context.Context, time.Time) (int64, error)
}

func (s *sessionRepoStub) Create(ctx context.Context, userID uint, expiresAt time.Time) (*models.Session, error) {
	return s.createFn(ctx, userID, expiresAt)
}
func (s *sessionRepoStub) Resolve(ctx context.Context, token string, now time.Time) (*models.UserIdentity, error) {
	return s.resolveFn(ctx, token, now)
}
func (s *sessionRepoStub) Delete(ctx context.Context, token string) error {
	return s.deleteFn(ctx, token)
}
func (s *sessionRepoStub) DeleteByUser(ctx context.Context, userID uint) (int64, error) {
	return s.deleteByUserFn(ctx, userID)
}
func (s *sessionRepoStub) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	return s.purgeExpiredFn(ctx, now)
}

func noopSessionRepo() *sessionRepoStub {
	return &sessionRepoStub{
		createFn: func(_ context.Context, userID uint, expiresAt time.Time) (*models.Session, error) {
			return &models.Session{ID: "token", UserID: userID, ExpiresAt: expiresAt}, nil
		},
		resolveFn:      func(_ context.Context, _ string, _ time.Time) (*models.UserIdentity, error) { return nil, nil },
		deleteFn:       func(_ context.Context, _ string) error { return nil },
		deleteByUserFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		purgeExpiredFn: func(_ context.Context, _ time.Time) (int64, error) { return 0, nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	listFn    func(context.Context, *uint, int, int) ([]models.PostView, error)
	getByIDFn func(context.Context, uint, *uint) (*models.PostView, error)
	createFn  func(context.Context, *models.Post) error
	likeFn    func(context.Context, uint, uint) (*models.PostView, error)
	unlikeFn  func(context.Context, uint, uint) (*models.PostView, error)
}

func (s *postRepoStub) List(ctx context.Context, viewer *uint, limit, offset int) ([]models.PostView, error) {
	return s.listFn(ctx, viewer, limit, offset)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint, viewer *uint) (*models.PostView, error) {
	return s.getByIDFn(ctx, id, viewer)
}
func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) Like(ctx context.Context, userID, postID uint) (*models.PostView, error) {
	return s.likeFn(ctx, userID, postID)
}
func (s *postRepoStub) Unlike(ctx context.Context, userID, postID uint) (*models.PostView, error) {
	return s.unlikeFn(ctx, userID, postID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		listFn:    func(_ context.Context, _ *uint, _, _ int) ([]models.PostView, error) { return nil, nil },
		getByIDFn: func(_ context.Context, id uint, _ *uint) (*models.PostView, error) { return &models.PostView{ID: id}, nil },
		createFn:  func(_ context.Context, _ *models.Post) error { return nil },
		likeFn:    func(_ context.Context, _, postID uint) (*models.PostView, error) { return &models.PostView{ID: postID}, nil },
		unlikeFn:  func(_ context.Context, _, postID uint) (*models.PostView, error) { return &models.PostView{ID: postID}, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	listByPostFn func(context.Context, uint) ([]models.CommentView, error)
	createFn     func(context.Context, *models.Comment) error
}

func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]models.CommentView, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		listByPostFn: func(_ context.Context, _ uint) ([]models.CommentView, error) { return []models.CommentView{}, nil },
		createFn:     func(_ context.Context, _ *models.Comment) error { return nil },
	}
}

// assertAppError asserts that err is an AppError with the given code.
func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, models.CodeValidation)
}

// assertUnauthorizedError asserts that err is an AppError with code UNAUTHORIZED.
func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, models.CodeUnauthorized)
}
