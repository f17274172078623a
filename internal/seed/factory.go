package seed

import (
	"fmt"
	"strings"

	"townsquare/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
)

// DefaultPassword is the password of every generated user.
const DefaultPassword = "password123"

// Options sizes a generated data set.
type Options struct {
	NumUsers        int
	PostsPerUser    int
	CommentsPerPost int
	// LikeRatio is the chance that a given user likes a given post.
	LikeRatio float64
	// Seed makes generation reproducible. Zero picks a random seed.
	Seed int64
}

// DefaultOptions is a small demo data set.
var DefaultOptions = Options{
	NumUsers:        10,
	PostsPerUser:    3,
	CommentsPerPost: 2,
	LikeRatio:       0.3,
}

// Factory generates fake but valid fixtures.
type Factory struct {
	faker *gofakeit.Faker
}

// NewFactory creates a Factory. The same seed yields the same fixtures.
func NewFactory(seed int64) *Factory {
	return &Factory{faker: gofakeit.New(seed)}
}

// User builds a user fixture. The index keeps generated emails unique.
func (f *Factory) User(i int) UserFixture {
	first := f.faker.FirstName()
	last := f.faker.LastName()
	return UserFixture{
		Email:       fmt.Sprintf("%s%s%d@example.com", localPart(first), localPart(last), i),
		DisplayName: truncate(first+" "+last, validation.MaxDisplayNameLength),
		Password:    DefaultPassword,
	}
}

func (f *Factory) PostBody() string {
	return truncate(f.faker.Paragraph(1, f.faker.Number(1, 4), 12, " "), validation.MaxPostBodyLength)
}

func (f *Factory) CommentBody() string {
	return f.faker.Sentence(f.faker.Number(3, 15))
}

// Generate builds a full data set: users, their posts, comments by random
// users, and likes drawn with probability opts.LikeRatio.
func (f *Factory) Generate(opts Options) *Fixtures {
	fx := &Fixtures{
		Users: make([]UserFixture, 0, opts.NumUsers),
		Posts: make([]PostFixture, 0, opts.NumUsers*opts.PostsPerUser),
	}
	for i := 0; i < opts.NumUsers; i++ {
		fx.Users = append(fx.Users, f.User(i+1))
	}
	if len(fx.Users) == 0 {
		return fx
	}

	for _, author := range fx.Users {
		for p := 0; p < opts.PostsPerUser; p++ {
			post := PostFixture{Author: author.Email, Body: f.PostBody()}
			for c := 0; c < opts.CommentsPerPost; c++ {
				commenter := fx.Users[f.faker.Number(0, len(fx.Users)-1)]
				post.Comments = append(post.Comments, CommentFixture{
					Author: commenter.Email,
					Body:   f.CommentBody(),
				})
			}
			for _, u := range fx.Users {
				if f.faker.Float64Range(0, 1) < opts.LikeRatio {
					post.LikedBy = append(post.LikedBy, u.Email)
				}
			}
			fx.Posts = append(fx.Posts, post)
		}
	}
	return fx
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return strings.TrimSpace(string(r[:max]))
}

// localPart lower-cases a name and keeps only ASCII letters.
func localPart(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return -1
		}
	}, name)
}
