package repositories

import (
	"blog-bus/domain"
	"blog-bus/errors"
	"blog-bus/infrastructure/storage"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPostRepository(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewPostRepository(storage.NewMemoryStore())

	post := domain.NewPost("1", "A")
	post.UpsertComment(domain.Comment{ID: "10", PostID: "1", Content: "hi", Status: domain.StatusApproved})
	req.NoError(repo.SavePost(ctx, post))
	req.NoError(repo.SavePost(ctx, domain.NewPost("2", "B")))

	fetched, err := repo.GetPost(ctx, "1")
	req.NoError(err)
	req.Equal(post, fetched)

	posts, err := repo.GetPosts(ctx)
	req.NoError(err)
	req.Len(posts, 2)
	req.Equal(domain.ID("2"), posts[1].ID)
	req.NotNil(posts[1].Comments)

	_, err = repo.GetPost(ctx, "3")
	req.ErrorIs(err, errors.ErrNotFound)
}

func TestCommentRepository_OnBadger(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	store, err := storage.OpenBadger(ctx, "", slog.Default())
	req.NoError(err)
	defer store.Close()
	repo := NewCommentRepository(store)

	// Given comments on two posts
	req.NoError(repo.SaveComment(ctx, domain.Comment{ID: "a", PostID: "7", Content: "one", Status: domain.StatusPending}))
	req.NoError(repo.SaveComment(ctx, domain.Comment{ID: "b", PostID: "7", Content: "two", Status: domain.StatusPending}))
	req.NoError(repo.SaveComment(ctx, domain.Comment{ID: "c", PostID: "70", Content: "other", Status: domain.StatusPending}))

	// When listing the comments of post 7
	comments, err := repo.GetComments(ctx, "7")
	req.NoError(err)

	// Then comments of post 70 are not included
	req.Len(comments, 2)
	req.Equal(domain.ID("a"), comments[0].ID)
	req.Equal(domain.ID("b"), comments[1].ID)

	comment, err := repo.GetComment(ctx, "7", "b")
	req.NoError(err)
	req.Equal("two", comment.Content)

	empty, err := repo.GetComments(ctx, "8")
	req.NoError(err)
	req.Empty(empty)
}

func TestCommentRepository_Post_Id_Containing_Separator(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewCommentRepository(storage.NewMemoryStore())

	// Given a comment on post "a:b" and another on post "a"
	req.NoError(repo.SaveComment(ctx, domain.Comment{ID: "x", PostID: "a:b", Content: "other post", Status: domain.StatusPending}))
	req.NoError(repo.SaveComment(ctx, domain.Comment{ID: "y", PostID: "a", Content: "this post", Status: domain.StatusPending}))

	// When listing the comments of post "a"
	comments, err := repo.GetComments(ctx, "a")
	req.NoError(err)

	// Then only its own comment is returned
	req.Len(comments, 1)
	req.Equal(domain.ID("y"), comments[0].ID)

	others, err := repo.GetComments(ctx, "a:b")
	req.NoError(err)
	req.Len(others, 1)
	req.Equal(domain.ID("x"), others[0].ID)

	comment, err := repo.GetComment(ctx, "a:b", "x")
	req.NoError(err)
	req.Equal("other post", comment.Content)
}
