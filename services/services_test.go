package services

import (
	"blog-bus/domain"
	"blog-bus/domain/event"
	"blog-bus/errors"
	"blog-bus/infrastructure/storage"
	"blog-bus/mocks"
	"blog-bus/repositories"
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestPostService_CreatePost(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	t.Run("should store the post and publish PostCreated", func(t *testing.T) {
		req := require.New(t)
		publisher := mocks.NewMockPublisher(ctrl)
		repo := repositories.NewPostRepository(storage.NewMemoryStore())
		svc := NewPostService(log, repo, publisher)

		var published event.Event
		publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e event.Event) error {
				published = e
				return nil
			}).Times(1)

		// When
		post, err := svc.CreatePost(context.Background(), CreatePostRequest{Title: "Hello"})

		// Then
		req.NoError(err)
		req.NotEmpty(post.ID)
		req.Equal("Hello", post.Title)
		req.Equal(event.PostCreated{ID: post.ID, Title: "Hello"}, published.Payload)

		posts, err := svc.ListPosts(context.Background())
		req.NoError(err)
		req.Equal([]domain.Post{post}, posts)
	})

	t.Run("should reject a blank title without publishing", func(t *testing.T) {
		req := require.New(t)
		publisher := mocks.NewMockPublisher(ctrl)
		repo := mocks.NewMockIPostRepository(ctrl)
		svc := NewPostService(log, repo, publisher)

		repo.EXPECT().SavePost(gomock.Any(), gomock.Any()).Times(0)
		publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.CreatePost(context.Background(), CreatePostRequest{Title: "   "})
		req.ErrorIs(err, errors.ErrInvalidRequest)
	})

	t.Run("should report a publish failure", func(t *testing.T) {
		req := require.New(t)
		publisher := mocks.NewMockPublisher(ctrl)
		repo := mocks.NewMockIPostRepository(ctrl)
		svc := NewPostService(log, repo, publisher)

		repo.EXPECT().SavePost(gomock.Any(), gomock.Any()).Return(nil).Times(1)
		publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(fmt.Errorf("connection refused")).Times(1)

		post, err := svc.CreatePost(context.Background(), CreatePostRequest{Title: "Hello"})
		req.ErrorIs(err, errors.ErrPublishFailed)
		req.Equal("Hello", post.Title)
	})
}

func TestPostService_ListPosts_Empty(t *testing.T) {
	req := require.New(t)
	svc := NewPostService(logs.GetLoggerFromLevel(slog.LevelDebug),
		repositories.NewPostRepository(storage.NewMemoryStore()), nil)

	posts, err := svc.ListPosts(context.Background())
	req.NoError(err)
	req.NotNil(posts)
	req.Empty(posts)
}

func TestCommentService_CreateComment(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	req := require.New(t)

	// Given
	publisher := mocks.NewMockPublisher(ctrl)
	svc := NewCommentService(logs.GetLoggerFromLevel(slog.LevelDebug),
		repositories.NewCommentRepository(storage.NewMemoryStore()), publisher)

	var published event.Event
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e event.Event) error {
			published = e
			return nil
		}).Times(1)

	// When
	comment, err := svc.CreateComment(context.Background(), CreateCommentRequest{PostID: "7", Content: "nice"})

	// Then
	req.NoError(err)
	req.Equal(domain.StatusPending, comment.Status)
	req.Equal(domain.ID("7"), comment.PostID)
	req.Equal(event.CommentSubmitted{ID: comment.ID, PostID: "7", Content: "nice"}, published.Payload)

	comments, err := svc.ListComments(context.Background(), "7")
	req.NoError(err)
	req.Equal([]domain.Comment{comment}, comments)

	comments, err = svc.ListComments(context.Background(), "8")
	req.NoError(err)
	req.Empty(comments)
}

func TestCommentService_CreateComment_Invalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	req := require.New(t)

	publisher := mocks.NewMockPublisher(ctrl)
	repo := mocks.NewMockICommentRepository(ctrl)
	svc := NewCommentService(logs.GetLoggerFromLevel(slog.LevelDebug), repo, publisher)

	repo.EXPECT().SaveComment(gomock.Any(), gomock.Any()).Times(0)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.CreateComment(context.Background(), CreateCommentRequest{PostID: "7", Content: ""})
	req.ErrorIs(err, errors.ErrInvalidRequest)

	_, err = svc.CreateComment(context.Background(), CreateCommentRequest{Content: "nice"})
	req.ErrorIs(err, errors.ErrInvalidRequest)
}

func TestCommentService_Handle_CommentModerated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	t.Run("should update the stored comment and publish CommentUpdated", func(t *testing.T) {
		req := require.New(t)
		publisher := mocks.NewMockPublisher(ctrl)
		repo := repositories.NewCommentRepository(storage.NewMemoryStore())
		svc := NewCommentService(log, repo, publisher)

		// Given
		pending := domain.Comment{ID: "3", PostID: "7", Content: "no badword here", Status: domain.StatusPending}
		req.NoError(repo.SaveComment(context.Background(), pending))

		moderated, err := event.New(event.CommentModerated{ID: "3", PostID: "7", Content: "no badword here", Status: domain.StatusApproved})
		req.NoError(err)

		var published event.Event
		publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e event.Event) error {
				published = e
				return nil
			}).Times(1)

		// When
		req.NoError(svc.Handle(context.Background(), moderated))

		// Then
		stored, err := repo.GetComment(context.Background(), "7", "3")
		req.NoError(err)
		req.Equal(domain.StatusApproved, stored.Status)
		req.Equal(event.CommentUpdated{ID: "3", PostID: "7", Content: "no badword here", Status: domain.StatusApproved}, published.Payload)
	})

	t.Run("should create the comment when it is unknown", func(t *testing.T) {
		req := require.New(t)
		publisher := mocks.NewMockPublisher(ctrl)
		repo := repositories.NewCommentRepository(storage.NewMemoryStore())
		svc := NewCommentService(log, repo, publisher)

		moderated, err := event.New(event.CommentModerated{ID: "4", PostID: "7", Content: "****", Status: domain.StatusRejected})
		req.NoError(err)
		publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).Times(1)

		req.NoError(svc.Handle(context.Background(), moderated))

		stored, err := repo.GetComment(context.Background(), "7", "4")
		req.NoError(err)
		req.Equal(domain.StatusRejected, stored.Status)
	})

	t.Run("should ignore other events", func(t *testing.T) {
		req := require.New(t)
		publisher := mocks.NewMockPublisher(ctrl)
		repo := mocks.NewMockICommentRepository(ctrl)
		svc := NewCommentService(log, repo, publisher)

		publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)
		repo.EXPECT().GetComment(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		created, err := event.New(event.PostCreated{ID: "7", Title: "Hello"})
		req.NoError(err)
		req.NoError(svc.Handle(context.Background(), created))
	})

	t.Run("should report a storage failure", func(t *testing.T) {
		req := require.New(t)
		publisher := mocks.NewMockPublisher(ctrl)
		repo := mocks.NewMockICommentRepository(ctrl)
		svc := NewCommentService(log, repo, publisher)

		repo.EXPECT().GetComment(gomock.Any(), domain.ID("7"), domain.ID("3")).
			Return(domain.Comment{}, fmt.Errorf("disk full")).Times(1)
		publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

		moderated, err := event.New(event.CommentModerated{ID: "3", PostID: "7", Content: "x", Status: domain.StatusApproved})
		req.NoError(err)
		req.ErrorContains(svc.Handle(context.Background(), moderated), "disk full")
	})
}
