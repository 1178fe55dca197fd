package services

import (
	"blog-bus/contract"
	"blog-bus/domain"
	"blog-bus/domain/event"
	"blog-bus/errors"
	"blog-bus/repositories"
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

type IPostService interface {
	CreatePost(ctx context.Context, req CreatePostRequest) (domain.Post, error)
	ListPosts(ctx context.Context) ([]domain.Post, error)
}

// PostService owns the posts and announces each creation on the bus.
type PostService struct {
	log       *slog.Logger
	repo      repositories.IPostRepository
	publisher contract.Publisher
}

func NewPostService(log *slog.Logger, repo repositories.IPostRepository, publisher contract.Publisher) *PostService {
	return &PostService{log: log, repo: repo, publisher: publisher}
}

// CreatePost stores the post then publishes PostCreated.
// When publishing fails the post stays stored and errors.ErrPublishFailed is returned.
func (s *PostService) CreatePost(ctx context.Context, req CreatePostRequest) (domain.Post, error) {
	if err := ValidateCreatePost(req); err != nil {
		return domain.Post{}, err
	}

	post := domain.NewPost(domain.ID(uuid.NewString()), req.Title)
	if err := s.repo.SavePost(ctx, post); err != nil {
		return domain.Post{}, fmt.Errorf("save post %s: %w", post.ID, err)
	}

	evt, err := event.New(event.PostCreated{ID: post.ID, Title: post.Title})
	if err != nil {
		return post, err
	}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.log.Warn("Unable to publish event", "type", evt.Type, "post_id", post.ID, "error", err)
		return post, fmt.Errorf("%w: %w", errors.ErrPublishFailed, err)
	}
	s.log.Debug("Post created", "post_id", post.ID)
	return post, nil
}

func (s *PostService) ListPosts(ctx context.Context) ([]domain.Post, error) {
	posts, err := s.repo.GetPosts(ctx)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []domain.Post{}
	}
	return posts, nil
}
