//go:generate go run go.uber.org/mock/mockgen -source=post.go -destination=../mocks/mock_post_repository.go -package=mocks
package repositories

import (
	"blog-bus/contract"
	"blog-bus/domain"
	"context"
	"encoding/json"
	"fmt"
)

const postPrefix = "post:"

type IPostRepository interface {
	SavePost(ctx context.Context, post domain.Post) error
	GetPost(ctx context.Context, id domain.ID) (domain.Post, error)
	GetPosts(ctx context.Context) ([]domain.Post, error)
}

// PostRepository stores posts as JSON documents keyed "post:{id}".
type PostRepository struct {
	store contract.Store
}

func NewPostRepository(store contract.Store) PostRepository {
	return PostRepository{store: store}
}

func postKey(id domain.ID) string {
	return postPrefix + id.String()
}

func (r PostRepository) SavePost(ctx context.Context, post domain.Post) error {
	b, err := json.Marshal(post)
	if err != nil {
		return fmt.Errorf("marshal post %s: %w", post.ID, err)
	}
	return r.store.Set(ctx, postKey(post.ID), b)
}

// GetPost returns errors.ErrNotFound (wrapped) when the post is unknown.
func (r PostRepository) GetPost(ctx context.Context, id domain.ID) (domain.Post, error) {
	b, err := r.store.Get(ctx, postKey(id))
	if err != nil {
		return domain.Post{}, err
	}
	return unmarshalPost(b)
}

// GetPosts returns every post ordered by key.
func (r PostRepository) GetPosts(ctx context.Context) ([]domain.Post, error) {
	var posts []domain.Post
	err := r.store.Scan(ctx, postPrefix, func(key string, value []byte) error {
		post, err := unmarshalPost(value)
		if err != nil {
			return fmt.Errorf("key %s: %w", key, err)
		}
		posts = append(posts, post)
		return nil
	})
	return posts, err
}

func unmarshalPost(b []byte) (domain.Post, error) {
	var post domain.Post
	if err := json.Unmarshal(b, &post); err != nil {
		return domain.Post{}, fmt.Errorf("unmarshal post: %w", err)
	}
	if post.Comments == nil {
		post.Comments = []domain.Comment{}
	}
	return post, nil
}
