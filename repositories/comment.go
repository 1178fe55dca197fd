//go:generate go run go.uber.org/mock/mockgen -source=comment.go -destination=../mocks/mock_comment_repository.go -package=mocks
package repositories

import (
	"blog-bus/contract"
	"blog-bus/domain"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

type ICommentRepository interface {
	SaveComment(ctx context.Context, comment domain.Comment) error
	GetComment(ctx context.Context, postID, id domain.ID) (domain.Comment, error)
	GetComments(ctx context.Context, postID domain.ID) ([]domain.Comment, error)
}

// CommentRepository stores comments keyed "comment:{postId}:{id}" so that a
// prefix scan returns the comments of a single post. The post id is query
// escaped, a ':' inside it cannot widen the prefix to another post.
type CommentRepository struct {
	store contract.Store
}

func NewCommentRepository(store contract.Store) CommentRepository {
	return CommentRepository{store: store}
}

func commentPrefix(postID domain.ID) string {
	return fmt.Sprintf("comment:%s:", url.QueryEscape(postID.String()))
}

func commentKey(postID, id domain.ID) string {
	return commentPrefix(postID) + id.String()
}

func (r CommentRepository) SaveComment(ctx context.Context, comment domain.Comment) error {
	b, err := json.Marshal(comment)
	if err != nil {
		return fmt.Errorf("marshal comment %s: %w", comment.ID, err)
	}
	return r.store.Set(ctx, commentKey(comment.PostID, comment.ID), b)
}

func (r CommentRepository) GetComment(ctx context.Context, postID, id domain.ID) (domain.Comment, error) {
	b, err := r.store.Get(ctx, commentKey(postID, id))
	if err != nil {
		return domain.Comment{}, err
	}
	var comment domain.Comment
	if err := json.Unmarshal(b, &comment); err != nil {
		return domain.Comment{}, fmt.Errorf("unmarshal comment: %w", err)
	}
	return comment, nil
}

func (r CommentRepository) GetComments(ctx context.Context, postID domain.ID) ([]domain.Comment, error) {
	comments := []domain.Comment{}
	err := r.store.Scan(ctx, commentPrefix(postID), func(key string, value []byte) error {
		var comment domain.Comment
		if err := json.Unmarshal(value, &comment); err != nil {
			return fmt.Errorf("key %s: %w", key, err)
		}
		comments = append(comments, comment)
		return nil
	})
	return comments, err
}
