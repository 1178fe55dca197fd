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

	stderrors "errors"

	"github.com/google/uuid"
)

type ICommentService interface {
	CreateComment(ctx context.Context, req CreateCommentRequest) (domain.Comment, error)
	ListComments(ctx context.Context, postID domain.ID) ([]domain.Comment, error)
	Handle(ctx context.Context, e event.Event) error
}

// CommentService owns the comments of every post. New comments start
// pending and only change status when the moderation decision comes back.
type CommentService struct {
	log       *slog.Logger
	repo      repositories.ICommentRepository
	publisher contract.Publisher
}

func NewCommentService(log *slog.Logger, repo repositories.ICommentRepository, publisher contract.Publisher) *CommentService {
	return &CommentService{log: log, repo: repo, publisher: publisher}
}

// CreateComment stores a pending comment then publishes CommentSubmitted.
func (s *CommentService) CreateComment(ctx context.Context, req CreateCommentRequest) (domain.Comment, error) {
	if err := ValidateCreateComment(req); err != nil {
		return domain.Comment{}, err
	}

	comment := domain.Comment{
		ID:      domain.ID(uuid.NewString()),
		PostID:  domain.ID(req.PostID),
		Content: req.Content,
		Status:  domain.StatusPending,
	}
	if err := s.repo.SaveComment(ctx, comment); err != nil {
		return domain.Comment{}, fmt.Errorf("save comment %s: %w", comment.ID, err)
	}

	evt, err := event.New(event.CommentSubmitted{ID: comment.ID, PostID: comment.PostID, Content: comment.Content})
	if err != nil {
		return comment, err
	}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.log.Warn("Unable to publish event", "type", evt.Type, "comment_id", comment.ID, "error", err)
		return comment, fmt.Errorf("%w: %w", errors.ErrPublishFailed, err)
	}
	return comment, nil
}

func (s *CommentService) ListComments(ctx context.Context, postID domain.ID) ([]domain.Comment, error) {
	return s.repo.GetComments(ctx, postID)
}

// Handle applies a moderation decision to the stored comment and
// publishes CommentUpdated. Every other event is ignored.
func (s *CommentService) Handle(ctx context.Context, e event.Event) error {
	moderated, ok := e.Payload.(event.CommentModerated)
	if !ok {
		return nil
	}

	comment, err := s.repo.GetComment(ctx, moderated.PostID, moderated.ID)
	switch {
	case err == nil:
		comment.Status = moderated.Status
		comment.Content = moderated.Content
	case stderrors.Is(err, errors.ErrNotFound):
		// Submitted through another producer.
		comment = moderated.Comment()
	default:
		return fmt.Errorf("load comment %s: %w", moderated.ID, err)
	}

	if err := s.repo.SaveComment(ctx, comment); err != nil {
		return fmt.Errorf("save comment %s: %w", comment.ID, err)
	}

	updated, err := event.New(event.CommentUpdated{
		ID:      comment.ID,
		PostID:  comment.PostID,
		Content: comment.Content,
		Status:  comment.Status,
	})
	if err != nil {
		return err
	}
	if err := s.publisher.Publish(ctx, updated); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrPublishFailed, err)
	}
	s.log.Debug("Comment moderated", "comment_id", comment.ID, "status", comment.Status)
	return nil
}
