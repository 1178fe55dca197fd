// Package projection builds the post read model from observed events.
// Handles ordering, deduplication, and projections.
// Does not emit events.
package projection

import (
	"blog-bus/domain"
	"blog-bus/domain/event"
	"blog-bus/errors"
	"blog-bus/repositories"
	"context"
	"fmt"
	"log/slog"
	"sync"
)

type Outcome string

const (
	OutcomeApplied Outcome = "applied"
	OutcomeIgnored Outcome = "ignored"
	OutcomeParked  Outcome = "parked"
	OutcomeFailed  Outcome = "failed"
)

// Posts is the projection of every post and its comments.
// Apply must be called from a single goroutine; readers may run concurrently.
type Posts struct {
	mu    sync.RWMutex
	log   *slog.Logger
	posts map[domain.ID]domain.Post
	repo  repositories.IPostRepository
}

// NewPosts creates an empty projection. repo may be nil, changes are then kept in memory only.
func NewPosts(log *slog.Logger, repo repositories.IPostRepository) *Posts {
	return &Posts{log: log, posts: make(map[domain.ID]domain.Post), repo: repo}
}

// Load rebuilds the projection from the repository.
func (p *Posts) Load(ctx context.Context) error {
	if p.repo == nil {
		return nil
	}
	posts, err := p.repo.GetPosts(ctx)
	if err != nil {
		return fmt.Errorf("load posts: %w", err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, post := range posts {
		p.posts[post.ID] = post
	}
	p.log.Info("Projection restored", "posts", len(posts))
	return nil
}

// Apply folds one event into the projection.
// A comment event referencing a post (or a comment) not seen yet returns
// errors.ErrParentNotFound (or errors.ErrCommentNotFound) and changes nothing.
func (p *Posts) Apply(ctx context.Context, e event.Event) (Outcome, error) {
	switch evt := e.Payload.(type) {
	case event.PostCreated:
		return p.createPost(ctx, evt)
	case event.CommentCreated:
		return p.upsertComment(ctx, evt.Comment())
	case event.CommentModerated:
		return p.upsertComment(ctx, evt.Comment())
	case event.CommentUpdated:
		return p.updateComment(ctx, evt.Comment())
	default:
		// Unknown types and raw submissions are not part of the read model
		return OutcomeIgnored, nil
	}
}

// createPost keeps exactly one post per id. Replaying the same create is a
// no-op; a create with another title overwrites the title and keeps the comments.
func (p *Posts) createPost(ctx context.Context, evt event.PostCreated) (Outcome, error) {
	existing, ok := p.get(evt.ID)
	if ok && existing.Title == evt.Title {
		return OutcomeIgnored, nil
	}
	next := domain.NewPost(evt.ID, evt.Title)
	if ok {
		p.log.Debug("Post created twice, title overwritten", "id", evt.ID, "old", existing.Title, "new", evt.Title)
		next = existing.Clone()
		next.Title = evt.Title
	}
	return p.commit(ctx, next)
}

func (p *Posts) upsertComment(ctx context.Context, c domain.Comment) (Outcome, error) {
	post, ok := p.get(c.PostID)
	if !ok {
		return OutcomeFailed, fmt.Errorf("%w: post %s for comment %s", errors.ErrParentNotFound, c.PostID, c.ID)
	}
	next := post.Clone()
	next.UpsertComment(c)
	return p.commit(ctx, next)
}

func (p *Posts) updateComment(ctx context.Context, c domain.Comment) (Outcome, error) {
	post, ok := p.get(c.PostID)
	if !ok {
		return OutcomeFailed, fmt.Errorf("%w: post %s for comment %s", errors.ErrParentNotFound, c.PostID, c.ID)
	}
	i := post.CommentIndex(c.ID)
	if i < 0 {
		return OutcomeFailed, fmt.Errorf("%w: comment %s in post %s", errors.ErrCommentNotFound, c.ID, c.PostID)
	}
	next := post.Clone()
	next.Comments[i].Content = c.Content
	next.Comments[i].Status = c.Status
	return p.commit(ctx, next)
}

// commit persists the new version of a post before exposing it to readers.
func (p *Posts) commit(ctx context.Context, post domain.Post) (Outcome, error) {
	if p.repo != nil {
		if err := p.repo.SavePost(ctx, post); err != nil {
			return OutcomeFailed, fmt.Errorf("save post %s: %w", post.ID, err)
		}
	}
	p.mu.Lock()
	p.posts[post.ID] = post
	p.mu.Unlock()
	return OutcomeApplied, nil
}

func (p *Posts) get(id domain.ID) (domain.Post, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	post, ok := p.posts[id]
	return post, ok
}

// All returns a deep copy of the projection.
func (p *Posts) All() map[domain.ID]domain.Post {
	p.mu.RLock()
	defer p.mu.RUnlock()
	res := make(map[domain.ID]domain.Post, len(p.posts))
	for id, post := range p.posts {
		res[id] = post.Clone()
	}
	return res
}

// ByID returns a copy of one post.
func (p *Posts) ByID(id domain.ID) (domain.Post, bool) {
	post, ok := p.get(id)
	if !ok {
		return domain.Post{}, false
	}
	return post.Clone(), true
}

func (p *Posts) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.posts)
}
