// Package event defines the events exchanged through the bus.
// An Event is an immutable envelope: its type tag, the exact data bytes it was
// received with, and the decoded payload when the type is a known one.
package event

import (
	"blog-bus/domain"
	"bytes"
	"encoding/json"
)

type Type string

const (
	PostCreatedType      Type = "PostCreated"
	CommentSubmittedType Type = "CommentSubmitted"
	CommentModeratedType Type = "CommentModerated"
	CommentCreatedType   Type = "CommentCreated"
	CommentUpdatedType   Type = "CommentUpdated"
)

// Payload is implemented by every known event kind.
type Payload interface {
	EventType() Type
}

// Event is the unit of communication. Data keeps the bytes the producer sent
// so that every subscriber receives an identical copy.
type Event struct {
	Type    Type
	Data    json.RawMessage
	Payload Payload
}

type envelope struct {
	Type Type            `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(envelope{Type: e.Type, Data: e.Data})
}

// Encode writes the wire envelope without re-encoding Data.
// json.Marshal compacts raw messages, Encode does not.
func (e Event) Encode() ([]byte, error) {
	tag, err := json.Marshal(e.Type)
	if err != nil {
		return nil, err
	}
	data := e.Data
	if len(data) == 0 {
		data = json.RawMessage("null")
	}
	var buf bytes.Buffer
	buf.Grow(len(tag) + len(data) + 20)
	buf.WriteString(`{"type":`)
	buf.Write(tag)
	buf.WriteString(`,"data":`)
	buf.Write(data)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (e *Event) UnmarshalJSON(b []byte) error {
	decoded, err := Decode(b)
	if err != nil {
		return err
	}
	*e = decoded
	return nil
}

// Known reports whether the event carries a decoded payload.
func (e Event) Known() bool { return e.Payload != nil }

// PostCreated announces a new post aggregate.
type PostCreated struct {
	ID    domain.ID `json:"id" validate:"required"`
	Title string    `json:"title" validate:"required"`
}

func (PostCreated) EventType() Type { return PostCreatedType }

// CommentSubmitted is a raw comment that has not been moderated yet.
type CommentSubmitted struct {
	ID      domain.ID `json:"id" validate:"required"`
	PostID  domain.ID `json:"postId" validate:"required"`
	Content string    `json:"content" validate:"required"`
}

func (CommentSubmitted) EventType() Type { return CommentSubmittedType }

// CommentModerated is the output of the moderation decision.
type CommentModerated struct {
	ID      domain.ID     `json:"id" validate:"required"`
	PostID  domain.ID     `json:"postId" validate:"required"`
	Content string        `json:"content" validate:"required"`
	Status  domain.Status `json:"status" validate:"required,oneof=pending approved rejected"`
}

func (CommentModerated) EventType() Type { return CommentModeratedType }

func (c CommentModerated) Comment() domain.Comment {
	return domain.Comment{ID: c.ID, PostID: c.PostID, Content: c.Content, Status: c.Status}
}

// CommentCreated is a comment that was already classified by its producer.
type CommentCreated struct {
	ID      domain.ID     `json:"id" validate:"required"`
	PostID  domain.ID     `json:"postId" validate:"required"`
	Content string        `json:"content" validate:"required"`
	Status  domain.Status `json:"status" validate:"required,oneof=pending approved rejected"`
}

func (CommentCreated) EventType() Type { return CommentCreatedType }

func (c CommentCreated) Comment() domain.Comment {
	return domain.Comment{ID: c.ID, PostID: c.PostID, Content: c.Content, Status: c.Status}
}

// CommentUpdated changes the status (and content) of an existing comment.
type CommentUpdated struct {
	ID      domain.ID     `json:"id" validate:"required"`
	PostID  domain.ID     `json:"postId" validate:"required"`
	Content string        `json:"content" validate:"required"`
	Status  domain.Status `json:"status" validate:"required,oneof=pending approved rejected"`
}

func (CommentUpdated) EventType() Type { return CommentUpdatedType }

func (c CommentUpdated) Comment() domain.Comment {
	return domain.Comment{ID: c.ID, PostID: c.PostID, Content: c.Content, Status: c.Status}
}
