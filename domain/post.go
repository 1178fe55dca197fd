// Package domain contains the core concepts of the blog read model.
// Posts own their comments; comments are never addressed outside their post.
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
)

// ID identifies a post or a comment. Producers may send ids either as JSON
// strings or as JSON numbers. Numbers must be integral and are written in
// decimal, 1, 1.0 and 1e0 all give "1".
type ID string

func (id ID) String() string { return string(id) }

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	// ParseFloat bounds the exponent before the exact conversion
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	r, ok := new(big.Rat).SetString(n.String())
	if !ok || !r.IsInt() {
		return fmt.Errorf("numeric id must be an integer, got %s", n)
	}
	*id = ID(r.Num().String())
	return nil
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// Comment is contained by its parent Post.
type Comment struct {
	ID      ID     `json:"id"`
	PostID  ID     `json:"postId"`
	Content string `json:"content"`
	Status  Status `json:"status"`
}

// Post is the aggregate root of the projection.
type Post struct {
	ID       ID        `json:"id"`
	Title    string    `json:"title"`
	Comments []Comment `json:"comments"`
}

func NewPost(id ID, title string) Post {
	return Post{ID: id, Title: title, Comments: []Comment{}}
}

// Clone returns a copy that shares no memory with p.
func (p Post) Clone() Post {
	comments := make([]Comment, len(p.Comments))
	copy(comments, p.Comments)
	p.Comments = comments
	return p
}

// CommentIndex returns the position of the comment with the given id, or -1.
func (p Post) CommentIndex(id ID) int {
	for i, c := range p.Comments {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// UpsertComment appends c or overwrites the content and status of the
// comment already carrying its id. It reports whether c was appended.
func (p *Post) UpsertComment(c Comment) bool {
	if i := p.CommentIndex(c.ID); i >= 0 {
		p.Comments[i].Content = c.Content
		p.Comments[i].Status = c.Status
		return false
	}
	p.Comments = append(p.Comments, c)
	return true
}
