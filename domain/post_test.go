package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected ID
		wantErr  bool
	}{
		{name: "String id", input: `"abc"`, expected: "abc"},
		{name: "Integer id", input: `1`, expected: "1"},
		{name: "Integral decimal id", input: `1.0`, expected: "1"},
		{name: "Integral exponent id", input: `1e0`, expected: "1"},
		{name: "Large integer id", input: `12345678901234567890`, expected: "12345678901234567890"},
		{name: "Fractional id", input: `1.5`, wantErr: true},
		{name: "Null id", input: `null`, expected: ""},
		{name: "Boolean id", input: `true`, wantErr: true},
		{name: "Object id", input: `{"id":1}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			var id ID
			err := json.Unmarshal([]byte(tt.input), &id)
			if tt.wantErr {
				req.Error(err)
				return
			}
			req.NoError(err)
			req.Equal(tt.expected, id)
		})
	}
}

func TestPost_UpsertComment(t *testing.T) {
	req := require.New(t)
	post := NewPost("1", "A")

	// Given a comment appended to the post
	appended := post.UpsertComment(Comment{ID: "10", PostID: "1", Content: "hi", Status: StatusPending})
	req.True(appended)

	// When the same comment is upserted again with another status
	appended = post.UpsertComment(Comment{ID: "10", PostID: "1", Content: "hi!", Status: StatusApproved})

	// Then the comment is updated in place
	req.False(appended)
	req.Len(post.Comments, 1)
	req.Equal(StatusApproved, post.Comments[0].Status)
	req.Equal("hi!", post.Comments[0].Content)
}

func TestPost_Clone(t *testing.T) {
	req := require.New(t)
	post := NewPost("1", "A")
	post.UpsertComment(Comment{ID: "10", PostID: "1", Content: "hi", Status: StatusPending})

	clone := post.Clone()
	clone.Comments[0].Status = StatusRejected

	req.Equal(StatusPending, post.Comments[0].Status)
}

func TestStatus_Valid(t *testing.T) {
	req := require.New(t)
	req.True(StatusPending.Valid())
	req.True(StatusApproved.Valid())
	req.True(StatusRejected.Valid())
	req.False(Status("deleted").Valid())
}
