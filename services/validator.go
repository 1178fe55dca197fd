package services

import (
	"blog-bus/errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type CreatePostRequest struct {
	Title string `json:"title" validate:"required,max=200"`
}

type CreateCommentRequest struct {
	PostID  string `json:"-" validate:"required"`
	Content string `json:"content" validate:"required,max=5000"`
}

func ValidateCreatePost(req CreatePostRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("%w: title is blank", errors.ErrInvalidRequest)
	}
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidRequest, err)
	}
	return nil
}

func ValidateCreateComment(req CreateCommentRequest) error {
	if strings.TrimSpace(req.Content) == "" {
		return fmt.Errorf("%w: content is blank", errors.ErrInvalidRequest)
	}
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidRequest, err)
	}
	return nil
}
