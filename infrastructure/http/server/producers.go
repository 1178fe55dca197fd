package server

import (
	"blog-bus/domain"
	"blog-bus/errors"
	"blog-bus/services"
	"encoding/json"
	"log/slog"
	"net/http"

	stderrors "errors"
)

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// writeServiceError maps producer errors to HTTP statuses.
func writeServiceError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case stderrors.Is(err, errors.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case stderrors.Is(err, errors.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case stderrors.Is(err, errors.ErrPublishFailed):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		log.Error("Request failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

type PostsHandler struct {
	log     *slog.Logger
	service services.IPostService
}

func NewPostsHandler(log *slog.Logger, service services.IPostService) *PostsHandler {
	return &PostsHandler{log: log, service: service}
}

func (h *PostsHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req services.CreatePostRequest
	if !decodeBody(w, r, &req) {
		return
	}
	post, err := h.service.CreatePost(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func (h *PostsHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.ListPosts(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

type CommentsHandler struct {
	log     *slog.Logger
	service services.ICommentService
}

func NewCommentsHandler(log *slog.Logger, service services.ICommentService) *CommentsHandler {
	return &CommentsHandler{log: log, service: service}
}

func (h *CommentsHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	var req services.CreateCommentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.PostID = r.PathValue("id")
	comment, err := h.service.CreateComment(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

func (h *CommentsHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.service.ListComments(r.Context(), domain.ID(r.PathValue("id")))
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}
